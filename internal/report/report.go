package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Header is the first line of every summary report.
const Header = "--- PGO Benchmark Summary Report ---"

const (
	filePrefix    = "File: "
	checksumInfix = ", Checksum: "
)

// Summary maps data file paths to their computed checksums.
type Summary map[string]uint32

// Paths returns the file paths in the order they appear in a written
// report (lexicographically sorted).
func (s Summary) Paths() []string {
	paths := make([]string, 0, len(s))
	for p := range s {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Write writes the report header followed by one line per entry in
// sorted path order.
func Write(w io.Writer, s Summary) error {
	if _, err := fmt.Fprintln(w, Header); err != nil {
		return err
	}
	for _, path := range s.Paths() {
		if _, err := fmt.Fprintf(w, "%s%s%s%d\n", filePrefix, path, checksumInfix, s[path]); err != nil {
			return err
		}
	}
	return nil
}

// WriteFile creates (or truncates) the file at path and writes the
// report to it.
func WriteFile(path string, s Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("error creating summary file: %w", err)
	}
	defer f.Close()

	if err := Write(f, s); err != nil {
		return fmt.Errorf("error writing summary file: %w", err)
	}
	return nil
}

// Parse reads a report produced by Write. The header must be present
// and every entry line well formed.
func Parse(r io.Reader) (Summary, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("error reading summary: %w", err)
		}
		return nil, fmt.Errorf("summary is empty")
	}
	if scanner.Text() != Header {
		return nil, fmt.Errorf("summary header mismatch: %q", scanner.Text())
	}

	s := make(Summary)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		path, sum, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		s[path] = sum
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading summary: %w", err)
	}

	return s, nil
}

// ParseFile reads the report at path.
func ParseFile(path string) (Summary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("error opening summary file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

func parseLine(line string) (string, uint32, error) {
	if !strings.HasPrefix(line, filePrefix) {
		return "", 0, fmt.Errorf("malformed summary line: %q", line)
	}
	rest := strings.TrimPrefix(line, filePrefix)

	idx := strings.LastIndex(rest, checksumInfix)
	if idx < 0 {
		return "", 0, fmt.Errorf("malformed summary line: %q", line)
	}

	sum, err := strconv.ParseUint(rest[idx+len(checksumInfix):], 10, 32)
	if err != nil {
		return "", 0, fmt.Errorf("malformed checksum in line %q: %w", line, err)
	}

	return rest[:idx], uint32(sum), nil
}
