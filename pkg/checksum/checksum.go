package checksum

import (
	"io"
	"os"
)

// Fold folds p into acc one byte at a time using acc = acc*33 + b.
// The accumulator carries across calls, so folding a stream chunk by
// chunk yields the same value as folding it in a single pass, whatever
// the chunk boundaries.
func Fold(acc uint32, p []byte) uint32 {
	for _, b := range p {
		acc = (acc << 5) + acc + uint32(b)
	}
	return acc
}

// Sum returns the checksum of p starting from a zero accumulator.
func Sum(p []byte) uint32 {
	return Fold(0, p)
}

// Calculator handles file checksum operations
type Calculator struct {
	blockSize int
}

// NewCalculator creates a new checksum calculator with specified block size
func NewCalculator(blockSize int) *Calculator {
	return &Calculator{
		blockSize: blockSize,
	}
}

// FileChecksum computes the rolling checksum of an entire file, reading
// it in blockSize chunks. A trailing partial chunk is folded as-is. It
// returns the checksum and the number of bytes read.
func (c *Calculator) FileChecksum(filepath string) (uint32, int64, error) {
	file, err := os.Open(filepath)
	if err != nil {
		return 0, 0, err
	}
	defer file.Close()

	var acc uint32
	var total int64
	buffer := make([]byte, c.blockSize)

	for {
		n, err := file.Read(buffer)
		if n > 0 {
			acc = Fold(acc, buffer[:n])
			total += int64(n)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, total, err
		}
	}

	return acc, total, nil
}
