package platform

import (
	"os"
	"path/filepath"
	"runtime"
)

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// GetDefaultConfigPath returns the platform-specific default config path
func GetDefaultConfigPath() string {
	if IsWindows() {
		return filepath.Join(os.Getenv("APPDATA"), "pgobench", "pgobench.yaml")
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "pgobench", "pgobench.yaml")
}
