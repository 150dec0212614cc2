package platform

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetDefaultConfigPath(t *testing.T) {
	path := GetDefaultConfigPath()

	assert.Contains(t, path, "pgobench")
	assert.True(t, strings.HasSuffix(path, "pgobench.yaml"))
}
