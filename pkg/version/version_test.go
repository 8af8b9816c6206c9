package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetVersion(t *testing.T) {
	assert.NotEmpty(t, GetVersion())

	orig := version
	t.Cleanup(func() { version = orig })
	version = "1.4.0"
	assert.Equal(t, "1.4.0", GetVersion())
}

func TestGetCommit(t *testing.T) {
	orig := commit
	t.Cleanup(func() { commit = orig })
	commit = "abc123"
	assert.Equal(t, "abc123", GetCommit())
}
