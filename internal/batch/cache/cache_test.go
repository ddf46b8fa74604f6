package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()
	assert.NotZero(t, config.DefaultTTL)
	assert.Equal(t, "mdslc:output:", config.Prefix)
}

func TestErrCacheMiss(t *testing.T) {
	err := ErrCacheMiss{Key: "abc123"}
	assert.Equal(t, "cache miss: abc123", err.Error())
	assert.True(t, IsCacheMiss(err))
}

func TestIsCacheMiss(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"cache miss error", ErrCacheMiss{Key: "k"}, true},
		{"other error", assert.AnError, false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsCacheMiss(tt.err))
		})
	}
}
