package utilities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewKSUID_Unique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewKSUID()
		assert.Len(t, id, 27)
		assert.False(t, seen[id], "duplicate ksuid %q", id)
		seen[id] = true
	}
}

func TestNewRequestID_Unique(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewRequestID()
		assert.NotEmpty(t, id)
		assert.False(t, seen[id], "duplicate request id %q", id)
		seen[id] = true
	}
}
