package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Lookup("c1")
	assert.False(t, ok)

	r.Associate("c1", "Alice", "AB12CD34")
	sess, ok := r.Lookup("c1")
	assert.True(t, ok)
	assert.Equal(t, Session{Name: "Alice", Room: "AB12CD34"}, sess)
	assert.Equal(t, 1, r.Len())

	// A fresh association replaces the old one.
	r.Associate("c1", "Alice", "OTHER567")
	sess, _ = r.Lookup("c1")
	assert.Equal(t, "OTHER567", sess.Room)
	assert.Equal(t, 1, r.Len())

	r.Clear("c1")
	_, ok = r.Lookup("c1")
	assert.False(t, ok)

	// Clearing twice is harmless.
	r.Clear("c1")
	assert.Equal(t, 0, r.Len())
}
