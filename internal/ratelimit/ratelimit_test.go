package ratelimit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinBurst(t *testing.T) {
	krl := New(1, 3)
	defer krl.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, krl.Allow("owner-1"), "request %d should be within burst", i+1)
	}
	assert.False(t, krl.Allow("owner-1"), "burst exhausted")
}

func TestAllow_KeysAreIndependent(t *testing.T) {
	krl := New(1, 1)
	defer krl.Stop()

	assert.True(t, krl.Allow("owner-1"))
	assert.False(t, krl.Allow("owner-1"))

	// A different owner has their own bucket
	assert.True(t, krl.Allow("owner-2"))
}

func TestStop_IsIdempotent(t *testing.T) {
	krl := New(1, 1)
	krl.Stop()
	krl.Stop()
}
