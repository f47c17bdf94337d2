package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsUnordered(t *testing.T) {
	assert.True(t, IsUnordered(math.NaN()))
	assert.True(t, IsUnordered(float32(math.NaN())))
	assert.False(t, IsUnordered(math.Inf(1)))
	assert.False(t, IsUnordered(0.0))
	assert.False(t, IsUnordered(uint8(7)))
	assert.False(t, IsUnordered(""))
}
