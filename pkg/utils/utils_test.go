package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundDecimal(t *testing.T) {
	assert.InDelta(t, 3.14, RoundDecimal(3.14159, 2), 1e-9)
	assert.InDelta(t, 3.55, RoundDecimal(3.549, 2), 1e-9)
	assert.InDelta(t, 4.0, RoundDecimal(4, 2), 1e-9)
}

func TestRemoveEmptyStrings(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, RemoveEmptyStrings([]string{"", "a", "", "b"}))
	assert.Nil(t, RemoveEmptyStrings([]string{"", ""}))
}
