package formulas

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, Mean([]float64{}))
	assert.Equal(t, 2.0, Mean([]float64{1, 2, 3}))
	assert.Equal(t, -5.0, Mean([]float64{-10, 0}))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 5.0, Clamp(5, 0, 100))
	assert.Equal(t, 0.0, Clamp(-3, 0, 100))
	assert.Equal(t, 100.0, Clamp(250, 0, 100))
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 7.67, Round2(1500.0/195.50))
	assert.Equal(t, 1.0, Round2(0.999))
	assert.Equal(t, -3.14, Round2(-3.14159))
	assert.Equal(t, 0.0, Round2(0))
}
