package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, uint64(550), p.Fee)
	assert.Equal(t, uint64(546), p.Dust)
	assert.Equal(t, uint64(1000), p.FeeRate)
	assert.Equal(t, p, Policy{}.Normalized())
}

func TestEstimateTxSize(t *testing.T) {
	assert.Equal(t, 10+148+34, EstimateTxSize(1, 1, 0))
	assert.Equal(t, 10+2*148+2*34+9+80, EstimateTxSize(2, 2, 80))
	assert.Equal(t, 10+148+9+300+2, EstimateTxSize(1, 0, 300))
}

func TestEstimateFee(t *testing.T) {
	assert.Equal(t, uint64(226), EstimateFee(226, 1000))
	assert.Equal(t, uint64(1), EstimateFee(1, 1))
	assert.Equal(t, uint64(113), EstimateFee(226, 500))
	assert.Equal(t, uint64(226), EstimateFee(226, 0))
}

func TestPolicyFeeFor(t *testing.T) {
	p := DefaultPolicy()

	// A small transaction stays at the fixed fee.
	assert.Equal(t, uint64(550), p.FeeFor(1, 3, 60))

	// Many inputs exceed it.
	size := EstimateTxSize(10, 2, 0)
	assert.Equal(t, EstimateFee(size, 1000), p.FeeFor(10, 2, 0))
	assert.Greater(t, p.FeeFor(10, 2, 0), uint64(550))
}
