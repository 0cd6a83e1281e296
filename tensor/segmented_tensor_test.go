package tensor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSegmentedTensor_ReshapeAndAt(t *testing.T) {
	tn, err := Allocate(3, 2)
	require.NoError(t, err)

	require.NoError(t, tn.Reshape([]int{2, 3}))
	assert.Equal(t, 2, tn.Dims())
	assert.Equal(t, 6, tn.CellCount())

	cell := tn.At(Linearize([]int{1, 2}, tn.BinCounts()))
	require.Len(t, cell, 2)
	cell[0] = 1.5
	cell[1] = -2.5

	again := tn.At(Linearize([]int{1, 2}, tn.BinCounts()))
	assert.Equal(t, []float64{1.5, -2.5}, again)
}

func TestSegmentedTensor_ZeroDimensional(t *testing.T) {
	tn, err := Allocate(3, 1)
	require.NoError(t, err)
	require.NoError(t, tn.Reshape(nil))
	assert.Equal(t, 0, tn.Dims())
	assert.Equal(t, 1, tn.CellCount())

	cell := tn.At(0)
	cell[0] = 42
	assert.Equal(t, []float64{42}, tn.At(0))
}

func TestSegmentedTensor_CapacityExceeded(t *testing.T) {
	tn, err := Allocate(4, 1)
	require.NoError(t, err)

	err = tn.Reshape([]int{1 << 31, 1 << 31, 4})
	assert.Error(t, err)
}

func TestSegmentedTensor_InvalidDims(t *testing.T) {
	tn, err := Allocate(1, 1)
	require.NoError(t, err)

	err = tn.Reshape([]int{2, 3})
	assert.Error(t, err)

	err = tn.Reshape([]int{0})
	assert.Error(t, err)
}

func TestSegmentedTensor_ZeroClears(t *testing.T) {
	tn, err := Allocate(1, 1)
	require.NoError(t, err)
	require.NoError(t, tn.Reshape([]int{3}))
	tn.At(0)[0] = 5
	tn.At(1)[0] = 6
	tn.Zero()
	assert.Equal(t, 0.0, tn.At(0)[0])
	assert.Equal(t, 0.0, tn.At(1)[0])
}
