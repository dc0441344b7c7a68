package tracker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runLapjvTest(t *testing.T, costMatrix [][]float64, expectedX, expectedY []int) {

	n := len(costMatrix)
	x := make([]int, n)
	y := make([]int, n)

	ret, err := lapjvInternal(n, costMatrix, x, y)

	require.NoError(t, err)
	assert.Equal(t, 0, ret)
	assert.Equal(t, expectedX, x)
	assert.Equal(t, expectedY, y)
}

func TestLapjvInternal(t *testing.T) {

	t.Run("Test Case 1", func(t *testing.T) {
		runLapjvTest(t, [][]float64{
			{4, 1, 3, 2},
			{2, 0, 5, 3},
			{3, 2, 2, 3},
			{2, 3, 3, 2},
		}, []int{3, 1, 2, 0}, []int{3, 1, 2, 0})
	})

	t.Run("Test Case 2", func(t *testing.T) {
		runLapjvTest(t, [][]float64{
			{10, 19, 8, 15},
			{10, 18, 7, 17},
			{13, 16, 9, 14},
			{12, 19, 8, 18},
		}, []int{3, 0, 1, 2}, []int{1, 2, 3, 0})
	})
}

// totalCost sums the cost of the assigned pairs
func totalCost(cost [][]float64, rowsol []int) float64 {

	sum := 0.0

	for i, j := range rowsol {
		if j >= 0 {
			sum += cost[i][j]
		}
	}

	return sum
}

func TestAssignSquare(t *testing.T) {

	cost := [][]float64{
		{1, 2, 3},
		{4, 4, 6},
		{9, 8, 5},
	}

	rowsol, colsol, err := Assign(cost)

	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, rowsol)
	assert.Equal(t, []int{0, 1, 2}, colsol)
	assert.Equal(t, 10.0, totalCost(cost, rowsol))
}

func TestAssignMoreColumns(t *testing.T) {

	// two tracked objects and three detections
	cost := [][]float64{
		{50, 1, 40},
		{60, 45, 2},
	}

	rowsol, colsol, err := Assign(cost)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, rowsol)
	assert.Equal(t, []int{-1, 0, 1}, colsol)
}

func TestAssignMoreRows(t *testing.T) {

	// three tracked objects and one detection
	cost := [][]float64{
		{30},
		{3},
		{12},
	}

	rowsol, colsol, err := Assign(cost)

	require.NoError(t, err)
	assert.Equal(t, []int{-1, 0, -1}, rowsol)
	assert.Equal(t, []int{1}, colsol)
}

func TestAssignPrefersFullMatching(t *testing.T) {

	// a greedy choice of row 0 -> col 0 would leave a costly pairing
	cost := [][]float64{
		{1, 2},
		{2, 100},
	}

	rowsol, _, err := Assign(cost)

	require.NoError(t, err)
	assert.Equal(t, []int{1, 0}, rowsol)
	assert.Equal(t, 4.0, totalCost(cost, rowsol))
}

func TestAssignInvalid(t *testing.T) {

	_, _, err := Assign(nil)
	assert.Error(t, err)

	_, _, err = Assign([][]float64{{1, 2}, {3}})
	assert.Error(t, err)
}
