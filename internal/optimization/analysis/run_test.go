package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/copyleftdev/optiviz/internal/optimization"
)

func TestRun(t *testing.T) {
	s := optimization.DefaultSettings()
	s.InitialX = 1
	s.NumSteps = 2

	res, err := Run("x^2", 0, s, Options{})
	require.NoError(t, err)
	assert.Equal(t, optimization.OneD, res.Dimension)
	assert.Equal(t, s, res.Settings)
	require.Len(t, res.Points, 3)
	assert.Nil(t, res.Points[1].Y)
	assert.InDelta(t, 0.8, res.Points[1].X, 1e-6)
	assert.NotNil(t, res.Stalls)
	assert.Empty(t, res.Stalls)
	assert.Nil(t, res.Bounds.Y)

	// Forcing two variables on an x-only objective gives a flat y axis.
	res, err = Run("x^2", optimization.TwoD, s, Options{})
	require.NoError(t, err)
	require.NotNil(t, res.Points[2].Y)
	assert.Equal(t, 0.0, *res.Points[2].Y)
	require.NotNil(t, res.Bounds.Y)
}

func TestRunStalls(t *testing.T) {
	s := optimization.DefaultSettings()
	s.OptimizerType = optimization.Newton
	s.InitialX = 2
	s.NumSteps = 3

	res, err := Run("-x^2 + 3*x", 0, s, Options{Derivatives: Derivatives{Gradient: "-2*x + 3", Hessian: "0"}})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, res.Stalls)
	for _, p := range res.Points {
		assert.Equal(t, 2.0, p.X)
		assert.True(t, p.Stalled || p.Step == 0)
	}
}

func TestRunErrors(t *testing.T) {
	adam := optimization.DefaultSettings()
	adam.OptimizerType = optimization.Adam

	_, err := Run("x^2", 0, adam, Options{Derivatives: Derivatives{Gradient: "2 *"}})
	assert.True(t, optimization.IsConfigurationError(err), "settings are checked before derivatives")

	_, err = Run("x + q", 0, optimization.DefaultSettings(), Options{})
	assert.ErrorIs(t, err, ErrUnknownVariable)

	_, err = Run("x^2", 3, optimization.DefaultSettings(), Options{})
	assert.True(t, optimization.IsConfigurationError(err))

	_, err = Run("x*y", optimization.OneD, optimization.DefaultSettings(), Options{})
	assert.ErrorIs(t, err, ErrUnknownVariable)
}
