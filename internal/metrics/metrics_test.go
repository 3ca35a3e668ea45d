package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r, err := NewRecorder(reg)
	require.NoError(t, err)

	r.ObserveTrajectory(2, "Adam", 3, 5*time.Millisecond)
	r.ObserveTrajectory(2, "Adam", 0, time.Millisecond)
	r.ObserveTrajectory(1, "Newton", 1, time.Millisecond)
	r.ObserveError(KindConfiguration)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.trajectories.WithLabelValues("2", "Adam")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.stalls.WithLabelValues("2", "Adam")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.stalls.WithLabelValues("1", "Newton")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errors.WithLabelValues(KindConfiguration)))
	assert.Equal(t, 2, testutil.CollectAndCount(r.duration))
}

func TestRecorderDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewRecorder(reg)
	require.NoError(t, err)

	_, err = NewRecorder(reg)
	assert.Error(t, err)
}
