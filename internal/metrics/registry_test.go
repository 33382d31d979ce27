package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_Singleton(t *testing.T) {
	assert.Same(t, DefaultRegistry(), DefaultRegistry())
}

func TestRecordLayout(t *testing.T) {
	r := NewRegistry()
	r.RecordLayout(1500, 0.25, 40*time.Millisecond, nil)
	r.RecordLayout(0, 0, 0, errors.New("diverged"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.LayoutRuns.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LayoutRuns.WithLabelValues(StatusError)))
	assert.Equal(t, 1500.0, testutil.ToFloat64(r.LayoutIterations))
	assert.Equal(t, 0.25, testutil.ToFloat64(r.LayoutFinalForce))
	assert.Equal(t, 1, testutil.CollectAndCount(r.LayoutDuration))
}

func TestLayoutFinalForceHelp(t *testing.T) {
	r := NewRegistry()
	r.RecordLayout(10, 3.5, time.Millisecond, nil)
	expected := `
# HELP vibe_layout_final_force Total force magnitude in the last layout iteration
# TYPE vibe_layout_final_force gauge
vibe_layout_final_force 3.5
`
	require.NoError(t, testutil.CollectAndCompare(r.LayoutFinalForce, strings.NewReader(expected)))
}

func TestRecordBuild(t *testing.T) {
	r := NewRegistry()
	r.RecordBuild(10, 2)

	assert.Equal(t, 10.0, testutil.ToFloat64(r.BuildPoints.WithLabelValues(StatusIndexed)))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.BuildPoints.WithLabelValues(StatusRejected)))
	assert.Equal(t, 10.0, testutil.ToFloat64(r.IndexPoints))
}

func TestRecordRoute(t *testing.T) {
	r := NewRegistry()
	r.RecordRoute(10, nil)
	r.RecordRoute(0, errors.New("empty"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Routes.WithLabelValues(StatusOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Routes.WithLabelValues(StatusError)))

	expected := `
# HELP vibe_route_distance Distance from an embedded query to its nearest point
# TYPE vibe_route_distance histogram
vibe_route_distance_bucket{le="1"} 0
vibe_route_distance_bucket{le="5"} 0
vibe_route_distance_bucket{le="10"} 1
vibe_route_distance_bucket{le="25"} 1
vibe_route_distance_bucket{le="50"} 1
vibe_route_distance_bucket{le="100"} 1
vibe_route_distance_bucket{le="250"} 1
vibe_route_distance_bucket{le="500"} 1
vibe_route_distance_bucket{le="+Inf"} 1
vibe_route_distance_sum 10
vibe_route_distance_count 1
`
	require.NoError(t, testutil.CollectAndCompare(r.RouteDistance, strings.NewReader(expected), "vibe_route_distance"))
}

func TestWriteTextfile(t *testing.T) {
	r := NewRegistry()
	r.RecordBuild(3, 0)

	path := filepath.Join(t.TempDir(), "vibe.prom")
	require.NoError(t, r.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), "vibe_index_points 3")
	assert.Contains(t, string(b), `vibe_build_points_total{status="indexed"} 3`)
}
