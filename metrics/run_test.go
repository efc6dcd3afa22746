package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/quant/metrics"
)

func TestRunRecordAndSeries(t *testing.T) {
	run := metrics.NewRun()
	run.Record("flip_ratio/ste_sign_1", 0.5)
	run.Record("flip_ratio/ste_sign_1", 0.25)

	assert.Equal(t, []float64{0.5, 0.25}, run.Series("flip_ratio/ste_sign_1"))
	assert.Nil(t, run.Series("missing"))
}

func TestRunSummaryMeans(t *testing.T) {
	run := metrics.NewRun()
	run.Record("a", 1)
	run.Record("a", 3)
	run.Record("b", 10)

	summary := run.Summary()
	assert.Equal(t, 2.0, summary["a"])
	assert.Equal(t, 10.0, summary["b"])
}

func TestRunNamesSorted(t *testing.T) {
	run := metrics.NewRun()
	run.Record("zeta", 1)
	run.Record("alpha", 1)

	assert.Equal(t, []string{"alpha", "zeta"}, run.Names())
}

func TestRunIDsAreUnique(t *testing.T) {
	a, b := metrics.NewRun(), metrics.NewRun()
	assert.NotEmpty(t, a.ID())
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestRunSeriesReturnsCopy(t *testing.T) {
	run := metrics.NewRun()
	run.Record("a", 1)

	got := run.Series("a")
	got[0] = 99
	assert.Equal(t, []float64{1}, run.Series("a"))
}
