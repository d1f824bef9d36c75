package motplot

import (
	"os"
	"path/filepath"
	"testing"

	motion "github.com/mocaplab/gomotion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func circleSeq(t *testing.T, name string, rate float64, n int) *motion.TransformationSequence {
	t.Helper()
	rot := mat.NewDense(n, 9, nil)
	trans := mat.NewDense(n, 3, nil)
	for i := 0; i < n; i++ {
		angle := float64(i) * 0.1
		motion.EulerToRotationRow(0, 0, angle, rot.RawRowView(i))
		trans.SetRow(i, []float64{100 * float64(i), 50 * float64(i%3), 0})
	}
	s, err := motion.NewSequence(name, rate, "mm", rot, trans)
	require.NoError(t, err)
	return s
}

func TestConfigFromFile(t *testing.T) {
	dir := t.TempDir()

	good := filepath.Join(dir, "good.yaml")
	require.NoError(t, os.WriteFile(good, []byte("frame_step: 25\nframe_scale: 12.5\n"), 0644))
	cfg, err := ConfigFromFile(good)
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.FrameStep)
	assert.Equal(t, 12.5, cfg.FrameScale)
	//unset keys keep their defaults
	assert.Equal(t, DefaultConfig().ShowFrames, cfg.ShowFrames)

	typo := filepath.Join(dir, "typo.yaml")
	require.NoError(t, os.WriteFile(typo, []byte("frame_stepp: 25\n"), 0644))
	_, err = ConfigFromFile(typo)
	assert.Error(t, err, "unknown keys must be rejected")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("frame_step: 0\n"), 0644))
	_, err = ConfigFromFile(bad)
	assert.Error(t, err)

	_, err = ConfigFromFile(filepath.Join(dir, "absent.yaml"))
	assert.Error(t, err)
}

func TestTrajectoryPlot(t *testing.T) {
	s := circleSeq(t, "walk01", 120, 30)
	cfg := &Config{FrameStep: 10, ShowFrames: true}
	p, err := TrajectoryPlot(s, cfg)
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "walk01.png")
	require.NoError(t, p.Save(400, 400, out))
	fi, err := os.Stat(out)
	require.NoError(t, err)
	assert.Greater(t, fi.Size(), int64(0))

	//nil config falls back to defaults
	_, err = TrajectoryPlot(s, nil)
	require.NoError(t, err)

	_, err = TrajectoryPlot(nil, cfg)
	assert.Error(t, err)
}

func compareFixture(t *testing.T) *motion.Comparison {
	t.Helper()
	groups := map[string]*motion.TransformationSequence{
		"a": circleSeq(t, "a", 120, 30),
		"b": circleSeq(t, "b", 60, 20),
	}
	cmp, err := motion.Compare(groups, motion.ComponentTranslations, []string{"a", "b"})
	require.NoError(t, err)
	return cmp
}

func TestComparePlot(t *testing.T) {
	cmp := compareFixture(t)
	p, err := ComparePlot(cmp, "translation magnitude")
	require.NoError(t, err)
	out := filepath.Join(t.TempDir(), "cmp.svg")
	require.NoError(t, p.Save(500, 300, out))

	pc, err := CompareColumnPlot(cmp, 0, "x")
	require.NoError(t, err)
	require.NoError(t, pc.Save(500, 300, filepath.Join(t.TempDir(), "col.svg")))

	_, err = CompareColumnPlot(cmp, 99, "out of range")
	assert.Error(t, err)
}

func TestCompareHTML(t *testing.T) {
	cmp := compareFixture(t)
	out := filepath.Join(t.TempDir(), "cmp.html")
	require.NoError(t, CompareHTML(cmp, "translations", out))
	b, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "echarts")

	assert.Error(t, CompareHTML(nil, "x", out))
}
