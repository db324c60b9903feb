package scad

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/machine"
)

func point(x, y, z float64, valid bool) machine.ProbeResult {
	return machine.ProbeResult{Point: coord.Point{X: x, Y: y, Z: z}, Valid: valid}
}

func TestEmitter(t *testing.T) {
	dir := t.TempDir()
	e := NewEmitter(dir, "test part", 0)
	assert.Equal(t, filepath.Join(dir, "testpart.scad"), e.Path())

	// first row: no file yet, a single line is not a polyhedron
	require.NoError(t, e.AddPoint(point(0, 1, 0, true)))
	require.NoError(t, e.AddPoint(point(1, 1, 0, true)))
	_, err := os.Stat(e.Path())
	assert.True(t, os.IsNotExist(err))

	// second row starts: the completed first row alone is still
	// insufficient, so the flush only logs
	require.NoError(t, e.AddPoint(point(0, 1.2, 1, true)))
	require.NoError(t, e.AddPoint(point(1, 1.1, 1, true)))

	// third row starts: two completed rows flush a mesh to disk
	require.NoError(t, e.AddPoint(point(0, 1, 2, false)))
	data, err := os.ReadFile(e.Path())
	require.NoError(t, err)
	assert.Len(t, parseVertices(t, string(data)), 8)

	require.NoError(t, e.AddPoint(point(1, 1, 2, true)))
	require.NoError(t, e.Finalize())

	assert.Equal(t, 1, e.Invalid())
	g := e.Grid()
	assert.Equal(t, []int{0, 2, 4}, g.Rows)
	assert.Len(t, g.Points, 6)

	data, err = os.ReadFile(e.Path())
	require.NoError(t, err)
	// 6 front points, per-column backplane on both edge rows plus two
	// on the interior row
	assert.Len(t, parseVertices(t, string(data)), 6+2+2+2)
	assert.Contains(t, string(data), "module testpart() {")
}

func TestEmitter_InsufficientData(t *testing.T) {
	dir := t.TempDir()
	e := NewEmitter(dir, "line", 5)

	require.NoError(t, e.AddPoint(point(0, 1, 0, true)))
	require.NoError(t, e.AddPoint(point(1, 1, 0, true)))
	require.NoError(t, e.AddPoint(point(2, 1, 0, true)))

	// a single scan line is reported, not fatal, and writes no file
	require.NoError(t, e.Finalize())
	_, err := os.Stat(e.Path())
	assert.True(t, os.IsNotExist(err))
}

func TestEmitter_SentinelPatch(t *testing.T) {
	dir := t.TempDir()
	e := NewEmitter(dir, "patch", 5)

	require.NoError(t, e.AddPoint(point(0, 1, 0, true)))
	require.NoError(t, e.AddPoint(point(1, 0, 0, false)))
	require.NoError(t, e.AddPoint(point(0, 1, 1, true)))
	require.NoError(t, e.AddPoint(point(1, 1, 1, true)))
	require.NoError(t, e.Finalize())

	// grid shares backing storage so a repaired sample can be
	// rewritten in place
	g := e.Grid()
	g.Points[1] = point(1, 1, 0, true)
	require.NoError(t, e.Flush())

	data, err := os.ReadFile(e.Path())
	require.NoError(t, err)
	for _, p := range parseVertices(t, string(data))[:4] {
		if p.Y != 1 && p.Y != -4 {
			t.Fatalf("unexpected depth %v", p.Y)
		}
	}
}
