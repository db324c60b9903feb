package main

import (
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mastercactapus/surfscan/coord"
	"github.com/mastercactapus/surfscan/gcode"
	"github.com/mastercactapus/surfscan/machine"
)

type fakeMachine struct {
	lines []string
	moves []coord.Point

	scanStarted chan struct{}
	scanRelease chan struct{}
}

func (f *fakeMachine) Run(gr gcode.Reader) error {
	for {
		b, err := gr.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		f.lines = append(f.lines, b.String())
	}
}
func (f *fakeMachine) MoveTo(p coord.Point) error {
	f.moves = append(f.moves, p)
	return nil
}
func (f *fakeMachine) Progress() <-chan coord.Point {
	ch := make(chan coord.Point)
	close(ch)
	return ch
}

func (f *fakeMachine) Scan(ctx context.Context, opt machine.ScanOptions, rec machine.Recorder) error {
	if f.scanStarted != nil {
		close(f.scanStarted)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-f.scanRelease:
		}
	}

	pos := opt.Start
	for z := 0; z < 2; z++ {
		for x := 0; x < 2; x++ {
			p := pos
			p.X += float64(x) * opt.StepX
			p.Z += float64(z) * opt.StepZ
			p.Y = 1
			err := rec.AddPoint(machine.ProbeResult{Point: p, Valid: true})
			if err != nil {
				return err
			}
		}
	}
	return rec.Finalize()
}

func TestAPI_Scan(t *testing.T) {
	dir, err := ioutil.TempDir("", "surfscan")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	m := &fakeMachine{}
	srv := httptest.NewServer(newAPI(m, dir))
	defer srv.Close()

	body := `{"name":"part","start":{"Y":5},"end":{"X":1,"Z":1},"stepX":1,"stepZ":1,"thickness":5}`
	resp, err := http.Post(srv.URL+"/api/scan", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	var sr scanResponse
	err = json.NewDecoder(resp.Body).Decode(&sr)
	require.NoError(t, err)
	assert.Equal(t, "part.scad", sr.File)
	assert.Equal(t, 4, sr.Points)
	assert.Equal(t, 0, sr.Invalid)

	data, err := ioutil.ReadFile(filepath.Join(dir, "part.scad"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "module part() {")
}

func TestAPI_Scan_Busy(t *testing.T) {
	dir, err := ioutil.TempDir("", "surfscan")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	m := &fakeMachine{
		scanStarted: make(chan struct{}),
		scanRelease: make(chan struct{}),
	}
	srv := httptest.NewServer(newAPI(m, dir))
	defer srv.Close()

	body := `{"name":"part","start":{"Y":5},"end":{"X":1,"Z":1},"stepX":1,"stepZ":1}`
	errCh := make(chan error, 1)
	go func() {
		resp, err := http.Post(srv.URL+"/api/scan", "application/json", strings.NewReader(body))
		if err == nil {
			resp.Body.Close()
		}
		errCh <- err
	}()

	select {
	case <-m.scanStarted:
	case <-time.After(5 * time.Second):
		t.Fatal("scan never started")
	}

	resp, err := http.Post(srv.URL+"/api/scan", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, err = http.Post(srv.URL+"/api/stop", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	require.NoError(t, <-errCh)

	// idle again, stop now conflicts
	resp, err = http.Post(srv.URL+"/api/stop", "", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestAPI_Jog(t *testing.T) {
	dir, err := ioutil.TempDir("", "surfscan")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	m := &fakeMachine{}
	srv := httptest.NewServer(newAPI(m, dir))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/jog", "application/json", strings.NewReader(`{"X":1,"Y":2,"Z":3}`))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	require.Len(t, m.moves, 1)
	assert.Equal(t, coord.Point{X: 1, Y: 2, Z: 3}, m.moves[0])
}

func TestAPI_Run(t *testing.T) {
	dir, err := ioutil.TempDir("", "surfscan")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	m := &fakeMachine{}
	srv := httptest.NewServer(newAPI(m, dir))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/api/run", "text/plain", strings.NewReader("G21\n; home first\n  G28  \n"))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, 200, resp.StatusCode)

	assert.Equal(t, []string{"G21", "G28"}, m.lines)

	resp, err = http.Post(srv.URL+"/api/run", "text/plain", strings.NewReader("not gcode\n"))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, 500, resp.StatusCode)
}
