package scad

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mastercactapus/surfscan/machine"
)

// Emitter collects scan points row by row and writes the OpenSCAD file
// after every completed row, so a crash mid-scan leaves the most
// recently completed row's mesh on disk.
type Emitter struct {
	name      string
	path      string
	thickness float64

	grid    Grid
	prevZ   float64
	invalid int

	start time.Time
}

var _ machine.Recorder = &Emitter{}

// NewEmitter creates an emitter writing to dir/<name>.scad. The name
// is sanitized for use as an OpenSCAD identifier. A non-positive
// thickness falls back to DefaultThickness.
func NewEmitter(dir, name string, thickness float64) *Emitter {
	name = SanitizeName(name)
	if thickness <= 0 {
		thickness = DefaultThickness
	}
	return &Emitter{
		name:      name,
		path:      filepath.Join(dir, name+FileExtension),
		thickness: thickness,
		start:     time.Now(),
	}
}

// Path returns the output file path.
func (e *Emitter) Path() string { return e.path }

// Grid returns the accumulated scan grid. The slices share backing
// storage with the emitter so sentinel repair can patch samples in
// place before a final Flush.
func (e *Emitter) Grid() Grid { return e.grid }

// Invalid returns how many points were recorded without contact.
func (e *Emitter) Invalid() int { return e.invalid }

// AddPoint appends a probe result. A change of the layer coordinate
// starts a new row and flushes the rows completed so far.
func (e *Emitter) AddPoint(p machine.ProbeResult) error {
	if !p.Valid {
		e.invalid++
	}
	if len(e.grid.Points) == 0 || p.Z != e.prevZ {
		if len(e.grid.Points) > 0 {
			err := e.Flush()
			if err != nil {
				return err
			}
		}
		e.grid.Rows = append(e.grid.Rows, len(e.grid.Points))
		e.prevZ = p.Z
	}
	e.grid.Points = append(e.grid.Points, p)
	return nil
}

// Finalize writes the completed mesh and logs a summary.
func (e *Emitter) Finalize() error {
	err := e.Flush()
	if err != nil {
		return err
	}
	log.Printf("Scan %q took %d seconds: %d points in %d rows (%d without contact)",
		e.name, int(time.Since(e.start).Seconds()),
		len(e.grid.Points), len(e.grid.Rows), e.invalid)
	return nil
}

// Flush rebuilds the mesh from all rows so far and rewrites the
// output file. Having too few rows or columns is reported but not an
// error; the next rows may complete the grid.
func (e *Emitter) Flush() error {
	mesh, err := Build(e.grid, e.thickness)
	if errors.Is(err, ErrInsufficientData) {
		log.Println("Scan consists only of a single line, can not create polyhedron")
		return nil
	}
	if err != nil {
		return err
	}

	info := fmt.Sprintf(`Number of scanned vertices: %d
Minimum extent: %s
Maximum extent: %s
Number of rows: %d
Number of columns: %d

Scanned in %d seconds
`, len(e.grid.Points), mesh.Box.Min, mesh.Box.Max,
		e.grid.NumRows(), e.grid.NumCols(), int(time.Since(e.start).Seconds()))

	f, err := os.Create(e.path)
	if err != nil {
		return fmt.Errorf("create %s: %v", e.path, err)
	}
	err = Write(f, e.name, mesh, info)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
