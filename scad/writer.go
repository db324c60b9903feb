package scad

import (
	"bufio"
	"fmt"
	"io"
	"regexp"

	"github.com/mastercactapus/surfscan/coord"
)

// FileExtension of the generated geometry files.
const FileExtension = ".scad"

var rxName = regexp.MustCompile(`[^A-Za-z0-9_]+`)

// SanitizeName strips everything that is not legal in an OpenSCAD
// identifier. An empty or all-invalid name falls back to "scan", and
// a leading digit gets an underscore prefix.
func SanitizeName(name string) string {
	name = rxName.ReplaceAllString(name, "")
	if name == "" {
		return "scan"
	}
	if name[0] >= '0' && name[0] <= '9' {
		name = "_" + name
	}
	return name
}

const header = `/*

To use this scanned object in another OpenSCAD file, use

    use <%s%s>;

%s*/

// Preview:
translate(-%s_offset()) %s();

// Function to retrieve the objects offset
function %s_offset() = [%s, %s, %s];

// Function to retrieve the objects size
function %s_dim() = [%s, %s, %s];

// The object as module
module %s() {
    polyhedron(
`

const trailer = "        ], convexity=10\n    );\n}\n"

// Write renders the mesh as an OpenSCAD module named name. Every
// coordinate is written with exactly 2 decimal places so the file
// round-trips at device resolution.
func Write(w io.Writer, name string, m *Mesh, info string) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, header,
		name, FileExtension,
		info,
		name, name,
		name, coord.Format(m.Offset.X), coord.Format(m.Offset.Y), coord.Format(m.Offset.Z),
		name, coord.Format(m.Dim.X), coord.Format(m.Dim.Y), coord.Format(m.Dim.Z),
		name,
	)

	bw.WriteString("        points = [\n")
	writePoints := func(pts []coord.Point) {
		for _, p := range pts {
			fmt.Fprintf(bw, "            [%s, %s, %s],\n",
				coord.Format(p.X), coord.Format(p.Y), coord.Format(p.Z))
		}
	}
	bw.WriteString("            // Scanned points\n")
	writePoints(m.Vertices[:m.FrontCount])
	bw.WriteString("            // Backplane points\n")
	writePoints(m.Vertices[m.FrontCount:])

	bw.WriteString("        ],\n        faces = [\n")
	var n int
	for _, sec := range m.Sections {
		fmt.Fprintf(bw, "            // %s\n", sec.Label)
		for _, f := range m.Faces[n : n+sec.Count] {
			fmt.Fprintf(bw, "            [%d", f[0])
			for _, idx := range f[1:] {
				fmt.Fprintf(bw, ", %d", idx)
			}
			bw.WriteString("],\n")
		}
		n += sec.Count
	}

	bw.WriteString(trailer)
	return bw.Flush()
}
