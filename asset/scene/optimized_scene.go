package scene

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/olekukonko/tablewriter"
)

// The compiled scene. All lists are ready to be uploaded to GPU storage
// buffers.
type Scene struct {
	Name string

	Materials  []Material
	Spheres    []Sphere
	Quads      []Quad
	Triangles  []Triangle
	Meshes     []Mesh
	Transforms []Transform

	// Primitive references in BVH leaf order.
	Primitives []PrimitiveRef
	BvhNodes   []BvhNode
}

// Build a tabular representation of scene statistics.
func (sc *Scene) Stats() string {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetAutoFormatHeaders(false)
	table.SetHeader([]string{"Asset Type", "Asset", "Count", "Size"})
	table.Append([]string{"Geometry", "---", "", fmtSize(sc.Spheres, sc.Quads, sc.Triangles, sc.Meshes)})
	table.Append([]string{"", "Spheres", fmt.Sprint(len(sc.Spheres)), fmtSize(sc.Spheres)})
	table.Append([]string{"", "Quads", fmt.Sprint(len(sc.Quads)), fmtSize(sc.Quads)})
	table.Append([]string{"", "Triangles", fmt.Sprint(len(sc.Triangles)), fmtSize(sc.Triangles)})
	table.Append([]string{"", "Meshes", fmt.Sprint(len(sc.Meshes)), fmtSize(sc.Meshes)})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Acceleration", "---", "", fmtSize(sc.Primitives, sc.BvhNodes)})
	table.Append([]string{"", "Prim. refs", fmt.Sprint(len(sc.Primitives)), fmtSize(sc.Primitives)})
	table.Append([]string{"", "BVH", fmt.Sprint(len(sc.BvhNodes)), fmtSize(sc.BvhNodes)})
	table.Append([]string{" ", " ", " ", " "})
	table.Append([]string{"Materials", "---", fmt.Sprint(len(sc.Materials)), fmtSize(sc.Materials)})
	table.Append([]string{"Transforms", "---", fmt.Sprint(len(sc.Transforms)), fmtSize(sc.Transforms)})
	table.SetFooter([]string{"Total", " ", " ", strings.TrimLeft(fmtSize(sc.Spheres, sc.Quads, sc.Triangles, sc.Meshes, sc.Primitives, sc.BvhNodes, sc.Materials, sc.Transforms), " ")})

	table.Render()
	return buf.String()
}

// Sum the total space used by a set of slices and return back a formatted
// value with the appropriate byte/kb/mb unit.
func fmtSize(items ...interface{}) string {
	var totalBytes float32 = 0.0
	for _, item := range items {
		t := reflect.TypeOf(item)
		v := reflect.ValueOf(item)
		if v.Len() == 0 {
			continue
		}

		totalBytes += float32(int(t.Elem().Size()) * v.Len())
	}

	if totalBytes < 1e3 {
		return fmt.Sprintf("%3d bytes", int(totalBytes))
	} else if totalBytes < 1e6 {
		return fmt.Sprintf("%3.1f kb", totalBytes/1e3)
	}
	return fmt.Sprintf("%5.1f mb", totalBytes/1e6)
}
