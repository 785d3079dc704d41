package cmd

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/achilleasa/gputrace/asset/scene/reader"
	"github.com/achilleasa/gputrace/tracer/webgpu"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli"
)

// Compile the traversal shader on the CPU and report the SPIR-V size.
func CheckShader(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	spirv, err := webgpu.CompileShader(webgpu.TraversalShader())
	if err != nil {
		return err
	}
	logger.Noticef("traversal shader compiled to %d bytes of SPIR-V", len(spirv))

	if ctx.Bool("print") {
		fmt.Println(webgpu.TraversalShader())
	}
	return nil
}

// Upload a compiled scene to a WebGPU device and report the allocated buffers.
func UploadScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	if ctx.NArg() != 1 {
		return errors.New("missing scene file argument")
	}

	sc, err := reader.ReadScene(ctx.Args().First())
	if err != nil {
		return err
	}

	dev, err := webgpu.OpenDevice("gputrace", ctx.Bool("fallback"))
	if err != nil {
		return err
	}
	defer dev.Close()

	tr := webgpu.NewTracer(dev)
	defer tr.Close()

	if err = tr.Attach(sc); err != nil {
		return err
	}

	displayBufferStats(tr.Buffers())
	return nil
}

func displayBufferStats(bs *webgpu.BufferSet) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Buffer", "Size"})
	for _, name := range bs.Names() {
		b, _ := bs.Buffer(name)
		table.Append([]string{
			name,
			fmt.Sprintf("%d bytes", b.Size()),
		})
	}
	table.SetFooter([]string{"TOTAL", fmt.Sprintf("%d bytes", bs.Size())})

	table.Render()
	logger.Noticef("device buffers\n%s", buf.String())
}
