package main

import (
	"fmt"
	"os"

	"github.com/achilleasa/gputrace/asset/compiler/bvh"
	"github.com/achilleasa/gputrace/cmd"
	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "gputrace"
	app.Usage = "compile scenes into GPU-ready BVH buffers"
	app.Version = "0.0.1"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "set log level (debug, info, notice, warning, error)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "compile",
			Usage: "compile a built-in scene into a binary archive",
			Description: `
Build one of the built-in scenes, construct a BVH tree to optimize ray
intersection tests and package scene elements in a GPU-friendly format.

The optimized scene data is then written to a zip archive which can be supplied
as an argument to the inspect and upload commands.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "scene, s",
					Value: "cornell",
					Usage: "name of the built-in scene to compile (see list-scenes)",
				},
				cli.StringFlag{
					Name:  "strategy",
					Value: bvh.BinnedSAH.String(),
					Usage: "BVH split strategy (sah or median)",
				},
				cli.IntFlag{
					Name:  "leaf-size",
					Value: bvh.DefaultOptions().LeafSize,
					Usage: "maximum number of primitives per BVH leaf",
				},
				cli.IntFlag{
					Name:  "max-stack",
					Value: bvh.DefaultMaxStackItems,
					Usage: "maximum number of pending BVH build work items",
				},
				cli.StringFlag{
					Name:  "out, o",
					Usage: "archive filename; defaults to <scene>.zip",
				},
			},
			Action: cmd.CompileScene,
		},
		{
			Name:      "inspect",
			Usage:     "display information about a compiled scene archive",
			ArgsUsage: "scene.zip",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "nodes",
					Usage: "print the flattened BVH nodes",
				},
				cli.IntFlag{
					Name:  "limit",
					Value: 32,
					Usage: "maximum number of BVH nodes to print; 0 prints all",
				},
			},
			Action: cmd.InspectScene,
		},
		{
			Name:   "list-scenes",
			Usage:  "list the built-in scenes",
			Action: cmd.ListScenes,
		},
		{
			Name:  "check-shader",
			Usage: "compile the BVH traversal shader to SPIR-V",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "print",
					Usage: "print the WGSL source",
				},
			},
			Action: cmd.CheckShader,
		},
		{
			Name:      "upload",
			Usage:     "upload a compiled scene archive to a WebGPU device",
			ArgsUsage: "scene.zip",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "fallback",
					Usage: "force a software adapter",
				},
			},
			Action: cmd.UploadScene,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
