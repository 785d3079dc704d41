package cmd

import (
	"errors"
	"fmt"

	"github.com/achilleasa/gputrace/asset/compiler"
	"github.com/achilleasa/gputrace/asset/compiler/bvh"
	"github.com/achilleasa/gputrace/asset/presets"
	"github.com/achilleasa/gputrace/asset/scene/writer"
	"github.com/urfave/cli"
)

// Build compiler options from the compile command flags.
func compilerOptions(ctx *cli.Context) (compiler.Options, error) {
	opts := compiler.DefaultOptions()

	strategy, err := bvh.ParseStrategy(ctx.String("strategy"))
	if err != nil {
		return opts, err
	}
	opts.BVH.Strategy = strategy

	if leafSize := ctx.Int("leaf-size"); leafSize > 0 {
		opts.BVH.LeafSize = leafSize
	} else {
		return opts, errors.New("leaf-size must be positive")
	}

	if maxStack := ctx.Int("max-stack"); maxStack > 0 {
		opts.BVH.MaxStackItems = maxStack
	} else {
		return opts, errors.New("max-stack must be positive")
	}

	return opts, nil
}

// Compile a built-in scene and write it to a zip archive.
func CompileScene(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	opts, err := compilerOptions(ctx)
	if err != nil {
		return err
	}

	sceneName := ctx.String("scene")
	logger.Noticef("building and compiling scene: %s", sceneName)
	parsedScene, err := presets.Load(sceneName)
	if err != nil {
		return err
	}

	sc, err := compiler.Compile(parsedScene, opts)
	if err != nil {
		return err
	}

	// Display compiled scene info
	logger.Noticef("scene information:\n%s", sc.Stats())

	zipFile := ctx.String("out")
	if zipFile == "" {
		zipFile = fmt.Sprintf("%s.zip", sceneName)
	}
	return writer.WriteScene(sc, zipFile)
}
