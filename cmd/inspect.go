package cmd

import (
	"errors"

	"github.com/achilleasa/gputrace/asset/scene/reader"
	"github.com/urfave/cli"
)

// Display information about a compiled scene archive.
func InspectScene(ctx *cli.Context) error {
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

	logger.Noticef("scene information:\n%s", sc.Stats())

	if ctx.Bool("nodes") {
		logger.Noticef("bvh nodes:\n%s", sc.NodeTable(ctx.Int("limit")))
	}

	if err = sc.Validate(); err != nil {
		return err
	}
	logger.Notice("scene data is valid")
	return nil
}
