package cmd

import (
	"github.com/achilleasa/gputrace/asset/presets"
	"github.com/urfave/cli"
)

// List the built-in scenes.
func ListScenes(ctx *cli.Context) error {
	if err := setupLogging(ctx); err != nil {
		return err
	}

	logger.Noticef("available scenes:\n%s", presets.Table())
	return nil
}
