package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitpikchr/config"
	"github.com/masmgr/gitpikchr/internal/output"
)

// OutputOptions creates OutputOptions from CLI flags and configuration.
func OutputOptions(c *cli.Context, cfg *config.Config) (output.OutputOptions, error) {
	format, err := output.ParseFormat(c.String("format"))
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
		Layout:     cfg.PikchrOptions(),
	}, nil
}
