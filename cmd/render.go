package cmd

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitpikchr/internal/lanes"
	"github.com/masmgr/gitpikchr/internal/output"
)

// RenderCmd returns the render command.
func RenderCmd() *cli.Command {
	flags := append(importFlags(),
		&cli.StringFlag{
			Name:  "input-format",
			Usage: "Instruction file syntax (auto, script, yaml)",
			Value: "auto",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (pikchr, markdown, dot, svg, json, csv, ndjson, console)",
			Value:   "pikchr",
		},
		&cli.StringFlag{
			Name:  "direction",
			Usage: "Direction history grows in (up, right)",
		},
		&cli.IntFlag{
			Name:  "commit-distance",
			Usage: "Distance between consecutive commits",
		},
		&cli.IntFlag{
			Name:  "branch-distance",
			Usage: "Distance between lane columns",
		},
		&cli.IntFlag{
			Name:  "radius",
			Usage: "Commit circle radius",
		},
		&cli.BoolFlag{
			Name:  "pack",
			Usage: "Reuse columns of lanes that do not overlap in time",
		},
	)

	return &cli.Command{
		Name:      "render",
		Usage:     "Draw a history from an instruction file or a repository",
		ArgsUsage: "[FILE]",
		Flags:     flags,
		Action:    renderAction,
	}
}

func renderAction(c *cli.Context) error {
	cc, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	opts, err := OutputOptions(c, cc.Config)
	if err != nil {
		return err
	}

	p := newProgress(cc.Logger)
	store := cc.BuildStore()
	view := lanes.Build(store, lanes.Options{PackLanes: cc.Config.Layout.PackLanes})
	p.done(fmt.Sprintf("Laid out %d commits in %d lanes over %d columns",
		len(view.Commits), len(view.Lanes), view.Columns()))

	report := &output.DiagramReport{
		Source:      cc.Source,
		GeneratedAt: time.Now(),
		View:        view,
		Warnings:    store.Warnings(),
	}
	return output.NewReportWriter(opts.Format).Write(report, opts)
}
