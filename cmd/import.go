package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitpikchr/internal/script"
)

// ImportCmd returns the import command.
func ImportCmd() *cli.Command {
	return &cli.Command{
		Name:   "import",
		Usage:  "Print the instruction script that rebuilds a repository's history",
		Flags:  importFlags(),
		Action: importAction,
	}
}

func importAction(c *cli.Context) error {
	attachLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	instructions, err := importInstructions(c.Context, c.String("repo"), cfg)
	if err != nil {
		return err
	}

	var out io.Writer = os.Stdout
	if c.App != nil && c.App.Writer != nil {
		out = c.App.Writer
	}
	if path := c.String("output"); path != "" {
		return os.WriteFile(path, []byte(script.Format(instructions)), 0644)
	}
	_, err = fmt.Fprint(out, script.Format(instructions))
	return err
}
