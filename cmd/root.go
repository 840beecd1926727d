package cmd

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitpikchr/config"
	"github.com/masmgr/gitpikchr/internal/git"
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:      "gitpikchr",
		Usage:     "Draw git history as pikchr diagrams",
		Version:   "1.0.0",
		ArgsUsage: "[FILE]",
		Commands: []*cli.Command{
			RenderCmd(),
			ImportCmd(),
			InitConfigCmd(),
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
			},
		},
		Action: defaultAction,
	}
}

// importFlags select and shape the history read from a repository.
func importFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "repo",
			Aliases: []string{"r"},
			Usage:   "Path to Git repository",
			Value:   ".",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "Repository reader (gogit, cli)",
		},
		&cli.StringSliceFlag{
			Name:  "branch-include",
			Usage: "Branch glob patterns to include (can be specified multiple times)",
		},
		&cli.StringSliceFlag{
			Name:  "branch-exclude",
			Usage: "Branch glob patterns to exclude (can be specified multiple times)",
		},
		&cli.IntFlag{
			Name:    "max-commits",
			Aliases: []string{"n"},
			Usage:   "Keep only the newest N commits (0 keeps all)",
		},
		&cli.IntFlag{
			Name:  "abbrev",
			Usage: "Shorten commit ids to N characters (0 keeps full SHAs)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable debug logging",
		},
	}
}

// loadConfig loads configuration from file or defaults and applies flag
// overrides. Only flags given on the command line override the file.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	applyFlagOverrides(c, cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func applyFlagOverrides(c *cli.Context, cfg *config.Config) {
	if c.IsSet("branch-include") {
		cfg.Import.Include = c.StringSlice("branch-include")
	}
	if c.IsSet("branch-exclude") {
		cfg.Import.Exclude = c.StringSlice("branch-exclude")
	}
	if c.IsSet("max-commits") {
		cfg.Import.MaxCommits = c.Int("max-commits")
	}
	if c.IsSet("abbrev") {
		cfg.Import.Abbrev = c.Int("abbrev")
	}
	if c.IsSet("backend") {
		cfg.Import.Backend = c.String("backend")
	}
	if c.IsSet("direction") {
		cfg.Layout.GraphDirection = c.String("direction")
	}
	if c.IsSet("commit-distance") {
		cfg.Layout.CommitHistoryDistance = c.Int("commit-distance")
	}
	if c.IsSet("branch-distance") {
		cfg.Layout.BranchDistance = c.Int("branch-distance")
	}
	if c.IsSet("radius") {
		cfg.Layout.CommitRadius = c.Int("radius")
	}
	if c.IsSet("pack") {
		cfg.Layout.PackLanes = c.Bool("pack")
	}
}

// readOptions builds the repository reader options from configuration.
func readOptions(repoPath string, cfg *config.Config) (git.ReadOptions, error) {
	backend, err := git.ParseBackend(cfg.Import.Backend)
	if err != nil {
		return git.ReadOptions{}, err
	}
	return git.ReadOptions{
		RepoPath: repoPath,
		Backend:  backend,
		Include:  cfg.Import.Include,
		Exclude:  cfg.Import.Exclude,
	}, nil
}

// defaultAction renders the file given as the first argument.
func defaultAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return cli.ShowAppHelp(c)
	}
	return renderAction(c)
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
