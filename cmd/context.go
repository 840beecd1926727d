package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v2"

	"github.com/masmgr/gitpikchr/config"
	"github.com/masmgr/gitpikchr/internal/git"
	"github.com/masmgr/gitpikchr/internal/history"
	"github.com/masmgr/gitpikchr/internal/script"
)

// CommandContext holds common state for command execution: the merged
// configuration and the instruction stream read from a file or a repository.
type CommandContext struct {
	Config       *config.Config
	Logger       *log.Logger
	Source       string
	Instructions []history.Instruction
}

// NewCommandContext loads configuration and reads instructions. A FILE
// argument is parsed as a script or YAML command file ("-" reads stdin);
// without one, history is imported from --repo.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	logger := attachLogger(c)

	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}
	for _, w := range cfg.LayoutWarnings() {
		logger.Warn(w)
	}

	cc := &CommandContext{Config: cfg, Logger: logger}
	if path := c.Args().First(); path != "" {
		syntax, err := script.ParseSyntax(c.String("input-format"))
		if err != nil {
			return nil, err
		}
		cc.Source = path
		cc.Instructions, err = script.Load(path, syntax)
		if err != nil {
			return nil, err
		}
		logger.Debug("parsed instructions", "file", path, "count", len(cc.Instructions))
		return cc, nil
	}

	repoPath := c.String("repo")
	if repoPath == "" {
		repoPath = "."
	}
	cc.Source = repoPath
	cc.Instructions, err = importInstructions(c.Context, repoPath, cfg)
	if err != nil {
		return nil, err
	}
	return cc, nil
}

// openRepository is replaced in tests to read from a mock.
var openRepository = func(opts git.ReadOptions) (git.RepositoryReader, error) {
	return git.NewHistoryReader(opts)
}

// importInstructions reads a repository snapshot and plans the
// instructions that rebuild it.
func importInstructions(ctx context.Context, repoPath string, cfg *config.Config) ([]history.Instruction, error) {
	logger := loggerFromContext(ctx)
	p := newProgress(logger)

	opts, err := readOptions(repoPath, cfg)
	if err != nil {
		return nil, err
	}
	reader, err := openRepository(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	snapshot, err := reader.ReadSnapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read history: %w", err)
	}

	instructions := git.Plan(snapshot, git.PlanOptions{
		MaxCommits: cfg.Import.MaxCommits,
		Abbrev:     cfg.Import.Abbrev,
	})
	p.done(fmt.Sprintf("Imported %d commits on %d branches from %s",
		len(snapshot.Commits), len(snapshot.Branches), repoPath))
	return instructions, nil
}

// BuildStore applies the instructions, logging every structural warning.
func (cc *CommandContext) BuildStore() *history.Store {
	s := history.Build(cc.Instructions)
	for _, w := range s.Warnings() {
		if w.Line > 0 {
			cc.Logger.Warn(w.Message, "line", w.Line)
		} else {
			cc.Logger.Warn(w.Message)
		}
	}
	return s
}
