package script

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/masmgr/gitpikchr/internal/history"
)

// Syntax selects the input language.
type Syntax string

const (
	SyntaxAuto   Syntax = "auto"
	SyntaxScript Syntax = "script"
	SyntaxYAML   Syntax = "yaml"
)

// ParseSyntax converts a string to a Syntax.
func ParseSyntax(s string) (Syntax, error) {
	switch Syntax(strings.ToLower(s)) {
	case "", SyntaxAuto:
		return SyntaxAuto, nil
	case SyntaxScript:
		return SyntaxScript, nil
	case SyntaxYAML, "yml":
		return SyntaxYAML, nil
	default:
		return "", fmt.Errorf("unknown input format: %s", s)
	}
}

// Detect resolves SyntaxAuto from the file extension.
func Detect(path string, syntax Syntax) Syntax {
	if syntax != SyntaxAuto && syntax != "" {
		return syntax
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return SyntaxYAML
	default:
		return SyntaxScript
	}
}

// Read parses r in the given syntax. SyntaxAuto is treated as script.
func Read(r io.Reader, syntax Syntax) ([]history.Instruction, error) {
	if syntax == SyntaxYAML {
		return ParseYAML(r)
	}
	return Parse(r)
}

// Load reads and parses an instruction file. path "-" reads stdin.
func Load(path string, syntax Syntax) ([]history.Instruction, error) {
	if path == "-" {
		return Read(os.Stdin, Detect("", syntax))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open instructions: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Read(f, Detect(path, syntax))
}
