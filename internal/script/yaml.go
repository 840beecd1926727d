package script

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/masmgr/gitpikchr/internal/history"
)

type yamlFile struct {
	Commands []yamlCommand `yaml:"commands"`
}

// yamlCommand accepts a bare commit id or one of the mapping forms
// {name}, {branch, at_commit} and {merge, branches}.
type yamlCommand struct {
	inst history.Instruction
}

type yamlFields struct {
	Name     *string  `yaml:"name"`
	Branch   *string  `yaml:"branch"`
	AtCommit string   `yaml:"at_commit"`
	Merge    *string  `yaml:"merge"`
	Branches []string `yaml:"branches"`
}

func (c *yamlCommand) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var id string
		if err := n.Decode(&id); err != nil {
			return err
		}
		if id == "" {
			return &ParseError{Line: n.Line, Kind: KindInvalidArgument, Text: "empty commit id"}
		}
		c.inst = history.NewCommit(id)
	case yaml.MappingNode:
		var f yamlFields
		if err := n.Decode(&f); err != nil {
			return err
		}
		for _, field := range []struct {
			key string
			val *string
		}{{"merge", f.Merge}, {"branch", f.Branch}, {"name", f.Name}} {
			if field.val != nil && *field.val == "" {
				return &ParseError{Line: n.Line, Kind: KindInvalidArgument, Text: "empty " + field.key}
			}
		}
		for _, b := range f.Branches {
			if b == "" {
				return &ParseError{Line: n.Line, Kind: KindInvalidArgument, Text: "empty merge source"}
			}
		}
		switch {
		case f.Merge != nil:
			c.inst = history.Merge(*f.Merge, f.Branches...)
		case f.Branch != nil:
			c.inst = history.Instruction{Op: history.OpCheckout, Name: *f.Branch, At: f.AtCommit}
		case f.Name != nil:
			c.inst = history.NewCommit(*f.Name)
		default:
			return &ParseError{Line: n.Line, Kind: KindInvalidInstruction, Text: "mapping without name, branch or merge"}
		}
	default:
		return &ParseError{Line: n.Line, Kind: KindInvalidInstruction, Text: "expected a commit id or mapping"}
	}
	c.inst.Line = n.Line
	return nil
}

// ParseYAML reads a YAML command file.
func ParseYAML(r io.Reader) ([]history.Instruction, error) {
	var f yamlFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to parse YAML commands: %w", err)
	}
	out := make([]history.Instruction, 0, len(f.Commands))
	for _, c := range f.Commands {
		out = append(out, c.inst)
	}
	return out, nil
}
