// Package script reads instruction streams from text: the line-oriented
// instruction language and YAML command files. It also renders
// instructions back to the line language.
package script

import (
	"bufio"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/masmgr/gitpikchr/internal/history"
)

var (
	commandRe  = regexp.MustCompile(`^([a-z_]+)\s*\((.*)\)$`)
	namedArgRe = regexp.MustCompile(`^([a-zA-Z_]+)\s*=\s*(.+)$`)
)

// argList holds the arguments of one instruction. Plain arguments must
// precede named ones.
type argList struct {
	plain []string
	named []namedArg
}

type namedArg struct {
	name  string
	value string
}

func parseArgs(raw string, line int) (argList, error) {
	var args argList
	if strings.TrimSpace(raw) == "" {
		return args, nil
	}
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			return args, &ParseError{Line: line, Kind: KindInvalidArgument, Text: raw}
		}
		if m := namedArgRe.FindStringSubmatch(part); m != nil {
			args.named = append(args.named, namedArg{name: m[1], value: strings.TrimSpace(m[2])})
			continue
		}
		if len(args.named) > 0 {
			return args, &ParseError{Line: line, Kind: KindPlainAfterNamed, Text: part}
		}
		args.plain = append(args.plain, part)
	}
	return args, nil
}

// ParseLine parses a single instruction. line is used for error reporting
// and recorded on the instruction.
func ParseLine(text string, line int) (history.Instruction, error) {
	text = strings.TrimSpace(text)
	m := commandRe.FindStringSubmatch(text)
	if m == nil {
		return history.Instruction{}, &ParseError{Line: line, Kind: KindInvalidInstruction, Text: text}
	}
	command := m[1]
	args, err := parseArgs(m[2], line)
	if err != nil {
		return history.Instruction{}, err
	}

	in := history.Instruction{Line: line}
	switch command {
	case "branch", "checkout":
		if len(args.plain) != 1 {
			return in, &ParseError{Line: line, Kind: KindWrongArgumentCount, Text: text}
		}
		in.Op = history.OpBranch
		if command == "checkout" {
			in.Op = history.OpCheckout
		}
		in.Name = args.plain[0]
		for _, a := range args.named {
			switch a.name {
			case "at":
				in.At = a.value
			case "new_root":
				v, err := strconv.ParseBool(a.value)
				if err != nil {
					return in, &ParseError{Line: line, Kind: KindInvalidArgument, Text: a.name + "=" + a.value}
				}
				in.NewRoot = v
			default:
				return in, &ParseError{Line: line, Kind: KindInvalidArgument, Text: a.name}
			}
		}
	case "commit":
		if len(args.plain) != 1 || len(args.named) != 0 {
			return in, &ParseError{Line: line, Kind: KindWrongArgumentCount, Text: text}
		}
		in.Op = history.OpCommit
		in.Name = args.plain[0]
	case "merge":
		if len(args.plain) < 2 || len(args.named) != 0 {
			return in, &ParseError{Line: line, Kind: KindWrongArgumentCount, Text: text}
		}
		in.Op = history.OpMerge
		in.Name = args.plain[0]
		in.Sources = append([]string(nil), args.plain[1:]...)
	default:
		return in, &ParseError{Line: line, Kind: KindInvalidInstruction, Text: text}
	}
	return in, nil
}

// Parse reads one instruction per line. Blank lines and lines starting
// with '#' are skipped.
func Parse(r io.Reader) ([]history.Instruction, error) {
	var out []history.Instruction
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		in, err := ParseLine(text, line)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ParseString is Parse over a string.
func ParseString(s string) ([]history.Instruction, error) {
	return Parse(strings.NewReader(s))
}

// Format renders instructions in the line language, one per line.
func Format(instructions []history.Instruction) string {
	var b strings.Builder
	for _, in := range instructions {
		b.WriteString(in.String())
		b.WriteByte('\n')
	}
	return b.String()
}
