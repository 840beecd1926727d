package script

import "fmt"

// ErrorKind classifies a parse failure.
type ErrorKind int

const (
	KindInvalidInstruction ErrorKind = iota
	KindWrongArgumentCount
	KindInvalidArgument
	KindPlainAfterNamed
)

// String returns a human-readable description of the kind.
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidInstruction:
		return "invalid instruction"
	case KindWrongArgumentCount:
		return "wrong number of arguments"
	case KindInvalidArgument:
		return "invalid argument"
	case KindPlainAfterNamed:
		return "plain argument after named argument"
	default:
		return "parse error"
	}
}

// ParseError reports a malformed line.
type ParseError struct {
	Line int
	Kind ErrorKind
	// Text is the offending line or argument.
	Text string
}

func (e *ParseError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("%s on line %d", e.Kind, e.Line)
	}
	return fmt.Sprintf("%s on line %d: %s", e.Kind, e.Line, e.Text)
}
