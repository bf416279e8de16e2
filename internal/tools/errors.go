package tools

import "fmt"

// Kind classifies a tool failure. The model-facing message keeps the
// kind visible so a calling agent can correct its next attempt.
type Kind string

const (
	KindMissingArgument  Kind = "MissingArgument"
	KindInvalidArgument  Kind = "InvalidArgument"
	KindInvalidVoice     Kind = "InvalidVoice"
	KindSynthesisEmpty   Kind = "SynthesisEmpty"
	KindSynthesisFailed  Kind = "SynthesisFailed"
	KindStorage          Kind = "Storage"
	KindInvalidReference Kind = "InvalidReference"
	KindMalformedURI     Kind = "MalformedURI"
	KindMethodNotFound   Kind = "MethodNotFound"
)

// JSON-RPC-style codes for the dispatch boundary.
const (
	CodeInvalidParams  = -32602
	CodeMethodNotFound = -32601
	CodeServerError    = -32000
)

// Error is the uniform failure envelope every tool operation returns.
// It is the only error type that crosses the dispatch boundary; raw
// collaborator errors never reach the client.
type Error struct {
	Kind    Kind
	Message string
}

// Error implements the error interface.
// Uses pointer receiver to avoid copying and to keep nil checks cheap.
func (e *Error) Error() string {
	if e == nil {
		return "<nil ToolError>"
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

// Code maps the kind onto its JSON-RPC error class: argument problems
// are invalid-params, an unknown method is method-not-found, and
// everything else is a generic server error.
func (e *Error) Code() int {
	switch e.Kind {
	case KindMissingArgument, KindInvalidArgument:
		return CodeInvalidParams
	case KindMethodNotFound:
		return CodeMethodNotFound
	default:
		return CodeServerError
	}
}

// Errorf builds an Error with a formatted message.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}
