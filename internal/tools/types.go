// Package tools defines the functions the model may call, the schemas
// advertised to the model for them, and their validation and execution.
//
// The set of tools is closed: every call is parsed into one of the typed
// Invocation variants before anything runs, so an unknown name or a bad
// argument is rejected up front.
package tools

import "errors"

// Name identifies a supported tool.
type Name string

const (
	NameGetWeather Name = "getWeather"
	NameEcho       Name = "echo"
)

// Names lists every supported tool in declaration order.
var Names = []Name{NameGetWeather, NameEcho}

// Supported reports whether name is one of the known tools.
func Supported(name string) bool {
	for _, n := range Names {
		if string(n) == name {
			return true
		}
	}
	return false
}

var (
	// ErrUnsupportedFunction is returned for a call naming an unknown tool.
	ErrUnsupportedFunction = errors.New("unsupported function")
	// ErrInvalidArguments is returned when a call's arguments fail validation.
	ErrInvalidArguments = errors.New("invalid function call arguments")
)

// Declaration describes a tool to the model: its name, what it does and the
// JSON Schema of its arguments. Declarations are built once and never mutated.
type Declaration struct {
	Name        Name       `json:"name"`
	Description string     `json:"description"`
	Parameters  JSONSchema `json:"parameters"`
}

// JSONSchema is the subset of JSON Schema used for tool parameters.
type JSONSchema struct {
	// Type is "object", "string", "number", "integer" or "boolean".
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Properties  map[string]*JSONSchema `json:"properties,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// Call is a request from the model to run a tool. It lives for one query.
type Call struct {
	Name string         `json:"name"`
	Args map[string]any `json:"args"`
}

// Output is what a tool hands back. Payload goes to the model as the
// function response; a non-empty Error means the tool failed.
type Output struct {
	Payload map[string]any
	Error   string
}

// Failed reports whether the tool execution failed.
func (o Output) Failed() bool {
	return o.Error != ""
}

// NewDeclaration builds a declaration for a tool taking a single required
// string argument, which is the shape of every tool here.
func NewDeclaration(name Name, description, argName, argDescription string) Declaration {
	return Declaration{
		Name:        name,
		Description: description,
		Parameters: JSONSchema{
			Type: "object",
			Properties: map[string]*JSONSchema{
				argName: {
					Type:        "string",
					Description: argDescription,
				},
			},
			Required: []string{argName},
		},
	}
}
