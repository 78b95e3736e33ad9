package tools

import "fmt"

// Invocation is a validated call to one specific tool. The concrete types are
// WeatherInvocation and EchoInvocation; the interface is sealed.
type Invocation interface {
	Tool() Name
	isInvocation()
}

// ParseCall validates call and turns it into its typed variant. It returns an
// error wrapping ErrUnsupportedFunction or ErrInvalidArguments.
func ParseCall(call Call) (Invocation, error) {
	switch Name(call.Name) {
	case NameGetWeather:
		return parseWeatherCall(call.Args)
	case NameEcho:
		return parseEchoCall(call.Args)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFunction, call.Name)
	}
}

// stringArg extracts a required, non-empty string argument.
func stringArg(tool Name, args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %s: missing %q", ErrInvalidArguments, tool, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: %q must be a string, got %T", ErrInvalidArguments, tool, key, raw)
	}
	if s == "" {
		return "", fmt.Errorf("%w: %s: %q is empty", ErrInvalidArguments, tool, key)
	}
	return s, nil
}
