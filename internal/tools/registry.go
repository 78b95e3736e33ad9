package tools

import (
	"context"
	"errors"
	"fmt"
)

// Registry executes validated invocations. It holds the dependencies the
// tools need and is safe for concurrent use.
type Registry struct {
	weather WeatherFetcher
}

// NewRegistry builds a registry backed by the given weather fetcher.
func NewRegistry(weather WeatherFetcher) (*Registry, error) {
	if weather == nil {
		return nil, errors.New("weather fetcher cannot be nil")
	}
	return &Registry{weather: weather}, nil
}

// Declarations returns the schemas of every tool, in declaration order.
func (r *Registry) Declarations() []Declaration {
	return []Declaration{WeatherDeclaration, EchoDeclaration}
}

// Invoke runs inv. Tool-level failures are reported in Output.Error; the
// returned error is reserved for invocations the registry cannot handle.
func (r *Registry) Invoke(ctx context.Context, inv Invocation) (Output, error) {
	switch v := inv.(type) {
	case WeatherInvocation:
		return runWeather(ctx, r.weather, v), nil
	case EchoInvocation:
		return runEcho(v), nil
	default:
		return Output{}, fmt.Errorf("%w: %T", ErrUnsupportedFunction, inv)
	}
}

// ToolCount returns the number of registered tools.
func (r *Registry) ToolCount() int {
	return len(Names)
}
