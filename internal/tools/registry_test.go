package tools

import (
	"context"
	"testing"

	"github.com/dileep-u-k/weather-chat/internal/weather"

	"github.com/stretchr/testify/require"
)

type stubWeather struct {
	result    weather.Result
	locations []string
}

func (s *stubWeather) Fetch(_ context.Context, location string) weather.Result {
	s.locations = append(s.locations, location)
	return s.result
}

func TestParseCall(t *testing.T) {
	tests := []struct {
		name    string
		call    Call
		want    Invocation
		wantErr error
	}{
		{
			name: "weather",
			call: Call{Name: "getWeather", Args: map[string]any{"location": "Paris"}},
			want: WeatherInvocation{Location: "Paris"},
		},
		{
			name: "echo",
			call: Call{Name: "echo", Args: map[string]any{"message": "hi"}},
			want: EchoInvocation{Message: "hi"},
		},
		{
			name:    "weather missing location",
			call:    Call{Name: "getWeather", Args: map[string]any{}},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "weather nil args",
			call:    Call{Name: "getWeather"},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "weather empty location",
			call:    Call{Name: "getWeather", Args: map[string]any{"location": ""}},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "weather non-string location",
			call:    Call{Name: "getWeather", Args: map[string]any{"location": 42.0}},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "echo missing message",
			call:    Call{Name: "echo", Args: map[string]any{"location": "Paris"}},
			wantErr: ErrInvalidArguments,
		},
		{
			name:    "unknown tool",
			call:    Call{Name: "deleteAccount", Args: map[string]any{"id": "1"}},
			wantErr: ErrUnsupportedFunction,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCall(tt.call)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				require.Nil(t, got)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, Name(tt.call.Name), got.Tool())
		})
	}
}

func TestInvokeEchoReturnsMessageUnchanged(t *testing.T) {
	reg, err := NewRegistry(&stubWeather{})
	require.NoError(t, err)

	out, err := reg.Invoke(context.Background(), EchoInvocation{Message: "hi"})
	require.NoError(t, err)
	require.False(t, out.Failed())
	require.Equal(t, map[string]any{EchoResultKey: "hi"}, out.Payload)
}

func TestInvokeWeatherDelegates(t *testing.T) {
	stub := &stubWeather{result: weather.Result{Description: "sunny", Temperature: 25, Location: "Paris"}}
	reg, err := NewRegistry(stub)
	require.NoError(t, err)

	out, err := reg.Invoke(context.Background(), WeatherInvocation{Location: "Paris"})
	require.NoError(t, err)
	require.False(t, out.Failed())
	require.Equal(t, []string{"Paris"}, stub.locations)
	require.Equal(t, "sunny", out.Payload["description"])
	require.Equal(t, 25.0, out.Payload["temperature"])
}

func TestInvokeWeatherFailure(t *testing.T) {
	stub := &stubWeather{result: weather.Result{Error: "city not found"}}
	reg, err := NewRegistry(stub)
	require.NoError(t, err)

	out, err := reg.Invoke(context.Background(), WeatherInvocation{Location: "Atlantis"})
	require.NoError(t, err)
	require.True(t, out.Failed())
	require.Equal(t, "city not found", out.Error)
}

func TestDeclarations(t *testing.T) {
	reg, err := NewRegistry(&stubWeather{})
	require.NoError(t, err)

	decls := reg.Declarations()
	require.Len(t, decls, reg.ToolCount())
	require.Equal(t, NameGetWeather, decls[0].Name)
	require.Equal(t, []string{"location"}, decls[0].Parameters.Required)
	require.Equal(t, "string", decls[0].Parameters.Properties["location"].Type)
	require.Equal(t, NameEcho, decls[1].Name)
	require.Equal(t, []string{"message"}, decls[1].Parameters.Required)

	for _, d := range decls {
		require.True(t, Supported(string(d.Name)))
	}
	require.False(t, Supported("deleteAccount"))
}

func TestNewRegistryRequiresWeather(t *testing.T) {
	_, err := NewRegistry(nil)
	require.Error(t, err)
}
