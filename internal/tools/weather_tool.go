package tools

import (
	"context"

	"github.com/dileep-u-k/weather-chat/internal/weather"
)

// WeatherFetcher is the slice of the weather client the getWeather tool needs.
type WeatherFetcher interface {
	Fetch(ctx context.Context, location string) weather.Result
}

// WeatherInvocation asks for the current weather at Location.
type WeatherInvocation struct {
	Location string
}

var _ Invocation = WeatherInvocation{}

func (WeatherInvocation) Tool() Name    { return NameGetWeather }
func (WeatherInvocation) isInvocation() {}

// WeatherDeclaration is the schema advertised to the model for getWeather.
var WeatherDeclaration = NewDeclaration(
	NameGetWeather,
	"Fetches weather information",
	"location",
	"The location to fetch weather for",
)

func parseWeatherCall(args map[string]any) (Invocation, error) {
	location, err := stringArg(NameGetWeather, args, "location")
	if err != nil {
		return nil, err
	}
	return WeatherInvocation{Location: location}, nil
}

func runWeather(ctx context.Context, fetcher WeatherFetcher, inv WeatherInvocation) Output {
	result := fetcher.Fetch(ctx, inv.Location)
	if result.Failed() {
		return Output{Payload: result.Payload(), Error: result.Error}
	}
	return Output{Payload: result.Payload()}
}
