// Package weather fetches current conditions from OpenWeatherMap, caching
// results per location and retrying transient provider failures.
package weather

// FallbackErrorMessage is reported when the provider gives no usable message.
const FallbackErrorMessage = "Unable to fetch weather data at the moment."

// Result is the compact weather record handed to the model. Exactly one of
// the success fields or Error is meaningful; check Failed first.
type Result struct {
	Description string  `json:"description,omitempty"`
	Temperature float64 `json:"temperature"`
	Location    string  `json:"location,omitempty"`
	Error       string  `json:"error,omitempty"`
}

// Failed reports whether r is the error variant.
func (r Result) Failed() bool {
	return r.Error != ""
}

// Payload renders r as the generic map sent back to the model.
func (r Result) Payload() map[string]any {
	if r.Failed() {
		return map[string]any{"error": r.Error}
	}
	return map[string]any{
		"description": r.Description,
		"temperature": r.Temperature,
		"location":    r.Location,
	}
}

// providerResponse mirrors the subset of the OpenWeatherMap payload we read.
type providerResponse struct {
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Name string `json:"name"`
}

// providerError is the body OpenWeatherMap returns alongside 4xx/5xx codes.
type providerError struct {
	Message string `json:"message"`
}
