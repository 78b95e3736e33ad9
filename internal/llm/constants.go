package llm

// Defaults shared by the model client and the server configuration.
const (
	DefaultModelID         = "gemini-1.5-flash"
	DefaultMaxOutputTokens = 4096
)
