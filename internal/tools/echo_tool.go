package tools

// EchoInvocation asks for Message to be returned unchanged.
type EchoInvocation struct {
	Message string
}

var _ Invocation = EchoInvocation{}

func (EchoInvocation) Tool() Name    { return NameEcho }
func (EchoInvocation) isInvocation() {}

// EchoDeclaration is the schema advertised to the model for echo.
var EchoDeclaration = NewDeclaration(
	NameEcho,
	"Echoes back the provided message",
	"message",
	"The message to echo back",
)

// EchoResultKey is the payload field carrying the echoed message.
const EchoResultKey = "result"

func parseEchoCall(args map[string]any) (Invocation, error) {
	message, err := stringArg(NameEcho, args, "message")
	if err != nil {
		return nil, err
	}
	return EchoInvocation{Message: message}, nil
}

func runEcho(inv EchoInvocation) Output {
	return Output{Payload: map[string]any{EchoResultKey: inv.Message}}
}
