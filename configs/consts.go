package configs

const (
	// Environment variable naming the configuration file.
	TagCustomConfig = `TABLEHINT_CONFIG`

	DefaultOutput     = "display"
	DefaultMemorySize = 32

	Version = "0.1.0"
)

// Outputs accepted by the output key.
var Outputs = []string{"print", "display", "debug", "info", "warning", "off"}

// CodeTemplate wraps a single source line so it parses as a function body.
const CodeTemplate = `package a

func main(){
	%s
}
`
