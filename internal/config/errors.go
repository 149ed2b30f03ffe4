package config

// ConfigurationError reports required input that was never supplied. It is
// raised before any work starts.
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration: " + e.Msg
}
