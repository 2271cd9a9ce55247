package schema

import "fmt"

// ConfigError reports invalid schema configuration (bad limits, duplicate
// names, missing element types). It is raised while the schema is being
// built and is fatal to startup; it is never produced during request
// resolution.
type ConfigError struct {
	Connection string // connection or type name, empty if not applicable
	Reason     string
}

func (e *ConfigError) Error() string {
	if e.Connection == "" {
		return fmt.Sprintf("schema configuration: %s", e.Reason)
	}
	return fmt.Sprintf("schema configuration for %q: %s", e.Connection, e.Reason)
}

func configErrorf(connection, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Connection: connection, Reason: fmt.Sprintf(format, args...)}
}

// ArgumentError reports an invalid request argument (negative offset,
// unknown sort field). It surfaces to the client through the GraphQL
// error list and always names the offending argument.
type ArgumentError struct {
	Argument string
	Reason   string
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Argument, e.Reason)
}

func argumentErrorf(argument, format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{Argument: argument, Reason: fmt.Sprintf(format, args...)}
}
