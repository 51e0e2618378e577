package config

import "fmt"

// ConfigError kinds.
const (
	KindMissingCredential = "missing_credential"
	KindUnknownProvider   = "unknown_provider"
	KindInvalid           = "invalid"
)

// ConfigError reports a configuration problem detected before any work starts.
type ConfigError struct {
	Kind  string
	Field string
	Err   error
}

func (e *ConfigError) Error() (msg string) {
	switch {
	case e.Field != "" && e.Err != nil:
		msg = fmt.Sprintf("config %s (%s): %v", e.Kind, e.Field, e.Err)
	case e.Err != nil:
		msg = fmt.Sprintf("config %s: %v", e.Kind, e.Err)
	case e.Field != "":
		msg = fmt.Sprintf("config %s: %s", e.Kind, e.Field)
	default:
		msg = "config " + e.Kind
	}
	return msg
}

func (e *ConfigError) Unwrap() (err error) {
	err = e.Err
	return err
}
