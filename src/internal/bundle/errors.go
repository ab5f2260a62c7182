package bundle

import (
	"fmt"

	"github.com/shale-scm/shale/src/internal/errors"
)

// ConfigError reports part configuration that the protocol cannot express,
// such as an unrecognized part type or a duplicate parameter key.  It is
// always detected before any chunk is produced.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "invalid part configuration: " + e.Reason
}

// IsConfigError returns true if err is a ConfigError.
func IsConfigError(err error) bool {
	var e *ConfigError
	return errors.As(err, &e)
}

func configErrorf(format string, args ...interface{}) error {
	return errors.WithStack(&ConfigError{Reason: fmt.Sprintf(format, args...)})
}

// EncodingError reports a payload buffer that cannot be framed as a chunk.
type EncodingError struct {
	Reason string
}

func (e *EncodingError) Error() string {
	return "cannot encode chunk: " + e.Reason
}

// IsEncodingError returns true if err is an EncodingError.
func IsEncodingError(err error) bool {
	var e *EncodingError
	return errors.As(err, &e)
}

func encodingErrorf(format string, args ...interface{}) error {
	return errors.WithStack(&EncodingError{Reason: fmt.Sprintf(format, args...)})
}
