package types

import "fmt"

// FormatError reports malformed CaboCha input. Line is 1-based, 0 when the
// violation was found by a whole-tree check.
type FormatError struct {
	Line int
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid format at line %d: %s", e.Line, e.Msg)
	}
	return "invalid format: " + e.Msg
}

// UnsupportedFormatError is returned for output formats without a renderer
type UnsupportedFormatError struct {
	Format Format
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("output format %v is not implemented", e.Format)
}

// ConfigurationError reports an unknown layer, format or option value
type ConfigurationError struct {
	Msg string
}

func (e *ConfigurationError) Error() string {
	return "configuration error: " + e.Msg
}
