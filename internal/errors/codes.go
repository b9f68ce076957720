package errors

// Common error codes
const (
	// System errors
	ErrInternal        ErrorCode = "internal_error"
	ErrInvalidArgument ErrorCode = "invalid_argument"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrInvalidFormat   ErrorCode = "unsupported_format"
	ErrInvalidCommand  ErrorCode = "invalid_command"
	ErrInvalidTimeout  ErrorCode = "invalid_timeout"

	// Initialization errors
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrShutdownFailed ErrorCode = "shutdown_failed"

	// Parse errors
	ErrStructuralMismatch ErrorCode = "structural_mismatch"
	ErrDuplicateKey       ErrorCode = "duplicate_key"
	ErrNumericCoercion    ErrorCode = "numeric_coercion"
	ErrInvalidUnit        ErrorCode = "invalid_unit"

	// Collaborator errors
	ErrCommandFailed ErrorCode = "command_failed"
	ErrReadInput     ErrorCode = "read_input_failed"
	ErrWriteOutput   ErrorCode = "write_output_failed"

	// Operation errors
	ErrOperationFailed ErrorCode = "operation_failed"
	ErrTimeout         ErrorCode = "operation_timeout"
)

// Common error messages
var errorMessages = map[ErrorCode]string{
	ErrInternal:           "Internal error occurred",
	ErrInvalidArgument:    "Invalid argument provided",
	ErrInvalidConfig:      "Invalid configuration",
	ErrBindFlags:          "Failed to bind flags",
	ErrReadConfig:         "Failed to read config file",
	ErrInvalidLogLevel:    "Invalid log level",
	ErrInvalidFormat:      "Unsupported output format",
	ErrInvalidCommand:     "Invalid command",
	ErrInvalidTimeout:     "Invalid timeout value",
	ErrInitFailed:         "Initialization failed",
	ErrShutdownFailed:     "Shutdown failed",
	ErrStructuralMismatch: "Tool output does not match the expected format",
	ErrDuplicateKey:       "Duplicate key in tool output",
	ErrNumericCoercion:    "Value is not numeric",
	ErrInvalidUnit:        "Unrecognized temperature unit",
	ErrCommandFailed:      "External command failed",
	ErrReadInput:          "Failed to read input",
	ErrWriteOutput:        "Failed to write output",
	ErrOperationFailed:    "Operation failed",
	ErrTimeout:            "Operation timed out",
}

// GetErrorMessage returns the message for a given error code
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
