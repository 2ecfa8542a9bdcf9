package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Conversion errors
const (
	// ErrCodeCantConvert indicates a value could not be converted to the requested type.
	ErrCodeCantConvert ErrorCode = "CANT_CONVERT"
	// ErrCodeUnsupportedInput indicates a command does not accept the input variant.
	ErrCodeUnsupportedInput ErrorCode = "UNSUPPORTED_INPUT"
	// ErrCodePipelineMismatch indicates the pipeline delivered a value of the wrong type.
	ErrCodePipelineMismatch ErrorCode = "PIPELINE_MISMATCH"
	// ErrCodeTypeMismatch indicates an argument had the wrong type.
	ErrCodeTypeMismatch ErrorCode = "TYPE_MISMATCH"
)

// Cell path errors
const (
	// ErrCodeColumnNotFound indicates a record has no field with the requested name.
	ErrCodeColumnNotFound ErrorCode = "COLUMN_NOT_FOUND"
	// ErrCodeAccessBeyondEnd indicates a list index is out of range.
	ErrCodeAccessBeyondEnd ErrorCode = "ACCESS_BEYOND_END"
	// ErrCodeIncompatiblePathAccess indicates a path member was applied to the wrong container shape.
	ErrCodeIncompatiblePathAccess ErrorCode = "INCOMPATIBLE_PATH_ACCESS"
)

// Caller input errors
const (
	// ErrCodeInvalidInput indicates the caller supplied invalid arguments.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingArgument indicates a required argument was not supplied.
	ErrCodeMissingArgument ErrorCode = "MISSING_ARGUMENT"
	// ErrCodeInvalidFormat indicates input data could not be decoded.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal failure.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// structuralCodes lists codes that stop a pipeline before it starts rather
// than travelling inside it as error values.
var structuralCodes = map[ErrorCode]bool{
	ErrCodeTypeMismatch:    true,
	ErrCodeInvalidInput:    true,
	ErrCodeMissingArgument: true,
	ErrCodeInvalidFormat:   true,
	ErrCodeInternal:        true,
}

// IsStructuralCode returns true if the code describes a failure of the
// pipeline itself rather than of a single element.
func IsStructuralCode(code ErrorCode) bool {
	return structuralCodes[code]
}
