// Package validation checks configuration and command arguments before a
// pipeline is built. Every failure is reported as an INVALID_INPUT
// *errors.AppError, which puts it in the structural tier: nothing is pulled
// from the input once validation fails.
//
// # Struct Tag Validation
//
//	type Output struct {
//	    Format string `validate:"oneof=yaml json text"`
//	}
//	err := validation.Validate(out)
//
// # Programmatic Validation
//
//	v := validation.New()
//	v.NonNegative("row", row).Custom(len(rest) == 0, "rest", "cannot be combined with a range")
//	if err := v.Validate(); err != nil { ... }
package validation
