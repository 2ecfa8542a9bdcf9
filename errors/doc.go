// Package errors provides the error descriptor shared by the pipeline.
//
// An AppError travels two ways. Inside a stream it is the payload of an
// error value and describes why a single element failed. Outside a stream it
// is returned as a plain Go error when a pipeline cannot be built at all, for
// example when a command receives an argument of the wrong type.
package errors
