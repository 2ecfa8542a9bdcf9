// Package codec moves values in and out of byte streams.
//
// A Decoder reads YAML documents, JSON lines or plain text lines and
// produces one value per document or line; it implements
// pipeline.Iterator so it can feed a pipeline directly. An Encoder writes
// values back out as YAML, JSON lines or a compact text form.
//
// Source positions survive decoding: every value carries the line and
// column it was read from, and error values carry the span of the element
// that produced them.
package codec
