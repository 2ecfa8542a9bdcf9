// Package value defines the structured datum that flows through a pipeline
// and the cell path resolver used to rewrite a nested location inside it.
//
// A Value is a small tagged union passed by value. Composite payloads (list
// items, record fields) are never modified after construction: every update
// builds a new composite that shares all untouched children with the old
// one, so a value handed to one stage can never change under another.
//
// Failures are values too. An error value carries an *errors.AppError and
// flows down the stream like any other element:
//
//	v := value.Record(span.Unknown,
//	    value.Field{Name: "ok", Value: value.String("yes", span.Unknown)},
//	)
//	path, _ := value.ParseCellPath("ok", span.Unknown)
//	out := value.Apply(v, path, func(old value.Value) value.Value {
//	    return value.Bool(true, old.Span())
//	})
//
// # Cell paths
//
// A CellPath is a sequence of members: a field name selects from a record,
// an integer index selects from a list. The textual form joins members with
// dots ("rows.0.name"); a member made only of digits is an index, and a
// member may be double-quoted to keep dots or digits as a field name.
package value
