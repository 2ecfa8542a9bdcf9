package version

import (
	"time"

	"github.com/kbukum/rowpipe/span"
	"github.com/kbukum/rowpipe/value"
)

// Record returns the version information as a record value. commands
// lists the pipeline commands compiled into the binary.
func (i *Info) Record(commands []string) value.Value {
	u := span.Unknown
	names := make([]value.Value, len(commands))
	for n, c := range commands {
		names[n] = value.String(c, u)
	}
	built := value.Nothing(u)
	if !i.BuildTime.IsZero() {
		built = value.String(i.BuildTime.Format(time.RFC3339), u)
	}
	return value.Record(u,
		value.Field{Name: "version", Value: value.String(i.Version, u)},
		value.Field{Name: "commit", Value: value.String(i.Commit, u)},
		value.Field{Name: "branch", Value: value.String(i.Branch, u)},
		value.Field{Name: "build_time", Value: built},
		value.Field{Name: "go_version", Value: value.String(i.GoVersion, u)},
		value.Field{Name: "release", Value: value.Bool(i.Release, u)},
		value.Field{Name: "dirty", Value: value.Bool(i.Dirty, u)},
		value.Field{Name: "commands", Value: value.List(names, u)},
	)
}
