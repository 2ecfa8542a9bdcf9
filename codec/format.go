package codec

import (
	"fmt"
	"strings"

	"github.com/kbukum/rowpipe/errors"
)

// Format names a wire format.
type Format string

const (
	// FormatYAML is a stream of YAML documents. Plain JSON documents are
	// accepted on input since JSON is a subset of YAML.
	FormatYAML Format = "yaml"
	// FormatJSON is one JSON document per line.
	FormatJSON Format = "json"
	// FormatLines is one string value per line of text.
	FormatLines Format = "lines"
	// FormatText is a compact single-line rendering, output only.
	FormatText Format = "text"
)

// InputFormats lists the formats a Decoder accepts.
var InputFormats = []Format{FormatYAML, FormatJSON, FormatLines}

// OutputFormats lists the formats an Encoder writes.
var OutputFormats = []Format{FormatYAML, FormatJSON, FormatText}

// ParseFormat matches name case-insensitively against allowed.
func ParseFormat(name string, allowed []Format) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(name)))
	for _, a := range allowed {
		if f == a {
			return f, nil
		}
	}
	names := make([]string, len(allowed))
	for i, a := range allowed {
		names[i] = string(a)
	}
	return "", errors.InvalidInput("format", fmt.Sprintf("unknown format %q, expected one of: %s", name, strings.Join(names, ", ")))
}
