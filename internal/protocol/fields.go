package protocol

import (
	"net/url"
	"strings"
)

// Fields is a flat payment message: PSP field name to value. Keys are
// case-sensitive names defined by the PSP.
type Fields map[string]string

func (f Fields) Get(name string) string {
	return f[name]
}

func (f Fields) Has(name string) bool {
	_, ok := f[name]
	return ok
}

func (f Fields) Clone() Fields {
	out := make(Fields, len(f))
	for k, v := range f {
		out[k] = v
	}
	return out
}

// FieldsFromValues flattens decoded query or form parameters into a
// Fields map. The PSP never sends repeated parameters, so only the
// first value of each key is kept.
func FieldsFromValues(values url.Values) Fields {
	fields := make(Fields, len(values))
	for name, vals := range values {
		if len(vals) > 0 {
			fields[name] = vals[0]
		}
	}
	return fields
}

// FormField is one hidden input of the payment form POSTed to the HPP.
type FormField struct {
	Type  string `json:"type"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

var lineBreaks = strings.NewReplacer("\r", "", "\n", "")

// SanitizeValue makes a value safe for embedding as an HTML attribute
// value: line breaks are stripped and surrounding whitespace trimmed.
func SanitizeValue(value string) string {
	return strings.TrimSpace(lineBreaks.Replace(value))
}

func hasAnyPrefix(name string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}
