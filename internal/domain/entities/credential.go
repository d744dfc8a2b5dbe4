package entities

import "strings"

const redacted = "[REDACTED]"

// Credential is a model-access secret supplied with a request.
// It prints as [REDACTED] through fmt, %v, %+v, %#v and JSON.
type Credential struct {
	value string
}

// NewCredential wraps a raw secret. The value is kept verbatim; surrounding
// whitespace only matters for IsEmpty.
func NewCredential(raw string) Credential {
	return Credential{value: raw}
}

// Reveal returns the raw secret for handing to the model client
func (c Credential) Reveal() string {
	return c.value
}

// IsEmpty returns true if no secret, or only whitespace, was supplied
func (c Credential) IsEmpty() bool {
	return strings.TrimSpace(c.value) == ""
}

// String implements fmt.Stringer
func (c Credential) String() string {
	if c.IsEmpty() {
		return ""
	}
	return redacted
}

// GoString implements fmt.GoStringer
func (c Credential) GoString() string {
	return c.String()
}

// MarshalJSON never emits the secret
func (c Credential) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

// Scrub replaces any occurrence of the secret in s, with or without its surrounding whitespace
func (c Credential) Scrub(s string) string {
	if c.IsEmpty() {
		return s
	}
	s = strings.ReplaceAll(s, c.value, redacted)
	if trimmed := strings.TrimSpace(c.value); trimmed != c.value {
		s = strings.ReplaceAll(s, trimmed, redacted)
	}
	return s
}
