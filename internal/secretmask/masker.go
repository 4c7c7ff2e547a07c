// Package secretmask redacts known secret values from anything logged or
// displayed, without ever touching the values an action actually receives.
package secretmask

import (
	"encoding/json"
	"strings"
)

const redacted = "****"

// Masker replaces known secret values with a redaction marker in text or
// structured JSON values.
type Masker struct {
	secrets []string
}

// New builds a Masker over the given secret values, typically the list
// collected by varsub.Substitute during host-side substitution. Empty
// values are ignored so an unresolved placeholder can never turn into a
// mask-everything wildcard.
func New(secrets []string) Masker {
	nonEmpty := make([]string, 0, len(secrets))
	for _, s := range secrets {
		if s != "" {
			nonEmpty = append(nonEmpty, s)
		}
	}
	return Masker{secrets: nonEmpty}
}

// MaskText replaces every occurrence of a known secret in text.
func (m Masker) MaskText(text string) string {
	masked := text
	for _, secret := range m.secrets {
		masked = strings.ReplaceAll(masked, secret, redacted)
	}
	return masked
}

// MaskValue round-trips value through JSON, masks the known secrets in the
// serialized form, and returns the redacted value. It returns the original
// value unchanged if it cannot be marshaled or the masked text no longer
// parses as JSON.
func (m Masker) MaskValue(value interface{}) interface{} {
	raw, err := json.Marshal(value)
	if err != nil {
		return value
	}

	masked := m.MaskText(string(raw))

	var out interface{}
	if err := json.Unmarshal([]byte(masked), &out); err != nil {
		return value
	}
	return out
}

// HasSecrets reports whether the masker was built with any secret values.
func (m Masker) HasSecrets() bool {
	return len(m.secrets) > 0
}
