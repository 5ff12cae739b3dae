// Package extravars validates and repairs caller-supplied extra_vars
// payloads before they are forwarded to the automation controller.
package extravars

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"aapmcp/pkg/logging"
)

// objectObjectPrefix is the one documented contamination pattern: JavaScript
// callers that stringify an object naively produce "[object Object]" glued
// in front of the real JSON body. Nothing else is repaired; any other text
// that fails strict parsing is the caller's error to fix.
const objectObjectPrefix = "[object Object]"

// ValidationError reports malformed extra_vars input. The offending text is
// carried so the caller can see exactly what was rejected.
type ValidationError struct {
	Input  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid extra_vars: %s. Received: %q", e.Reason, e.Input)
}

// IsValidation checks if an error is or wraps a ValidationError.
func IsValidation(err error) bool {
	var valErr *ValidationError
	return errors.As(err, &valErr)
}

// Normalize parses a raw extra_vars string into a JSON object. Empty or
// whitespace-only input yields nil (no extra vars). The documented
// "[object Object]" prefix is stripped before parsing; everything else must
// be a strict JSON object or the call fails before any network traffic.
func Normalize(raw string) (map[string]interface{}, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return nil, nil
	}

	if strings.HasPrefix(cleaned, objectObjectPrefix) {
		cleaned = strings.TrimSpace(strings.TrimPrefix(cleaned, objectObjectPrefix))
		logging.Debug("ExtraVars", "Stripped %q prefix from extra_vars", objectObjectPrefix)
		if cleaned == "" {
			return nil, nil
		}
	}

	var parsed map[string]interface{}
	decoder := json.NewDecoder(strings.NewReader(cleaned))
	decoder.UseNumber()
	if err := decoder.Decode(&parsed); err != nil {
		return nil, &ValidationError{Input: raw, Reason: err.Error()}
	}

	// Reject trailing garbage after the object ("{}{}", "{} extra").
	if decoder.More() {
		return nil, &ValidationError{Input: raw, Reason: "trailing data after JSON object"}
	}

	return parsed, nil
}
