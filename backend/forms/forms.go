// Package forms validates the contact and registration forms of the site.
package forms

import (
	"encoding/hex"
	"sort"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// FailureNotice is shown when a submission could not be completed.
const FailureNotice = "提交失败，请稍后重试"

// FieldErrors maps a form field name to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add keeps the first failure reported for a field.
func (e FieldErrors) add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

func (e FieldErrors) err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// Option is one entry of a select control.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func hasOption(options []Option, v string) bool {
	for _, o := range options {
		if o.Value == v {
			return true
		}
	}
	return false
}

// Fingerprint identifies a piece of contact data in logs without storing it.
func Fingerprint(s string) string {
	sum := blake2b.Sum256([]byte(strings.TrimSpace(s)))
	return hex.EncodeToString(sum[:8])
}
