package codes

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// GeneralSupportError is the fallback code every lookup table must carry.
const GeneralSupportError = "GENERAL_SUPPORT_ERROR"

// ErrMissingFallback is returned when a table lacks the GENERAL_SUPPORT_ERROR entry.
var ErrMissingFallback = errors.New("lookup table missing " + GeneralSupportError + " entry")

// Severity classifies a message as blocking or recoverable.
type Severity string

const (
	// SeverityWarning marks recoverable, non-blocking messages.
	SeverityWarning Severity = "warning"
	// SeverityError marks blocking messages.
	SeverityError Severity = "error"
)

// IsWarning reports whether s is the warning severity.
func (s Severity) IsWarning() bool { return s == SeverityWarning }

// Entry is one canned user-facing message.
type Entry struct {
	Message string   `json:"message" yaml:"message"`
	Type    Severity `json:"type" yaml:"type"`
}

// Table maps error codes to entries. It is read-only once built, so a single
// instance can be shared across goroutines.
type Table struct {
	entries map[string]Entry
}

// NewTable copies entries into a validated table.
func NewTable(entries map[string]Entry) (*Table, error) {
	fallback, ok := entries[GeneralSupportError]
	if !ok {
		return nil, ErrMissingFallback
	}
	if strings.TrimSpace(fallback.Message) == "" {
		return nil, fmt.Errorf("%s entry has empty message", GeneralSupportError)
	}
	copied := make(map[string]Entry, len(entries))
	for code, entry := range entries {
		if code == "" {
			return nil, errors.New("lookup table contains empty code")
		}
		if entry.Type == "" {
			entry.Type = SeverityError
		}
		copied[code] = entry
	}
	return &Table{entries: copied}, nil
}

// Lookup returns the entry registered for code.
func (t *Table) Lookup(code string) (Entry, bool) {
	if t == nil {
		return Entry{}, false
	}
	e, ok := t.entries[code]
	return e, ok
}

// Resolve returns the entry for code, or the fallback entry on a miss.
func (t *Table) Resolve(code string) Entry {
	if e, ok := t.Lookup(code); ok {
		return e
	}
	return t.Fallback()
}

// Fallback returns the GENERAL_SUPPORT_ERROR entry.
func (t *Table) Fallback() Entry {
	if t == nil {
		return Entry{Type: SeverityError}
	}
	return t.entries[GeneralSupportError]
}

// Codes lists registered codes in lexical order.
func (t *Table) Codes() []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.entries))
	for code := range t.entries {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of registered codes.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
