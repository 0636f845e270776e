package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"
)

// SlotFrame holds the fill state of one action's fields, scoped to its
// ActionKind schema. Completeness is always recomputed from the values,
// never cached.
type SlotFrame struct {
	Kind   ActionKind        `json:"kind"`
	Values map[string]string `json:"values"`
}

// NewSlotFrame creates an empty frame for an ActionKind.
func NewSlotFrame(kind ActionKind) *SlotFrame {
	return &SlotFrame{Kind: kind, Values: make(map[string]string)}
}

// Get returns a field value and whether it is filled.
func (f *SlotFrame) Get(name string) (string, bool) {
	v, ok := f.Values[name]
	return v, ok
}

// Merge overwrites fields present in incoming, keeping all others. Unknown
// fields for the schema are dropped and reported back, never accepted.
// Empty incoming values are ignored so a merge can never partially clear a
// filled field.
func (f *SlotFrame) Merge(incoming map[string]string) (dropped []string) {
	schema, ok := SchemaFor(f.Kind)
	if !ok {
		return nil
	}
	for name, value := range incoming {
		if value == "" {
			continue
		}
		if _, known := schema.Field(name); !known {
			dropped = append(dropped, name)
			continue
		}
		f.Values[name] = normalize(value)
	}
	sort.Strings(dropped)
	return dropped
}

// MissingFields returns the unfilled required fields in declared schema
// order, so prompting is deterministic regardless of input order.
func (f *SlotFrame) MissingFields() []string {
	schema, ok := SchemaFor(f.Kind)
	if !ok {
		return nil
	}
	var missing []string
	for _, spec := range schema.Fields {
		if !spec.Required {
			continue
		}
		if _, filled := f.Values[spec.Name]; !filled {
			missing = append(missing, spec.Name)
		}
	}
	return missing
}

// Complete reports whether every required field is filled.
func (f *SlotFrame) Complete() bool {
	return len(f.MissingFields()) == 0
}

// Dates returns the parsed start and end dates of a leave frame.
func (f *SlotFrame) Dates() (start, end time.Time, err error) {
	s, _ := f.Get("start_date")
	e, _ := f.Get("end_date")
	start, err = time.Parse("2006-01-02", s)
	if err != nil {
		return start, end, fmt.Errorf("invalid start_date %q: %w", s, err)
	}
	end, err = time.Parse("2006-01-02", e)
	if err != nil {
		return start, end, fmt.Errorf("invalid end_date %q: %w", e, err)
	}
	return start, end, nil
}

// Fingerprint hashes the action kind plus the normalized slot values.
// Identical requests produce identical fingerprints, which is what the
// duplicate-commit suppression keys on.
func (f *SlotFrame) Fingerprint() string {
	keys := make([]string, 0, len(f.Values))
	for k := range f.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(string(f.Kind))
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(normalize(f.Values[k]))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Clone returns a deep copy of the frame.
func (f *SlotFrame) Clone() *SlotFrame {
	cp := NewSlotFrame(f.Kind)
	for k, v := range f.Values {
		cp.Values[k] = v
	}
	return cp
}

func normalize(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}
