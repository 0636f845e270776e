package workflow

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/peoplehub/hrflow/pkg/domain"
)

// decodeSlots coerces the classifier's untrusted slot payload into
// strings. Weak typing tolerates numeric or boolean values from upstream
// JSON; anything that cannot be represented as a scalar is rejected.
func decodeSlots(raw map[string]any) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	decoded := make(map[string]string, len(raw))
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &decoded,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build slot decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("malformed slot payload: %w", err)
	}
	return decoded, nil
}

// checkValues validates decoded slot values against the schema's field
// specs, returning the acceptable subset and the names of rejected
// fields. Unknown fields pass through untouched; the frame merge drops
// those with its own diagnostic.
func checkValues(kind domain.ActionKind, values map[string]string) (valid map[string]string, rejected []string) {
	schema, ok := domain.SchemaFor(kind)
	if !ok {
		return nil, nil
	}

	valid = make(map[string]string, len(values))
	for name, value := range values {
		spec, known := schema.Field(name)
		if !known {
			valid[name] = value
			continue
		}
		if value == "" {
			continue
		}
		if !acceptable(spec, value) {
			rejected = append(rejected, name)
			continue
		}
		valid[name] = value
	}
	sort.Strings(rejected)
	return valid, rejected
}

func acceptable(spec domain.FieldSpec, value string) bool {
	value = strings.ToLower(strings.TrimSpace(value))
	switch spec.Kind {
	case domain.FieldDate:
		if _, err := time.Parse("2006-01-02", value); err != nil {
			return false
		}
	case domain.FieldTime:
		if _, err := time.Parse("15:04", value); err != nil {
			return false
		}
	}
	if len(spec.Enum) > 0 {
		for _, allowed := range spec.Enum {
			if value == allowed {
				return true
			}
		}
		return false
	}
	return true
}

// dateRangeValid reports whether a frame with both dates filled has
// end_date on or after start_date. Frames without both dates pass.
func dateRangeValid(frame *domain.SlotFrame) bool {
	if frame.Kind != domain.ActionLeaveRequest {
		return true
	}
	if _, ok := frame.Get("start_date"); !ok {
		return true
	}
	if _, ok := frame.Get("end_date"); !ok {
		return true
	}
	start, end, err := frame.Dates()
	if err != nil {
		return false
	}
	return !end.Before(start)
}
