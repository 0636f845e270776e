package domain

// ActionKind identifies a transactional HR action the engine can drive
// through intake, validation, confirmation and commit.
type ActionKind string

const (
	ActionLeaveRequest  ActionKind = "leave_request"
	ActionExcuseRequest ActionKind = "excuse_request"
	ActionSupportTicket ActionKind = "support_ticket"
)

// Reserved control intents. These are handled identically regardless of
// the utterance language; the classifier maps language-specific control
// words onto them.
const (
	IntentCancel  = "cancel"
	IntentConfirm = "confirm"
	IntentDeny    = "deny"
)

// IsReservedIntent reports whether the intent is a control intent that is
// always legal while a flow is pending.
func IsReservedIntent(intent string) bool {
	switch intent {
	case IntentCancel, IntentConfirm, IntentDeny:
		return true
	}
	return false
}

// KindForIntent maps an action-starting intent to its ActionKind.
// Non-starting intents (greetings, balance queries, control intents)
// return false.
func KindForIntent(intent string) (ActionKind, bool) {
	switch ActionKind(intent) {
	case ActionLeaveRequest, ActionExcuseRequest, ActionSupportTicket:
		return ActionKind(intent), true
	}
	return "", false
}

// FieldSpec describes one slot of an action schema.
type FieldSpec struct {
	Name     string
	Required bool
	// Kind constrains the value type accepted for the slot.
	Kind FieldKind
	// Enum, when non-empty, restricts string values to this set.
	Enum []string
}

// FieldKind is the value type of a slot.
type FieldKind string

const (
	FieldString FieldKind = "string"
	FieldDate   FieldKind = "date" // ISO 8601 calendar date
	FieldTime   FieldKind = "time" // HH:MM wall clock
)

// Schema is the ordered field list for an ActionKind. Field order is the
// declared order and drives deterministic missing-slot prompting.
type Schema struct {
	Kind   ActionKind
	Fields []FieldSpec
}

// Field returns the spec for a named field.
func (s Schema) Field(name string) (FieldSpec, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return FieldSpec{}, false
}

var schemas = map[ActionKind]Schema{
	ActionLeaveRequest: {
		Kind: ActionLeaveRequest,
		Fields: []FieldSpec{
			{Name: "leave_type", Required: true, Kind: FieldString, Enum: []string{"annual", "sick", "unpaid"}},
			{Name: "start_date", Required: true, Kind: FieldDate},
			{Name: "end_date", Required: true, Kind: FieldDate},
			{Name: "reason", Kind: FieldString},
		},
	},
	ActionExcuseRequest: {
		Kind: ActionExcuseRequest,
		Fields: []FieldSpec{
			{Name: "excuse_type", Required: true, Kind: FieldString, Enum: []string{"late_arrival", "early_departure"}},
			{Name: "date", Required: true, Kind: FieldDate},
			{Name: "time", Required: true, Kind: FieldTime},
			{Name: "reason", Required: true, Kind: FieldString},
		},
	},
	ActionSupportTicket: {
		Kind: ActionSupportTicket,
		Fields: []FieldSpec{
			{Name: "category", Required: true, Kind: FieldString, Enum: []string{"it", "hr", "facilities"}},
			{Name: "description", Required: true, Kind: FieldString},
		},
	},
}

// SchemaFor returns the slot schema of an ActionKind.
func SchemaFor(kind ActionKind) (Schema, bool) {
	s, ok := schemas[kind]
	return s, ok
}

// Schemas returns every action schema in a fixed order.
func Schemas() []Schema {
	return []Schema{
		schemas[ActionLeaveRequest],
		schemas[ActionExcuseRequest],
		schemas[ActionSupportTicket],
	}
}
