package domain

import "errors"

// ErrSessionNotFound is returned when a conversation ID cannot be found
// in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrUnknownAction is returned when an ActionKind has no registered
// schema.
var ErrUnknownAction = errors.New("unknown action kind")

// ErrInsufficientBalance classifies a validation failure caused by the
// requested span exceeding the remaining balance.
var ErrInsufficientBalance = errors.New("insufficient leave balance")

// ErrDuplicateSubmission is returned by executors that detect an already
// recorded request for the same day and type.
var ErrDuplicateSubmission = errors.New("duplicate submission")

// ErrTicketNotFound is returned by ticket-status lookups for an unknown
// or foreign ticket ID.
var ErrTicketNotFound = errors.New("ticket not found")

// ErrPayslipNotFound is returned when the actor has no payslip on
// record.
var ErrPayslipNotFound = errors.New("payslip not found")
