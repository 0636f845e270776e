/*
Package hrflow is a conversational action workflow engine for HR
self-service: leave requests, attendance excuses, support tickets, and
balance, payslip and ticket-status queries.

It implements a validate-confirm-commit protocol over multi-turn
conversations. Each conversation holds at most one pending flow; slot
values are collected across turns, validated against the HR backend,
and committed only after the user explicitly confirms. Duplicate
confirmations replay the original result instead of writing twice.

# Architecture

The engine is hexagonal: the protocol core is pure state transition
logic, and everything contextual enters through ports:

  - IntentClassifier turns utterances into intents and slot values.
  - ValidationGateway runs read-only checks (balances, team calendar).
  - ActionExecutor performs the committing write.
  - SessionStore persists per-conversation state (memory or Redis).
  - Localizer renders locale-agnostic directives to user text.

This lets the same core serve the HTTP API, the MCP server, and the
interactive chat CLI.

# Usage

	svc, err := hrflow.New(gateway, executor)
	if err != nil {
		log.Fatal(err)
	}
	reply, err := svc.Message(ctx, hrflow.MessageRequest{
		ConversationID: "EMP001",
		Text:           "I want annual leave from 2026-09-01 to 2026-09-03",
	})

Every turn returns a structured directive alongside the rendered text,
so hosts can build their own UI on the machine-readable form.
*/
package hrflow
