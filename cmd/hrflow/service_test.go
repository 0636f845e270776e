package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/peoplehub/hrflow"
	"github.com/peoplehub/hrflow/internal/config"
	"github.com/peoplehub/hrflow/pkg/domain"
)

func loadTestConfig(t *testing.T) config.Config {
	t.Helper()
	t.Setenv("HRFLOW_REDIS_URL", "")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestBuildServiceWithSealedSessions(t *testing.T) {
	t.Setenv("HRFLOW_ENCRYPTION_KEY", "0123456789abcdef0123456789abcdef")
	t.Setenv("HRFLOW_PII_PATTERNS", "^reason$")
	cfg := loadTestConfig(t)

	svc, _, cleanup, err := buildService(cfg)
	require.NoError(t, err)
	defer cleanup()

	ctx := context.Background()
	reply, err := svc.Message(ctx, hrflow.MessageRequest{
		ConversationID: "cli-1",
		ActorID:        "EMP001",
		Text:           "I want annual leave",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.DirectiveAskForSlot, reply.Directive.Kind)

	// The sealing store is transparent to readers going through it.
	state, err := svc.Inspect(ctx, "cli-1")
	require.NoError(t, err)
	require.NotNil(t, state.ActiveFlow)
	assert.Equal(t, "annual", state.ActiveFlow.Frame.Values["leave_type"])
}

func TestBuildServiceRejectsShortEncryptionKey(t *testing.T) {
	t.Setenv("HRFLOW_ENCRYPTION_KEY", "too-short")
	cfg := loadTestConfig(t)

	_, _, _, err := buildService(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "32 bytes")
}

func TestBuildServiceAnswersPayslip(t *testing.T) {
	cfg := loadTestConfig(t)

	svc, _, cleanup, err := buildService(cfg)
	require.NoError(t, err)
	defer cleanup()

	reply, err := svc.Message(context.Background(), hrflow.MessageRequest{
		ConversationID: "cli-2",
		ActorID:        "EMP001",
		Text:           "show me my payslip",
	})
	require.NoError(t, err)
	assert.Contains(t, reply.Text, "18000")
}
