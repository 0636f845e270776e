package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/peoplehub/hrflow/pkg/domain"
)

type mockStore struct{}

func (m *mockStore) Save(ctx context.Context, id string, state *domain.SessionState) error {
	return nil
}
func (m *mockStore) Load(ctx context.Context, id string) (*domain.SessionState, error) {
	return nil, domain.ErrSessionNotFound
}
func (m *mockStore) Delete(ctx context.Context, id string) error { return nil }
func (m *mockStore) List(ctx context.Context) ([]string, error)  { return nil, nil }
func (m *mockStore) EvictIdle(ctx context.Context, maxAge time.Duration) ([]string, error) {
	return nil, nil
}

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(&mockStore{})
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("conversation-%d", i)
		_ = mgr.Save(ctx, id, &domain.SessionState{ConversationID: id})
		_ = mgr.Delete(ctx, id)
	}

	if leaked := len(mgr.locks); leaked != 0 {
		t.Errorf("memory leak: %d lock entries remaining after delete", leaked)
	}
}
