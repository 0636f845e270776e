package memory_test

import (
	"testing"

	"github.com/peoplehub/hrflow/pkg/adapters/memory"
	"github.com/peoplehub/hrflow/pkg/ports/tests"
)

func TestMemoryStore_Contract(t *testing.T) {
	tests.RunSessionStoreContract(t, memory.NewStore())
}
