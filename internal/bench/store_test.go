package bench

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgbench/msgbench/internal/dataset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	st, err := Open(filepath.Join(t.TempDir(), "messages.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Logf("warning: failed to close store: %v", err)
		}
	})
	return st
}

func generateMessages(n int) []dataset.Message {
	g := dataset.New(dataset.Config{Seed: 42})
	msgs := make([]dataset.Message, n)
	for i := range msgs {
		msgs[i] = g.Message()
	}
	return msgs
}

func TestStoreLoadAndCount(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.LoadMessages(ctx, generateMessages(500)))

	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(500), n)
}

func TestStoreCompactAndSize(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	require.NoError(t, st.LoadMessages(ctx, generateMessages(1000)))
	require.NoError(t, st.Compact(ctx))

	size, err := st.SizeOnDisk()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}

func TestStoreRejectsDuplicateKeys(t *testing.T) {
	ctx := context.Background()
	st := openTestStore(t)

	msgs := generateMessages(10)
	require.NoError(t, st.LoadMessages(ctx, msgs))

	// the same keys again must violate the primary key
	err := st.LoadMessages(ctx, msgs)
	require.Error(t, err)

	// the failed transaction must not leave partial rows behind
	n, err := st.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
}
