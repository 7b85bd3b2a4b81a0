package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type messageKey struct {
	chatID  int64
	bucket  int64
	localID int64
}

func TestGeneratorUniqueKeys(t *testing.T) {
	g := New(Config{Seed: 42})

	const n = 5000
	seen := make(map[messageKey]bool, n)
	for i := 0; i < n; i++ {
		m := g.Message()
		key := messageKey{m.ChatID, m.Bucket, m.LocalID}
		if seen[key] {
			t.Fatalf("duplicate key %+v at row %d", key, i)
		}
		seen[key] = true

		if m.Bucket != BucketFor(m.LocalID) {
			t.Errorf("bucket %d does not match local id %d", m.Bucket, m.LocalID)
		}
	}
	if len(seen) != n {
		t.Errorf("expected %d unique keys, got %d", n, len(seen))
	}
}

func TestGeneratorFixedChat(t *testing.T) {
	const chatID = 1234
	g := New(Config{Seed: 7, ChatID: chatID})

	for i := 0; i < 2500; i++ {
		m := g.Message()
		require.Equal(t, int64(chatID), m.ChatID)
		// local ids increment per partition from zero
		require.Equal(t, int64(i), m.LocalID)
		require.Equal(t, int64(i/1000), m.Bucket)
	}
}

func TestGeneratorDeterministic(t *testing.T) {
	a := New(Config{Seed: 42})
	b := New(Config{Seed: 42})

	for i := 0; i < 200; i++ {
		ma, mb := a.Message(), b.Message()
		require.Equal(t, ma, mb, "row %d diverged for identical seeds", i)
	}
}

func TestGeneratorFieldRanges(t *testing.T) {
	validMentions := map[string]bool{"none": true, "all": true, "online": true, "user": true}
	validTTLs := map[int64]bool{0: true, 3600: true, 86400: true, 604800: true, 2592000: true}

	g := New(Config{Seed: 99})
	for i := 0; i < 2000; i++ {
		m := g.Message()

		assert.NotEmpty(t, m.Text)
		assert.True(t, validMentions[m.Mentions], "unexpected mentions kind %q", m.Mentions)
		assert.True(t, validTTLs[m.TTL], "unexpected ttl %d", m.TTL)
		assert.LessOrEqual(t, len(m.ForwardedIDs), 3)
		assert.LessOrEqual(t, len(m.MarkedUsers), maxListEntries)
		assert.GreaterOrEqual(t, m.UpdateTime, m.Date)
		assert.Less(t, m.Flags, int64(32))

		for _, u := range m.MarkedUsers {
			assert.NotEqual(t, m.AuthorID, u, "author mentioned in own message")
		}
	}
}

func TestGeneratorAttachments(t *testing.T) {
	g := New(Config{Seed: 5, Attachments: true})

	var withBlob int
	for i := 0; i < 1000; i++ {
		m := g.Message()
		require.NotEmpty(t, m.Kludges)
		if m.Kludges != "{}" {
			withBlob++
			var a attachment
			require.NoError(t, json.Unmarshal([]byte(m.Kludges), &a))
			require.NotEmpty(t, a.Type)
			require.NotEmpty(t, a.ID)
		}
	}
	// 30% of rows carry a blob; allow a generous band
	assert.Greater(t, withBlob, 200)
	assert.Less(t, withBlob, 400)
}
