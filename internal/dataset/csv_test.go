package dataset

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv")
	cfg := Config{Seed: 42, Attachments: true}

	const n = 200
	require.NoError(t, GenerateFile(cfg, n, path, FileOptions{}))

	msgs, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, msgs, n)

	// the parsed rows must be exactly what the generator produced
	g := New(cfg)
	for i := range msgs {
		want := g.Message()
		// nil and empty list both encode as []; normalize
		if len(want.ForwardedIDs) == 0 {
			want.ForwardedIDs = nil
		}
		if len(want.MarkedUsers) == 0 {
			want.MarkedUsers = nil
		}
		require.Equal(t, want, msgs[i], "row %d", i)
	}
}

func TestGenerateFileGzipRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv.gz")
	require.NoError(t, GenerateFile(Config{Seed: 1}, 50, path, FileOptions{Gzip: true}))

	msgs, err := ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, msgs, 50)
}

func TestGenerateFileInvalidCount(t *testing.T) {
	for _, n := range []int{0, -1, -100} {
		path := filepath.Join(t.TempDir(), "messages.csv")
		err := GenerateFile(Config{}, n, path, FileOptions{})
		require.ErrorIs(t, err, ErrInvalidCount, "count %d", n)

		// no output file may exist after a rejected run
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "file created for count %d", n)
	}
}

func TestGenerateFileUnwritablePath(t *testing.T) {
	err := GenerateFile(Config{}, 10, filepath.Join(t.TempDir(), "missing", "out.csv"), FileOptions{})
	require.Error(t, err)
}

func TestGenerateFileProgress(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv")

	var calls []int
	opts := FileOptions{
		ProgressEvery: 25,
		OnProgress:    func(written int) { calls = append(calls, written) },
	}
	require.NoError(t, GenerateFile(Config{Seed: 3}, 100, path, opts))
	assert.Equal(t, []int{25, 50, 75, 100}, calls)
}

func TestReadFileBadHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	require.NoError(t, os.WriteFile(path, []byte("a,b,c,d,e,f,g,h,i,j,k,l,m,n,o\n"), 0644))

	_, err := ReadFile(path)
	require.ErrorIs(t, err, ErrMalformedRecord)
}

func TestReadFileBadField(t *testing.T) {
	path := filepath.Join(t.TempDir(), "messages.csv")
	require.NoError(t, GenerateFile(Config{Seed: 2}, 3, path, FileOptions{}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, []byte("x,0,0,0,0,0,0,hi,,false,[],none,[],0,false\n")...), 0644))

	_, err = ReadFile(path)
	require.ErrorIs(t, err, ErrMalformedRecord)

	var recErr *RecordError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "chat_id", recErr.Field)
	assert.Equal(t, 5, recErr.Line)
}

func TestIDListCodec(t *testing.T) {
	tests := []struct {
		name    string
		ids     []int64
		encoded string
	}{
		{"empty", nil, "[]"},
		{"single", []int64{42}, "[42]"},
		{"multiple", []int64{1, 2, 3}, "[1,2,3]"},
		{"large ids", []int64{1000000, 9999999}, "[1000000,9999999]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EncodeIDList(tt.ids)
			if got != tt.encoded {
				t.Errorf("EncodeIDList(%v) = %s, expected %s", tt.ids, got, tt.encoded)
			}
			back, err := ParseIDList(got)
			if err != nil {
				t.Fatalf("ParseIDList(%s) failed: %v", got, err)
			}
			if len(back) != len(tt.ids) {
				t.Fatalf("round trip lost entries: %v -> %v", tt.ids, back)
			}
			for i := range back {
				if back[i] != tt.ids[i] {
					t.Errorf("round trip changed entry %d: %d != %d", i, back[i], tt.ids[i])
				}
			}
		})
	}
}

func TestParseIDListRejectsUnbracketed(t *testing.T) {
	for _, s := range []string{"1,2,3", "[1,2", "1,2]", ""} {
		if _, err := ParseIDList(s); err == nil {
			t.Errorf("ParseIDList(%q) should fail", s)
		}
	}
}
