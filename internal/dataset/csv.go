package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
)

// Writer streams messages to a CSV file in the bulk-loader column order.
type Writer struct {
	cw *csv.Writer
}

// NewWriter wraps w. Call WriteHeader before the first Write.
func NewWriter(w io.Writer) *Writer {
	return &Writer{cw: csv.NewWriter(w)}
}

func (w *Writer) WriteHeader() error {
	return w.cw.Write(FieldNames)
}

func (w *Writer) Write(m *Message) error {
	return w.cw.Write(encodeRecord(m))
}

func (w *Writer) Flush() error {
	w.cw.Flush()
	return w.cw.Error()
}

// FileOptions controls GenerateFile output.
type FileOptions struct {
	// Gzip compresses the output; pair with a .csv.gz path.
	Gzip bool

	// OnProgress, when set, is called after every ProgressEvery rows with
	// the number written so far.
	OnProgress    func(written int)
	ProgressEvery int
}

// GenerateFile writes exactly count messages to path as headered CSV.
// A non-positive count fails before any file is created; a failure
// mid-write removes the partial file, since a truncated dataset must
// never reach the bulk loader.
func GenerateFile(cfg Config, count int, path string, opts FileOptions) (err error) {
	if count <= 0 {
		return fmt.Errorf("%w, got %d", ErrInvalidCount, count)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	var out io.Writer = f
	var gz *gzip.Writer
	if opts.Gzip {
		gz = gzip.NewWriter(f)
		out = gz
	}

	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	g := New(cfg)
	for i := 0; i < count; i++ {
		m := g.Message()
		if err := w.Write(&m); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
		if opts.OnProgress != nil && opts.ProgressEvery > 0 && (i+1)%opts.ProgressEvery == 0 {
			opts.OnProgress(i + 1)
		}
	}

	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return fmt.Errorf("failed to finish gzip stream: %w", err)
		}
	}
	return nil
}

// ReadFile parses a generated dataset back into messages. Files ending
// in .gz are transparently decompressed. The header row must match the
// generator schema.
func ReadFile(path string) ([]Message, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	var in io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzip stream: %w", err)
		}
		defer gz.Close()
		in = gz
	}

	r := csv.NewReader(in)
	r.FieldsPerRecord = len(FieldNames)

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range FieldNames {
		if header[i] != name {
			return nil, &RecordError{Line: 1, Field: name,
				Cause: fmt.Errorf("header column %d is %q", i, header[i])}
		}
	}

	var msgs []Message
	for line := 2; ; line++ {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var csvErr *csv.ParseError
			if errors.As(err, &csvErr) {
				return nil, &RecordError{Line: csvErr.Line, Field: "row", Cause: err}
			}
			return nil, fmt.Errorf("failed to read record: %w", err)
		}
		m, err := decodeRecord(rec, line)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}

func encodeRecord(m *Message) []string {
	return []string{
		strconv.FormatInt(m.ChatID, 10),
		strconv.FormatInt(m.Bucket, 10),
		strconv.FormatInt(m.LocalID, 10),
		strconv.FormatInt(m.Flags, 10),
		strconv.FormatInt(m.Date, 10),
		strconv.FormatInt(m.UpdateTime, 10),
		strconv.FormatInt(m.AuthorID, 10),
		m.Text,
		m.Kludges,
		strconv.FormatBool(m.Forwarded),
		EncodeIDList(m.ForwardedIDs),
		m.Mentions,
		EncodeIDList(m.MarkedUsers),
		strconv.FormatInt(m.TTL, 10),
		strconv.FormatBool(m.DeletedForAll),
	}
}

func decodeRecord(rec []string, line int) (Message, error) {
	var m Message
	var err error

	ints := []struct {
		field string
		dst   *int64
		val   string
	}{
		{"chat_id", &m.ChatID, rec[0]},
		{"bucket", &m.Bucket, rec[1]},
		{"chat_msg_local_id", &m.LocalID, rec[2]},
		{"flags", &m.Flags, rec[3]},
		{"date", &m.Date, rec[4]},
		{"update_time", &m.UpdateTime, rec[5]},
		{"author_id", &m.AuthorID, rec[6]},
		{"ttl", &m.TTL, rec[13]},
	}
	for _, p := range ints {
		*p.dst, err = strconv.ParseInt(p.val, 10, 64)
		if err != nil {
			return Message{}, &RecordError{Line: line, Field: p.field, Cause: err}
		}
	}

	m.Text = rec[7]
	m.Kludges = rec[8]
	m.Mentions = rec[11]

	if m.Forwarded, err = strconv.ParseBool(rec[9]); err != nil {
		return Message{}, &RecordError{Line: line, Field: "forwarded", Cause: err}
	}
	if m.DeletedForAll, err = strconv.ParseBool(rec[14]); err != nil {
		return Message{}, &RecordError{Line: line, Field: "deleted_for_all", Cause: err}
	}
	if m.ForwardedIDs, err = ParseIDList(rec[10]); err != nil {
		return Message{}, &RecordError{Line: line, Field: "forwarded_message_ids", Cause: err}
	}
	if m.MarkedUsers, err = ParseIDList(rec[12]); err != nil {
		return Message{}, &RecordError{Line: line, Field: "marked_users", Cause: err}
	}
	return m, nil
}

// EncodeIDList encodes integer lists the way the bulk loader expects
// collection columns: bracketed, comma separated, empty as [].
//
// Exported because the bench store persists list columns in the same
// text form.
func EncodeIDList(ids []int64) string {
	if len(ids) == 0 {
		return "[]"
	}
	var b strings.Builder
	b.WriteByte('[')
	for i, id := range ids {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatInt(id, 10))
	}
	b.WriteByte(']')
	return b.String()
}

func ParseIDList(s string) ([]int64, error) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("list value %q is not bracketed", s)
	}
	inner := s[1 : len(s)-1]
	if inner == "" {
		return nil, nil
	}
	parts := strings.Split(inner, ",")
	ids := make([]int64, len(parts))
	for i, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}
