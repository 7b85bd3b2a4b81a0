// Package dataset generates synthetic chat-message datasets for bulk
// loading into a wide-column messages table and parses them back.
package dataset

// Message flag bits, matching the production messages table encoding.
const (
	FlagRead      = 1 << 0
	FlagEdited    = 1 << 1
	FlagDeleted   = 1 << 2
	FlagForwarded = 1 << 3
	FlagReply     = 1 << 4
)

// bucketSize is the number of local message ids per partition bucket.
const bucketSize = 1000

// Message is one row of the messages table.
//
// (ChatID, Bucket) is the partition key, LocalID the clustering key
// (descending, unique within the partition).
type Message struct {
	ChatID        int64
	Bucket        int64
	LocalID       int64
	Flags         int64
	Date          int64
	UpdateTime    int64
	AuthorID      int64
	Text          string
	Kludges       string
	Forwarded     bool
	ForwardedIDs  []int64
	Mentions      string
	MarkedUsers   []int64
	TTL           int64
	DeletedForAll bool
}

// FieldNames is the CSV column order the external bulk loader maps onto
// the table. Do not reorder.
var FieldNames = []string{
	"chat_id", "bucket", "chat_msg_local_id", "flags", "date",
	"update_time", "author_id", "text", "kludges", "forwarded",
	"forwarded_message_ids", "mentions", "marked_users", "ttl",
	"deleted_for_all",
}

// BucketFor returns the partition bucket for a local message id.
func BucketFor(localID int64) int64 {
	return localID / bucketSize
}
