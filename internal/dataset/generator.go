package dataset

import (
	"math/rand"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

// json is the jsoniter instance configured to be compatible with standard library
var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	minUserID = 1000
	maxUserID = 1000000
	minChatID = 1000
	maxChatID = 500000

	// maxListEntries caps forwarded_message_ids and marked_users length.
	maxListEntries = 5
)

// baseDate anchors generated timestamps; dates fall within the three
// years before it.
var baseDate = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Config controls message generation.
type Config struct {
	// Seed for the random source. The default command-line seed is 42 so
	// repeated runs produce identical datasets.
	Seed int64

	// ChatID pins every message to one chat (one partition range). Zero
	// means chats are drawn randomly from the chat pool.
	ChatID int64

	// Attachments enables JSON media blobs in the kludges column for a
	// fraction of messages. Off by default because attachment-heavy rows
	// skew the bytes/record figure the benchmark is after.
	Attachments bool
}

// Generator produces synthetic messages. Not safe for concurrent use;
// each run owns its generator.
type Generator struct {
	cfg      Config
	rng      *rand.Rand
	words    *weightedEntries
	mentions *weightedEntries

	// nextLocalID tracks the clustering key per chat so that
	// (chat_id, bucket, chat_msg_local_id) stays unique within a run.
	nextLocalID map[int64]int64
}

// New returns a Generator seeded from cfg.
func New(cfg Config) *Generator {
	return &Generator{
		cfg:         cfg,
		rng:         rand.New(rand.NewSource(cfg.Seed)),
		words:       chatWords(),
		mentions:    mentionKinds(),
		nextLocalID: make(map[int64]int64),
	}
}

// Message generates the next message row.
func (g *Generator) Message() Message {
	chatID := g.cfg.ChatID
	if chatID == 0 {
		chatID = int64(randInt(g.rng, minChatID, maxChatID))
	}

	localID := g.nextLocalID[chatID]
	g.nextLocalID[chatID] = localID + 1

	date := g.timestamp()
	updateTime := date
	if g.rng.Float64() < 0.1 {
		updateTime = date + int64(randInt(g.rng, 60, 3600))
	}

	authorID := int64(randInt(g.rng, minUserID, maxUserID))

	return Message{
		ChatID:        chatID,
		Bucket:        BucketFor(localID),
		LocalID:       localID,
		Flags:         g.flags(),
		Date:          date,
		UpdateTime:    updateTime,
		AuthorID:      authorID,
		Text:          g.text(),
		Kludges:       g.kludges(),
		Forwarded:     g.rng.Float64() < 0.15,
		ForwardedIDs:  g.forwardedIDs(),
		Mentions:      g.mentions.Rand(g.rng),
		MarkedUsers:   g.markedUsers(authorID),
		TTL:           g.ttl(),
		DeletedForAll: g.rng.Float64() < 0.01,
	}
}

// flags samples the message flag bitmask: most messages are read, some
// edited, a few deleted, replies and forwards in between.
func (g *Generator) flags() int64 {
	var flags int64
	if g.rng.Float64() < 0.8 {
		flags |= FlagRead
	}
	if g.rng.Float64() < 0.1 {
		flags |= FlagEdited
	}
	if g.rng.Float64() < 0.02 {
		flags |= FlagDeleted
	}
	if g.rng.Float64() < 0.15 {
		flags |= FlagForwarded
	}
	if g.rng.Float64() < 0.3 {
		flags |= FlagReply
	}
	return flags
}

// timestamp returns a random epoch second within the three years before
// baseDate.
func (g *Generator) timestamp() int64 {
	daysAgo := randInt(g.rng, 0, 3*365)
	t := baseDate.AddDate(0, 0, -daysAgo).Add(
		time.Duration(randInt(g.rng, 0, 23))*time.Hour +
			time.Duration(randInt(g.rng, 0, 59))*time.Minute +
			time.Duration(randInt(g.rng, 0, 59))*time.Second)
	return t.Unix()
}

func (g *Generator) text() string {
	word := g.words.Rand(g.rng)
	if g.rng.Float64() < 0.3 {
		word = firstToUpper(word)
	}
	if g.rng.Float64() < 0.7 {
		word += string(".!?"[g.rng.Intn(3)])
	}
	return word
}

// attachment mirrors the compressed media blob stored in the kludges
// column by the messaging backend.
type attachment struct {
	Type     string `json:"type"`
	ID       string `json:"id"`
	Size     int    `json:"size"`
	URL      string `json:"url"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

var attachmentTypes = []string{"photo", "video", "document", "audio", "voice", "sticker"}

func (g *Generator) kludges() string {
	if !g.cfg.Attachments {
		return ""
	}
	if g.rng.Float64() >= 0.3 {
		return "{}"
	}

	kind := attachmentTypes[g.rng.Intn(len(attachmentTypes))]
	// ids come from the seeded source so a seed reproduces the dataset
	// byte for byte
	id, _ := uuid.NewRandomFromReader(g.rng)
	ref, _ := uuid.NewRandomFromReader(g.rng)
	a := attachment{
		Type: kind,
		ID:   id.String(),
		Size: randInt(g.rng, 1024, 50*1024*1024),
		URL:  "https://cdn.example.com/" + kind + "/" + ref.String()[:8],
	}
	switch kind {
	case "photo", "video":
		a.Width = []int{1280, 1920, 2560}[g.rng.Intn(3)]
		a.Height = []int{720, 1080, 1440}[g.rng.Intn(3)]
	}
	switch kind {
	case "video", "audio", "voice":
		a.Duration = randInt(g.rng, 1, 300)
	}

	blob, err := json.Marshal(a)
	if err != nil {
		// attachment contains only plain fields; Marshal cannot fail
		return "{}"
	}
	return string(blob)
}

func (g *Generator) forwardedIDs() []int64 {
	if g.rng.Float64() >= 0.15 {
		return nil
	}
	ids := make([]int64, randInt(g.rng, 1, 3))
	for i := range ids {
		ids[i] = int64(randInt(g.rng, 1000000, 9999999))
	}
	return ids
}

func (g *Generator) markedUsers(authorID int64) []int64 {
	if g.rng.Float64() >= 0.2 {
		return nil
	}
	count := randInt(g.rng, 1, maxListEntries)
	users := make([]int64, 0, count)
	seen := map[int64]bool{authorID: true}
	for len(users) < count {
		u := int64(randInt(g.rng, minUserID, maxUserID))
		if seen[u] {
			continue
		}
		seen[u] = true
		users = append(users, u)
	}
	return users
}

var ttlChoices = []int64{3600, 86400, 604800, 2592000}

func (g *Generator) ttl() int64 {
	if g.rng.Float64() >= 0.05 {
		return 0
	}
	return ttlChoices[g.rng.Intn(len(ttlChoices))]
}

func randInt(rng *rand.Rand, minInclusive, maxInclusive int) int {
	return rng.Intn(maxInclusive-minInclusive+1) + minInclusive
}

func firstToUpper(s string) string {
	isFirst := true
	return strings.Map(func(r rune) rune {
		if isFirst {
			isFirst = false
			return unicode.ToUpper(r)
		}
		return r
	}, s)
}
