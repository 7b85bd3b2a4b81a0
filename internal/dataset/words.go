package dataset

import "math/rand"

// weightedEntries picks strings with relative weights. Message text uses
// a flat everyday-chat vocabulary; mention kinds use a skewed one.
type weightedEntry struct {
	weight float64
	entry  string
}

type weightedEntries struct {
	entries     []weightedEntry
	totalWeight float64
}

func makeWeightedEntries(entriesAndWeights ...any) *weightedEntries {
	we := make([]weightedEntry, 0, len(entriesAndWeights)/2)
	var totalWeight float64
	for idx := 0; idx < len(entriesAndWeights); idx += 2 {
		e, w := entriesAndWeights[idx].(string), entriesAndWeights[idx+1].(float64)
		we = append(we, weightedEntry{weight: w, entry: e})
		totalWeight += w
	}
	return &weightedEntries{entries: we, totalWeight: totalWeight}
}

func (e *weightedEntries) Rand(rng *rand.Rand) string {
	rngWeight := rng.Float64() * e.totalWeight
	var w float64
	for i := range e.entries {
		w += e.entries[i].weight
		if w > rngWeight {
			return e.entries[i].entry
		}
	}
	panic(`unreachable`)
}

func chatWords() *weightedEntries {
	return makeWeightedEntries(
		"hello", 1.0,
		"how", 1.0,
		"things", 1.0,
		"fine", 1.0,
		"thanks", 1.0,
		"bye", 1.0,
		"what", 1.0,
		"where", 1.0,
		"when", 1.0,
		"why", 1.0,
		"today", 1.0,
		"tomorrow", 1.0,
		"yesterday", 1.0,
		"work", 1.0,
		"home", 1.0,
		"friends", 1.0,
		"meeting", 1.0,
		"call", 1.0,
		"project", 1.0,
		"task", 1.0,
		"urgent", 1.0,
		"important", 1.0,
		"file", 1.0,
		"link", 1.0,
	)
}

func mentionKinds() *weightedEntries {
	return makeWeightedEntries(
		"none", 0.7,
		"all", 0.1,
		"online", 0.1,
		"user", 0.1,
	)
}
