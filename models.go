package main

import (
	"hash/fnv"
	"strings"
)

// CardRecord is one generated flashcard. The answer may span multiple
// lines (translation plus example sentence by convention).
type CardRecord struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// BulkBatch is the JSON import shape: deck-type name -> ordered cards.
type BulkBatch map[string][]CardRecord

// DeckPath identifies a node in the hierarchical deck tree. Category is
// empty for deck types that do not carry sub-categories.
type DeckPath struct {
	Language string
	DeckType string
	Category string
}

func (p DeckPath) Segments() []string {
	segments := []string{p.Language, p.DeckType}
	if p.Category != "" {
		segments = append(segments, p.Category)
	}
	return segments
}

// Name is the full hierarchical deck name, e.g. "German::Vocabulary::Body Parts".
func (p DeckPath) Name() string {
	return strings.Join(p.Segments(), "::")
}

// DeckID derives a stable numeric deck identity from the path name, so the
// same path always maps to the same deck in the exported package.
func (p DeckPath) DeckID() int64 {
	h := fnv.New64a()
	h.Write([]byte(p.Name()))
	return int64(h.Sum64() & 0x7fffffffffffffff)
}

// RunSummary describes what a single generation or import run produced.
type RunSummary struct {
	ContentType string
	Categories  []string
	CardCount   int
	DeckActions map[string]string // deck path name -> "created" or "extended"
	Usage       LLMUsage
}

func (s *RunSummary) recordDeck(path DeckPath, created bool) {
	if s.DeckActions == nil {
		s.DeckActions = make(map[string]string)
	}
	action := "extended"
	if created {
		action = "created"
	}
	s.DeckActions[path.Name()] = action
}
