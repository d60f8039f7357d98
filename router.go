package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

// DeckPathFor computes the deck path for a (language, deck-type, category)
// triple. Same triple, same path, always; deck identity follows from it.
func DeckPathFor(language, deckType, category string) DeckPath {
	return DeckPath{
		Language: strings.TrimSpace(language),
		DeckType: strings.TrimSpace(deckType),
		Category: strings.TrimSpace(category),
	}
}

// Route merges cards into the deck identified by (language, deck-type,
// category), creating the deck on first use and appending on every later
// one. Returns the computed path and whether the deck was newly created.
func Route(db *sql.DB, language, deckType, category string, cards []CardRecord) (DeckPath, bool, error) {
	path := DeckPathFor(language, deckType, category)

	ref, created, err := EnsureDeck(db, path)
	if err != nil {
		return path, false, err
	}

	added, err := AppendCards(db, ref, cards)
	if err != nil {
		return path, created, fmt.Errorf("append to deck %q: %w", path.Name(), err)
	}

	action := "extended"
	if created {
		action = "created"
	}
	log.Printf("route deck=%s action=%s cards=%d", path.Name(), action, added)
	return path, created, nil
}

// RouteBatch is the bulk-import bypass: pre-structured cards grouped by
// deck-type name, routed through the same Route call as AI-generated ones
// so merge semantics are identical regardless of provenance. Deck-type
// names are matched case-insensitively against the profile.
func RouteBatch(db *sql.DB, profile LanguageProfile, batch BulkBatch) (RunSummary, error) {
	summary := RunSummary{ContentType: "import"}

	// Validate every deck-type name before touching the store, so a bad
	// name cannot leave a half-applied batch.
	names := make([]string, 0, len(batch))
	for name := range batch {
		if _, ok := profile.DeckType(name); !ok {
			return summary, fmt.Errorf("unknown deck type %q for %s (declared: %s)",
				name, profile.Name, strings.Join(profile.DeckTypeNames(), ", "))
		}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, _ := profile.DeckType(name)
		path, created, err := Route(db, profile.Name, spec.Name, "", batch[name])
		if err != nil {
			return summary, err
		}
		summary.recordDeck(path, created)
		summary.CardCount += len(batch[name])
	}
	return summary, nil
}

// LoadBulkBatch reads and validates a JSON batch file. Every card must
// carry a non-empty question and answer; card text is otherwise preserved
// verbatim.
func LoadBulkBatch(path string) (BulkBatch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var batch BulkBatch
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if len(batch) == 0 {
		return nil, fmt.Errorf("batch %s contains no deck types", path)
	}

	for name, cards := range batch {
		for i, card := range cards {
			if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
				return nil, fmt.Errorf("batch %s: %s card %d has an empty question or answer", path, name, i+1)
			}
		}
	}
	return batch, nil
}
