package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDeckPathDeterminism(t *testing.T) {
	a := DeckPathFor(" German ", "Vocabulary", " Food ")
	b := DeckPathFor("German", "Vocabulary", "Food")
	if a != b {
		t.Fatalf("trimmed components must yield the same path: %+v vs %+v", a, b)
	}
	if a.Name() != "German::Vocabulary::Food" {
		t.Fatalf("unexpected name %q", a.Name())
	}
	if a.DeckID() != b.DeckID() {
		t.Fatalf("same path must have the same deck id")
	}

	other := DeckPathFor("German", "Vocabulary", "Animals")
	if a.DeckID() == other.DeckID() {
		t.Fatalf("different paths should not share a deck id")
	}
	if a.DeckID() <= 0 || other.DeckID() <= 0 {
		t.Fatalf("deck ids must be positive: %d %d", a.DeckID(), other.DeckID())
	}
}

func TestDeckPathWithoutCategory(t *testing.T) {
	p := DeckPathFor("German", "Grammar", "")
	if p.Name() != "German::Grammar" {
		t.Fatalf("uncategorized path should have two segments, got %q", p.Name())
	}
	if got := len(p.Segments()); got != 2 {
		t.Fatalf("expected 2 segments, got %d", got)
	}
}

func TestRouteMergesIntoOneDeck(t *testing.T) {
	db := newTestDB(t)

	first := []CardRecord{{Question: "das Brot", Answer: "bread"}}
	second := []CardRecord{{Question: "die Milch", Answer: "milk"}}

	path1, created, err := Route(db, "German", "Vocabulary", "Food", first)
	if err != nil || !created {
		t.Fatalf("first route: created=%v err=%v", created, err)
	}
	path2, created, err := Route(db, "German", "Vocabulary", "Food", second)
	if err != nil || created {
		t.Fatalf("second route: created=%v err=%v", created, err)
	}
	if path1 != path2 {
		t.Fatalf("same triple routed to different paths: %v vs %v", path1, path2)
	}

	tree, err := LoadDeckTree(db)
	if err != nil {
		t.Fatalf("LoadDeckTree failed: %v", err)
	}
	if len(tree.Decks) != 1 {
		t.Fatalf("expected one merged deck, got %d", len(tree.Decks))
	}
	cards := tree.Decks[0].Cards
	if len(cards) != 2 || cards[0] != first[0] || cards[1] != second[0] {
		t.Fatalf("expected strictly additive merge, got %+v", cards)
	}
}

func TestRouteBatchAccumulatesAcrossRuns(t *testing.T) {
	db := newTestDB(t)
	profile := germanProfile(t)

	batch := BulkBatch{"grammar": {{Question: "Q1", Answer: "A1"}}}

	for run := 1; run <= 2; run++ {
		summary, err := RouteBatch(db, profile, batch)
		if err != nil {
			t.Fatalf("run %d: RouteBatch failed: %v", run, err)
		}
		if summary.CardCount != 1 {
			t.Fatalf("run %d: CardCount = %d", run, summary.CardCount)
		}
		wantAction := "extended"
		if run == 1 {
			wantAction = "created"
		}
		if summary.DeckActions["German::Grammar"] != wantAction {
			t.Fatalf("run %d: actions = %v", run, summary.DeckActions)
		}
	}

	tree, err := LoadDeckTree(db)
	if err != nil {
		t.Fatalf("LoadDeckTree failed: %v", err)
	}
	if len(tree.Decks) != 1 {
		t.Fatalf("expected one deck, got %d", len(tree.Decks))
	}
	// Deck-type name in the batch was lowercase; the path carries the
	// declared casing so both runs land on the same deck.
	if tree.Decks[0].Path != "German::Grammar" {
		t.Fatalf("unexpected path %q", tree.Decks[0].Path)
	}
	cards := tree.Decks[0].Cards
	if len(cards) != 2 || cards[0].Question != "Q1" || cards[1].Question != "Q1" {
		t.Fatalf("expected both runs' cards verbatim, got %+v", cards)
	}
}

func TestRouteBatchRejectsUnknownDeckType(t *testing.T) {
	db := newTestDB(t)
	profile := germanProfile(t)

	_, err := RouteBatch(db, profile, BulkBatch{"Poetry": {{Question: "Q", Answer: "A"}}})
	if err == nil || !strings.Contains(err.Error(), "Poetry") {
		t.Fatalf("expected unknown-deck-type error, got %v", err)
	}

	tree, err := LoadDeckTree(db)
	if err != nil {
		t.Fatalf("LoadDeckTree failed: %v", err)
	}
	if len(tree.Decks) != 0 {
		t.Fatalf("rejected batch must not create decks, got %d", len(tree.Decks))
	}
}

func TestLoadBulkBatchValidation(t *testing.T) {
	write := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "batch.json")
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write batch: %v", err)
		}
		return path
	}

	batch, err := LoadBulkBatch(write(t, `{"Vocabulary": [{"question": "Q", "answer": "A"}], "Grammar": []}`))
	if err != nil {
		t.Fatalf("valid batch rejected: %v", err)
	}
	if len(batch) != 2 || len(batch["Vocabulary"]) != 1 {
		t.Fatalf("unexpected batch %+v", batch)
	}

	cases := []struct {
		name    string
		content string
	}{
		{"not json", "Vocabulary: nope"},
		{"empty document", `{}`},
		{"empty answer", `{"Vocabulary": [{"question": "Q", "answer": " "}]}`},
		{"missing question", `{"Vocabulary": [{"answer": "A"}]}`},
	}
	for _, tc := range cases {
		if _, err := LoadBulkBatch(write(t, tc.content)); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}

	if _, err := LoadBulkBatch(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for a missing file")
	}
}
