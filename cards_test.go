package main

import (
	"errors"
	"strings"
	"testing"
)

func TestSynthesizeParsesFencedJSON(t *testing.T) {
	profile := germanProfile(t)
	spec, _ := profile.DeckType("Vocabulary")

	response := "```json\n{\"cards\": [{\"question\": \"der Kopf\", \"answer\": \"the head\"}, {\"question\": \"die Hand\", \"answer\": \"the hand\"}]}\n```"
	complete, _ := scriptedCompletion(t, response)

	cards, usage, err := SynthesizeCards(complete, "page text", profile, spec, "Body Parts", "")
	if err != nil {
		t.Fatalf("SynthesizeCards failed: %v", err)
	}
	if len(cards) != 2 {
		t.Fatalf("expected 2 cards, got %d", len(cards))
	}
	if cards[0].Question != "der Kopf" || cards[0].Answer != "the head" {
		t.Fatalf("unexpected first card: %+v", cards[0])
	}
	if cards[1].Question != "die Hand" {
		t.Fatalf("card order not preserved: %+v", cards[1])
	}
	if usage.TotalTokens() == 0 {
		t.Fatalf("expected usage to be reported")
	}
}

func TestSynthesizeToleratesExtraFields(t *testing.T) {
	profile := germanProfile(t)
	spec, _ := profile.DeckType("Grammar")

	response := `{"cards": [{"question": "Q", "answer": "A", "hint": "ignored"}], "note": "extra"}`
	complete, _ := scriptedCompletion(t, response)

	cards, _, err := SynthesizeCards(complete, "text", profile, spec, "", "")
	if err != nil {
		t.Fatalf("extra fields should not fail parsing: %v", err)
	}
	if len(cards) != 1 || cards[0].Question != "Q" {
		t.Fatalf("unexpected cards: %+v", cards)
	}
}

func TestSynthesizeEmptyCardListIsValid(t *testing.T) {
	profile := germanProfile(t)
	spec, _ := profile.DeckType("Vocabulary")

	complete, _ := scriptedCompletion(t, `{"cards": []}`)
	cards, _, err := SynthesizeCards(complete, "table of contents", profile, spec, "Food", "")
	if err != nil {
		t.Fatalf("zero cards is a valid result: %v", err)
	}
	if len(cards) != 0 {
		t.Fatalf("expected no cards, got %d", len(cards))
	}
}

func TestSynthesizeRejectsMalformedResponses(t *testing.T) {
	profile := germanProfile(t)
	spec, _ := profile.DeckType("Vocabulary")

	cases := []struct {
		name     string
		response string
	}{
		{"not json", "Here are your flashcards: der Kopf means head"},
		{"empty response", ""},
		{"missing answer", `{"cards": [{"question": "der Kopf", "answer": ""}]}`},
		{"whitespace question", `{"cards": [{"question": "   ", "answer": "the head"}]}`},
	}

	for _, tc := range cases {
		complete, _ := scriptedCompletion(t, tc.response)
		_, _, err := SynthesizeCards(complete, "text", profile, spec, "Food", "")
		if !errors.Is(err, ErrMalformedGeneration) {
			t.Fatalf("%s: expected ErrMalformedGeneration, got %v", tc.name, err)
		}
	}
}

func TestSynthesizeRequestsStructuredOutput(t *testing.T) {
	profile := germanProfile(t)
	spec, _ := profile.DeckType("Vocabulary")

	complete, seen := scriptedCompletion(t, `{"cards": []}`)
	if _, _, err := SynthesizeCards(complete, "text", profile, spec, "Food", ""); err != nil {
		t.Fatalf("SynthesizeCards failed: %v", err)
	}

	req := (*seen)[0]
	if req.Kind != "cards" {
		t.Fatalf("unexpected request kind %q", req.Kind)
	}
	if req.Schema == nil || req.SchemaName != "CardList" {
		t.Fatalf("expected the card-list schema on the request, got name=%q", req.SchemaName)
	}
}

func TestSynthesizeAppendsInstructionsVerbatim(t *testing.T) {
	profile := germanProfile(t)
	spec, _ := profile.DeckType("Vocabulary")
	instructions := "Only include nouns; skip verbs entirely."

	complete, seen := scriptedCompletion(t, `{"cards": []}`)
	if _, _, err := SynthesizeCards(complete, "text", profile, spec, "Food", instructions); err != nil {
		t.Fatalf("SynthesizeCards failed: %v", err)
	}
	if !strings.Contains((*seen)[0].System, instructions) {
		t.Fatalf("instructions missing from prompt:\n%s", (*seen)[0].System)
	}
}

func TestParseCardResponseTruncatesLongResponses(t *testing.T) {
	_, err := parseCardResponse("garbage " + strings.Repeat("x", 2000))
	if !errors.Is(err, ErrMalformedGeneration) {
		t.Fatalf("expected ErrMalformedGeneration, got %v", err)
	}
	if !strings.Contains(err.Error(), "truncated") {
		t.Fatalf("long responses should be truncated in the error, got length %d", len(err.Error()))
	}
	if len(err.Error()) > 1024 {
		t.Fatalf("error message too long: %d", len(err.Error()))
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		`{"a":1}`:                 `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
	}
	for in, want := range cases {
		if got := stripFences(in); got != want {
			t.Fatalf("stripFences(%q) = %q, want %q", in, got, want)
		}
	}
}
