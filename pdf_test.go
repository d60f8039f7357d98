package main

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakePages is a PageSource backed by an in-memory slice; page N is
// pages[N-1].
type fakePages []string

func (f fakePages) PageCount() int { return len(f) }

func (f fakePages) PageText(page int) (string, error) {
	if page < 1 || page > len(f) {
		return "", fmt.Errorf("page %d out of range", page)
	}
	return f[page-1], nil
}

func TestExtractRangeJoinsPages(t *testing.T) {
	src := fakePages{"one", "two", "three"}

	text, err := ExtractRange(src, 1, 3)
	if err != nil {
		t.Fatalf("ExtractRange failed: %v", err)
	}
	if text != "one\ntwo\nthree" {
		t.Fatalf("unexpected joined text: %q", text)
	}

	text, err = ExtractRange(src, 2, 2)
	if err != nil {
		t.Fatalf("single-page range failed: %v", err)
	}
	if text != "two" {
		t.Fatalf("unexpected single-page text: %q", text)
	}
}

func TestExtractRangeEmptyPagesContributeEmptyString(t *testing.T) {
	src := fakePages{"alpha", "", "gamma"}

	text, err := ExtractRange(src, 1, 3)
	if err != nil {
		t.Fatalf("ExtractRange failed: %v", err)
	}
	if text != "alpha\n\ngamma" {
		t.Fatalf("expected blank line for textless page, got %q", text)
	}
}

func TestExtractRangeRejectsInvalidBounds(t *testing.T) {
	src := fakePages{"one", "two", "three"}

	cases := []struct{ start, end int }{
		{0, 2},  // below lower bound
		{1, 4},  // past the last page
		{3, 2},  // inverted
		{0, 0},  // zero is not a page
		{4, 10}, // entirely out of range
	}
	for _, tc := range cases {
		_, err := ExtractRange(src, tc.start, tc.end)
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("range %d-%d: expected ErrInvalidRange, got %v", tc.start, tc.end, err)
		}
	}
}

func TestExtractRangeWideningNeverShrinks(t *testing.T) {
	src := fakePages{"a", "bb", "ccc", "dddd", "eeeee"}

	prev := -1
	for end := 2; end <= 5; end++ {
		text, err := ExtractRange(src, 2, end)
		if err != nil {
			t.Fatalf("range 2-%d failed: %v", end, err)
		}
		if len(text) < prev {
			t.Fatalf("widening to page %d shrank output: %d < %d", end, len(text), prev)
		}
		prev = len(text)
	}
}

func TestExtractRangeErrorNamesBounds(t *testing.T) {
	src := fakePages{"one", "two"}

	_, err := ExtractRange(src, 1, 9)
	if err == nil || !strings.Contains(err.Error(), "1-9") || !strings.Contains(err.Error(), "2-page") {
		t.Fatalf("expected error to name the requested range and document size, got %v", err)
	}
}
