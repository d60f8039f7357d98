package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"
)

// Registry is the persisted record of previously-seen category labels,
// keyed by language and deck type. Lookup is case- and whitespace-
// insensitive; the first-seen display label is the source of truth for
// casing once a category exists.
type Registry struct {
	path string
	data map[string]map[string][]string
}

// LoadRegistry reads the registry document from path. A missing file is a
// fresh registry. A corrupt or unreadable file also yields a usable empty
// registry, with the wrapped ErrRegistryCorrupt returned alongside it so
// the caller can surface the warning; it is never fatal.
func LoadRegistry(path string) (*Registry, error) {
	reg := &Registry{path: path, data: make(map[string]map[string][]string)}

	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return reg, nil
	}
	if err != nil {
		return reg, fmt.Errorf("%w: %v", ErrRegistryCorrupt, err)
	}
	if err := json.Unmarshal(raw, &reg.data); err != nil {
		reg.data = make(map[string]map[string][]string)
		return reg, fmt.Errorf("%w: %v", ErrRegistryCorrupt, err)
	}

	// Drop any canonical-key collisions a hand-edited file may carry; the
	// on-disk state must never contain two labels with the same key.
	for language, byType := range reg.data {
		for deckType, labels := range byType {
			seen := make(map[string]bool, len(labels))
			deduped := labels[:0]
			for _, label := range labels {
				key := canonicalKey(label)
				if key == "" || seen[key] {
					continue
				}
				seen[key] = true
				deduped = append(deduped, label)
			}
			reg.data[language][deckType] = deduped
		}
	}
	return reg, nil
}

// Lookup finds a previously-recorded category whose canonical key matches
// the candidate and returns the stored display label, preserving the
// first-seen casing convention.
func (r *Registry) Lookup(language, deckType, candidate string) (string, bool) {
	key := canonicalKey(candidate)
	if key == "" {
		return "", false
	}
	for _, label := range r.data[language][deckType] {
		if canonicalKey(label) == key {
			return label, true
		}
	}
	return "", false
}

// Record inserts a label unless a canonical collision already exists.
// Returns true when the label was newly added.
func (r *Registry) Record(language, deckType, label string) bool {
	label = strings.TrimSpace(label)
	if label == "" {
		return false
	}
	if _, ok := r.Lookup(language, deckType, label); ok {
		return false
	}
	if r.data[language] == nil {
		r.data[language] = make(map[string][]string)
	}
	r.data[language][deckType] = append(r.data[language][deckType], label)
	return true
}

// Categories returns the recorded labels for one language/deck-type pair
// in first-seen order.
func (r *Registry) Categories(language, deckType string) []string {
	labels := r.data[language][deckType]
	out := make([]string, len(labels))
	copy(out, labels)
	return out
}

// Save rewrites the whole registry document atomically (temp file then
// rename) so a mid-write crash can never leave a truncated registry.
func (r *Registry) Save() error {
	data, err := json.MarshalIndent(r.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}
	dir := filepath.Dir(r.path)
	tmp, err := os.CreateTemp(dir, ".registry-*")
	if err != nil {
		return fmt.Errorf("write registry: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write registry: %w", err)
	}
	if err := os.Rename(tmp.Name(), r.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write registry: %w", err)
	}
	return nil
}

// canonicalKey normalizes a label for equality checks: trimmed, runs of
// whitespace collapsed to single spaces, case-folded. Explicit two-step
// normalize-then-compare; nothing relies on container case behavior.
func canonicalKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// displayLabel normalizes a freshly generated label for display: trimmed,
// whitespace collapsed, Title Case.
func displayLabel(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		runes := []rune(w)
		runes[0] = unicode.ToUpper(runes[0])
		for j := 1; j < len(runes); j++ {
			runes[j] = unicode.ToLower(runes[j])
		}
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
