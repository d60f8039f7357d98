package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DeckExport is one fully-merged deck handed to the package writer.
type DeckExport struct {
	DeckID   int64        `json:"deck_id"`
	Path     string       `json:"path"`
	Language string       `json:"language"`
	DeckType string       `json:"deck_type"`
	Category string       `json:"category,omitempty"`
	Cards    []CardRecord `json:"cards"`
}

// DeckTree is the complete hierarchy in path order.
type DeckTree struct {
	Decks []DeckExport `json:"decks"`
}

func (t DeckTree) TotalCards() int {
	total := 0
	for _, deck := range t.Decks {
		total += len(deck.Cards)
	}
	return total
}

// PackageWriter serializes a merged deck tree to a target file. The binary
// flashcard-package writer plugs in behind this interface; JSONPackageWriter
// is the in-repo implementation.
type PackageWriter interface {
	WritePackage(tree DeckTree, path string) error
}

type JSONPackageWriter struct{}

func (JSONPackageWriter) WritePackage(tree DeckTree, path string) error {
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal deck tree: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".package-*")
	if err != nil {
		return fmt.Errorf("write package: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write package: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write package: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write package: %w", err)
	}
	return nil
}
