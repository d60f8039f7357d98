package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// Generator runs the page-range pipeline: extract, classify, resolve the
// category, synthesize cards, route. The registry is shared state across
// page ranges within a run, so ranges are processed strictly in sequence.
type Generator struct {
	db       *sql.DB
	registry *Registry
	profile  LanguageProfile
	complete completionFunc
}

func NewGenerator(cfg Config, db *sql.DB, registry *Registry, profile LanguageProfile) *Generator {
	return &Generator{
		db:       db,
		registry: registry,
		profile:  profile,
		complete: providerCompletion(cfg),
	}
}

// GenerateOptions carries the per-run knobs: a known deck type to skip
// classification, and free-form style instructions for synthesis.
type GenerateOptions struct {
	DeckType     string
	Instructions string
}

func (g *Generator) GenerateFromPDF(src PageSource, start, end int, opts GenerateOptions) (RunSummary, error) {
	var summary RunSummary

	// Bounds are checked before anything reaches the model.
	text, err := ExtractRange(src, start, end)
	if err != nil {
		return summary, err
	}
	log.Printf("pipeline extracted pages=%d-%d chars=%d", start, end, len(text))

	var spec DeckTypeSpec
	if opts.DeckType != "" {
		var ok bool
		spec, ok = g.profile.DeckType(opts.DeckType)
		if !ok {
			return summary, fmt.Errorf("%w: got %q, allowed: %s",
				ErrClassification, opts.DeckType, strings.Join(g.profile.DeckTypeNames(), ", "))
		}
		log.Printf("pipeline deck type provided=%s (classification skipped)", spec.Name)
	} else {
		var usage LLMUsage
		spec, usage, err = ClassifyContent(g.complete, text, g.profile)
		summary.Usage.Add(usage)
		if err != nil {
			return summary, fmt.Errorf("classify pages %d-%d of %s: %w", start, end, g.profile.Name, err)
		}
		log.Printf("pipeline classified deck_type=%s", spec.Name)
	}
	summary.ContentType = spec.Name

	category := ""
	if spec.Categorized {
		label, minted, usage, err := ResolveCategory(g.complete, text, g.profile.Name, spec, g.registry)
		summary.Usage.Add(usage)
		if err != nil {
			return summary, fmt.Errorf("resolve category for %s/%s: %w", g.profile.Name, spec.Name, err)
		}
		category = label
		summary.Categories = append(summary.Categories, label)
		if minted {
			// Flush immediately so a later failure can't unmint the label;
			// lookup-before-mint makes replays harmless either way.
			if err := g.registry.Save(); err != nil {
				log.Printf("registry save warning: %v", err)
			}
		}
	}

	cards, usage, err := SynthesizeCards(g.complete, text, g.profile, spec, category, opts.Instructions)
	summary.Usage.Add(usage)
	if err != nil {
		return summary, fmt.Errorf("synthesize cards for %s/%s pages %d-%d: %w",
			g.profile.Name, spec.Name, start, end, err)
	}
	log.Printf("pipeline synthesized cards=%d tokens_in=%d tokens_out=%d",
		len(cards), summary.Usage.InputTokens, summary.Usage.OutputTokens)

	path, created, err := Route(g.db, g.profile.Name, spec.Name, category, cards)
	if err != nil {
		return summary, err
	}
	summary.recordDeck(path, created)
	summary.CardCount = len(cards)

	return summary, nil
}

// ImportBatch feeds a pre-structured batch through the shared router,
// bypassing extraction, classification, and synthesis.
func (g *Generator) ImportBatch(batch BulkBatch) (RunSummary, error) {
	return RouteBatch(g.db, g.profile, batch)
}
