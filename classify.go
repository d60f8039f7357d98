package main

import (
	"fmt"
	"log"
	"strings"
)

// ClassifyContent asks the model which declared deck type the text belongs
// to. The model is told to answer with exactly one deck-type name; any
// response that, after trimming and case-normalization, is not a declared
// name fails with ErrClassification. Verbose answers, wrong casing beyond
// a fold match, and invented types are all rejected rather than coerced.
func ClassifyContent(complete completionFunc, text string, profile LanguageProfile) (DeckTypeSpec, LLMUsage, error) {
	systemPrompt, userPrompt := buildClassifyPrompts(profile, text)
	response, usage, err := complete(completionRequest{
		Kind:   "classify",
		System: systemPrompt,
		User:   userPrompt,
	})
	if err != nil {
		return DeckTypeSpec{}, usage, err
	}

	answer := strings.TrimSpace(stripFences(response))
	spec, ok := profile.DeckType(answer)
	if !ok {
		return DeckTypeSpec{}, usage, fmt.Errorf("%w: got %q, allowed: %s",
			ErrClassification, answer, strings.Join(profile.DeckTypeNames(), ", "))
	}
	return spec, usage, nil
}

// ResolveCategory determines the category label for categorized content.
// The model proposes a short topic label; the registry decides. A stored
// label with a matching canonical key always wins over the fresh phrasing,
// so category identity stays stable across runs even when the model's
// wording drifts ("Body Parts" vs "body part"). Returns the label and
// whether it was newly minted into the registry.
func ResolveCategory(complete completionFunc, text, language string, spec DeckTypeSpec, reg *Registry) (string, bool, LLMUsage, error) {
	existing := reg.Categories(language, spec.Name)
	systemPrompt, userPrompt := buildCategoryPrompts(language, spec.Name, existing, text)
	response, usage, err := complete(completionRequest{
		Kind:   "category",
		System: systemPrompt,
		User:   userPrompt,
	})
	if err != nil {
		return "", false, usage, err
	}

	label := displayLabel(stripFences(response))
	if label == "" {
		return "", false, usage, fmt.Errorf("%w: empty category label", ErrMalformedGeneration)
	}

	if stored, ok := reg.Lookup(language, spec.Name, label); ok {
		if stored != label {
			log.Printf("category matched existing label=%q proposed=%q", stored, label)
		}
		return stored, false, usage, nil
	}

	reg.Record(language, spec.Name, label)
	log.Printf("category minted label=%q language=%s deck_type=%s", label, language, spec.Name)
	return label, true, usage, nil
}
