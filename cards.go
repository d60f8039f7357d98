package main

import (
	"encoding/json"
	"fmt"
	"strings"
)

type cardList struct {
	Cards []CardRecord `json:"cards" jsonschema:"required"`
}

var cardListSchema = generateSchema[cardList]()

// SynthesizeCards turns extracted text into an ordered sequence of
// question/answer cards. Custom instructions are appended to the prompt
// verbatim but cannot loosen the output contract: a response that does not
// parse into well-formed cards fails with ErrMalformedGeneration, with no
// partial or guessed records. Zero cards is a valid result.
func SynthesizeCards(complete completionFunc, text string, profile LanguageProfile, spec DeckTypeSpec, category, instructions string) ([]CardRecord, LLMUsage, error) {
	systemPrompt, userPrompt := buildCardPrompts(profile, spec, category, instructions, text)
	response, usage, err := complete(completionRequest{
		Kind:       "cards",
		System:     systemPrompt,
		User:       userPrompt,
		Schema:     cardListSchema,
		SchemaName: "CardList",
	})
	if err != nil {
		return nil, usage, err
	}

	cards, err := parseCardResponse(response)
	if err != nil {
		return nil, usage, err
	}
	return cards, usage, nil
}

func parseCardResponse(response string) ([]CardRecord, error) {
	cleaned := stripFences(response)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedGeneration)
	}

	var parsed cardList
	if err := json.Unmarshal([]byte(cleaned), &parsed); err != nil {
		truncated := cleaned
		if len(truncated) > 512 {
			truncated = truncated[:512] + fmt.Sprintf("... [truncated, total_length=%d]", len(cleaned))
		}
		return nil, fmt.Errorf("%w: %v (response: %s)", ErrMalformedGeneration, err, truncated)
	}

	for i, card := range parsed.Cards {
		if strings.TrimSpace(card.Question) == "" || strings.TrimSpace(card.Answer) == "" {
			return nil, fmt.Errorf("%w: card %d has an empty question or answer", ErrMalformedGeneration, i+1)
		}
	}
	return parsed.Cards, nil
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
