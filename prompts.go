package main

import (
	"fmt"
	"strings"
)

const maxPromptTextChars = 24000

// cardTemplates are the per-deck-type answer formats. Deck types pick one
// via DeckTypeSpec.Template; "detailed" is the default.
var cardTemplates = map[string]string{
	"basic": `Generate flashcards in the following JSON format:
{
    "cards": [
        {
            "question": "The main word, character or question",
            "answer": "The direct translation or concise answer"
        }
    ]
}`,

	"detailed": `Generate flashcards in the following JSON format:
{
    "cards": [
        {
            "question": "The main word, character or question",
            "answer": "The direct translation or concise answer\n\nExample sentence or usage notes\nTranslation of the example"
        }
    ]
}

Format the answer with the translation first, followed by the example sentence on a new line.`,

	"radicals": `Generate flashcards in the following JSON format:
{
    "cards": [
        {
            "question": "word or character",
            "answer": "Pinyin. direct translation<br> Variants/original <br> Example sentence (Pinyin). translation"
        }
    ]
}`,
}

func buildClassifyPrompts(profile LanguageProfile, text string) (string, string) {
	var typeLines strings.Builder
	for _, dt := range profile.DeckTypes {
		typeLines.WriteString(fmt.Sprintf("- %s\n", dt.Name))
	}

	systemPrompt := fmt.Sprintf(`You are analyzing a page from a %s language learning textbook.

Determine which one of these deck types the content primarily belongs to:
%s
Respond with ONLY the deck type name, exactly as written above. No other words.`,
		profile.Name, typeLines.String())

	return systemPrompt, clampPromptText(text)
}

func buildCategoryPrompts(language, deckType string, existing []string, text string) (string, string) {
	existingSection := `Examples of categories: "Body Parts", "Food and Drinks", "Clothing", "Family Members", "Colors", "Animals", "Transportation", "Weather", "Professions".`
	if len(existing) > 0 {
		quoted := make([]string, len(existing))
		for i, label := range existing {
			quoted[i] = fmt.Sprintf("%q", label)
		}
		existingSection = fmt.Sprintf(`Existing categories: %s

If the content matches one of these existing categories, respond with that exact category name.
Otherwise, invent a new appropriate category name.`, strings.Join(quoted, ", "))
	}

	systemPrompt := fmt.Sprintf(`You are labeling %s textbook content for the %s deck.

Identify the single topic the content teaches and respond with a short category label (2-4 words, Title Case).
%s

Respond with ONLY the category label. No other words.`, language, deckType, existingSection)

	return systemPrompt, clampPromptText(text)
}

func buildCardPrompts(profile LanguageProfile, spec DeckTypeSpec, category, instructions, text string) (string, string) {
	template := cardTemplates[spec.Template]
	if template == "" {
		template = cardTemplates["detailed"]
	}

	scope := spec.Name
	if category != "" {
		scope = fmt.Sprintf("%s (category: %s)", spec.Name, category)
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf(`You are creating flashcards from %s textbook content for the %s deck.

Extract all material the content teaches and turn it into question-answer flashcard pairs.
Translations go to %s. Create natural, useful example sentences where the format asks for them.

%s

An empty cards array is valid when the content teaches nothing (e.g. front matter).
Respond with ONLY the JSON object, no additional text.`,
		profile.Name, scope, profile.TranslationLanguage, template))

	if strings.TrimSpace(instructions) != "" {
		b.WriteString("\n\nAdditional instructions from the user:\n")
		b.WriteString(instructions)
	}

	return b.String(), clampPromptText(text)
}

func clampPromptText(text string) string {
	if len(text) > maxPromptTextChars {
		return text[:maxPromptTextChars] + "\n...(truncated)"
	}
	return text
}
