package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// DeckTypeSpec declares one top-level content category for a language.
// Categorized deck types get per-topic sub-decks (e.g. Vocabulary::Food);
// the rest route straight to Language::DeckType.
type DeckTypeSpec struct {
	Name        string `yaml:"name"`
	Categorized bool   `yaml:"categorized"`
	Template    string `yaml:"template"` // answer-format key, see cardTemplates
}

// LanguageProfile is the static per-language configuration. The locale
// codes are only consumed downstream by the card renderer.
type LanguageProfile struct {
	Name                string         `yaml:"name"`
	LocaleCode          string         `yaml:"locale_code"`
	TranslationLanguage string         `yaml:"translation_language"`
	TranslationCode     string         `yaml:"translation_code"`
	DeckTypes           []DeckTypeSpec `yaml:"deck_types"`
}

func (p LanguageProfile) DeckTypeNames() []string {
	names := make([]string, 0, len(p.DeckTypes))
	for _, dt := range p.DeckTypes {
		names = append(names, dt.Name)
	}
	return names
}

// DeckType resolves a deck-type name case-insensitively to its declared spec.
func (p LanguageProfile) DeckType(name string) (DeckTypeSpec, bool) {
	name = strings.TrimSpace(name)
	for _, dt := range p.DeckTypes {
		if strings.EqualFold(dt.Name, name) {
			return dt, true
		}
	}
	return DeckTypeSpec{}, false
}

var builtinProfiles = []LanguageProfile{
	{
		Name:                "German",
		LocaleCode:          "de_DE",
		TranslationLanguage: "English",
		TranslationCode:     "en_US",
		DeckTypes: []DeckTypeSpec{
			{Name: "Vocabulary", Categorized: true, Template: "detailed"},
			{Name: "Grammar", Categorized: false, Template: "basic"},
		},
	},
	{
		Name:                "Chinese",
		LocaleCode:          "zh_CN",
		TranslationLanguage: "English",
		TranslationCode:     "en_US",
		DeckTypes: []DeckTypeSpec{
			{Name: "Vocabulary", Categorized: true, Template: "detailed"},
			{Name: "Grammar", Categorized: false, Template: "basic"},
			{Name: "Radicals", Categorized: false, Template: "radicals"},
		},
	},
}

// LoadProfiles returns the built-in profiles, with entries from the YAML
// profiles file (if any) replacing or extending them by language name.
func LoadProfiles(path string) ([]LanguageProfile, error) {
	profiles := append([]LanguageProfile(nil), builtinProfiles...)
	if strings.TrimSpace(path) == "" {
		return profiles, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profiles: %w", err)
	}
	var loaded struct {
		Languages []LanguageProfile `yaml:"languages"`
	}
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("parse profiles yaml: %w", err)
	}

	for _, lp := range loaded.Languages {
		if err := validateProfile(lp); err != nil {
			return nil, fmt.Errorf("profile %q: %w", lp.Name, err)
		}
		replaced := false
		for i, existing := range profiles {
			if strings.EqualFold(existing.Name, lp.Name) {
				profiles[i] = lp
				replaced = true
				break
			}
		}
		if !replaced {
			profiles = append(profiles, lp)
		}
	}
	return profiles, nil
}

func validateProfile(p LanguageProfile) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("missing language name")
	}
	if len(p.DeckTypes) == 0 {
		return fmt.Errorf("no deck types declared")
	}
	seen := make(map[string]bool, len(p.DeckTypes))
	for _, dt := range p.DeckTypes {
		if strings.TrimSpace(dt.Name) == "" {
			return fmt.Errorf("deck type with empty name")
		}
		key := strings.ToLower(dt.Name)
		if seen[key] {
			return fmt.Errorf("duplicate deck type %q", dt.Name)
		}
		seen[key] = true
		if dt.Template != "" {
			if _, ok := cardTemplates[dt.Template]; !ok {
				return fmt.Errorf("deck type %q: unknown template %q", dt.Name, dt.Template)
			}
		}
	}
	return nil
}

func SelectProfile(profiles []LanguageProfile, language string) (LanguageProfile, error) {
	for _, p := range profiles {
		if strings.EqualFold(p.Name, strings.TrimSpace(language)) {
			return p, nil
		}
	}
	return LanguageProfile{}, fmt.Errorf("no language profile named %q", language)
}
