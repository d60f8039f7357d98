package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"sort"
	"strings"
)

func main() {
	pdfPath := flag.String("pdf", "", "path to a PDF file (AI generation mode)")
	startPage := flag.Int("start", 0, "starting page number (1-indexed, inclusive)")
	endPage := flag.Int("end", 0, "ending page number (1-indexed, inclusive)")
	deckType := flag.String("type", "", "known deck type; skips the classification call")
	instructions := flag.String("instructions", "", "extra style instructions appended to the card prompt")
	jsonPath := flag.String("json", "", "path to a JSON batch file (bulk import mode)")
	watch := flag.Bool("watch", false, "run the scheduled import-directory watcher")
	language := flag.String("language", "", "language profile to use (overrides config)")
	outPath := flag.String("out", "", "deck package output path (overrides config)")
	flag.Parse()

	modes := 0
	for _, selected := range []bool{*pdfPath != "", *jsonPath != "", *watch} {
		if selected {
			modes++
		}
	}
	if modes != 1 {
		fmt.Fprintf(os.Stderr, "usage: exactly one of -pdf, -json or -watch is required\n")
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg := LoadConfig()
	if *language != "" {
		cfg.Language = *language
	}
	if *outPath != "" {
		cfg.OutputPath = *outPath
	}

	profiles, err := LoadProfiles(cfg.ProfilesPath)
	if err != nil {
		log.Fatalf("Failed to load language profiles: %v", err)
	}
	profile, err := SelectProfile(profiles, cfg.Language)
	if err != nil {
		log.Fatalf("%v", err)
	}

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init deck store: %v", err)
	}
	defer db.Close()

	registry, err := LoadRegistry(cfg.RegistryPath)
	if err != nil {
		// Degrades to "always mint a new category": safe but suboptimal.
		log.Printf("Registry warning: %v (starting from an empty registry)", err)
	}

	switch {
	case *watch:
		if err := StartImportWatcher(cfg, db, profile); err != nil {
			log.Fatalf("Import watcher error: %v", err)
		}

	case *jsonPath != "":
		batch, err := LoadBulkBatch(*jsonPath)
		if err != nil {
			log.Fatalf("Import error: %v", err)
		}
		summary, err := RouteBatch(db, profile, batch)
		if err != nil {
			log.Fatalf("Import error: %v", err)
		}
		exportAndPrint(cfg, db, summary)

	default:
		cfg.RequireProviderKey()
		if *startPage < 1 || *endPage < 1 {
			log.Fatalf("-start and -end are required with -pdf")
		}

		src, err := OpenPDF(*pdfPath)
		if err != nil {
			log.Fatalf("PDF error: %v", err)
		}

		gen := NewGenerator(cfg, db, registry, profile)
		summary, err := gen.GenerateFromPDF(src, *startPage, *endPage, GenerateOptions{
			DeckType:     *deckType,
			Instructions: *instructions,
		})
		if err != nil {
			log.Fatalf("Generation error (language=%s pages=%d-%d): %v", profile.Name, *startPage, *endPage, err)
		}
		exportAndPrint(cfg, db, summary)
	}
}

// exportAndPrint hands the fully-merged tree to the package writer and
// prints the run summary.
func exportAndPrint(cfg Config, db *sql.DB, summary RunSummary) {
	tree, err := LoadDeckTree(db)
	if err != nil {
		log.Fatalf("Failed to load deck tree: %v", err)
	}

	var writer PackageWriter = JSONPackageWriter{}
	if err := writer.WritePackage(tree, cfg.OutputPath); err != nil {
		log.Fatalf("Export error: %v", err)
	}
	log.Printf("Exported %d decks (%d cards) to %s", len(tree.Decks), tree.TotalCards(), cfg.OutputPath)

	fmt.Println("\nSummary:")
	if summary.ContentType != "" {
		fmt.Printf("  Content type: %s\n", summary.ContentType)
	}
	if len(summary.Categories) > 0 {
		fmt.Printf("  Categories: %s\n", strings.Join(summary.Categories, ", "))
	}
	fmt.Printf("  Cards generated: %d\n", summary.CardCount)

	paths := make([]string, 0, len(summary.DeckActions))
	for path := range summary.DeckActions {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	for _, path := range paths {
		fmt.Printf("  Deck '%s': %s\n", path, summary.DeckActions[path])
	}
	if summary.Usage.TotalTokens() > 0 {
		fmt.Printf("  Tokens: %d in / %d out\n", summary.Usage.InputTokens, summary.Usage.OutputTokens)
	}
}
