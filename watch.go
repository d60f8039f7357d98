package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/slack-go/slack"
)

// WatchResult tracks what one import sweep did.
type WatchResult struct {
	Scanned  int
	Imported int
	Cards    int
	Errors   []string
}

// ImportPendingBatches scans the import directory for *.json batch files,
// routes each through the shared Deck Router, and renames processed files
// to <name>.done so a sweep never re-imports them. A bad batch file is
// recorded and skipped; it does not stop the sweep.
func ImportPendingBatches(cfg Config, db *sql.DB, profile LanguageProfile) (WatchResult, error) {
	var result WatchResult

	entries, err := os.ReadDir(cfg.ImportDir)
	if err != nil {
		return result, fmt.Errorf("scan import dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	result.Scanned = len(names)

	for _, name := range names {
		path := filepath.Join(cfg.ImportDir, name)

		batch, err := LoadBulkBatch(path)
		if err != nil {
			log.Printf("watch skip file=%s err=%v", name, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		summary, err := RouteBatch(db, profile, batch)
		if err != nil {
			log.Printf("watch import error file=%s err=%v", name, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", name, err))
			continue
		}

		if err := os.Rename(path, path+".done"); err != nil {
			// Leave the error visible: an unrenamed file would re-import
			// next sweep and duplicate its cards.
			log.Printf("watch rename error file=%s err=%v", name, err)
			result.Errors = append(result.Errors, fmt.Sprintf("%s: rename: %v", name, err))
			continue
		}

		log.Printf("watch imported file=%s cards=%d decks=%d", name, summary.CardCount, len(summary.DeckActions))
		result.Imported++
		result.Cards += summary.CardCount
	}

	return result, nil
}

// FormatWatchSummary returns a human-readable summary of one sweep.
func FormatWatchSummary(result WatchResult) string {
	if result.Scanned == 0 {
		return "No batch files found."
	}
	msg := fmt.Sprintf("Imported %d of %d batch files (%d cards)", result.Imported, result.Scanned, result.Cards)
	if len(result.Errors) > 0 {
		msg += fmt.Sprintf("\nWarnings:\n%s", strings.Join(result.Errors, "\n"))
	}
	return msg
}

// StartImportWatcher runs a cron-scheduled sweep of the import directory.
// The schedule is a standard 5-field cron expression (minute hour
// day-of-month month day-of-week). When a Slack token and channel are
// configured, each sweep that finds files posts its summary there.
func StartImportWatcher(cfg Config, db *sql.DB, profile LanguageProfile) error {
	schedule := strings.TrimSpace(cfg.ImportSchedule)
	if schedule == "" {
		return fmt.Errorf("import_schedule is not set")
	}
	if strings.TrimSpace(cfg.ImportDir) == "" {
		return fmt.Errorf("import_dir is not set")
	}

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		return fmt.Errorf("invalid import_schedule %q: %w", schedule, err)
	}

	if err := os.MkdirAll(cfg.ImportDir, 0755); err != nil {
		return fmt.Errorf("create import dir: %w", err)
	}

	var api *slack.Client
	if cfg.SlackBotToken != "" && cfg.NotifyChannelID != "" {
		api = slack.New(cfg.SlackBotToken)
	}

	log.Printf("Import watcher scheduled (cron: %s) dir=%s", schedule, cfg.ImportDir)

	for {
		now := time.Now()
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next import sweep at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		time.Sleep(wait)

		result, sweepErr := ImportPendingBatches(cfg, db, profile)
		summary := FormatWatchSummary(result)
		if sweepErr != nil {
			log.Printf("Import sweep error: %v", sweepErr)
			continue
		}
		log.Printf("Import sweep complete: %s", summary)

		if api != nil && result.Scanned > 0 {
			_, _, postErr := api.PostMessage(cfg.NotifyChannelID, slack.MsgOptionText(
				fmt.Sprintf("Card import complete: %s", summary), false))
			if postErr != nil {
				log.Printf("Import sweep post error: %v", postErr)
			}
		}
	}
}
