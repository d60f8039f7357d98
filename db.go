package main

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// The deck store is what makes deck identity durable: the same DeckPath
// always lands on the same decks row, across invocations and restarts.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	schema := `
	CREATE TABLE IF NOT EXISTS decks (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		deck_id    INTEGER NOT NULL,
		path       TEXT NOT NULL UNIQUE,
		language   TEXT NOT NULL,
		deck_type  TEXT NOT NULL,
		category   TEXT DEFAULT '',
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_decks_language ON decks(language);

	CREATE TABLE IF NOT EXISTS cards (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		deck_ref   INTEGER NOT NULL REFERENCES decks(id),
		question   TEXT NOT NULL,
		answer     TEXT NOT NULL,
		position   INTEGER NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_cards_deck ON cards(deck_ref);
	`
	_, err = db.Exec(schema)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// EnsureDeck finds or creates the decks row for a path. A pre-existing row
// whose identity columns disagree with the path components indicates a
// broken invariant (path derivation is deterministic) and fails with
// ErrRoutingConflict rather than silently rerouting cards.
func EnsureDeck(db *sql.DB, path DeckPath) (int64, bool, error) {
	var ref int64
	var language, deckType, category string
	err := db.QueryRow(
		`SELECT id, language, deck_type, category FROM decks WHERE path = ?`,
		path.Name(),
	).Scan(&ref, &language, &deckType, &category)

	switch {
	case err == nil:
		if language != path.Language || deckType != path.DeckType || category != path.Category {
			return 0, false, fmt.Errorf("%w: deck %q is registered as %s/%s/%s",
				ErrRoutingConflict, path.Name(), language, deckType, category)
		}
		return ref, false, nil
	case err != sql.ErrNoRows:
		return 0, false, err
	}

	result, err := db.Exec(
		`INSERT INTO decks (deck_id, path, language, deck_type, category) VALUES (?, ?, ?, ?, ?)`,
		path.DeckID(), path.Name(), path.Language, path.DeckType, path.Category,
	)
	if err != nil {
		return 0, false, err
	}
	ref, err = result.LastInsertId()
	if err != nil {
		return 0, false, err
	}
	return ref, true, nil
}

// AppendCards adds cards to the end of a deck's card list. Strictly
// additive: existing rows are never touched.
func AppendCards(db *sql.DB, deckRef int64, cards []CardRecord) (int, error) {
	if len(cards) == 0 {
		return 0, nil
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var next int
	if err := tx.QueryRow(
		`SELECT COALESCE(MAX(position), -1) + 1 FROM cards WHERE deck_ref = ?`, deckRef,
	).Scan(&next); err != nil {
		return 0, err
	}

	stmt, err := tx.Prepare(
		`INSERT INTO cards (deck_ref, question, answer, position) VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	inserted := 0
	for _, card := range cards {
		if _, err := stmt.Exec(deckRef, card.Question, card.Answer, next+inserted); err != nil {
			return inserted, err
		}
		inserted++
	}

	return inserted, tx.Commit()
}

// DeckCards returns a deck's cards in append order.
func DeckCards(db *sql.DB, deckRef int64) ([]CardRecord, error) {
	rows, err := db.Query(
		`SELECT question, answer FROM cards WHERE deck_ref = ? ORDER BY position, id`, deckRef,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []CardRecord
	for rows.Next() {
		var card CardRecord
		if err := rows.Scan(&card.Question, &card.Answer); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}
	return cards, rows.Err()
}

// LoadDeckTree reads the fully-merged deck hierarchy back out of the
// store, ordered by path for deterministic export.
func LoadDeckTree(db *sql.DB) (DeckTree, error) {
	rows, err := db.Query(
		`SELECT id, deck_id, path, language, deck_type, category FROM decks ORDER BY path`,
	)
	if err != nil {
		return DeckTree{}, err
	}
	defer rows.Close()

	var tree DeckTree
	var refs []int64
	for rows.Next() {
		var deck DeckExport
		var ref int64
		if err := rows.Scan(&ref, &deck.DeckID, &deck.Path, &deck.Language, &deck.DeckType, &deck.Category); err != nil {
			return DeckTree{}, err
		}
		tree.Decks = append(tree.Decks, deck)
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return DeckTree{}, err
	}

	for i, ref := range refs {
		cards, err := DeckCards(db, ref)
		if err != nil {
			return DeckTree{}, err
		}
		tree.Decks[i].Cards = cards
	}
	return tree, nil
}
