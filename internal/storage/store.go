// Package storage persists the results of finished games. SQLite (through the
// pure-Go modernc.org/sqlite driver) is the default; a postgres:// DSN
// selects PostgreSQL instead.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/vovakirdan/tui-dungeon/internal/dungeon"
	"github.com/vovakirdan/tui-dungeon/internal/level"
)

// Store manages the database connection for game results.
type Store struct {
	db      *sql.DB
	dialect dialect
}

var _ dungeon.ResultSaver = (*Store)(nil)

// GameSummary is one row of the game history.
type GameSummary struct {
	ID         string
	Status     level.Status
	Levels     int // levels played
	Players    int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Duration returns how long the game ran.
func (g GameSummary) Duration() time.Duration {
	return g.FinishedAt.Sub(g.StartedAt)
}

// PlayerTotals aggregates one player's results over every stored game.
type PlayerTotals struct {
	Name      string
	Games     int
	Won       int
	KeysFound int
	Exits     int
	Ejections int
}

// Open opens the results database described by dsn and runs migrations.
// A SQLite path may start with ~; its parent directories are created.
func Open(dsn string) (*Store, error) {
	d := dialectFor(dsn)

	if d == sqliteDialect {
		// Expand ~ to home directory
		if dsn != "" && dsn[0] == '~' {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
			}
			dsn = filepath.Join(home, dsn[1:])
		}
		dir := filepath.Dir(dsn)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open(d.driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db, dialect: d}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the schema if it doesn't exist. Times are unix
// milliseconds so both dialects share one schema.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			status TEXT NOT NULL,
			started_at BIGINT NOT NULL,
			finished_at BIGINT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_games_finished ON games(finished_at DESC);

		CREATE TABLE IF NOT EXISTS game_levels (
			game_id TEXT NOT NULL,
			level_index INTEGER NOT NULL,
			status TEXT NOT NULL,
			rounds INTEGER NOT NULL,
			key_finder TEXT NOT NULL DEFAULT '',
			exited TEXT NOT NULL,
			ejected TEXT NOT NULL,
			PRIMARY KEY (game_id, level_index)
		);

		CREATE TABLE IF NOT EXISTS game_players (
			game_id TEXT NOT NULL,
			seq INTEGER NOT NULL,
			name TEXT NOT NULL,
			keys_found INTEGER NOT NULL DEFAULT 0,
			exits INTEGER NOT NULL DEFAULT 0,
			ejections INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (game_id, name)
		);
		CREATE INDEX IF NOT EXISTS idx_game_players_name ON game_players(name);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) exec(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	_, err := tx.ExecContext(ctx, s.dialect.rebind(query), args...)
	return err
}

// SaveGame records a finished game in one transaction. Saving the same game
// twice fails.
func (s *Store) SaveGame(ctx context.Context, r dungeon.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: cannot begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.exec(ctx, tx,
		"INSERT INTO games (id, status, started_at, finished_at) VALUES (?, ?, ?, ?)",
		r.GameID, r.Status.String(), r.StartedAt.UnixMilli(), r.FinishedAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("storage: cannot save game %s: %w", r.GameID, err)
	}

	for _, lr := range r.Levels {
		exited, _ := json.Marshal(nonNil(lr.Exited))
		ejected, _ := json.Marshal(nonNil(lr.Ejected))
		if err := s.exec(ctx, tx,
			`INSERT INTO game_levels (game_id, level_index, status, rounds, key_finder, exited, ejected)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			r.GameID, lr.Index, lr.Status.String(), lr.Rounds, lr.KeyFinder, string(exited), string(ejected),
		); err != nil {
			return fmt.Errorf("storage: cannot save level %d: %w", lr.Index, err)
		}
	}

	for i, p := range r.Players {
		if err := s.exec(ctx, tx,
			`INSERT INTO game_players (game_id, seq, name, keys_found, exits, ejections)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			r.GameID, i, p.Name, p.KeysFound, p.Exits, p.Ejections,
		); err != nil {
			return fmt.Errorf("storage: cannot save player %s: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: cannot commit game %s: %w", r.GameID, err)
	}
	return nil
}

// RecentGames lists the most recently finished games.
func (s *Store) RecentGames(ctx context.Context, limit int) ([]GameSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT g.id, g.status, g.started_at, g.finished_at,
		        (SELECT COUNT(*) FROM game_levels l WHERE l.game_id = g.id),
		        (SELECT COUNT(*) FROM game_players p WHERE p.game_id = g.id)
		 FROM games g
		 ORDER BY g.finished_at DESC, g.id
		 LIMIT ?`),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query games: %w", err)
	}
	defer rows.Close()

	var games []GameSummary
	for rows.Next() {
		var g GameSummary
		var status string
		var started, finished int64
		if err := rows.Scan(&g.ID, &status, &started, &finished, &g.Levels, &g.Players); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		g.Status = parseStatus(status)
		g.StartedAt = time.UnixMilli(started)
		g.FinishedAt = time.UnixMilli(finished)
		games = append(games, g)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return games, nil
}

// Game loads one game. It returns nil when the game is unknown.
func (s *Store) Game(ctx context.Context, id string) (*dungeon.Result, error) {
	r := dungeon.Result{GameID: id}
	var status string
	var started, finished int64

	err := s.db.QueryRowContext(ctx, s.dialect.rebind(
		"SELECT status, started_at, finished_at FROM games WHERE id = ?"), id,
	).Scan(&status, &started, &finished)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query game: %w", err)
	}
	r.Status = parseStatus(status)
	r.StartedAt = time.UnixMilli(started)
	r.FinishedAt = time.UnixMilli(finished)

	if r.Levels, err = s.levels(ctx, id); err != nil {
		return nil, err
	}
	if r.Players, err = s.players(ctx, id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s *Store) levels(ctx context.Context, id string) ([]dungeon.LevelResult, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT level_index, status, rounds, key_finder, exited, ejected
		 FROM game_levels WHERE game_id = ? ORDER BY level_index`), id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query levels: %w", err)
	}
	defer rows.Close()

	var levels []dungeon.LevelResult
	for rows.Next() {
		var lr dungeon.LevelResult
		var status, exited, ejected string
		if err := rows.Scan(&lr.Index, &status, &lr.Rounds, &lr.KeyFinder, &exited, &ejected); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		lr.Status = parseStatus(status)
		if err := json.Unmarshal([]byte(exited), &lr.Exited); err != nil {
			return nil, fmt.Errorf("storage: corrupt exited list: %w", err)
		}
		if err := json.Unmarshal([]byte(ejected), &lr.Ejected); err != nil {
			return nil, fmt.Errorf("storage: corrupt ejected list: %w", err)
		}
		levels = append(levels, lr)
	}
	return levels, rows.Err()
}

func (s *Store) players(ctx context.Context, id string) ([]dungeon.PlayerStats, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT name, keys_found, exits, ejections
		 FROM game_players WHERE game_id = ? ORDER BY seq`), id)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query players: %w", err)
	}
	defer rows.Close()

	var players []dungeon.PlayerStats
	for rows.Next() {
		var p dungeon.PlayerStats
		if err := rows.Scan(&p.Name, &p.KeysFound, &p.Exits, &p.Ejections); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// Leaderboard aggregates every stored game per player, most exits first.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]PlayerTotals, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(
		`SELECT p.name, COUNT(*),
		        SUM(CASE WHEN g.status = ? THEN 1 ELSE 0 END),
		        SUM(p.keys_found), SUM(p.exits), SUM(p.ejections)
		 FROM game_players p JOIN games g ON g.id = p.game_id
		 GROUP BY p.name
		 ORDER BY SUM(p.exits) DESC, SUM(p.keys_found) DESC, p.name
		 LIMIT ?`),
		level.StatusWon.String(), limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var totals []PlayerTotals
	for rows.Next() {
		var t PlayerTotals
		if err := rows.Scan(&t.Name, &t.Games, &t.Won, &t.KeysFound, &t.Exits, &t.Ejections); err != nil {
			return nil, fmt.Errorf("storage: cannot scan stats row: %w", err)
		}
		totals = append(totals, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return totals, nil
}

func parseStatus(s string) level.Status {
	st, _ := level.ParseStatus(s)
	return st
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
