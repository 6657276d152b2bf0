// Package persistence provides SQLite-based ecosystem state storage.
package persistence

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/talgya/ecosim/internal/config"
	"github.com/talgya/ecosim/internal/eco"
	"github.com/talgya/ecosim/internal/engine"
	"github.com/talgya/ecosim/internal/species"
	"github.com/talgya/ecosim/internal/telemetry"
)

// DB wraps a SQLite connection for ecosystem state persistence.
type DB struct {
	conn *sqlx.DB
}

// Open opens or creates a SQLite database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS genus (
		name TEXT PRIMARY KEY,
		role INTEGER NOT NULL,
		population INTEGER NOT NULL,
		growth_rate REAL NOT NULL,
		resource_need REAL NOT NULL,
		carrying_capacity INTEGER NOT NULL,
		prey TEXT NOT NULL DEFAULT ''
	);

	CREATE TABLE IF NOT EXISTS pool (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		capacity REAL NOT NULL,
		max_capacity REAL NOT NULL,
		replenishment REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		generation INTEGER NOT NULL,
		genus TEXT NOT NULL,
		role TEXT NOT NULL,
		pop_before INTEGER NOT NULL,
		pop_after INTEGER NOT NULL,
		demand REAL NOT NULL,
		granted REAL NOT NULL,
		preyed REAL NOT NULL,
		pool_after REAL NOT NULL,
		extinct INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS eco_meta (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generations_gen ON generations(generation);
	CREATE INDEX IF NOT EXISTS idx_generations_genus ON generations(genus);
	`
	_, err := db.conn.Exec(schema)
	return err
}

// SaveState writes the full ecosystem state (full replace of the genus
// table, pool row, and metadata) in one transaction.
func (db *DB) SaveState(e *eco.Ecosystem) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM genus"); err != nil {
		return err
	}

	stmt, err := tx.Preparex(`INSERT INTO genus
		(name, role, population, growth_rate, resource_need, carrying_capacity, prey)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, g := range e.Store.List() {
		_, err := stmt.Exec(
			g.Name, g.Role, g.Population, g.GrowthRate,
			g.ResourceNeed, g.CarryingCapacity, g.Prey,
		)
		if err != nil {
			return fmt.Errorf("insert genus %q: %w", g.Name, err)
		}
	}

	pool := e.Pool.State()
	_, err = tx.Exec(`INSERT OR REPLACE INTO pool (id, capacity, max_capacity, replenishment)
		VALUES (1, ?, ?, ?)`,
		pool.Capacity, pool.MaxCapacity, pool.Replenishment,
	)
	if err != nil {
		return fmt.Errorf("save pool: %w", err)
	}

	meta := map[string]string{
		"ecosystem_id":    e.ID.String(),
		"last_generation": strconv.Itoa(e.Sim.Generation()),
	}
	for key, value := range meta {
		if _, err := tx.Exec(
			"INSERT OR REPLACE INTO eco_meta (key, value) VALUES (?, ?)",
			key, value,
		); err != nil {
			return fmt.Errorf("save meta %q: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	slog.Info("ecosystem state saved", "genus", e.Store.Len(), "generation", e.Sim.Generation())
	return nil
}

// HasState reports whether a saved ecosystem exists in this database.
func (db *DB) HasState() bool {
	var count int
	if err := db.conn.Get(&count, "SELECT COUNT(*) FROM eco_meta WHERE key = 'ecosystem_id'"); err != nil {
		return false
	}
	return count > 0
}

// LoadState rebuilds an ecosystem instance from the database. The
// configuration supplies everything that is not persisted state (model
// threshold, pool ceiling and replenishment, seasonal variation).
func (db *DB) LoadState(cfg *config.Config) (*eco.Ecosystem, error) {
	var genus []species.Genus
	if err := db.conn.Select(&genus, `SELECT name, role, population, growth_rate,
		resource_need, carrying_capacity, prey FROM genus ORDER BY name`); err != nil {
		return nil, fmt.Errorf("load genus: %w", err)
	}

	var row struct {
		Capacity      float64 `db:"capacity"`
		MaxCapacity   float64 `db:"max_capacity"`
		Replenishment float64 `db:"replenishment"`
	}
	err := db.conn.Get(&row, "SELECT capacity, max_capacity, replenishment FROM pool WHERE id = 1")
	if errors.Is(err, sql.ErrNoRows) {
		row.Capacity = cfg.Ecosystem.InitialResources
		row.MaxCapacity = cfg.Ecosystem.MaxResourceCapacity
		row.Replenishment = cfg.Ecosystem.ReplenishmentRate
	} else if err != nil {
		return nil, fmt.Errorf("load pool: %w", err)
	}

	id := uuid.New()
	if idStr, err := db.GetMeta("ecosystem_id"); err == nil {
		if parsed, err := uuid.Parse(idStr); err == nil {
			id = parsed
		}
	}

	generation := 0
	if genStr, err := db.GetMeta("last_generation"); err == nil {
		if n, err := strconv.Atoi(genStr); err == nil {
			generation = n
		}
	}

	return eco.Restore(cfg, id, genus, engine.PoolState{
		Capacity:      row.Capacity,
		MaxCapacity:   row.MaxCapacity,
		Replenishment: row.Replenishment,
	}, generation)
}

// AppendReport appends one generation's outcomes to the history table.
func (db *DB) AppendReport(r *engine.Report) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, o := range r.Outcomes {
		extinct, skipped := 0, 0
		if o.Extinct {
			extinct = 1
		}
		if o.Skipped {
			skipped = 1
		}
		_, err := tx.Exec(`INSERT INTO generations
			(generation, genus, role, pop_before, pop_after, demand, granted, preyed, pool_after, extinct, skipped)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.Generation, o.Name, o.Role, o.Before, o.After,
			o.Demand, o.Granted, o.Preyed, r.PoolAfter, extinct, skipped,
		)
		if err != nil {
			return fmt.Errorf("insert generation row for %q: %w", o.Name, err)
		}
	}

	return tx.Commit()
}

// HistoryRows returns all recorded generation rows in generation order,
// ready for CSV export.
func (db *DB) HistoryRows() ([]telemetry.Row, error) {
	rows, err := db.conn.Queryx(`SELECT generation, genus, role, pop_before, pop_after,
		demand, granted, preyed, pool_after, extinct, skipped
		FROM generations ORDER BY generation, genus`)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}
	defer rows.Close()

	var out []telemetry.Row
	for rows.Next() {
		var r telemetry.Row
		var extinct, skipped int
		if err := rows.Scan(
			&r.Generation, &r.Genus, &r.Role, &r.Before, &r.After,
			&r.Demand, &r.Granted, &r.Preyed, &r.PoolAfter, &extinct, &skipped,
		); err != nil {
			return nil, err
		}
		r.Extinct = extinct != 0
		r.Skipped = skipped != 0
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetMeta retrieves a metadata value.
func (db *DB) GetMeta(key string) (string, error) {
	var value string
	err := db.conn.Get(&value, "SELECT value FROM eco_meta WHERE key = ?", key)
	return value, err
}
