package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/warfroggy/clashlens/internal/domain/model"
	"github.com/warfroggy/clashlens/pkg/logger"
)

const (
	stmtInsertSnapshot = "insert_snapshot"
	stmtPlayerHistory  = "player_history"
	stmtListPlayers    = "list_players"
	stmtCountRows      = "count_rows"
)

// History windows on the row's observation time, its captured date when one
// was reported and its ingestion time otherwise, so a backfilled batch of
// old-dated rows lands in the same window the memory store puts it in.
// Ordering stays on ingestion time to preserve arrival order for ties.
const (
	sqlInsertSnapshot = `INSERT INTO player_snapshots (id, player_tag, captured_at, payload)
		VALUES ($1, $2, $3, $4) ON CONFLICT (id) DO NOTHING`
	sqlPlayerHistory = `SELECT payload FROM player_snapshots
		WHERE player_tag = $1 AND ($2::timestamptz IS NULL OR COALESCE(captured_at, ingested_at) >= $2)
		ORDER BY ingested_at`
	sqlListPlayers = `SELECT DISTINCT player_tag FROM player_snapshots ORDER BY player_tag`
	sqlCountRows   = `SELECT count(*) FROM player_snapshots`
)

const snapshotsSchema = `
CREATE TABLE IF NOT EXISTS player_snapshots (
	id          TEXT PRIMARY KEY,
	player_tag  TEXT NOT NULL,
	captured_at TIMESTAMPTZ,
	payload     JSONB NOT NULL,
	ingested_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS player_snapshots_tag_idx
	ON player_snapshots (player_tag, ingested_at);
`

// PostgresStore persists snapshot rows in Postgres. History orders by
// ingestion time so the engine's tie-break sees the same order rows
// arrived in.
type PostgresStore struct {
	pool *pgxpool.Pool
	log  logger.Logger

	// cached row count, refreshed on reads and writes
	count atomic.Int64
}

// NewPostgresStore connects a pool to databaseURL and prepares the store's
// statements on every new connection.
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing database url: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		stmts := map[string]string{
			stmtInsertSnapshot: sqlInsertSnapshot,
			stmtPlayerHistory:  sqlPlayerHistory,
			stmtListPlayers:    sqlListPlayers,
			stmtCountRows:      sqlCountRows,
		}
		for name, sql := range stmts {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return fmt.Errorf("preparing %s: %w", name, err)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating pool: %w", err)
	}
	return &PostgresStore{pool: pool, log: logger.Named("repository")}, nil
}

// Migrate creates the snapshot table and index if they do not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, snapshotsSchema); err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	return nil
}

// HealthCheck pings the database.
func (s *PostgresStore) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Save persists a row; rows with an already-stored ID are ignored.
func (s *PostgresStore) Save(ctx context.Context, playerTag string, row model.RawSnapshot) error {
	payload, err := json.Marshal(row)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	var capturedAt *time.Time
	if ts, ok := parseStoredDate(row.Date); ok {
		capturedAt = &ts
	}
	tag, err := s.pool.Exec(ctx, stmtInsertSnapshot, row.ID, playerTag, capturedAt, payload)
	if err != nil {
		return fmt.Errorf("inserting snapshot: %w", err)
	}
	if tag.RowsAffected() > 0 {
		s.count.Add(1)
	}
	return nil
}

// History returns a player's rows observed at or after since, in the order
// they were ingested.
func (s *PostgresStore) History(ctx context.Context, playerTag string, since time.Time) ([]model.RawSnapshot, error) {
	var sinceArg *time.Time
	if !since.IsZero() {
		sinceArg = &since
	}
	rows, err := s.pool.Query(ctx, stmtPlayerHistory, playerTag, sinceArg)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	out := make([]model.RawSnapshot, 0, 64)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		var snap model.RawSnapshot
		if err := json.Unmarshal(payload, &snap); err != nil {
			s.log.Warn(ctx, "skipping undecodable snapshot row", logger.String("player", playerTag), logger.Error(err))
			continue
		}
		out = append(out, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating history: %w", err)
	}
	if len(out) == 0 {
		// Distinguish an unknown player from a player with no rows in range.
		var n int
		if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM player_snapshots WHERE player_tag = $1`, playerTag).Scan(&n); err != nil {
			return nil, fmt.Errorf("checking player existence: %w", err)
		}
		if n == 0 {
			return nil, ErrNotFound
		}
	}
	return out, nil
}

// Players lists all stored player tags.
func (s *PostgresStore) Players(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, stmtListPlayers)
	if err != nil {
		return nil, fmt.Errorf("listing players: %w", err)
	}
	defer rows.Close()

	var tags []string
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scanning player tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

// Count returns the total stored row count, falling back to the last cached
// value when the query fails.
func (s *PostgresStore) Count(ctx context.Context) int {
	var n int64
	if err := s.pool.QueryRow(ctx, stmtCountRows).Scan(&n); err != nil {
		return int(s.count.Load())
	}
	s.count.Store(n)
	return int(n)
}
