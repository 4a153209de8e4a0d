package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository persists the app state as a single JSONB row. The state is
// one shared document for the whole team, so a fixed key suffices.
// ⭐ SSOT: 워치리스트 영속화는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

const stateKey = "quantum-leap-state"

// NewRepository creates a Postgres-backed store
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the backing table if missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS app_state (
			key        TEXT PRIMARY KEY,
			state      JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`
	if _, err := r.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to ensure app_state table: %w", err)
	}
	return nil
}

// Load returns the saved state, falling back to the default when the
// row is missing or fails the shape check
func (r *Repository) Load(ctx context.Context) (*AppState, error) {
	query := `SELECT state FROM app_state WHERE key = $1`

	var blob []byte
	err := r.pool.QueryRow(ctx, query, stateKey).Scan(&blob)
	if errors.Is(err, pgx.ErrNoRows) {
		return DefaultState(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load app state: %w", err)
	}

	var state AppState
	if err := json.Unmarshal(blob, &state); err != nil || !state.Valid() {
		return DefaultState(), nil
	}
	return &state, nil
}

// Save upserts the single state row
func (r *Repository) Save(ctx context.Context, state *AppState) error {
	blob, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal app state: %w", err)
	}

	query := `
		INSERT INTO app_state (key, state, updated_at)
		VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE
		SET state = EXCLUDED.state, updated_at = now()
	`
	if _, err := r.pool.Exec(ctx, query, stateKey, blob); err != nil {
		return fmt.Errorf("failed to save app state: %w", err)
	}
	return nil
}
