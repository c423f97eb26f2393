package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/domain"
	"bookie/domain/entities"

	"github.com/jackc/pgx/v5"
)

type betRepository struct {
	q Queryable
}

// NewBetRepository creates a new bet repository backed by the pool
func NewBetRepository(db *database.DB) *betRepository {
	return &betRepository{q: db.Pool}
}

// newBetRepository creates a bet repository scoped to a transaction
func newBetRepository(tx Queryable) *betRepository {
	return &betRepository{q: tx}
}

const betColumns = `id, user_id, game_id, amount, odds, potential_payout, actual_payout, bet_type, status, bet_data, placed_at, settled_at`

func (r *betRepository) Create(ctx context.Context, bet *entities.Bet) error {
	query := `
		INSERT INTO bets (user_id, game_id, amount, odds, potential_payout, actual_payout, bet_type, status, bet_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, placed_at`

	err := r.q.QueryRow(ctx, query,
		bet.UserID,
		bet.GameID,
		bet.Amount,
		bet.Odds,
		bet.PotentialPayout,
		bet.ActualPayout,
		bet.BetType,
		bet.Status,
		bet.BetData,
	).Scan(&bet.ID, &bet.PlacedAt)

	if err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}

	return nil
}

func (r *betRepository) GetByID(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1`
	return r.getOne(ctx, query, id)
}

// GetByIDForUpdate locks the bet row until the surrounding transaction ends.
// A settlement racing another settlement, or a placement that has not yet
// committed, blocks here instead of double-applying.
func (r *betRepository) GetByIDForUpdate(ctx context.Context, id int64) (*entities.Bet, error) {
	query := `SELECT ` + betColumns + ` FROM bets WHERE id = $1 FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *betRepository) getOne(ctx context.Context, query string, id int64) (*entities.Bet, error) {
	bet, err := scanBet(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get bet %d: %w", id, err)
	}
	return bet, nil
}

// Update persists the settlement of a pending bet. The status guard enforces
// the single transition out of pending at the storage level. settled_at is
// stamped from the database clock, the same clock that produced placed_at, so
// the two stay comparable regardless of application host skew.
func (r *betRepository) Update(ctx context.Context, bet *entities.Bet) error {
	query := `
		UPDATE bets
		SET status = $1, actual_payout = $2, settled_at = NOW()
		WHERE id = $3 AND status = 'pending'
		RETURNING settled_at`

	err := r.q.QueryRow(ctx, query, bet.Status, bet.ActualPayout, bet.ID).Scan(&bet.SettledAt)
	if err == pgx.ErrNoRows {
		return fmt.Errorf("bet %d is no longer pending: %w", bet.ID, domain.ErrStorageConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to update bet %d: %w", bet.ID, err)
	}

	return nil
}

func (r *betRepository) GetByUser(ctx context.Context, userID int64, limit int) ([]*entities.Bet, error) {
	query := `
		SELECT ` + betColumns + `
		FROM bets
		WHERE user_id = $1
		ORDER BY placed_at DESC, id DESC
		LIMIT $2`

	rows, err := r.q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query bets for user %d: %w", userID, err)
	}
	defer rows.Close()

	var bets []*entities.Bet
	for rows.Next() {
		bet, err := scanBet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan bet: %w", err)
		}
		bets = append(bets, bet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bets: %w", err)
	}

	return bets, nil
}

func scanBet(row pgx.Row) (*entities.Bet, error) {
	var bet entities.Bet
	err := row.Scan(
		&bet.ID,
		&bet.UserID,
		&bet.GameID,
		&bet.Amount,
		&bet.Odds,
		&bet.PotentialPayout,
		&bet.ActualPayout,
		&bet.BetType,
		&bet.Status,
		&bet.BetData,
		&bet.PlacedAt,
		&bet.SettledAt,
	)
	if err != nil {
		return nil, err
	}
	return &bet, nil
}
