package repository

import (
	"context"
	"fmt"

	"bookie/database"
	"bookie/domain"
	"bookie/domain/entities"

	"github.com/jackc/pgx/v5"
)

type gameRepository struct {
	q Queryable
}

// NewGameRepository creates a new game repository backed by the pool
func NewGameRepository(db *database.DB) *gameRepository {
	return &gameRepository{q: db.Pool}
}

const gameColumns = `id, name, game_type, min_bet, max_bet, house_edge, status, created_at, updated_at`

func (r *gameRepository) GetByID(ctx context.Context, id int64) (*entities.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games WHERE id = $1`

	game, err := scanGame(r.q.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get game %d: %w", id, err)
	}

	return game, nil
}

func (r *gameRepository) Create(ctx context.Context, game *entities.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("invalid game: %w", err)
	}

	query := `
		INSERT INTO games (name, game_type, min_bet, max_bet, house_edge, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.q.QueryRow(ctx, query,
		game.Name,
		game.GameType,
		game.MinBet,
		game.MaxBet,
		game.HouseEdge,
		game.Status,
	).Scan(&game.ID, &game.CreatedAt, &game.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}

	return nil
}

func (r *gameRepository) Update(ctx context.Context, game *entities.Game) error {
	if err := game.Validate(); err != nil {
		return fmt.Errorf("invalid game: %w", err)
	}

	query := `
		UPDATE games
		SET name = $1, game_type = $2, min_bet = $3, max_bet = $4, house_edge = $5, status = $6, updated_at = NOW()
		WHERE id = $7`

	result, err := r.q.Exec(ctx, query,
		game.Name,
		game.GameType,
		game.MinBet,
		game.MaxBet,
		game.HouseEdge,
		game.Status,
		game.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update game %d: %w", game.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("game %d: %w", game.ID, domain.ErrGameUnavailable)
	}

	return nil
}

func (r *gameRepository) List(ctx context.Context) ([]*entities.Game, error) {
	query := `SELECT ` + gameColumns + ` FROM games ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query games: %w", err)
	}
	defer rows.Close()

	var games []*entities.Game
	for rows.Next() {
		game, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game: %w", err)
		}
		games = append(games, game)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate games: %w", err)
	}

	return games, nil
}

func scanGame(row pgx.Row) (*entities.Game, error) {
	var game entities.Game
	err := row.Scan(
		&game.ID,
		&game.Name,
		&game.GameType,
		&game.MinBet,
		&game.MaxBet,
		&game.HouseEdge,
		&game.Status,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &game, nil
}
