package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/courtside/tournament-engine/models"
)

var ErrTournamentNotFound = errors.New("tournament not found")

type TournamentRepository interface {
	Create(ctx context.Context, exec SQLExecutor, tournament *models.Tournament) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus, completedAt *time.Time) error
}

type postgresTournamentRepository struct{}

func NewPostgresTournamentRepository() TournamentRepository {
	return &postgresTournamentRepository{}
}

func (r *postgresTournamentRepository) Create(ctx context.Context, exec SQLExecutor, t *models.Tournament) error {
	query := `
		INSERT INTO tournaments (name, format, participant_arity, sport, status, tennis_config)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		t.Name,
		t.Format,
		t.Arity,
		t.Sport,
		t.Status,
		t.Tennis,
	).Scan(&t.ID, &t.CreatedAt)
	return translatePQError(err, "create tournament")
}

func (r *postgresTournamentRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Tournament, error) {
	query := `
		SELECT id, name, format, participant_arity, sport, status, tennis_config, created_at, completed_at
		FROM tournaments
		WHERE id = $1`

	t := &models.Tournament{}
	var tennisRaw []byte
	err := exec.QueryRowContext(ctx, query, id).Scan(
		&t.ID,
		&t.Name,
		&t.Format,
		&t.Arity,
		&t.Sport,
		&t.Status,
		&tennisRaw,
		&t.CreatedAt,
		&t.CompletedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTournamentNotFound
	}
	if err != nil {
		return nil, translatePQError(err, "get tournament")
	}
	if len(tennisRaw) > 0 {
		cfg := &models.TennisConfig{}
		if err := cfg.Scan(tennisRaw); err != nil {
			return nil, translatePQError(err, "decode tennis config")
		}
		t.Tennis = cfg
	}
	return t, nil
}

func (r *postgresTournamentRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TournamentStatus, completedAt *time.Time) error {
	query := `UPDATE tournaments SET status = $2, completed_at = $3 WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, id, status, completedAt)
	if err != nil {
		return translatePQError(err, "update tournament status")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrTournamentNotFound
	}
	return nil
}
