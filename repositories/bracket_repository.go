package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/tournament-engine/models"
)

var ErrBracketNotFound = errors.New("bracket not found")

type BracketRepository interface {
	Create(ctx context.Context, exec SQLExecutor, bracket *models.Bracket) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Bracket, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Bracket, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error
}

type postgresBracketRepository struct{}

func NewPostgresBracketRepository() BracketRepository {
	return &postgresBracketRepository{}
}

const bracketColumns = `id, tournament_id, name, format, participant_arity, status, created_at`

func (r *postgresBracketRepository) Create(ctx context.Context, exec SQLExecutor, b *models.Bracket) error {
	query := `
		INSERT INTO brackets (tournament_id, name, format, participant_arity, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		b.TournamentID,
		b.Name,
		b.Format,
		b.Arity,
		b.Status,
	).Scan(&b.ID, &b.CreatedAt)
	return translatePQError(err, "create bracket")
}

func scanBracket(scanner interface{ Scan(...interface{}) error }) (*models.Bracket, error) {
	b := &models.Bracket{}
	err := scanner.Scan(
		&b.ID,
		&b.TournamentID,
		&b.Name,
		&b.Format,
		&b.Arity,
		&b.Status,
		&b.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func (r *postgresBracketRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE id = $1`

	b, err := scanBracket(exec.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBracketNotFound
	}
	if err != nil {
		return nil, translatePQError(err, "get bracket")
	}
	return b, nil
}

func (r *postgresBracketRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Bracket, error) {
	query := `SELECT ` + bracketColumns + ` FROM brackets WHERE tournament_id = $1 ORDER BY id`

	rows, err := exec.QueryContext(ctx, query, tournamentID)
	if err != nil {
		return nil, translatePQError(err, "list brackets")
	}
	defer rows.Close()

	var out []*models.Bracket
	for rows.Next() {
		b, err := scanBracket(rows)
		if err != nil {
			return nil, translatePQError(err, "scan bracket")
		}
		out = append(out, b)
	}
	return out, translatePQError(rows.Err(), "list brackets")
}

func (r *postgresBracketRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.BracketStatus) error {
	query := `UPDATE brackets SET status = $2 WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, id, status)
	if err != nil {
		return translatePQError(err, "update bracket status")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrBracketNotFound
	}
	return nil
}
