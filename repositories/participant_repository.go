package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/tournament-engine/models"
)

var ErrParticipantNotFound = errors.New("participant not found")

// ResultDelta adjusts a participant's running aggregates when a match
// completes (positive values) or a completion is undone (negative values).
type ResultDelta struct {
	Wins          int
	Losses        int
	Draws         int
	PointsFor     int
	PointsAgainst int
}

type ParticipantRepository interface {
	Create(ctx context.Context, exec SQLExecutor, participant *models.Participant) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error)
	ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int) ([]*models.Participant, error)
	ApplyResult(ctx context.Context, exec SQLExecutor, id int, delta ResultDelta) error
	FillPlaceholder(ctx context.Context, exec SQLExecutor, id int, name string, partner *string) error
}

type postgresParticipantRepository struct{}

func NewPostgresParticipantRepository() ParticipantRepository {
	return &postgresParticipantRepository{}
}

const participantColumns = `id, bracket_id, name, partner, seed, wins, losses, draws,
	points_for, points_against, is_placeholder, placeholder_key, created_at`

func (r *postgresParticipantRepository) Create(ctx context.Context, exec SQLExecutor, p *models.Participant) error {
	query := `
		INSERT INTO participants (bracket_id, name, partner, seed, is_placeholder, placeholder_key)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		p.BracketID,
		p.Name,
		p.Partner,
		p.Seed,
		p.IsPlaceholder,
		p.PlaceholderKey,
	).Scan(&p.ID, &p.CreatedAt)
	return translatePQError(err, "create participant")
}

func scanParticipant(scanner interface{ Scan(...interface{}) error }) (*models.Participant, error) {
	p := &models.Participant{}
	err := scanner.Scan(
		&p.ID,
		&p.BracketID,
		&p.Name,
		&p.Partner,
		&p.Seed,
		&p.Wins,
		&p.Losses,
		&p.Draws,
		&p.PointsFor,
		&p.PointsAgainst,
		&p.IsPlaceholder,
		&p.PlaceholderKey,
		&p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresParticipantRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE id = $1`

	p, err := scanParticipant(exec.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrParticipantNotFound
	}
	if err != nil {
		return nil, translatePQError(err, "get participant")
	}
	return p, nil
}

// ListByBracket orders by seed (unseeded last) and then by creation, which
// is the order the bracket builders expect.
func (r *postgresParticipantRepository) ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int) ([]*models.Participant, error) {
	query := `SELECT ` + participantColumns + `
		FROM participants
		WHERE bracket_id = $1
		ORDER BY seed ASC NULLS LAST, created_at ASC, id ASC`

	rows, err := exec.QueryContext(ctx, query, bracketID)
	if err != nil {
		return nil, translatePQError(err, "list participants")
	}
	defer rows.Close()

	var out []*models.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, translatePQError(err, "scan participant")
		}
		out = append(out, p)
	}
	return out, translatePQError(rows.Err(), "list participants")
}

func (r *postgresParticipantRepository) ApplyResult(ctx context.Context, exec SQLExecutor, id int, delta ResultDelta) error {
	query := `
		UPDATE participants
		SET wins = wins + $2,
		    losses = losses + $3,
		    draws = draws + $4,
		    points_for = points_for + $5,
		    points_against = points_against + $6
		WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, id,
		delta.Wins, delta.Losses, delta.Draws, delta.PointsFor, delta.PointsAgainst)
	if err != nil {
		return translatePQError(err, "apply participant result")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrParticipantNotFound
	}
	return nil
}

// FillPlaceholder names a reserved slot without altering bracket topology.
func (r *postgresParticipantRepository) FillPlaceholder(ctx context.Context, exec SQLExecutor, id int, name string, partner *string) error {
	query := `
		UPDATE participants
		SET name = $2, partner = $3, is_placeholder = FALSE
		WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, id, name, partner)
	if err != nil {
		return translatePQError(err, "fill placeholder")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrParticipantNotFound
	}
	return nil
}
