package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/courtside/tournament-engine/models"
)

var ErrMatchNotFound = errors.New("match not found")

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error)
	ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int) ([]*models.Match, error)
	ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error)
	UpdateLinks(ctx context.Context, exec SQLExecutor, id int, nextID, nextSlot, loserNextID, loserNextSlot *int) error
	SetParticipantSlot(ctx context.Context, exec SQLExecutor, id, slot int, participantID *int) error
	UpdateState(ctx context.Context, exec SQLExecutor, match *models.Match) error
	DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error
}

type postgresMatchRepository struct{}

func NewPostgresMatchRepository() MatchRepository {
	return &postgresMatchRepository{}
}

const matchColumns = `id, tournament_id, bracket_id, uid, round, match_number, side,
	participant1_id, participant2_id, score1, score2, status, court,
	scheduled_at, started_at, completed_at, winner_id,
	next_match_id, next_match_slot, loser_next_match_id, loser_next_match_slot,
	tennis_state, created_at`

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		INSERT INTO matches
			(tournament_id, bracket_id, uid, round, match_number, side,
			 participant1_id, participant2_id, score1, score2, status, court,
			 scheduled_at, winner_id, tennis_state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		m.TournamentID,
		m.BracketID,
		m.UID,
		m.Round,
		m.MatchNumber,
		m.Side,
		m.Participant1ID,
		m.Participant2ID,
		m.Score1,
		m.Score2,
		m.Status,
		m.Court,
		m.ScheduledAt,
		m.WinnerID,
		m.Tennis,
	).Scan(&m.ID, &m.CreatedAt)
	return translatePQError(err, "create match")
}

func scanMatch(scanner interface{ Scan(...interface{}) error }) (*models.Match, error) {
	m := &models.Match{}
	var tennisRaw []byte
	err := scanner.Scan(
		&m.ID,
		&m.TournamentID,
		&m.BracketID,
		&m.UID,
		&m.Round,
		&m.MatchNumber,
		&m.Side,
		&m.Participant1ID,
		&m.Participant2ID,
		&m.Score1,
		&m.Score2,
		&m.Status,
		&m.Court,
		&m.ScheduledAt,
		&m.StartedAt,
		&m.CompletedAt,
		&m.WinnerID,
		&m.NextMatchID,
		&m.NextMatchSlot,
		&m.LoserNextMatchID,
		&m.LoserNextMatchSlot,
		&tennisRaw,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(tennisRaw) > 0 {
		state := &models.TennisState{}
		if err := state.Scan(tennisRaw); err != nil {
			return nil, err
		}
		m.Tennis = state
	}
	return m, nil
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, exec SQLExecutor, id int) (*models.Match, error) {
	query := `SELECT ` + matchColumns + ` FROM matches WHERE id = $1`

	m, err := scanMatch(exec.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrMatchNotFound
	}
	if err != nil {
		return nil, translatePQError(err, "get match")
	}
	return m, nil
}

func (r *postgresMatchRepository) list(ctx context.Context, exec SQLExecutor, query string, arg interface{}) ([]*models.Match, error) {
	rows, err := exec.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, translatePQError(err, "list matches")
	}
	defer rows.Close()

	var out []*models.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, translatePQError(err, "scan match")
		}
		out = append(out, m)
	}
	return out, translatePQError(rows.Err(), "list matches")
}

func (r *postgresMatchRepository) ListByBracket(ctx context.Context, exec SQLExecutor, bracketID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches WHERE bracket_id = $1
		ORDER BY side, round, match_number`
	return r.list(ctx, exec, query, bracketID)
}

func (r *postgresMatchRepository) ListByTournament(ctx context.Context, exec SQLExecutor, tournamentID int) ([]*models.Match, error) {
	query := `SELECT ` + matchColumns + `
		FROM matches WHERE tournament_id = $1
		ORDER BY bracket_id, side, round, match_number`
	return r.list(ctx, exec, query, tournamentID)
}

func (r *postgresMatchRepository) UpdateLinks(ctx context.Context, exec SQLExecutor, id int, nextID, nextSlot, loserNextID, loserNextSlot *int) error {
	query := `
		UPDATE matches
		SET next_match_id = $2, next_match_slot = $3,
		    loser_next_match_id = $4, loser_next_match_slot = $5
		WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, id, nextID, nextSlot, loserNextID, loserNextSlot)
	if err != nil {
		return translatePQError(err, "update match links")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) SetParticipantSlot(ctx context.Context, exec SQLExecutor, id, slot int, participantID *int) error {
	column := "participant1_id"
	if slot == 2 {
		column = "participant2_id"
	}
	query := `UPDATE matches SET ` + column + ` = $2 WHERE id = $1`

	result, err := exec.ExecContext(ctx, query, id, participantID)
	if err != nil {
		return translatePQError(err, "set participant slot")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrMatchNotFound
	}
	return nil
}

// UpdateState persists the mutable portion of a match: scores, status,
// court, timestamps, winner and the embedded tennis state.
func (r *postgresMatchRepository) UpdateState(ctx context.Context, exec SQLExecutor, m *models.Match) error {
	query := `
		UPDATE matches
		SET participant1_id = $2, participant2_id = $3,
		    score1 = $4, score2 = $5, status = $6, court = $7,
		    scheduled_at = $8, started_at = $9, completed_at = $10,
		    winner_id = $11, tennis_state = $12
		WHERE id = $1`

	result, err := exec.ExecContext(ctx, query,
		m.ID,
		m.Participant1ID,
		m.Participant2ID,
		m.Score1,
		m.Score2,
		m.Status,
		m.Court,
		m.ScheduledAt,
		m.StartedAt,
		m.CompletedAt,
		m.WinnerID,
		m.Tennis,
	)
	if err != nil {
		return translatePQError(err, "update match state")
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return ErrMatchNotFound
	}
	return nil
}

func (r *postgresMatchRepository) DeleteByBracket(ctx context.Context, exec SQLExecutor, bracketID int) error {
	query := `DELETE FROM matches WHERE bracket_id = $1`
	_, err := exec.ExecContext(ctx, query, bracketID)
	return translatePQError(err, "delete bracket matches")
}
