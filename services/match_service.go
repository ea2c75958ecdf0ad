package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
	"github.com/courtside/tournament-engine/scoring"
)

// MatchService implements the match lifecycle commands: start, tennis
// scoring init, point scoring, undo, server override and manual completion.
// Every command runs inside one transaction; a failed command leaves no
// partial writes and no orphaned court tokens.
type MatchService struct {
	logger          *slog.Logger
	transactor      repositories.Transactor
	guard           *CourtGuard
	tournamentRepo  repositories.TournamentRepository
	bracketRepo     repositories.BracketRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
	advancer        *advancer
}

func NewMatchService(
	logger *slog.Logger,
	transactor repositories.Transactor,
	guard *CourtGuard,
	tournamentRepo repositories.TournamentRepository,
	bracketRepo repositories.BracketRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) *MatchService {
	return &MatchService{
		logger:          logger,
		transactor:      transactor,
		guard:           guard,
		tournamentRepo:  tournamentRepo,
		bracketRepo:     bracketRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
		advancer: &advancer{
			logger:          logger,
			tournamentRepo:  tournamentRepo,
			bracketRepo:     bracketRepo,
			participantRepo: participantRepo,
			matchRepo:       matchRepo,
		},
	}
}

type StartMatchParams struct {
	Court *string `json:"court,omitempty"`
}

type CompleteMatchParams struct {
	WinnerID *int `json:"winner_id,omitempty"`
	Score1   *int `json:"score1,omitempty"`
	Score2   *int `json:"score2,omitempty"`
}

// CompleteResult is what a completion (manual or via the final tennis point)
// returns to the caller.
type CompleteResult struct {
	Match *models.Match `json:"match"`
	AdvanceResult
}

func (s *MatchService) loadMatch(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, err := s.matchRepo.GetByID(ctx, exec, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return m, nil
}

func (s *MatchService) loadTournament(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, err := s.tournamentRepo.GetByID(ctx, exec, id)
	if err != nil {
		return nil, translateRepoError(err)
	}
	return t, nil
}

// StartMatch moves a pending or scheduled match to live, optionally seating
// it on a court. The court token is taken before the transaction's
// authoritative scan and handed back if anything fails.
func (s *MatchService) StartMatch(ctx context.Context, matchID int, params StartMatchParams) (*models.Match, error) {
	var (
		match        *models.Match
		acquired     bool
		tournamentID int
		court        *string
	)
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.loadMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchPending && match.Status != models.MatchScheduled {
			return fmt.Errorf("%w: cannot start a %s match", ErrIllegalStateTransition, match.Status)
		}
		if match.Participant1ID == nil || match.Participant2ID == nil {
			return fmt.Errorf("%w: both participant slots must be filled", ErrPreconditionFailed)
		}

		tournament, err := s.loadTournament(ctx, exec, match.TournamentID)
		if err != nil {
			return err
		}
		if tournament.Status != models.TournamentActive {
			return fmt.Errorf("%w: tournament is %s", ErrPreconditionFailed, tournament.Status)
		}

		if params.Court != nil {
			match.Court = params.Court
		}
		tournamentID = tournament.ID
		court = match.Court

		if !s.guard.Acquire(tournamentID, court, match.ID) {
			return fmt.Errorf("%w: court %q already has a live match", ErrConflict, *court)
		}
		acquired = true
		if err := s.guard.Validate(ctx, exec, s.matchRepo, tournamentID, court, match.ID); err != nil {
			return err
		}

		now := time.Now().UTC()
		match.Status = models.MatchLive
		match.StartedAt = &now
		return s.matchRepo.UpdateState(ctx, exec, match)
	})
	if err != nil {
		if acquired {
			s.guard.Release(tournamentID, court, matchID)
		}
		return nil, err
	}
	s.logger.InfoContext(ctx, "match started", slog.Int("match_id", matchID))
	return match, nil
}

// InitTennisScoring attaches a fresh tennis state to a match using the
// tournament's scoring configuration. Both slots must be filled and the
// tournament active; the chosen first server is 1 or 2.
func (s *MatchService) InitTennisScoring(ctx context.Context, matchID, firstServer int) (*models.Match, error) {
	var match *models.Match
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.loadMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Status == models.MatchCompleted || match.Status == models.MatchBye {
			return fmt.Errorf("%w: cannot initialise scoring on a %s match", ErrIllegalStateTransition, match.Status)
		}
		if match.Participant1ID == nil || match.Participant2ID == nil {
			return fmt.Errorf("%w: both participant slots must be filled", ErrPreconditionFailed)
		}

		tournament, err := s.loadTournament(ctx, exec, match.TournamentID)
		if err != nil {
			return err
		}
		if tournament.Status != models.TournamentActive {
			return fmt.Errorf("%w: tournament is %s", ErrPreconditionFailed, tournament.Status)
		}
		if tournament.Tennis == nil {
			return fmt.Errorf("%w: tournament has no tennis configuration", ErrConfigurationMissing)
		}

		state, err := scoring.NewState(*tournament.Tennis, firstServer)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		match.Tennis = state
		match.Score1 = 0
		match.Score2 = 0
		return s.matchRepo.UpdateState(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// ScorePoint applies one tennis point to a live match. When the point
// completes the match, the winner is resolved and advanced in the same
// transaction.
func (s *MatchService) ScorePoint(ctx context.Context, matchID, pointWinner int) (*CompleteResult, error) {
	var (
		result       CompleteResult
		completed    bool
		tournamentID int
		court        *string
	)
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.loadMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchLive {
			return fmt.Errorf("%w: cannot score a %s match", ErrIllegalStateTransition, match.Status)
		}
		if match.Tennis == nil {
			return fmt.Errorf("%w: tennis scoring not initialised", ErrPreconditionFailed)
		}

		if err := scoring.ScorePoint(match.Tennis, pointWinner); err != nil {
			switch {
			case errors.Is(err, scoring.ErrMatchComplete):
				return fmt.Errorf("%w: %v", ErrIllegalStateTransition, err)
			case errors.Is(err, scoring.ErrInvalidWinner):
				return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
			}
			return err
		}
		match.Score1, match.Score2 = scoring.SetsWon(match.Tennis)
		result.Match = match

		if !match.Tennis.IsMatchComplete {
			return s.matchRepo.UpdateState(ctx, exec, match)
		}

		tournament, err := s.loadTournament(ctx, exec, match.TournamentID)
		if err != nil {
			return err
		}
		winnerID := match.Slot(scoring.Winner(match.Tennis))
		advance, err := s.advancer.complete(ctx, exec, tournament, match, winnerID)
		if err != nil {
			return err
		}
		result.AdvanceResult = advance
		completed = true
		tournamentID = tournament.ID
		court = match.Court
		return nil
	})
	if err != nil {
		return nil, err
	}
	if completed {
		s.guard.Release(tournamentID, court, matchID)
	}
	return &result, nil
}

// UndoPoint reverts the most recent tennis point. With an empty history it
// is a no-op. Undoing the match-winning point reopens the match, which
// includes re-taking the court and unwinding the completion side effects.
func (s *MatchService) UndoPoint(ctx context.Context, matchID int) (*models.Match, error) {
	var (
		match        *models.Match
		reacquired   bool
		tournamentID int
		court        *string
	)
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.loadMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Tennis == nil {
			return fmt.Errorf("%w: tennis scoring not initialised", ErrPreconditionFailed)
		}
		if match.Status != models.MatchLive && match.Status != models.MatchCompleted {
			return fmt.Errorf("%w: cannot undo a point on a %s match", ErrIllegalStateTransition, match.Status)
		}

		wasComplete := match.Tennis.IsMatchComplete
		if !scoring.Undo(match.Tennis) {
			return nil
		}

		if wasComplete && !match.Tennis.IsMatchComplete {
			tournament, err := s.loadTournament(ctx, exec, match.TournamentID)
			if err != nil {
				return err
			}
			tournamentID = tournament.ID
			court = match.Court

			if !s.guard.Acquire(tournamentID, court, match.ID) {
				return fmt.Errorf("%w: court %q already has a live match", ErrConflict, *court)
			}
			reacquired = true
			if err := s.guard.Validate(ctx, exec, s.matchRepo, tournamentID, court, match.ID); err != nil {
				return err
			}

			if err := s.advancer.revert(ctx, exec, tournament, match); err != nil {
				return err
			}
			match.Status = models.MatchLive
		}

		match.Score1, match.Score2 = scoring.SetsWon(match.Tennis)
		return s.matchRepo.UpdateState(ctx, exec, match)
	})
	if err != nil {
		if reacquired {
			s.guard.Release(tournamentID, court, matchID)
		}
		return nil, err
	}
	return match, nil
}

// SetServer overrides the serving participant on a match with initialised
// tennis scoring.
func (s *MatchService) SetServer(ctx context.Context, matchID, server int) (*models.Match, error) {
	var match *models.Match
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		match, err = s.loadMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Tennis == nil {
			return fmt.Errorf("%w: tennis scoring not initialised", ErrPreconditionFailed)
		}
		if match.Tennis.IsMatchComplete || match.Status == models.MatchCompleted {
			return fmt.Errorf("%w: match is already complete", ErrIllegalStateTransition)
		}
		if err := scoring.SetServer(match.Tennis, server); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		return s.matchRepo.UpdateState(ctx, exec, match)
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// CompleteMatch records a result on a live match directly, without the
// point-level state machine. The winner is either given explicitly or
// derived from the scores; a tied score is a draw in round robin and an
// error in elimination formats.
func (s *MatchService) CompleteMatch(ctx context.Context, matchID int, params CompleteMatchParams) (*CompleteResult, error) {
	var (
		result       CompleteResult
		tournamentID int
		court        *string
	)
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		match, err := s.loadMatch(ctx, exec, matchID)
		if err != nil {
			return err
		}
		if match.Status != models.MatchLive {
			return fmt.Errorf("%w: cannot complete a %s match", ErrIllegalStateTransition, match.Status)
		}

		tournament, err := s.loadTournament(ctx, exec, match.TournamentID)
		if err != nil {
			return err
		}
		bracket, err := s.bracketRepo.GetByID(ctx, exec, match.BracketID)
		if err != nil {
			return translateRepoError(err)
		}

		if params.Score1 != nil {
			match.Score1 = *params.Score1
		}
		if params.Score2 != nil {
			match.Score2 = *params.Score2
		}

		winnerID, err := resolveWinner(match, bracket.EffectiveFormat(tournament), params.WinnerID)
		if err != nil {
			return err
		}

		advance, err := s.advancer.complete(ctx, exec, tournament, match, winnerID)
		if err != nil {
			return err
		}
		result.Match = match
		result.AdvanceResult = advance
		tournamentID = tournament.ID
		court = match.Court
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.guard.Release(tournamentID, court, matchID)
	return &result, nil
}

// resolveWinner picks the match winner: an explicit id must occupy a slot;
// otherwise the higher score wins and a tie means a draw (nil) in round
// robin or an error in elimination formats.
func resolveWinner(match *models.Match, format models.TournamentFormat, explicit *int) (*int, error) {
	if explicit != nil {
		if !match.HasParticipant(*explicit) {
			return nil, fmt.Errorf("%w: winner %d is not playing match %d", ErrInvalidArgument, *explicit, match.ID)
		}
		return explicit, nil
	}
	switch {
	case match.Score1 > match.Score2:
		return match.Participant1ID, nil
	case match.Score2 > match.Score1:
		return match.Participant2ID, nil
	}
	if format.IsElimination() {
		return nil, fmt.Errorf("%w: tied score in an elimination format", ErrIllegalStateTransition)
	}
	return nil, nil
}
