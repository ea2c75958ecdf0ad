package services

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
)

// TournamentService owns tournament and bracket lifecycle plus participant
// registration. Reads run directly on the pool; writes go through the
// transactor.
type TournamentService struct {
	logger          *slog.Logger
	db              repositories.SQLExecutor
	transactor      repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	bracketRepo     repositories.BracketRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewTournamentService(
	logger *slog.Logger,
	db repositories.SQLExecutor,
	transactor repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	bracketRepo repositories.BracketRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) *TournamentService {
	return &TournamentService{
		logger:          logger,
		db:              db,
		transactor:      transactor,
		tournamentRepo:  tournamentRepo,
		bracketRepo:     bracketRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

type CreateTournamentParams struct {
	Name   string                  `json:"name"`
	Format models.TournamentFormat `json:"format"`
	Arity  models.ParticipantArity `json:"participant_arity"`
	Sport  models.Sport            `json:"sport"`
	Tennis *models.TennisConfig    `json:"tennis_config,omitempty"`
}

func (s *TournamentService) CreateTournament(ctx context.Context, params CreateTournamentParams) (*models.Tournament, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: tournament name is required", ErrInvalidArgument)
	}
	if !params.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, params.Format)
	}
	if params.Arity == "" {
		params.Arity = models.ArityIndividual
	}
	if !params.Arity.Valid() {
		return nil, fmt.Errorf("%w: unknown participant arity %q", ErrInvalidArgument, params.Arity)
	}
	if params.Sport == "" {
		params.Sport = models.SportGeneric
	}
	if !params.Sport.Valid() {
		return nil, fmt.Errorf("%w: unknown sport %q", ErrInvalidArgument, params.Sport)
	}
	if params.Sport == models.SportTennis && params.Tennis == nil {
		return nil, fmt.Errorf("%w: tennis tournaments need a tennis configuration", ErrConfigurationMissing)
	}
	if params.Tennis != nil && params.Tennis.SetsToWin < 1 {
		return nil, fmt.Errorf("%w: sets_to_win must be at least 1", ErrInvalidArgument)
	}

	tournament := &models.Tournament{
		Name:   params.Name,
		Format: params.Format,
		Arity:  params.Arity,
		Sport:  params.Sport,
		Status: models.TournamentDraft,
		Tennis: params.Tennis,
	}
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		return s.tournamentRepo.Create(ctx, exec, tournament)
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "tournament created",
		slog.Int("tournament_id", tournament.ID),
		slog.String("format", string(tournament.Format)))
	return tournament, nil
}

type CreateBracketParams struct {
	Name   string                   `json:"name"`
	Format *models.TournamentFormat `json:"format,omitempty"`
	Arity  *models.ParticipantArity `json:"participant_arity,omitempty"`
}

func (s *TournamentService) CreateBracket(ctx context.Context, tournamentID int, params CreateBracketParams) (*models.Bracket, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: bracket name is required", ErrInvalidArgument)
	}
	if params.Format != nil && !params.Format.Valid() {
		return nil, fmt.Errorf("%w: unknown format %q", ErrInvalidArgument, *params.Format)
	}
	if params.Arity != nil && !params.Arity.Valid() {
		return nil, fmt.Errorf("%w: unknown participant arity %q", ErrInvalidArgument, *params.Arity)
	}

	bracket := &models.Bracket{
		TournamentID: tournamentID,
		Name:         params.Name,
		Format:       params.Format,
		Arity:        params.Arity,
		Status:       models.BracketDraft,
	}
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		tournament, err := s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			return translateRepoError(err)
		}
		if tournament.Status == models.TournamentCompleted || tournament.Status == models.TournamentCancelled {
			return fmt.Errorf("%w: tournament is %s", ErrPreconditionFailed, tournament.Status)
		}
		return s.bracketRepo.Create(ctx, exec, bracket)
	})
	if err != nil {
		return nil, err
	}
	return bracket, nil
}

type AddParticipantParams struct {
	Name    string  `json:"name"`
	Partner *string `json:"partner,omitempty"`
	Seed    *int    `json:"seed,omitempty"`
}

// AddParticipant registers an entrant on a draft bracket. Once a bracket has
// been generated its field is fixed; late entrants go through placeholder
// slots instead.
func (s *TournamentService) AddParticipant(ctx context.Context, bracketID int, params AddParticipantParams) (*models.Participant, error) {
	if params.Name == "" {
		return nil, fmt.Errorf("%w: participant name is required", ErrInvalidArgument)
	}
	if params.Seed != nil && *params.Seed < 1 {
		return nil, fmt.Errorf("%w: seed must be positive", ErrInvalidArgument)
	}

	participant := &models.Participant{
		BracketID: bracketID,
		Name:      params.Name,
		Partner:   params.Partner,
		Seed:      params.Seed,
	}
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		bracket, err := s.bracketRepo.GetByID(ctx, exec, bracketID)
		if err != nil {
			return translateRepoError(err)
		}
		if bracket.Status != models.BracketDraft {
			return fmt.Errorf("%w: bracket is %s, registration is closed", ErrPreconditionFailed, bracket.Status)
		}
		return s.participantRepo.Create(ctx, exec, participant)
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// UpdateTournamentStatus applies a manual lifecycle transition. Completion
// is engine-driven and cannot be forced here.
func (s *TournamentService) UpdateTournamentStatus(ctx context.Context, tournamentID int, status models.TournamentStatus) (*models.Tournament, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidArgument, status)
	}
	var tournament *models.Tournament
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		tournament, err = s.tournamentRepo.GetByID(ctx, exec, tournamentID)
		if err != nil {
			return translateRepoError(err)
		}
		if !isValidStatusTransition(tournament.Status, status) {
			return fmt.Errorf("%w: cannot move tournament from %s to %s", ErrIllegalStateTransition, tournament.Status, status)
		}
		if err := s.tournamentRepo.UpdateStatus(ctx, exec, tournamentID, status, tournament.CompletedAt); err != nil {
			return err
		}
		tournament.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "tournament status changed",
		slog.Int("tournament_id", tournamentID),
		slog.String("status", string(status)))
	return tournament, nil
}

func isValidStatusTransition(from, to models.TournamentStatus) bool {
	switch from {
	case models.TournamentDraft:
		return to == models.TournamentActive || to == models.TournamentCancelled
	case models.TournamentActive:
		return to == models.TournamentCancelled
	}
	return false
}

// GetTournamentData loads a tournament with its brackets, each bracket's
// participants and matches fetched in parallel.
func (s *TournamentService) GetTournamentData(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	tournament, err := s.tournamentRepo.GetByID(ctx, s.db, tournamentID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	brackets, err := s.bracketRepo.ListByTournament(ctx, s.db, tournamentID)
	if err != nil {
		return nil, err
	}

	tournament.Brackets = make([]models.Bracket, len(brackets))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range brackets {
		i, b := i, b
		tournament.Brackets[i] = *b
		g.Go(func() error {
			participants, err := s.participantRepo.ListByBracket(gctx, s.db, b.ID)
			if err != nil {
				return err
			}
			out := make([]models.Participant, len(participants))
			for j, p := range participants {
				out[j] = *p
			}
			tournament.Brackets[i].Participants = out
			return nil
		})
		g.Go(func() error {
			matches, err := s.matchRepo.ListByBracket(gctx, s.db, b.ID)
			if err != nil {
				return err
			}
			out := make([]models.Match, len(matches))
			for j, m := range matches {
				out[j] = *m
			}
			tournament.Brackets[i].Matches = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return tournament, nil
}
