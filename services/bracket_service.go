package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/courtside/tournament-engine/brackets"
	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
)

// BracketService generates match graphs for a bracket and manages
// placeholder entrants for blank draws.
type BracketService struct {
	logger          *slog.Logger
	transactor      repositories.Transactor
	tournamentRepo  repositories.TournamentRepository
	bracketRepo     repositories.BracketRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

func NewBracketService(
	logger *slog.Logger,
	transactor repositories.Transactor,
	tournamentRepo repositories.TournamentRepository,
	bracketRepo repositories.BracketRepository,
	participantRepo repositories.ParticipantRepository,
	matchRepo repositories.MatchRepository,
) *BracketService {
	return &BracketService{
		logger:          logger,
		transactor:      transactor,
		tournamentRepo:  tournamentRepo,
		bracketRepo:     bracketRepo,
		participantRepo: participantRepo,
		matchRepo:       matchRepo,
	}
}

// GenerateBracket builds and persists the match graph for a draft bracket
// from its registered participants, then activates it. Regenerating replaces
// any previously generated matches.
func (s *BracketService) GenerateBracket(ctx context.Context, bracketID int) ([]*models.Match, error) {
	var generated []*models.Match
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		var err error
		generated, err = s.generate(ctx, exec, bracketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return generated, nil
}

func (s *BracketService) generate(ctx context.Context, exec repositories.SQLExecutor, bracketID int) ([]*models.Match, error) {
	bracket, err := s.bracketRepo.GetByID(ctx, exec, bracketID)
	if err != nil {
		return nil, translateRepoError(err)
	}
	if bracket.Status != models.BracketDraft {
		return nil, fmt.Errorf("%w: bracket is %s, only draft brackets can be generated", ErrIllegalStateTransition, bracket.Status)
	}
	tournament, err := s.tournamentRepo.GetByID(ctx, exec, bracket.TournamentID)
	if err != nil {
		return nil, translateRepoError(err)
	}

	participants, err := s.participantRepo.ListByBracket(ctx, exec, bracketID)
	if err != nil {
		return nil, err
	}
	if len(participants) < 2 {
		return nil, fmt.Errorf("%w: at least 2 participants required, have %d", ErrPreconditionFailed, len(participants))
	}

	format := bracket.EffectiveFormat(tournament)
	generator, err := brackets.ForFormat(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	nodes, err := generator.Generate(ctx, brackets.GenerateParams{
		Bracket:      bracket,
		Participants: participants,
	})
	if err != nil {
		if errors.Is(err, brackets.ErrNotEnoughParticipants) || errors.Is(err, brackets.ErrBracketTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
		}
		return nil, err
	}

	generated, err := s.persistGraph(ctx, exec, tournament, bracket, nodes)
	if err != nil {
		return nil, err
	}

	if err := s.bracketRepo.UpdateStatus(ctx, exec, bracketID, models.BracketActive); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "bracket generated",
		slog.Int("bracket_id", bracketID),
		slog.String("format", string(format)),
		slog.Int("matches", len(generated)))
	return generated, nil
}

// persistGraph writes builder nodes in two passes: first every match row
// (collecting UID -> id), then the forward links, which may point at matches
// created later in the first pass.
func (s *BracketService) persistGraph(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, bracket *models.Bracket, nodes []*brackets.Match) ([]*models.Match, error) {
	if err := s.matchRepo.DeleteByBracket(ctx, exec, bracket.ID); err != nil {
		return nil, err
	}

	created := make([]*models.Match, 0, len(nodes))
	byUID := make(map[string]*models.Match, len(nodes))
	for _, node := range nodes {
		m := &models.Match{
			TournamentID:   tournament.ID,
			BracketID:      bracket.ID,
			UID:            node.UID,
			Round:          node.Round,
			MatchNumber:    node.OrderInRound,
			Side:           node.Side,
			Participant1ID: node.Participant1ID,
			Participant2ID: node.Participant2ID,
			Status:         node.Status,
			WinnerID:       node.WinnerID,
		}
		if err := s.matchRepo.Create(ctx, exec, m); err != nil {
			return nil, err
		}
		created = append(created, m)
		byUID[node.UID] = m
	}

	for i, node := range nodes {
		if node.NextUID == "" && node.LoserNextUID == "" {
			continue
		}
		m := created[i]
		if node.NextUID != "" {
			target, ok := byUID[node.NextUID]
			if !ok {
				return nil, fmt.Errorf("bracket graph: %s links to unknown match %s", node.UID, node.NextUID)
			}
			slot := node.NextSlot
			m.NextMatchID = &target.ID
			m.NextMatchSlot = &slot
		}
		if node.LoserNextUID != "" {
			target, ok := byUID[node.LoserNextUID]
			if !ok {
				return nil, fmt.Errorf("bracket graph: %s loser-links to unknown match %s", node.UID, node.LoserNextUID)
			}
			slot := node.LoserNextSlot
			m.LoserNextMatchID = &target.ID
			m.LoserNextMatchSlot = &slot
		}
		if err := s.matchRepo.UpdateLinks(ctx, exec, m.ID, m.NextMatchID, m.NextMatchSlot, m.LoserNextMatchID, m.LoserNextMatchSlot); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// GenerateBlankBracket reserves a power-of-two draw of placeholder entrants
// and generates the bracket over them, so match topology exists before any
// real registrations.
func (s *BracketService) GenerateBlankBracket(ctx context.Context, bracketID, size int) ([]*models.Match, error) {
	drawSize, err := brackets.BlankSize(size)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPreconditionFailed, err)
	}

	var generated []*models.Match
	err = s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		bracket, err := s.bracketRepo.GetByID(ctx, exec, bracketID)
		if err != nil {
			return translateRepoError(err)
		}
		if bracket.Status != models.BracketDraft {
			return fmt.Errorf("%w: bracket is %s, only draft brackets can be generated", ErrIllegalStateTransition, bracket.Status)
		}

		existing, err := s.participantRepo.ListByBracket(ctx, exec, bracketID)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			return fmt.Errorf("%w: bracket already has participants", ErrPreconditionFailed)
		}

		for i := 1; i <= drawSize; i++ {
			key := uuid.NewString()
			seed := i
			p := &models.Participant{
				BracketID:      bracketID,
				Name:           fmt.Sprintf("Slot %d", i),
				Seed:           &seed,
				IsPlaceholder:  true,
				PlaceholderKey: &key,
			}
			if err := s.participantRepo.Create(ctx, exec, p); err != nil {
				return err
			}
		}

		generated, err = s.generate(ctx, exec, bracketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return generated, nil
}

// FillPlaceholder names a reserved slot with a real entrant. The bracket
// topology is untouched; the participant id stays the same.
func (s *BracketService) FillPlaceholder(ctx context.Context, participantID int, name string, partner *string) (*models.Participant, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: participant name is required", ErrInvalidArgument)
	}
	var participant *models.Participant
	err := s.transactor.WithinTx(ctx, func(exec repositories.SQLExecutor) error {
		p, err := s.participantRepo.GetByID(ctx, exec, participantID)
		if err != nil {
			return translateRepoError(err)
		}
		if !p.IsPlaceholder {
			return fmt.Errorf("%w: participant %d is not a placeholder", ErrPreconditionFailed, participantID)
		}
		if err := s.participantRepo.FillPlaceholder(ctx, exec, participantID, name, partner); err != nil {
			return translateRepoError(err)
		}
		p.Name = name
		p.Partner = partner
		p.IsPlaceholder = false
		participant = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}
