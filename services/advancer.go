package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
)

// AdvanceResult reports what a completion touched beyond the match itself.
type AdvanceResult struct {
	AdvancedInto        []int `json:"advanced_into,omitempty"`
	TournamentCompleted bool  `json:"tournament_completed"`
}

// advancer resolves a completed match: it stamps the result, updates both
// participants' aggregates, routes the winner (and, in double elimination,
// the loser) into downstream slots, and detects tournament completion. All
// writes happen on the executor handed in by the calling command, so they
// commit or roll back together.
type advancer struct {
	logger          *slog.Logger
	tournamentRepo  repositories.TournamentRepository
	bracketRepo     repositories.BracketRepository
	participantRepo repositories.ParticipantRepository
	matchRepo       repositories.MatchRepository
}

// complete runs steps 2-5 of match completion; the caller has already
// resolved the winner (nil means a round-robin draw) and validated the
// transition. The match is mutated in place.
func (a *advancer) complete(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match, winnerID *int) (AdvanceResult, error) {
	now := time.Now().UTC()
	match.Status = models.MatchCompleted
	match.WinnerID = winnerID
	match.CompletedAt = &now
	if err := a.matchRepo.UpdateState(ctx, exec, match); err != nil {
		return AdvanceResult{}, err
	}

	if err := a.applyAggregates(ctx, exec, match, 1); err != nil {
		return AdvanceResult{}, err
	}

	result := AdvanceResult{}
	if winnerID != nil && match.NextMatchID != nil && match.NextMatchSlot != nil {
		advanced, err := a.placeParticipant(ctx, exec, *match.NextMatchID, *match.NextMatchSlot, *winnerID)
		if err != nil {
			return AdvanceResult{}, err
		}
		result.AdvancedInto = append(result.AdvancedInto, advanced...)
	}
	if loserID := match.LoserID(); loserID != nil && match.LoserNextMatchID != nil && match.LoserNextMatchSlot != nil {
		advanced, err := a.placeParticipant(ctx, exec, *match.LoserNextMatchID, *match.LoserNextMatchSlot, *loserID)
		if err != nil {
			return AdvanceResult{}, err
		}
		result.AdvancedInto = append(result.AdvancedInto, advanced...)
	}

	completed, err := a.recomputeCompletion(ctx, exec, tournament)
	if err != nil {
		return AdvanceResult{}, err
	}
	result.TournamentCompleted = completed

	a.logger.InfoContext(ctx, "match completed",
		slog.Int("match_id", match.ID),
		slog.Int("tournament_id", tournament.ID),
		slog.Bool("tournament_completed", completed))
	return result, nil
}

// revert is the exact inverse of complete, run before a completed match is
// reopened: downstream slots are vacated (byes cascaded back) and the
// aggregates decremented. The caller resets the match's own status.
func (a *advancer) revert(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament, match *models.Match) error {
	winnerID := match.WinnerID
	loserID := match.LoserID()

	if winnerID != nil && match.NextMatchID != nil && match.NextMatchSlot != nil {
		if err := a.removeParticipant(ctx, exec, *match.NextMatchID, *match.NextMatchSlot, *winnerID); err != nil {
			return err
		}
	}
	if loserID != nil && match.LoserNextMatchID != nil && match.LoserNextMatchSlot != nil {
		if err := a.removeParticipant(ctx, exec, *match.LoserNextMatchID, *match.LoserNextMatchSlot, *loserID); err != nil {
			return err
		}
	}

	if err := a.applyAggregates(ctx, exec, match, -1); err != nil {
		return err
	}

	if tournament.Status == models.TournamentCompleted {
		if err := a.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.TournamentActive, nil); err != nil {
			return err
		}
		tournament.Status = models.TournamentActive
		tournament.CompletedAt = nil
	}
	bracket, err := a.bracketRepo.GetByID(ctx, exec, match.BracketID)
	if err != nil {
		return err
	}
	if bracket.Status == models.BracketCompleted {
		if err := a.bracketRepo.UpdateStatus(ctx, exec, bracket.ID, models.BracketActive); err != nil {
			return err
		}
	}

	match.WinnerID = nil
	match.CompletedAt = nil
	return nil
}

// applyAggregates adjusts both participants' running totals; sign is +1 on
// completion and -1 on reversal. A completed match without a winner is a
// draw.
func (a *advancer) applyAggregates(ctx context.Context, exec repositories.SQLExecutor, match *models.Match, sign int) error {
	if match.Participant1ID == nil || match.Participant2ID == nil {
		return fmt.Errorf("%w: match %d has unfilled slots", ErrPreconditionFailed, match.ID)
	}
	d1 := repositories.ResultDelta{PointsFor: sign * match.Score1, PointsAgainst: sign * match.Score2}
	d2 := repositories.ResultDelta{PointsFor: sign * match.Score2, PointsAgainst: sign * match.Score1}
	switch {
	case match.WinnerID == nil:
		d1.Draws = sign
		d2.Draws = sign
	case *match.WinnerID == *match.Participant1ID:
		d1.Wins = sign
		d2.Losses = sign
	default:
		d1.Losses = sign
		d2.Wins = sign
	}
	if err := a.participantRepo.ApplyResult(ctx, exec, *match.Participant1ID, d1); err != nil {
		return err
	}
	return a.participantRepo.ApplyResult(ctx, exec, *match.Participant2ID, d2)
}

// placeParticipant writes a participant into a downstream slot. Bye matches
// resolve immediately: the arrival becomes their winner and travels on.
func (a *advancer) placeParticipant(ctx context.Context, exec repositories.SQLExecutor, matchID, slot, participantID int) ([]int, error) {
	target, err := a.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return nil, err
	}
	id := participantID
	if err := a.matchRepo.SetParticipantSlot(ctx, exec, target.ID, slot, &id); err != nil {
		return nil, err
	}
	target.SetSlot(slot, &id)

	advanced := []int{target.ID}
	if target.Status == models.MatchBye {
		target.WinnerID = &id
		if err := a.matchRepo.UpdateState(ctx, exec, target); err != nil {
			return nil, err
		}
		if target.NextMatchID != nil && target.NextMatchSlot != nil {
			further, err := a.placeParticipant(ctx, exec, *target.NextMatchID, *target.NextMatchSlot, id)
			if err != nil {
				return nil, err
			}
			advanced = append(advanced, further...)
		}
	}
	return advanced, nil
}

// removeParticipant vacates a downstream slot during completion undo,
// cascading back through bye matches the participant had advanced over.
func (a *advancer) removeParticipant(ctx context.Context, exec repositories.SQLExecutor, matchID, slot, participantID int) error {
	target, err := a.matchRepo.GetByID(ctx, exec, matchID)
	if err != nil {
		return err
	}
	occupant := target.Slot(slot)
	if occupant == nil || *occupant != participantID {
		a.logger.WarnContext(ctx, "undo: downstream slot no longer holds participant",
			slog.Int("match_id", target.ID),
			slog.Int("slot", slot),
			slog.Int("participant_id", participantID))
		return nil
	}

	if target.Status == models.MatchBye && target.WinnerID != nil && *target.WinnerID == participantID {
		if target.NextMatchID != nil && target.NextMatchSlot != nil {
			if err := a.removeParticipant(ctx, exec, *target.NextMatchID, *target.NextMatchSlot, participantID); err != nil {
				return err
			}
		}
		target.WinnerID = nil
		target.SetSlot(slot, nil)
		return a.matchRepo.UpdateState(ctx, exec, target)
	}

	return a.matchRepo.SetParticipantSlot(ctx, exec, target.ID, slot, nil)
}

// recomputeCompletion closes the tournament (and any finished brackets)
// when no open matches remain. It must observe the just-completed match's
// new status, so it runs on the same executor after the state write.
func (a *advancer) recomputeCompletion(ctx context.Context, exec repositories.SQLExecutor, tournament *models.Tournament) (bool, error) {
	matches, err := a.matchRepo.ListByTournament(ctx, exec, tournament.ID)
	if err != nil {
		return false, err
	}

	openByBracket := make(map[int]int)
	openTotal := 0
	for _, m := range matches {
		if _, seen := openByBracket[m.BracketID]; !seen {
			openByBracket[m.BracketID] = 0
		}
		if m.Status.Open() {
			openByBracket[m.BracketID]++
			openTotal++
		}
	}

	brackets, err := a.bracketRepo.ListByTournament(ctx, exec, tournament.ID)
	if err != nil {
		return false, err
	}
	for _, b := range brackets {
		open, hasMatches := openByBracket[b.ID]
		if hasMatches && open == 0 && b.Status == models.BracketActive {
			if err := a.bracketRepo.UpdateStatus(ctx, exec, b.ID, models.BracketCompleted); err != nil {
				return false, err
			}
		}
	}

	if openTotal > 0 || tournament.Status != models.TournamentActive {
		return false, nil
	}
	now := time.Now().UTC()
	if err := a.tournamentRepo.UpdateStatus(ctx, exec, tournament.ID, models.TournamentCompleted, &now); err != nil {
		return false, err
	}
	tournament.Status = models.TournamentCompleted
	tournament.CompletedAt = &now
	return true, nil
}
