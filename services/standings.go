package services

import (
	"context"
	"sort"

	"github.com/courtside/tournament-engine/models"
)

const (
	standingsWinPoints  = 3
	standingsDrawPoints = 1
)

// Standing is one row of a round-robin table.
type Standing struct {
	Participant   *models.Participant `json:"participant"`
	Played        int                 `json:"played"`
	Points        int                 `json:"points"`
	ScoreDiff     int                 `json:"score_diff"`
	PointsFor     int                 `json:"points_for"`
	PointsAgainst int                 `json:"points_against"`
}

// ComputeStandings ranks participants by table points (3 per win, 1 per
// draw), breaking ties on score difference, then scored totals, then name.
func ComputeStandings(participants []*models.Participant) []Standing {
	standings := make([]Standing, 0, len(participants))
	for _, p := range participants {
		standings = append(standings, Standing{
			Participant:   p,
			Played:        p.Wins + p.Losses + p.Draws,
			Points:        standingsWinPoints*p.Wins + standingsDrawPoints*p.Draws,
			ScoreDiff:     p.PointsFor - p.PointsAgainst,
			PointsFor:     p.PointsFor,
			PointsAgainst: p.PointsAgainst,
		})
	}
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.ScoreDiff != b.ScoreDiff {
			return a.ScoreDiff > b.ScoreDiff
		}
		if a.PointsFor != b.PointsFor {
			return a.PointsFor > b.PointsFor
		}
		return a.Participant.Name < b.Participant.Name
	})
	return standings
}

// BracketStandings computes the table for a bracket from the participants'
// running aggregates.
func (s *TournamentService) BracketStandings(ctx context.Context, bracketID int) ([]Standing, error) {
	if _, err := s.bracketRepo.GetByID(ctx, s.db, bracketID); err != nil {
		return nil, translateRepoError(err)
	}
	participants, err := s.participantRepo.ListByBracket(ctx, s.db, bracketID)
	if err != nil {
		return nil, err
	}
	return ComputeStandings(participants), nil
}
