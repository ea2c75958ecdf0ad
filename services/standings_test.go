package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-engine/models"
)

func TestComputeStandingsOrdering(t *testing.T) {
	standings := ComputeStandings([]*models.Participant{
		{ID: 1, Name: "Alice", Wins: 1, Draws: 1, Losses: 1, PointsFor: 5, PointsAgainst: 4},
		{ID: 2, Name: "Bob", Wins: 2, Losses: 1, PointsFor: 6, PointsAgainst: 3},
		{ID: 3, Name: "Cara", Wins: 1, Draws: 1, Losses: 1, PointsFor: 4, PointsAgainst: 4},
		{ID: 4, Name: "Dan", Losses: 3, PointsFor: 1, PointsAgainst: 5},
	})
	require.Len(t, standings, 4)

	// Bob 6 points, then Alice and Cara on 4 split by score difference,
	// Dan last.
	assert.Equal(t, "Bob", standings[0].Participant.Name)
	assert.Equal(t, 6, standings[0].Points)
	assert.Equal(t, "Alice", standings[1].Participant.Name)
	assert.Equal(t, "Cara", standings[2].Participant.Name)
	assert.Equal(t, "Dan", standings[3].Participant.Name)
	assert.Equal(t, 0, standings[3].Points)
	assert.Equal(t, 3, standings[3].Played)
}

func TestComputeStandingsNameBreaksFullTie(t *testing.T) {
	standings := ComputeStandings([]*models.Participant{
		{ID: 1, Name: "Zoe", Wins: 1, PointsFor: 2, PointsAgainst: 1},
		{ID: 2, Name: "Amy", Wins: 1, PointsFor: 2, PointsAgainst: 1},
	})
	assert.Equal(t, "Amy", standings[0].Participant.Name)
	assert.Equal(t, "Zoe", standings[1].Participant.Name)
}

func TestBracketStandingsFromAggregates(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	tournament := env.seedTournament(t, models.FormatRoundRobin, models.TournamentActive, nil)
	bracket := env.seedBracket(t, tournament.ID, models.BracketActive)
	p1 := env.seedParticipant(t, bracket.ID, "Alice")
	p2 := env.seedParticipant(t, bracket.ID, "Bob")
	p3 := env.seedParticipant(t, bracket.ID, "Cara")

	// Alice beats Bob, draws Cara.
	m1 := env.seedMatch(t, &models.Match{
		TournamentID: tournament.ID, BracketID: bracket.ID, UID: "RR1M1", Round: 1, MatchNumber: 1,
		Side: models.SideOneOff, Participant1ID: &p1.ID, Participant2ID: &p2.ID, Status: models.MatchLive,
	})
	_, err := env.matchSvc.CompleteMatch(ctx, m1.ID, CompleteMatchParams{Score1: intPtr(2), Score2: intPtr(0)})
	require.NoError(t, err)

	m2 := env.seedMatch(t, &models.Match{
		TournamentID: tournament.ID, BracketID: bracket.ID, UID: "RR2M1", Round: 2, MatchNumber: 1,
		Side: models.SideOneOff, Participant1ID: &p1.ID, Participant2ID: &p3.ID, Status: models.MatchLive,
	})
	_, err = env.matchSvc.CompleteMatch(ctx, m2.ID, CompleteMatchParams{Score1: intPtr(1), Score2: intPtr(1)})
	require.NoError(t, err)

	standings, err := env.tournamentSvc.BracketStandings(ctx, bracket.ID)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, "Alice", standings[0].Participant.Name)
	assert.Equal(t, 4, standings[0].Points)
	assert.Equal(t, "Cara", standings[1].Participant.Name)
	assert.Equal(t, 1, standings[1].Points)
	assert.Equal(t, "Bob", standings[2].Participant.Name)

	_, err = env.tournamentSvc.BracketStandings(ctx, 999)
	assert.ErrorIs(t, err, ErrBracketNotFound)
}
