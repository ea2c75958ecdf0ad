package brackets

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/courtside/tournament-engine/models"
)

// testField builds n participants with ids 1..n and seeds 1..n.
func testField(n int) []*models.Participant {
	out := make([]*models.Participant, n)
	for i := 0; i < n; i++ {
		seed := i + 1
		out[i] = &models.Participant{
			ID:   i + 1,
			Name: fmt.Sprintf("P%d", i+1),
			Seed: &seed,
		}
	}
	return out
}

func generate(t *testing.T, g Generator, participants []*models.Participant) []*Match {
	t.Helper()
	matches, err := g.Generate(context.Background(), GenerateParams{
		Bracket:      &models.Bracket{ID: 1},
		Participants: participants,
	})
	require.NoError(t, err)
	return matches
}

func matchByUID(matches []*Match, uid string) *Match {
	for _, m := range matches {
		if m.UID == uid {
			return m
		}
	}
	return nil
}

func TestSeedOrderDoubling(t *testing.T) {
	assert.Equal(t, []int{1, 2}, seedOrder(2))
	assert.Equal(t, []int{1, 4, 2, 3}, seedOrder(4))
	assert.Equal(t, []int{1, 8, 4, 5, 2, 7, 3, 6}, seedOrder(8))
}

func TestSeedSortUnseededLast(t *testing.T) {
	three := 3
	one := 1
	participants := []*models.Participant{
		{ID: 10, Name: "unseeded-a"},
		{ID: 11, Name: "third", Seed: &three},
		{ID: 12, Name: "first", Seed: &one},
		{ID: 13, Name: "unseeded-b"},
	}
	sorted := seedSort(participants)
	assert.Equal(t, []int{12, 11, 10, 13}, []int{sorted[0].ID, sorted[1].ID, sorted[2].ID, sorted[3].ID})
}

func TestSingleEliminationFullDraw(t *testing.T) {
	matches := generate(t, NewSingleEliminationGenerator(), testField(8))
	require.Len(t, matches, 7)

	// Round 1 pairs by the doubling rule: 1v8, 4v5, 2v7, 3v6.
	r1 := matchByUID(matches, "R1M1")
	require.NotNil(t, r1)
	assert.Equal(t, 1, *r1.Participant1ID)
	assert.Equal(t, 8, *r1.Participant2ID)

	r1m4 := matchByUID(matches, "R1M4")
	require.NotNil(t, r1m4)
	assert.Equal(t, 3, *r1m4.Participant1ID)
	assert.Equal(t, 6, *r1m4.Participant2ID)

	// Links: R1M1 and R1M2 feed R2M1's two slots.
	assert.Equal(t, "R2M1", matchByUID(matches, "R1M1").NextUID)
	assert.Equal(t, 1, matchByUID(matches, "R1M1").NextSlot)
	assert.Equal(t, "R2M1", matchByUID(matches, "R1M2").NextUID)
	assert.Equal(t, 2, matchByUID(matches, "R1M2").NextSlot)

	final := matchByUID(matches, "R3M1")
	require.NotNil(t, final)
	assert.Empty(t, final.NextUID)
}

func TestSingleEliminationByesProduceNoMatch(t *testing.T) {
	matches := generate(t, NewSingleEliminationGenerator(), testField(5))
	require.Len(t, matches, 4, "5 participants always yield 4 matches")

	for _, m := range matches {
		assert.NotEqual(t, models.MatchBye, m.Status)
	}

	// Seeds 1-3 sit out round 1; only 4v5 plays. The winner meets seed 1.
	r1 := matchByUID(matches, "R1M1")
	require.NotNil(t, r1)
	assert.Equal(t, 4, *r1.Participant1ID)
	assert.Equal(t, 5, *r1.Participant2ID)

	r2 := matchByUID(matches, r1.NextUID)
	require.NotNil(t, r2)
	assert.Equal(t, 1, *r2.Participant1ID)
}

func TestSingleEliminationTwoParticipants(t *testing.T) {
	matches := generate(t, NewSingleEliminationGenerator(), testField(2))
	require.Len(t, matches, 1)
	assert.Equal(t, "R1M1", matches[0].UID)
	assert.Empty(t, matches[0].NextUID)
}

func TestSingleEliminationBounds(t *testing.T) {
	g := NewSingleEliminationGenerator()

	_, err := g.Generate(context.Background(), GenerateParams{
		Bracket:      &models.Bracket{ID: 1},
		Participants: testField(1),
	})
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)

	_, err = g.Generate(context.Background(), GenerateParams{
		Bracket:      &models.Bracket{ID: 1},
		Participants: testField(MaxBracketSize + 1),
	})
	assert.ErrorIs(t, err, ErrBracketTooLarge)
}

func TestBlankSize(t *testing.T) {
	size, err := BlankSize(5)
	require.NoError(t, err)
	assert.Equal(t, 8, size)

	size, err = BlankSize(8)
	require.NoError(t, err)
	assert.Equal(t, 8, size)

	_, err = BlankSize(1)
	assert.ErrorIs(t, err, ErrNotEnoughParticipants)

	_, err = BlankSize(MaxBracketSize + 1)
	assert.ErrorIs(t, err, ErrBracketTooLarge)
}

func TestForFormat(t *testing.T) {
	for _, format := range []models.TournamentFormat{
		models.FormatSingleElimination,
		models.FormatDoubleElimination,
		models.FormatRoundRobin,
	} {
		g, err := ForFormat(format)
		require.NoError(t, err)
		require.NotNil(t, g)
	}

	_, err := ForFormat("swiss")
	assert.Error(t, err)
}
