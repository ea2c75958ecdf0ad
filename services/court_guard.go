package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
)

type courtKey struct {
	tournamentID int
	court        string
}

// CourtGuard enforces "at most one live match per court per tournament". An
// in-process token map serialises concurrent starts on the same court; the
// database scan in Validate is the authoritative check and runs inside the
// same transaction that flips a match to live, so the invariant holds even
// across processes or after a restart with a cold token map.
type CourtGuard struct {
	mu   sync.Mutex
	live map[courtKey]int // court -> match holding it
}

func NewCourtGuard() *CourtGuard {
	return &CourtGuard{live: make(map[courtKey]int)}
}

// Acquire claims the court token for a match. It reports false when another
// match already holds it. Matches without a court are exempt.
func (g *CourtGuard) Acquire(tournamentID int, court *string, matchID int) bool {
	if court == nil || *court == "" {
		return true
	}
	key := courtKey{tournamentID: tournamentID, court: *court}

	g.mu.Lock()
	defer g.mu.Unlock()
	if holder, taken := g.live[key]; taken && holder != matchID {
		return false
	}
	g.live[key] = matchID
	return true
}

// Release drops the court token if the match still holds it.
func (g *CourtGuard) Release(tournamentID int, court *string, matchID int) {
	if court == nil || *court == "" {
		return
	}
	key := courtKey{tournamentID: tournamentID, court: *court}

	g.mu.Lock()
	defer g.mu.Unlock()
	if holder, taken := g.live[key]; taken && holder == matchID {
		delete(g.live, key)
	}
}

// Validate scans the tournament's matches for another live match on the same
// court. It must run inside the transaction that transitions the match to
// live.
func (g *CourtGuard) Validate(ctx context.Context, exec repositories.SQLExecutor, matchRepo repositories.MatchRepository, tournamentID int, court *string, matchID int) error {
	if court == nil || *court == "" {
		return nil
	}
	matches, err := matchRepo.ListByTournament(ctx, exec, tournamentID)
	if err != nil {
		return fmt.Errorf("court guard scan: %w", err)
	}
	for _, m := range matches {
		if m.ID == matchID || m.Status != models.MatchLive {
			continue
		}
		if m.Court != nil && *m.Court == *court {
			return fmt.Errorf("%w: court %q already has a live match", ErrConflict, *court)
		}
	}
	return nil
}
