package services

import (
	"context"
	"sort"
	"time"

	"github.com/courtside/tournament-engine/models"
	"github.com/courtside/tournament-engine/repositories"
)

// fakeTransactor runs the function directly; the fakes below keep their own
// state, so there is nothing to commit or roll back.
type fakeTransactor struct{}

func (fakeTransactor) WithinTx(ctx context.Context, fn func(exec repositories.SQLExecutor) error) error {
	return fn(nil)
}

type fakeTournamentRepo struct {
	nextID      int
	tournaments map[int]*models.Tournament
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{nextID: 1, tournaments: make(map[int]*models.Tournament)}
}

func (r *fakeTournamentRepo) Create(ctx context.Context, exec repositories.SQLExecutor, t *models.Tournament) error {
	t.ID = r.nextID
	r.nextID++
	t.CreatedAt = time.Now()
	clone := *t
	r.tournaments[t.ID] = &clone
	return nil
}

func (r *fakeTournamentRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Tournament, error) {
	t, ok := r.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	clone := *t
	return &clone, nil
}

func (r *fakeTournamentRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.TournamentStatus, completedAt *time.Time) error {
	t, ok := r.tournaments[id]
	if !ok {
		return repositories.ErrTournamentNotFound
	}
	t.Status = status
	t.CompletedAt = completedAt
	return nil
}

type fakeBracketRepo struct {
	nextID   int
	brackets map[int]*models.Bracket
}

func newFakeBracketRepo() *fakeBracketRepo {
	return &fakeBracketRepo{nextID: 1, brackets: make(map[int]*models.Bracket)}
}

func (r *fakeBracketRepo) Create(ctx context.Context, exec repositories.SQLExecutor, b *models.Bracket) error {
	b.ID = r.nextID
	r.nextID++
	b.CreatedAt = time.Now()
	clone := *b
	r.brackets[b.ID] = &clone
	return nil
}

func (r *fakeBracketRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Bracket, error) {
	b, ok := r.brackets[id]
	if !ok {
		return nil, repositories.ErrBracketNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeBracketRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Bracket, error) {
	var out []*models.Bracket
	for _, b := range r.brackets {
		if b.TournamentID == tournamentID {
			clone := *b
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeBracketRepo) UpdateStatus(ctx context.Context, exec repositories.SQLExecutor, id int, status models.BracketStatus) error {
	b, ok := r.brackets[id]
	if !ok {
		return repositories.ErrBracketNotFound
	}
	b.Status = status
	return nil
}

type fakeParticipantRepo struct {
	nextID       int
	participants map[int]*models.Participant
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{nextID: 1, participants: make(map[int]*models.Participant)}
}

func (r *fakeParticipantRepo) Create(ctx context.Context, exec repositories.SQLExecutor, p *models.Participant) error {
	p.ID = r.nextID
	r.nextID++
	p.CreatedAt = time.Now()
	clone := *p
	r.participants[p.ID] = &clone
	return nil
}

func (r *fakeParticipantRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Participant, error) {
	p, ok := r.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakeParticipantRepo) ListByBracket(ctx context.Context, exec repositories.SQLExecutor, bracketID int) ([]*models.Participant, error) {
	var out []*models.Participant
	for _, p := range r.participants {
		if p.BracketID == bracketID {
			clone := *p
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		si, sj := out[i].Seed, out[j].Seed
		switch {
		case si != nil && sj != nil && *si != *sj:
			return *si < *sj
		case si != nil && sj == nil:
			return true
		case si == nil && sj != nil:
			return false
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeParticipantRepo) ApplyResult(ctx context.Context, exec repositories.SQLExecutor, id int, delta repositories.ResultDelta) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Wins += delta.Wins
	p.Losses += delta.Losses
	p.Draws += delta.Draws
	p.PointsFor += delta.PointsFor
	p.PointsAgainst += delta.PointsAgainst
	return nil
}

func (r *fakeParticipantRepo) FillPlaceholder(ctx context.Context, exec repositories.SQLExecutor, id int, name string, partner *string) error {
	p, ok := r.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Name = name
	p.Partner = partner
	p.IsPlaceholder = false
	return nil
}

type fakeMatchRepo struct {
	nextID  int
	matches map[int]*models.Match
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{nextID: 1, matches: make(map[int]*models.Match)}
}

func cloneMatch(m *models.Match) *models.Match {
	clone := *m
	if m.Tennis != nil {
		state := *m.Tennis
		state.Sets = append([][2]int(nil), m.Tennis.Sets...)
		state.History = append([]models.TennisSnapshot(nil), m.Tennis.History...)
		clone.Tennis = &state
	}
	return &clone
}

func (r *fakeMatchRepo) Create(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	m.ID = r.nextID
	r.nextID++
	m.CreatedAt = time.Now()
	r.matches[m.ID] = cloneMatch(m)
	return nil
}

func (r *fakeMatchRepo) GetByID(ctx context.Context, exec repositories.SQLExecutor, id int) (*models.Match, error) {
	m, ok := r.matches[id]
	if !ok {
		return nil, repositories.ErrMatchNotFound
	}
	return cloneMatch(m), nil
}

func (r *fakeMatchRepo) ListByBracket(ctx context.Context, exec repositories.SQLExecutor, bracketID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.BracketID == bracketID {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) ListByTournament(ctx context.Context, exec repositories.SQLExecutor, tournamentID int) ([]*models.Match, error) {
	var out []*models.Match
	for _, m := range r.matches {
		if m.TournamentID == tournamentID {
			out = append(out, cloneMatch(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeMatchRepo) UpdateLinks(ctx context.Context, exec repositories.SQLExecutor, id int, nextID, nextSlot, loserNextID, loserNextSlot *int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.NextMatchID = nextID
	m.NextMatchSlot = nextSlot
	m.LoserNextMatchID = loserNextID
	m.LoserNextMatchSlot = loserNextSlot
	return nil
}

func (r *fakeMatchRepo) SetParticipantSlot(ctx context.Context, exec repositories.SQLExecutor, id, slot int, participantID *int) error {
	m, ok := r.matches[id]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	m.SetSlot(slot, participantID)
	return nil
}

func (r *fakeMatchRepo) UpdateState(ctx context.Context, exec repositories.SQLExecutor, m *models.Match) error {
	stored, ok := r.matches[m.ID]
	if !ok {
		return repositories.ErrMatchNotFound
	}
	clone := cloneMatch(m)
	clone.NextMatchID = stored.NextMatchID
	clone.NextMatchSlot = stored.NextMatchSlot
	clone.LoserNextMatchID = stored.LoserNextMatchID
	clone.LoserNextMatchSlot = stored.LoserNextMatchSlot
	r.matches[m.ID] = clone
	return nil
}

func (r *fakeMatchRepo) DeleteByBracket(ctx context.Context, exec repositories.SQLExecutor, bracketID int) error {
	for id, m := range r.matches {
		if m.BracketID == bracketID {
			delete(r.matches, id)
		}
	}
	return nil
}
