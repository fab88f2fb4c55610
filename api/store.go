package api

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zakopshq/zakops/pkg/deal"
)

var (
	// ErrNotFound is returned for lookups of ids the store does not hold.
	ErrNotFound = errors.New("not found")

	// ErrIllegalTransition is returned when a requested stage move is not
	// in the pipeline's transition table.
	ErrIllegalTransition = errors.New("illegal stage transition")
)

// Store is the stub service's in-memory state: the deal pipeline, the
// quarantine queue, and the onboarding checklist. All methods are safe for
// concurrent use.
type Store struct {
	mu         sync.RWMutex
	deals      map[string]deal.Deal
	quarantine map[string]deal.QuarantineItem
	onboarding deal.OnboardingState
}

// NewStore creates an empty store. Call Load to seed it.
func NewStore() *Store {
	return &Store{
		deals:      make(map[string]deal.Deal),
		quarantine: make(map[string]deal.QuarantineItem),
	}
}

// Load replaces the store's entire contents with the given fixtures.
func (s *Store) Load(f Fixtures) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deals = make(map[string]deal.Deal, len(f.Deals))
	for _, d := range f.Deals {
		s.deals[d.ID] = d
	}

	s.quarantine = make(map[string]deal.QuarantineItem, len(f.Quarantine))
	for _, q := range f.Quarantine {
		s.quarantine[q.ID] = q
	}

	s.onboarding = f.Onboarding
	s.refreshOnboardingLocked()
}

// ListDeals returns deals filtered by stage and a case-insensitive name /
// counterparty substring, most recently updated first.
func (s *Store) ListDeals(stage deal.Stage, query string) []deal.Deal {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]deal.Deal, 0, len(s.deals))
	for _, d := range s.deals {
		if stage != "" && d.Stage != stage {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(d.Name), query) &&
			!strings.Contains(strings.ToLower(d.Counterparty), query) {
			continue
		}
		out = append(out, d)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// GetDeal returns the deal with the given id.
func (s *Store) GetDeal(id string) (deal.Deal, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.deals[id]
	return d, ok
}

// PutDeal inserts or replaces a deal, stamping UpdatedAt.
func (s *Store) PutDeal(d deal.Deal) deal.Deal {
	s.mu.Lock()
	defer s.mu.Unlock()
	d.UpdatedAt = time.Now().UTC()
	s.deals[d.ID] = d
	return d
}

// TransitionDeal moves a deal to the given stage after checking the
// transition table.
func (s *Store) TransitionDeal(id string, to deal.Stage) (deal.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, ok := s.deals[id]
	if !ok {
		return deal.Deal{}, ErrNotFound
	}
	if !deal.CanTransition(d.Stage, to) {
		return deal.Deal{}, ErrIllegalTransition
	}

	d.Stage = to
	d.UpdatedAt = time.Now().UTC()
	s.deals[id] = d
	return d, nil
}

// DeleteDeal removes a deal from the pipeline.
func (s *Store) DeleteDeal(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.deals[id]; !ok {
		return ErrNotFound
	}
	delete(s.deals, id)
	return nil
}

// ListQuarantine returns held items, newest first.
func (s *Store) ListQuarantine() []deal.QuarantineItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]deal.QuarantineItem, 0, len(s.quarantine))
	for _, q := range s.quarantine {
		out = append(out, q)
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].ReceivedAt.Equal(out[j].ReceivedAt) {
			return out[i].ReceivedAt.After(out[j].ReceivedAt)
		}
		return out[i].ID < out[j].ID
	})

	return out
}

// ApproveQuarantine promotes a held item into a fresh inbound deal.
func (s *Store) ApproveQuarantine(id string) (deal.Deal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, ok := s.quarantine[id]
	if !ok {
		return deal.Deal{}, ErrNotFound
	}
	delete(s.quarantine, id)

	d := deal.Deal{
		ID:        uuid.NewString(),
		Name:      q.Subject,
		Stage:     deal.StageInbound,
		Summary:   "Promoted from quarantine: " + q.From,
		UpdatedAt: time.Now().UTC(),
	}
	s.deals[d.ID] = d
	return d, nil
}

// RejectQuarantine drops a held item without creating a deal.
func (s *Store) RejectQuarantine(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.quarantine[id]; !ok {
		return ErrNotFound
	}
	delete(s.quarantine, id)
	return nil
}

// Onboarding returns the current checklist state.
func (s *Store) Onboarding() deal.OnboardingState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := s.onboarding
	out.Steps = append([]deal.OnboardingStep(nil), s.onboarding.Steps...)
	return out
}

// CompleteOnboardingStep marks a checklist step done. Completing an
// already-done step is a no-op, not an error.
func (s *Store) CompleteOnboardingStep(id string) (deal.OnboardingState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	found := false
	for i := range s.onboarding.Steps {
		if s.onboarding.Steps[i].ID == id {
			s.onboarding.Steps[i].Done = true
			found = true
			break
		}
	}
	if !found {
		return deal.OnboardingState{}, ErrNotFound
	}

	s.refreshOnboardingLocked()
	out := s.onboarding
	out.Steps = append([]deal.OnboardingStep(nil), s.onboarding.Steps...)
	return out, nil
}

func (s *Store) refreshOnboardingLocked() {
	complete := len(s.onboarding.Steps) > 0
	for _, step := range s.onboarding.Steps {
		if !step.Done {
			complete = false
			break
		}
	}
	s.onboarding.Complete = complete
}

// Search scores deals by case-insensitive substring matches over name,
// counterparty, summary, and tags, best matches first.
func (s *Store) Search(query string) []deal.SearchResult {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var out []deal.SearchResult
	for _, d := range s.deals {
		score, snippet := scoreDeal(d, query)
		if score == 0 {
			continue
		}
		out = append(out, deal.SearchResult{
			DealID:  d.ID,
			Name:    d.Name,
			Stage:   d.Stage,
			Score:   score,
			Snippet: snippet,
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].DealID < out[j].DealID
	})

	return out
}

// scoreDeal weights name matches above counterparty, counterparty above
// summary and tags. The snippet is the first field that matched.
func scoreDeal(d deal.Deal, query string) (float64, string) {
	var score float64
	var snippet string

	if strings.Contains(strings.ToLower(d.Name), query) {
		score += 1.0
		snippet = d.Name
	}
	if strings.Contains(strings.ToLower(d.Counterparty), query) {
		score += 0.6
		if snippet == "" {
			snippet = d.Counterparty
		}
	}
	if strings.Contains(strings.ToLower(d.Summary), query) {
		score += 0.3
		if snippet == "" {
			snippet = d.Summary
		}
	}
	for _, tag := range d.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			score += 0.2
			if snippet == "" {
				snippet = tag
			}
			break
		}
	}

	return score, snippet
}
