package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/zakopshq/zakops/pkg/deal"
)

// Fixtures is the on-disk seed format for the stub store.
type Fixtures struct {
	Deals      []deal.Deal           `json:"deals"`
	Quarantine []deal.QuarantineItem `json:"quarantine"`
	Onboarding deal.OnboardingState  `json:"onboarding"`
}

// LoadFixtures reads and parses a fixtures file.
func LoadFixtures(path string) (Fixtures, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Fixtures{}, fmt.Errorf("reading fixtures: %w", err)
	}

	var f Fixtures
	if err := json.Unmarshal(data, &f); err != nil {
		return Fixtures{}, fmt.Errorf("parsing fixtures %s: %w", path, err)
	}
	return f, nil
}

// SeedFixtures returns the built-in demo pipeline used when no fixtures
// file is configured.
func SeedFixtures() Fixtures {
	now := time.Now().UTC()
	return Fixtures{
		Deals: []deal.Deal{
			{
				ID:           "d-acme",
				Name:         "Acme Industrial carve-out",
				Stage:        deal.StageDiligence,
				Counterparty: "Acme Industrial Holdings",
				ValueUSD:     42_000_000,
				Probability:  0.55,
				Summary:      "Carve-out of the fasteners division. QoE underway.",
				Tags:         []string{"manufacturing", "carve-out"},
				UpdatedAt:    now.Add(-2 * time.Hour),
			},
			{
				ID:           "d-globex",
				Name:         "Globex minority stake",
				Stage:        deal.StageScreening,
				Counterparty: "Globex Corporation",
				ValueUSD:     12_500_000,
				Probability:  0.3,
				Summary:      "Minority growth investment, founder retaining control.",
				Tags:         []string{"growth", "minority"},
				UpdatedAt:    now.Add(-26 * time.Hour),
			},
			{
				ID:           "d-initech",
				Name:         "Initech acqui-hire",
				Stage:        deal.StageInbound,
				Counterparty: "Initech LLC",
				ValueUSD:     3_000_000,
				Probability:  0.15,
				Summary:      "Team of eleven, TPS reporting platform.",
				Tags:         []string{"software", "acqui-hire"},
				UpdatedAt:    now.Add(-15 * time.Minute),
			},
		},
		Quarantine: []deal.QuarantineItem{
			{
				ID:         "q-bluth",
				Subject:    "RE: banana stand portfolio",
				From:       "m.bluth@example.com",
				Reason:     "sender domain not in counterparty book",
				Confidence: 0.42,
				ReceivedAt: now.Add(-3 * time.Hour),
			},
		},
		Onboarding: deal.OnboardingState{
			Steps: []deal.OnboardingStep{
				{ID: "connect-inbox", Title: "Connect your deal inbox", Done: true},
				{ID: "invite-team", Title: "Invite your team"},
				{ID: "first-deal", Title: "Add your first deal", Description: "Import a deal or approve one from quarantine."},
			},
		},
	}
}

// watchFixtures reloads the store whenever the fixtures file is written.
// It blocks until ctx is cancelled.
func watchFixtures(ctx context.Context, path string, store *Store, logger *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fixtures watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory; editors replace files rather than write in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching fixtures dir: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-watcher.Events:
			if filepath.Clean(event.Name) != filepath.Clean(path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			f, err := LoadFixtures(path)
			if err != nil {
				logger.Warn("fixtures reload failed", "path", path, "error", err)
				continue
			}
			store.Load(f)
			logger.Info("fixtures reloaded",
				"path", path,
				"deals", len(f.Deals),
				"quarantine", len(f.Quarantine),
			)
		case err := <-watcher.Errors:
			return fmt.Errorf("fixtures watcher: %w", err)
		}
	}
}
