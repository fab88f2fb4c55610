// Package deal holds the pipeline domain model shared by the client, the CLI,
// and the stub service: deals, quarantine items, onboarding state, and the
// static stage-transition table.
package deal

import "time"

// Stage is a deal's position in the pipeline.
type Stage string

const (
	StageInbound     Stage = "inbound"
	StageScreening   Stage = "screening"
	StageDiligence   Stage = "diligence"
	StageNegotiation Stage = "negotiation"
	StageClosing     Stage = "closing"
	StageClosed      Stage = "closed"
	StageDead        Stage = "dead"

	// StageUnknown is assigned by the lenient decoder when the backend sends
	// a stage this build doesn't recognize.
	StageUnknown Stage = "unknown"
)

// Stages lists all pipeline stages in board order. StageUnknown is excluded;
// it is a decode artifact, not a pipeline position.
var Stages = []Stage{
	StageInbound,
	StageScreening,
	StageDiligence,
	StageNegotiation,
	StageClosing,
	StageClosed,
	StageDead,
}

// ParseStage maps a wire string to a Stage, returning StageUnknown for
// anything not in the table.
func ParseStage(s string) Stage {
	for _, stage := range Stages {
		if string(stage) == s {
			return stage
		}
	}
	return StageUnknown
}

// Deal is a single pipeline entry.
type Deal struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Stage        Stage     `json:"stage"`
	Counterparty string    `json:"counterparty,omitempty"`
	ValueUSD     float64   `json:"value_usd,omitempty"`
	Probability  float64   `json:"probability,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Tags         []string  `json:"tags,omitempty"`
	UpdatedAt    time.Time `json:"updated_at,omitempty"`
}

// QuarantineItem is an inbound email held for triage before it becomes
// (or is rejected as) a deal.
type QuarantineItem struct {
	ID         string    `json:"id"`
	Subject    string    `json:"subject"`
	From       string    `json:"from"`
	Reason     string    `json:"reason,omitempty"`
	Confidence float64   `json:"confidence,omitempty"`
	ReceivedAt time.Time `json:"received_at,omitempty"`
}

// OnboardingStep is one item of the workspace onboarding checklist.
type OnboardingStep struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Done        bool   `json:"done"`
}

// OnboardingState is the full checklist plus a rollup flag.
type OnboardingState struct {
	Steps    []OnboardingStep `json:"steps"`
	Complete bool             `json:"complete"`
}

// SearchResult is one hit from the deal-service search endpoint.
type SearchResult struct {
	DealID  string  `json:"deal_id"`
	Name    string  `json:"name"`
	Stage   Stage   `json:"stage"`
	Score   float64 `json:"score"`
	Snippet string  `json:"snippet,omitempty"`
}
