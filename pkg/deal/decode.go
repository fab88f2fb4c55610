package deal

import (
	"encoding/json"
	"errors"
	"time"
)

// ErrNoID indicates a deal payload with a missing or empty id. Such payloads
// produce the "typed null": a nil *Deal rather than a zero-id deal.
var ErrNoID = errors.New("deal payload has no id")

// Decode coerces a loosely-shaped deal payload into a *Deal.
//
// It is a two-stage decode: a strict typed parse first, and on any shape
// mismatch a permissive fallback that rebuilds the deal field by field from
// a generic map, substituting a defined default for every field that doesn't
// fit. The contract is "never fail on shape mismatch": the only error Decode
// returns is ErrNoID, for payloads that cannot be identified at all, and a
// wrapped syntax error for bytes that are not JSON to begin with.
func Decode(data []byte) (*Deal, error) {
	var d Deal
	if err := json.Unmarshal(data, &d); err == nil && d.valid() {
		return &d, nil
	}

	return decodePartial(data)
}

// DecodeList coerces an array of deal payloads, dropping entries that fail
// to decode rather than failing the list.
func DecodeList(data []byte) ([]Deal, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	deals := make([]Deal, 0, len(raw))
	for _, item := range raw {
		d, err := Decode(item)
		if err != nil {
			continue
		}
		deals = append(deals, *d)
	}
	return deals, nil
}

// valid reports whether a strict parse produced a usable deal. A recognized
// stage is required; otherwise the fallback path runs so stage defaulting is
// applied uniformly.
func (d *Deal) valid() bool {
	if d.ID == "" {
		return false
	}
	return ParseStage(string(d.Stage)) != StageUnknown
}

// decodePartial is the permissive fallback. Every defaulting rule is
// enumerated here:
//
//   - id: required; missing or non-string → ErrNoID, nil deal
//   - name: non-string → ""
//   - stage: non-string or unrecognized → StageUnknown
//   - counterparty, summary: non-string → ""
//   - value_usd, probability: non-numeric → 0
//   - tags: non-array → nil; non-string elements skipped
//   - updated_at: non-RFC3339 → zero time
func decodePartial(data []byte) (*Deal, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}

	id, _ := m["id"].(string)
	if id == "" {
		return nil, ErrNoID
	}

	d := &Deal{ID: id, Stage: StageUnknown}

	if name, ok := m["name"].(string); ok {
		d.Name = name
	}
	if stage, ok := m["stage"].(string); ok {
		d.Stage = ParseStage(stage)
	}
	if cp, ok := m["counterparty"].(string); ok {
		d.Counterparty = cp
	}
	if summary, ok := m["summary"].(string); ok {
		d.Summary = summary
	}
	if v, ok := m["value_usd"].(float64); ok {
		d.ValueUSD = v
	}
	if p, ok := m["probability"].(float64); ok {
		d.Probability = p
	}
	if tags, ok := m["tags"].([]any); ok {
		for _, t := range tags {
			if s, ok := t.(string); ok {
				d.Tags = append(d.Tags, s)
			}
		}
	}
	if ts, ok := m["updated_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, ts); err == nil {
			d.UpdatedAt = t
		}
	}

	return d, nil
}
