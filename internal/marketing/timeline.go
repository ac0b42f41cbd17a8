package marketing

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduledPhase is a phase with concrete dates. End is exclusive and equals
// the next phase's Start.
type ScheduledPhase struct {
	Phase
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Timeline is the dated launch plan.
type Timeline struct {
	Start           time.Time        `json:"start"`
	End             time.Time        `json:"end"`
	Phases          []ScheduledPhase `json:"phases"`
	Channels        []Channel        `json:"channels"`
	KeyEvents       []Event          `json:"key_events"`
	TotalDays       int              `json:"total_days"`
	TotalImpact     Impact           `json:"total_impact"`
	TotalReach      int64            `json:"total_reach"`
	TotalInvestment decimal.Decimal  `json:"total_investment"`
}

// Schedule lays the launch phases end to end starting at the calendar day
// of start, and totals duration, impact, reach and investment.
func Schedule(start time.Time) Timeline {
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	tl := Timeline{
		Start:           day,
		Channels:        Channels(),
		KeyEvents:       KeyEvents(),
		TotalInvestment: decimal.Zero,
	}

	cursor := day
	for _, p := range GenerateLaunchTimeline() {
		end := cursor.AddDate(0, 0, p.DurationDays)
		tl.Phases = append(tl.Phases, ScheduledPhase{Phase: p, Start: cursor, End: end})
		tl.TotalDays += p.DurationDays
		tl.TotalImpact = tl.TotalImpact.Add(p.EstimatedImpact)
		cursor = end
	}
	tl.End = cursor

	for _, c := range tl.Channels {
		tl.TotalReach += c.AudienceReach
		tl.TotalInvestment = tl.TotalInvestment.Add(c.ActivationCost)
	}

	return tl
}

// PhaseAt returns the scheduled phase active at t.
func (tl Timeline) PhaseAt(t time.Time) (ScheduledPhase, bool) {
	for _, p := range tl.Phases {
		if !t.Before(p.Start) && t.Before(p.End) {
			return p, true
		}
	}
	return ScheduledPhase{}, false
}

// EventsIn returns the key events anchored to the named phase.
func (tl Timeline) EventsIn(phase string) []Event {
	var out []Event
	for _, e := range tl.KeyEvents {
		if e.Phase == phase {
			out = append(out, e)
		}
	}
	return out
}
