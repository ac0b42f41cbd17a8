// Package marketing builds the product launch campaign timeline. It is a
// static, data-driven collaborator of the licensing engine and does not
// depend on it.
package marketing

import (
	"encoding/json"
	"strconv"

	"github.com/shopspring/decimal"
)

// Impact is an impression count. Unlimited marks an uncapped phase.
type Impact int64

// Unlimited is the sentinel for an uncapped impact.
const Unlimited Impact = -1

// IsUnlimited reports whether the impact is uncapped.
func (i Impact) IsUnlimited() bool { return i == Unlimited }

func (i Impact) String() string {
	if i.IsUnlimited() {
		return "UNLIMITED"
	}
	return strconv.FormatInt(int64(i), 10)
}

// MarshalJSON encodes Unlimited as the string "unlimited" and counts as numbers.
func (i Impact) MarshalJSON() ([]byte, error) {
	if i.IsUnlimited() {
		return json.Marshal("unlimited")
	}
	return json.Marshal(int64(i))
}

// Add sums two impacts; anything plus Unlimited is Unlimited.
func (i Impact) Add(other Impact) Impact {
	if i.IsUnlimited() || other.IsUnlimited() {
		return Unlimited
	}
	return i + other
}

// Phase names, in launch order.
const (
	PhaseTeaser        = "Quantum Teaser"
	PhaseReveal        = "Reality Reveal"
	PhaseDemonstration = "Power Demonstration"
	PhaseActivation    = "Global Activation"
	PhaseExpansion     = "Universal Expansion"
)

// Channel identifiers.
const (
	ChannelQuantumMedia   = "QUANTUM_MEDIA"
	ChannelRealityNetwork = "REALITY_NETWORK"
	ChannelGlobalPlatform = "GLOBAL_PLATFORM"
)

// Phase is one stage of the launch campaign.
type Phase struct {
	Name                  string          `json:"name"`
	DurationDays          int             `json:"duration_days"`
	Channels              []string        `json:"channels"`
	EstimatedImpact       Impact          `json:"estimated_impact"`
	KeyMessage            string          `json:"key_message"`
	RevealLevel           decimal.Decimal `json:"reveal_level"`
	QuantumDemonstrations bool            `json:"quantum_demonstrations"`
	RealityShowcases      bool            `json:"reality_showcases"`
}

// Channel is a marketing channel activated for the campaign.
type Channel struct {
	ID               string            `json:"id"`
	Name             string            `json:"name"`
	AudienceReach    int64             `json:"audience_reach"`
	ImpactMultiplier decimal.Decimal   `json:"impact_multiplier"`
	QuantumCapable   bool              `json:"quantum_capable"`
	RealityReady     bool              `json:"reality_ready"`
	Messaging        map[string]string `json:"messaging"`
	ActivationCost   decimal.Decimal   `json:"activation_cost"`
}

// Event is a headline event anchored to a phase.
type Event struct {
	Name                 string          `json:"name"`
	Phase                string          `json:"phase"`
	TargetAudience       []string        `json:"target_audience"`
	ValueProposition     string          `json:"value_proposition"`
	ExpectedReach        int64           `json:"expected_reach"`
	EstimatedImpact      decimal.Decimal `json:"estimated_impact"`
	QuantumDemonstration bool            `json:"quantum_demonstration"`
	RealityShowcase      bool            `json:"reality_showcase"`
}

var allChannels = []string{ChannelQuantumMedia, ChannelRealityNetwork, ChannelGlobalPlatform}

// GenerateLaunchTimeline returns the launch phases in order. Every call
// returns a fresh slice.
func GenerateLaunchTimeline() []Phase {
	phase := func(name string, days int, impact Impact, msg, reveal string, quantum, reality bool) Phase {
		return Phase{
			Name:                  name,
			DurationDays:          days,
			Channels:              append([]string(nil), allChannels...),
			EstimatedImpact:       impact,
			KeyMessage:            msg,
			RevealLevel:           decimal.RequireFromString(reveal),
			QuantumDemonstrations: quantum,
			RealityShowcases:      reality,
		}
	}

	return []Phase{
		phase(PhaseTeaser, 30, 1_000_000_000, "Reality is About to Change", "0.1", false, false),
		phase(PhaseReveal, 15, 5_000_000_000, "The Future of Reality is Here", "0.2", true, false),
		phase(PhaseDemonstration, 7, 10_000_000_000, "Experience True Quantum Reality", "0.3", true, true),
		phase(PhaseActivation, 1, 20_000_000_000, "The SAAAM Universe is Now", "0.4", true, true),
		phase(PhaseExpansion, 90, Unlimited, "Join the Quantum Revolution", "0.5", true, true),
	}
}

// Channels returns the campaign channels.
func Channels() []Channel {
	return []Channel{
		{
			ID:               ChannelQuantumMedia,
			Name:             "Quantum Media Network",
			AudienceReach:    10_000_000_000,
			ImpactMultiplier: decimal.NewFromInt(10),
			QuantumCapable:   true,
			RealityReady:     true,
			Messaging: map[string]string{
				"teaser":        "Reality Evolution Incoming",
				"reveal":        "Quantum Reality Revolution",
				"demonstration": "Experience True Power",
				"activation":    "The Future is Now",
				"expansion":     "Join the Revolution",
			},
			ActivationCost: decimal.NewFromInt(1_000_000_000),
		},
		{
			ID:               ChannelRealityNetwork,
			Name:             "Reality Transformation Network",
			AudienceReach:    5_000_000_000,
			ImpactMultiplier: decimal.NewFromInt(20),
			QuantumCapable:   true,
			RealityReady:     true,
			Messaging: map[string]string{
				"teaser":        "Beyond Traditional Reality",
				"reveal":        "True Reality Awaits",
				"demonstration": "Reality Transformation",
				"activation":    "Transform Everything",
				"expansion":     "Unlimited Potential",
			},
			ActivationCost: decimal.NewFromInt(2_000_000_000),
		},
		{
			ID:               ChannelGlobalPlatform,
			Name:             "Global Impact Platform",
			AudienceReach:    8_000_000_000,
			ImpactMultiplier: decimal.NewFromInt(15),
			QuantumCapable:   true,
			RealityReady:     true,
			Messaging: map[string]string{
				"teaser":        "Global Change Coming",
				"reveal":        "Revolutionary Impact",
				"demonstration": "Universal Power",
				"activation":    "Global Transformation",
				"expansion":     "Infinite Possibilities",
			},
			ActivationCost: decimal.NewFromInt(3_000_000_000),
		},
	}
}

// KeyEvents returns the headline events in launch order.
func KeyEvents() []Event {
	return []Event{
		{
			Name:                 "Quantum Reality Reveal",
			Phase:                PhaseReveal,
			TargetAudience:       []string{"global_innovators", "industry_pioneers", "tech_leaders"},
			ValueProposition:     "Experience True Quantum Reality",
			ExpectedReach:        1_000_000_000,
			EstimatedImpact:      decimal.NewFromInt(10_000_000_000),
			QuantumDemonstration: true,
			RealityShowcase:      true,
		},
		{
			Name:                 "Reality Transformation Demo",
			Phase:                PhaseDemonstration,
			TargetAudience:       []string{"corporate_leaders", "government_officials", "research_institutes"},
			ValueProposition:     "Transform Reality Itself",
			ExpectedReach:        5_000_000_000,
			EstimatedImpact:      decimal.NewFromInt(50_000_000_000),
			QuantumDemonstration: true,
			RealityShowcase:      true,
		},
		{
			Name:                 "Global Universe Launch",
			Phase:                PhaseActivation,
			TargetAudience:       []string{"global_population", "industry_leaders", "technology_pioneers"},
			ValueProposition:     "Join the SAAAM Universe",
			ExpectedReach:        10_000_000_000,
			EstimatedImpact:      decimal.NewFromInt(100_000_000_000),
			QuantumDemonstration: true,
			RealityShowcase:      true,
		},
	}
}
