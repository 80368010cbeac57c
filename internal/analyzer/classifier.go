package analyzer

import "fmt"

// Tier is a risk category derived from a complexity score
type Tier int

const (
	TierLow Tier = iota
	TierWarning
	TierError
)

// String returns the lowercase tier name
func (t Tier) String() string {
	switch t {
	case TierLow:
		return "low"
	case TierWarning:
		return "warning"
	case TierError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseTier converts a tier name to a Tier
func ParseTier(name string) (Tier, bool) {
	switch name {
	case "low":
		return TierLow, true
	case "warning":
		return TierWarning, true
	case "error":
		return TierError, true
	}
	return TierLow, false
}

// TierStyle holds the presentation of one tier
type TierStyle struct {
	Label string
	Color string
	Icon  string
}

// TierStyles holds the presentation of every tier
type TierStyles struct {
	Low     TierStyle
	Warning TierStyle
	Error   TierStyle
}

// For returns the style of a tier
func (s TierStyles) For(tier Tier) TierStyle {
	switch tier {
	case TierError:
		return s.Error
	case TierWarning:
		return s.Warning
	default:
		return s.Low
	}
}

// DefaultTierStyles returns the built-in tier presentation
func DefaultTierStyles() TierStyles {
	return TierStyles{
		Low:     TierStyle{Label: "Risk", Color: "green", Icon: "✅"},
		Warning: TierStyle{Label: "Risk", Color: "orange", Icon: "⚠️"},
		Error:   TierStyle{Label: "Risk", Color: "red", Icon: "❌"},
	}
}

// Thresholds are the inclusive lower bounds of the warning and error tiers
type Thresholds struct {
	Warning int
	Error   int
}

// DefaultThresholds returns the built-in thresholds
func DefaultThresholds() Thresholds {
	return Thresholds{Warning: 10, Error: 15}
}

// Classification is the tier chosen for a score together with its presentation
type Classification struct {
	Tier  Tier
	Label string
	Color string
	Icon  string
}

// Classify maps a score to exactly one tier. The error bound is checked
// first, so an inverted threshold pair still yields a single tier.
func Classify(score int, th Thresholds, styles TierStyles) Classification {
	tier := TierLow
	switch {
	case score >= th.Error:
		tier = TierError
	case score >= th.Warning:
		tier = TierWarning
	}

	style := styles.For(tier)
	return Classification{
		Tier:  tier,
		Label: style.Label,
		Color: style.Color,
		Icon:  style.Icon,
	}
}

// Text renders the annotation text "<icon> <label> <score>"
func (c Classification) Text(score int) string {
	return fmt.Sprintf("%s %s %d", c.Icon, c.Label, score)
}
