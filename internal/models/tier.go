package models

import "strings"

// Tier is the ordinal rank of a severity level within a Scale.
type Tier int

const (
	TierGreen Tier = iota
	TierYellow
	TierAmber
	TierRed
)

// Scale is the ordered list of tier names, least severe first.
type Scale []string

var DefaultScale = Scale{"green", "yellow", "amber", "red"}

// Rank resolves a tier name to its position in the scale.
func (s Scale) Rank(name string) (Tier, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range s {
		if n == name {
			return Tier(i), true
		}
	}
	return 0, false
}

func (s Scale) Name(t Tier) string {
	if t < 0 || int(t) >= len(s) {
		return ""
	}
	return s[t]
}

// Max returns the most severe tier of the scale.
func (s Scale) Max() Tier {
	return Tier(len(s) - 1)
}

// Clamp bounds t to the valid range of the scale.
func (s Scale) Clamp(t Tier) Tier {
	if t < 0 {
		return 0
	}
	if t > s.Max() {
		return s.Max()
	}
	return t
}
