package selection

import (
	"fmt"
	"regexp"
	"strings"
)

// Mode is a named weighting strategy reflecting what the caller values most.
type Mode string

// The six preference modes.
const (
	ModeFast     Mode = "fast"
	ModeAccurate Mode = "accurate"
	ModeThorough Mode = "thorough"
	ModeCheap    Mode = "cheap"
	ModeSimple   Mode = "simple"
	ModeBalanced Mode = "balanced"
)

// ParseMode converts a caller-supplied string into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeFast:
		return ModeFast, nil
	case ModeAccurate:
		return ModeAccurate, nil
	case ModeThorough:
		return ModeThorough, nil
	case ModeCheap:
		return ModeCheap, nil
	case ModeSimple:
		return ModeSimple, nil
	case ModeBalanced:
		return ModeBalanced, nil
	default:
		return "", fmt.Errorf("unknown preference mode: %q", s)
	}
}

// detectionOrder fixes the tie-break between modes with equal keyword hits.
var detectionOrder = []Mode{ModeFast, ModeAccurate, ModeThorough, ModeCheap, ModeSimple}

var modeKeywords = map[Mode]*regexp.Regexp{
	ModeFast:     regexp.MustCompile(`(?i)\b(?:fast|fastest|quick|quickly|rapid|rapidly|urgent|urgently|immediately|asap|speed|speedy)\b`),
	ModeAccurate: regexp.MustCompile(`(?i)\b(?:accurate|accurately|accuracy|precise|precisely|precision|exact|exactly|correct|verified|reliable)\b`),
	ModeThorough: regexp.MustCompile(`(?i)\b(?:thorough|thoroughly|complete|comprehensive|detailed|exhaustive|in-depth|full|everything)\b`),
	ModeCheap:    regexp.MustCompile(`(?i)\b(?:cheap|cheapest|cheaply|free|inexpensive|affordable|budget|frugal|economical)\b`),
	ModeSimple:   regexp.MustCompile(`(?i)\b(?:simple|simplest|simply|easy|easiest|basic|straightforward|minimal)\b`),
}

// DetectPreference classifies the query into a preference mode. An explicit
// mode wins outright; otherwise the mode with the most keyword hits wins,
// ties resolved by detection order, and zero hits falls back to balanced.
func DetectPreference(query string, explicit Mode) Mode {
	if explicit != "" {
		return explicit
	}

	best := ModeBalanced
	bestHits := 0
	for _, mode := range detectionOrder {
		hits := len(modeKeywords[mode].FindAllString(query, -1))
		if hits > bestHits {
			best = mode
			bestHits = hits
		}
	}
	return best
}
