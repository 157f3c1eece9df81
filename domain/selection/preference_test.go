package selection

import "testing"

func TestDetectPreference(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		explicit Mode
		want     Mode
	}{
		{"explicit wins", "give me a quick answer", ModeThorough, ModeThorough},
		{"fast keywords", "I need this fast, asap", "", ModeFast},
		{"accurate keywords", "the exact, verified figure please", "", ModeAccurate},
		{"thorough keywords", "a comprehensive and detailed report", "", ModeThorough},
		{"cheap keywords", "the cheapest possible option", "", ModeCheap},
		{"simple keywords", "keep it simple and basic", "", ModeSimple},
		{"no keywords", "list the assets in region eu-west", "", ModeBalanced},
		{"majority wins", "quick but accurate, really quick", "", ModeFast},
		{"tie resolves by order", "fast and accurate", "", ModeFast},
		{"case insensitive", "QUICKLY please", "", ModeFast},
		{"word boundary", "breakfast options", "", ModeBalanced},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := DetectPreference(tt.query, tt.explicit); got != tt.want {
				t.Errorf("DetectPreference(%q, %q) = %s, want %s", tt.query, tt.explicit, got, tt.want)
			}
		})
	}
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"fast", "ACCURATE", " thorough ", "cheap", "simple", "balanced"} {
		if _, err := ParseMode(s); err != nil {
			t.Errorf("ParseMode(%q) error: %v", s, err)
		}
	}
	if _, err := ParseMode("luxurious"); err == nil {
		t.Error("unknown mode should be rejected")
	}
}
