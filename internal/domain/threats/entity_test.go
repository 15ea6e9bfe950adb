package threats

import "testing"

func TestLevelFor(t *testing.T) {
	cases := []struct {
		score int
		want  Level
	}{
		{0, LevelLow},
		{29, LevelLow},
		{30, LevelMedium},
		{59, LevelMedium},
		{60, LevelHigh},
		{79, LevelHigh},
		{80, LevelCritical},
		{100, LevelCritical},
	}
	for _, c := range cases {
		if got := LevelFor(c.score); got != c.want {
			t.Errorf("LevelFor(%d) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestCategoryFor(t *testing.T) {
	cases := []struct {
		name     string
		score    int
		analysis string
		want     Category
	}{
		{"top band with phishing text", 85, "Phishing indicators found in the landing page", CategoryPhishing},
		{"top band without phishing text", 85, "Malware signature detected", CategoryMalware},
		{"top band case insensitive", 90, "likely PHISHING kit", CategoryPhishing},
		{"boundary 80 is not top band", 80, "phishing", CategoryScam},
		{"scam band", 61, "looks like a scam", CategoryScam},
		{"suspicious band", 45, "phishing maybe", CategorySuspicious},
		{"boundary 31", 31, "", CategorySuspicious},
		{"safe below gate", 30, "clean", CategorySafe},
		{"zero", 0, "", CategorySafe},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := CategoryFor(c.score, c.analysis); got != c.want {
				t.Errorf("CategoryFor(%d, %q) = %s, want %s", c.score, c.analysis, got, c.want)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to Status }{
		{StatusActive, StatusInvestigating},
		{StatusActive, StatusMitigated},
		{StatusInvestigating, StatusMitigated},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%s, %s) = false, want true", c.from, c.to)
		}
	}
	denied := []struct{ from, to Status }{
		{StatusMitigated, StatusActive},
		{StatusMitigated, StatusInvestigating},
		{StatusInvestigating, StatusActive},
		{StatusActive, StatusActive},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Errorf("CanTransition(%s, %s) = true, want false", c.from, c.to)
		}
	}
}
