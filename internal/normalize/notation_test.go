package normalize

import "testing"

func TestNotationHitsAndWalks(t *testing.T) {
	tests := []struct {
		event, eventType, desc string
		want                   string
	}{
		{"Single", "single", "Judge singles on a line drive to center fielder.", "1B"},
		{"Double", "double", "doubles on a sharp ground ball", "2B"},
		{"Triple", "triple", "triples", "3B"},
		{"Home Run", "home_run", "homers (12) on a fly ball to left field", "HR"},
		{"Walk", "walk", "walks", "BB"},
		{"Intent Walk", "intent_walk", "intentionally walks", "IBB"},
		{"Hit By Pitch", "hit_by_pitch", "hit by pitch", "HBP"},
		{"Strikeout", "strikeout", "strikes out swinging", "K"},
		{"Sac Fly", "sac_fly", "out on a sacrifice fly to center fielder", "SF"},
		{"Sac Bunt", "sac_bunt", "sacrifice bunt", "SAC"},
		{"Fielders Choice", "fielders_choice", "reaches on a fielder's choice", "FC"},
	}
	for _, tt := range tests {
		if got := Notation(tt.event, tt.eventType, tt.desc); got != tt.want {
			t.Errorf("Notation(%q) = %q, want %q", tt.eventType, got, tt.want)
		}
	}
}

func TestNotationOutsWithPositions(t *testing.T) {
	tests := []struct {
		name                   string
		event, eventType, desc string
		want                   string
	}{
		{
			"groundout to shortstop",
			"Groundout", "field_out",
			"grounds out, shortstop to first baseman.",
			"G63",
		},
		{
			"double play with encoded positions",
			"Grounded Into DP", "grounded_into_double_play",
			"grounded into double play, shortstop to second to first, 6-4-3.",
			"G643",
		},
		{
			"double play from position names only",
			"Grounded Into DP", "grounded_into_double_play",
			"grounds into a double play, shortstop to second to first.",
			"G643",
		},
		{
			"flyout to center with no code",
			"Flyout", "flyout",
			"flies out to center field.",
			"F8",
		},
		{
			"lineout to left",
			"Lineout", "lineout",
			"lines out to left fielder.",
			"L7",
		},
		{
			"popout to second",
			"Pop Out", "pop_out",
			"pops out to second baseman.",
			"P4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Notation(tt.event, tt.eventType, tt.desc); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNotationOutLetterFromDescription(t *testing.T) {
	// no usable event type; the verb in the description decides
	if got := Notation("", "", "grounds out to third baseman."); got != "G5" {
		t.Errorf("got %q, want G5", got)
	}
	if got := Notation("", "", "flies out to right fielder."); got != "F9" {
		t.Errorf("got %q, want F9", got)
	}
}

func TestNotationUnrecognizedFallsBack(t *testing.T) {
	if got := Notation("Balk", "balk", "balks"); got != "BAL" {
		t.Errorf("got %q, want BAL", got)
	}
	if got := Notation("Catcher Interference", "catcher_interf", "reaches on catcher interference"); got != "CAT" {
		t.Errorf("got %q, want CAT", got)
	}
}

func TestNotationErrorPlays(t *testing.T) {
	got := Notation("Field Error", "field_error", "reaches on a fielding error by shortstop.")
	if got != "E6" {
		t.Errorf("got %q, want E6", got)
	}
	if got := Notation("Field Error", "field_error", "reaches on an error."); got != "E" {
		t.Errorf("got %q, want bare E without a position", got)
	}
}

func TestFielderNumbersEncodedBeatsNames(t *testing.T) {
	// an encoded run wins even when names disagree
	if got := fielderNumbers("shortstop to first, 5-4-3"); got != "543" {
		t.Errorf("got %q, want 543", got)
	}
}
