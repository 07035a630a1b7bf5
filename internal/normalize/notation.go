package normalize

import (
	"regexp"
	"strings"
)

// Traditional scorecard position numbers. DH is 10 by modern convention.
var positionNumbers = map[string]int{
	"pitcher":           1,
	"catcher":           2,
	"first base":        3,
	"first baseman":     3,
	"first":             3,
	"second base":       4,
	"second baseman":    4,
	"second":            4,
	"third base":        5,
	"third baseman":     5,
	"third":             5,
	"shortstop":         6,
	"left field":        7,
	"left fielder":      7,
	"center field":      8,
	"center fielder":    8,
	"right field":       9,
	"right fielder":     9,
	"designated hitter": 10,
}

// Longer names first so "first base" wins over "first".
var positionNamesOrdered = []string{
	"designated hitter",
	"first baseman", "second baseman", "third baseman",
	"first base", "second base", "third base",
	"left fielder", "center fielder", "right fielder",
	"left field", "center field", "right field",
	"shortstop", "pitcher", "catcher",
	"first", "second", "third",
}

var encodedPositions = regexp.MustCompile(`\b(\d(?:-\d)+)\b`)

// simple one-code events, keyed by normalized event type
var eventCodes = map[string]string{
	"single":              "1B",
	"double":              "2B",
	"triple":              "3B",
	"home_run":            "HR",
	"walk":                "BB",
	"intent_walk":         "IBB",
	"intentional_walk":    "IBB",
	"hit_by_pitch":        "HBP",
	"strikeout":           "K",
	"strike_out":          "K",
	"sac_fly":             "SF",
	"sac_bunt":            "SAC",
	"fielders_choice":     "FC",
	"fielders_choice_out": "FC",
}

// Notation maps an at-bat outcome to scorecard shorthand: hit and walk
// codes, out-type letter plus fielder number(s) (G6, F8, G643), or the
// first three letters of the event name when nothing else matches.
func Notation(event, eventType, description string) string {
	et := normalizeEventType(eventType, event)
	if code, ok := eventCodes[et]; ok {
		return code
	}

	desc := strings.ToLower(description)

	letter := outLetter(et, desc)
	if letter != "" {
		if nums := fielderNumbers(desc); nums != "" {
			return letter + nums
		}
		return letter
	}

	if strings.Contains(et, "error") {
		if nums := fielderNumbers(desc); nums != "" {
			return "E" + nums[:1]
		}
		return "E"
	}

	return fallbackCode(event, eventType)
}

// normalizeEventType lower-cases and underscores the provider event type,
// falling back to the display event name.
func normalizeEventType(eventType, event string) string {
	s := eventType
	if s == "" {
		s = event
	}
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.ReplaceAll(s, " ", "_")
}

// outLetter picks the out-type letter from the event type, falling back to
// verbs in the description.
func outLetter(et, desc string) string {
	switch {
	case strings.Contains(et, "grounded_into") || strings.Contains(et, "groundout") || strings.Contains(et, "ground_out"):
		return "G"
	case strings.Contains(et, "flyout") || strings.Contains(et, "fly_out") || strings.Contains(et, "sac_fly"):
		return "F"
	case strings.Contains(et, "lineout") || strings.Contains(et, "line_out"):
		return "L"
	case strings.Contains(et, "popout") || strings.Contains(et, "pop_out"):
		return "P"
	case strings.Contains(et, "force_out") || strings.Contains(et, "forceout") || strings.Contains(et, "double_play") || strings.Contains(et, "triple_play"):
		// force plays and unqualified double plays read as groundouts
		return "G"
	}
	switch {
	case strings.Contains(desc, "grounds out") || strings.Contains(desc, "grounded out") || strings.Contains(desc, "grounds into") || strings.Contains(desc, "grounded into"):
		return "G"
	case strings.Contains(desc, "flies out") || strings.Contains(desc, "flied out"):
		return "F"
	case strings.Contains(desc, "lines out") || strings.Contains(desc, "lined out"):
		return "L"
	case strings.Contains(desc, "pops out") || strings.Contains(desc, "popped out"):
		return "P"
	}
	return ""
}

// fielderNumbers extracts the position sequence handling the play: an
// encoded run like "6-4-3" when present, otherwise position names in
// order of appearance ("shortstop to second to first" reads as 643).
func fielderNumbers(desc string) string {
	if m := encodedPositions.FindString(desc); m != "" {
		return strings.ReplaceAll(m, "-", "")
	}

	var nums []int
	remaining := desc
	for remaining != "" {
		best := -1
		bestNum := 0
		bestLen := 0
		for _, name := range positionNamesOrdered {
			if i := strings.Index(remaining, name); i >= 0 && (best == -1 || i < best) {
				best = i
				bestNum = positionNumbers[name]
				bestLen = len(name)
			}
		}
		if best == -1 {
			break
		}
		nums = append(nums, bestNum)
		remaining = remaining[best+bestLen:]
	}
	if len(nums) == 0 {
		return ""
	}
	var b strings.Builder
	for _, n := range nums {
		if n == 10 {
			continue
		}
		b.WriteByte(byte('0' + n))
	}
	return b.String()
}

// fallbackCode is the first three letters of the event name, upper-cased.
func fallbackCode(event, eventType string) string {
	s := event
	if s == "" {
		s = eventType
	}
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) > 3 {
		s = s[:3]
	}
	return s
}
