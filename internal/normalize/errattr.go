package normalize

import "strings"

// Structured event-type codes that mean a fielding error.
var errorEventTypes = map[string]bool{
	"error":             true,
	"field_error":       true,
	"fielding_error":    true,
	"throwing_error":    true,
	"catching_error":    true,
	"reached_on_error":  true,
	"reach_on_error":    true,
	"dropped_ball":      true,
	"pickoff_error_1b":  true,
	"pickoff_error_2b":  true,
	"pickoff_error_3b":  true,
}

// Description substrings that mean an error when the feed omits
// structured codes.
var errorSubstrings = []string{
	"reaches on a fielding error",
	"reaches on a throwing error",
	"reaches on an error",
	"on a fielding error",
	"on a throwing error",
	"fielding error by",
	"throwing error by",
	"catching error",
	"dropped the ball",
	"error by",
}

// isErrorPlay classifies a play as a fielding error from its structured
// event type, with description matching as fallback.
func isErrorPlay(eventType, event, description string) bool {
	et := normalizeEventType(eventType, event)
	if errorEventTypes[et] {
		return true
	}
	desc := strings.ToLower(description)
	for _, s := range errorSubstrings {
		if strings.Contains(desc, s) {
			return true
		}
	}
	return false
}

// errorTeam returns the charged team's abbreviation. Errors are charged to
// the fielding side, which is the team not batting in that half.
func errorTeam(half string, away, home Team) string {
	if half == "top" {
		return home.Abbreviation
	}
	return away.Abbreviation
}
