package mlb

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidGameID is wrapped by ParseGameID failures.
var ErrInvalidGameID = errors.New("invalid game id")

// Game IDs are human-readable composites of the form
// YYYY-MM-DD-AWY-HOM-N: date, away and home team abbreviations, and the
// game number for doubleheaders (1 for single games).

var gameIDPattern = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})-([A-Z]{2,4})-([A-Z]{2,4})-(\d)$`)

// GameID is a parsed composite game identifier.
type GameID struct {
	Date       string // YYYY-MM-DD
	Away       string
	Home       string
	GameNumber int
}

// ComposeGameID builds the canonical identifier string.
func ComposeGameID(date, away, home string, gameNumber int) string {
	if gameNumber < 1 {
		gameNumber = 1
	}
	return fmt.Sprintf("%s-%s-%s-%d", date, strings.ToUpper(away), strings.ToUpper(home), gameNumber)
}

// ParseGameID splits a composite identifier into its parts. Returns an
// error for anything that does not match the canonical format.
func ParseGameID(id string) (GameID, error) {
	m := gameIDPattern.FindStringSubmatch(id)
	if m == nil {
		return GameID{}, fmt.Errorf("%w: %q", ErrInvalidGameID, id)
	}
	n, err := strconv.Atoi(m[4])
	if err != nil || n < 1 {
		return GameID{}, fmt.Errorf("%w: bad game number in %q", ErrInvalidGameID, id)
	}
	return GameID{Date: m[1], Away: m[2], Home: m[3], GameNumber: n}, nil
}
