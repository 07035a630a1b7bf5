package normalize

import (
	"strings"

	"github.com/onnwee/scorebook/backend/internal/metrics"
	"github.com/onnwee/scorebook/backend/internal/mlb"
)

var subEventTypes = map[string]bool{
	"offensive_substitution": true,
	"defensive_substitution": true,
	"defensive_switch":       true,
	"pitching_substitution":  true,
}

var subDescKeywords = []string{
	"pinch-hitter", "pinch hitter", "pinch-hits", "pinch hits",
	"pinch-runner", "pinch runner", "pinch-runs", "pinch runs",
	"defensive substitution", "enters the game as",
}

// inferSubstitutions returns substitution records keyed by player id.
// Explicit play-by-play substitution events are preferred; when a feed has
// none at all, substitutes are derived from box-score player records with
// entry innings estimated from each player's first play-by-play
// appearance. Structured substitution objects win over any heuristic.
func inferSubstitutions(feed *mlb.LiveFeed) map[int64]SubstitutionInfo {
	out := make(map[int64]SubstitutionInfo)

	var plays []mlb.Play
	if feed.LiveData.Plays != nil {
		plays = feed.LiveData.Plays.AllPlays
	}

	for _, p := range plays {
		if !isSubstitutionPlay(&p) {
			continue
		}
		id, typ := substitutePlayer(&p)
		if id == 0 {
			continue
		}
		if _, seen := out[id]; seen {
			continue // first entry wins
		}
		out[id] = SubstitutionInfo{
			Type:   typ,
			Inning: p.About.Inning,
			Half:   halfOf(&p.About),
		}
	}
	if len(out) > 0 {
		return out
	}

	// Known upstream gap: some feeds carry no substitution events at all.
	// Derive substitutes from box-score records instead.
	if feed.LiveData.Boxscore == nil {
		return out
	}
	metrics.NormalizeFallbacks.WithLabelValues("sub_boxscore").Inc()
	for _, side := range []*mlb.BoxTeam{&feed.LiveData.Boxscore.Teams.Away, &feed.LiveData.Boxscore.Teams.Home} {
		for _, bp := range side.Players {
			if bp.IsStarter {
				continue
			}
			batted := bp.Stats.Batting != nil && hasBattingActivity(bp.Stats.Batting)
			multiPos := len(bp.AllPositions) > 1
			if !batted && !multiPos {
				continue
			}
			typ := SubDefensive
			if batted {
				typ = SubPinchHit
			}
			inning, half := entryHalf(plays, bp.Person)
			out[bp.Person.ID] = SubstitutionInfo{Type: typ, Inning: inning, Half: half}
		}
	}
	return out
}

func hasBattingActivity(b *mlb.BattingStats) bool {
	return b.AtBats > 0 || b.Hits > 0 || b.BaseOnBalls > 0 || b.HitByPitch > 0 || b.Runs > 0
}

// isSubstitutionPlay checks, in order: the structured flag, the structured
// substitution object, the event-type set, and description keywords.
func isSubstitutionPlay(p *mlb.Play) bool {
	if p.IsSubstitution || p.Substitution != nil {
		return true
	}
	if subEventTypes[normalizeEventType(p.Result.EventType, p.Result.Event)] {
		return true
	}
	desc := strings.ToLower(p.Result.Description)
	for _, kw := range subDescKeywords {
		if strings.Contains(desc, kw) {
			return true
		}
	}
	return false
}

// substitutePlayer identifies the incoming player and the substitution
// type. The structured object is authoritative; otherwise the event type
// decides, with description keywords breaking ties.
func substitutePlayer(p *mlb.Play) (int64, SubType) {
	if s := p.Substitution; s != nil {
		return s.Player.ID, classifySubType(s.SubType, p.Result.Description)
	}

	typ := classifySubType(p.Result.EventType, p.Result.Description)

	for _, actor := range p.Players {
		if strings.Contains(strings.ToLower(actor.PlayerType), "sub") {
			return actor.Player.ID, typ
		}
	}
	if len(p.Players) > 0 {
		return p.Players[0].Player.ID, typ
	}
	if typ == SubPinchHit {
		return p.Matchup.Batter.ID, typ
	}
	return 0, typ
}

func classifySubType(kind, description string) SubType {
	k := strings.ToLower(kind)
	d := strings.ToLower(description)
	switch {
	case strings.Contains(k, "hit") || strings.Contains(k, "offensive"):
		if strings.Contains(d, "runner") || strings.Contains(d, "pinch-run") {
			return SubPinchRun
		}
		return SubPinchHit
	case strings.Contains(k, "run"):
		return SubPinchRun
	case strings.Contains(k, "defensive") || strings.Contains(k, "pitching"):
		return SubDefensive
	}
	switch {
	case strings.Contains(d, "pinch-hit") || strings.Contains(d, "pinch hit"):
		return SubPinchHit
	case strings.Contains(d, "pinch-run") || strings.Contains(d, "pinch run"):
		return SubPinchRun
	}
	return SubDefensive
}

// entryHalf estimates when a player entered by scanning for their first
// play-by-play appearance: stable id first, then name substring in the
// description. Defaults to the top of the 9th when nothing matches.
func entryHalf(plays []mlb.Play, person mlb.Person) (int, string) {
	for _, p := range plays {
		if p.Matchup.Batter.ID == person.ID || p.Matchup.Pitcher.ID == person.ID {
			return p.About.Inning, halfOf(&p.About)
		}
		for _, actor := range p.Players {
			if actor.Player.ID == person.ID {
				return p.About.Inning, halfOf(&p.About)
			}
		}
	}
	if person.FullName != "" {
		for _, p := range plays {
			if strings.Contains(p.Result.Description, person.FullName) {
				return p.About.Inning, halfOf(&p.About)
			}
		}
		// last name only, as a final pass
		parts := strings.Fields(person.FullName)
		last := parts[len(parts)-1]
		for _, p := range plays {
			if strings.Contains(p.Result.Description, last) {
				return p.About.Inning, halfOf(&p.About)
			}
		}
	}
	return 9, "top"
}

func halfOf(a *mlb.PlayAbout) string {
	if a.HalfInning == "bottom" {
		return "bottom"
	}
	if a.HalfInning == "top" || a.IsTopInning {
		return "top"
	}
	return "bottom"
}
