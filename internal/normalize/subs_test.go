package normalize

import (
	"testing"

	"github.com/onnwee/scorebook/backend/internal/mlb"
)

func boxPlayer(id int64, name string, starter bool, batting *mlb.BattingStats, positions ...string) mlb.BoxPlayer {
	bp := mlb.BoxPlayer{}
	bp.Person = mlb.Person{ID: id, FullName: name}
	bp.IsStarter = starter
	bp.Stats.Batting = batting
	for _, p := range positions {
		bp.AllPositions = append(bp.AllPositions, mlb.Position{Abbreviation: p})
	}
	return bp
}

func TestExplicitSubstitutionByEventType(t *testing.T) {
	sub := play(6, "bottom", 2, 2)
	sub.Result.EventType = "offensive_substitution"
	sub.Result.Description = "Smith pinch-hits for Jones."
	sub.Players = []mlb.PlayActor{{Player: mlb.Person{ID: 55, FullName: "Smith"}, PlayerType: "substitute"}}

	feed := feedWithPlays(play(1, "top", 0, 0), sub)

	subs := inferSubstitutions(feed)
	info, ok := subs[55]
	if !ok {
		t.Fatal("expected player 55 to be recorded as a substitute")
	}
	if info.Type != SubPinchHit {
		t.Errorf("type = %s, want pinch-hit", info.Type)
	}
	if info.Inning != 6 || info.Half != "bottom" {
		t.Errorf("entry = %d/%s, want 6/bottom", info.Inning, info.Half)
	}
}

func TestExplicitPinchRunnerFromDescription(t *testing.T) {
	sub := play(8, "top", 3, 3)
	sub.Result.EventType = "offensive_substitution"
	sub.Result.Description = "Diaz runs for Martinez as a pinch runner."
	sub.Players = []mlb.PlayActor{{Player: mlb.Person{ID: 77, FullName: "Diaz"}, PlayerType: "substitute"}}

	subs := inferSubstitutions(feedWithPlays(sub))
	if info := subs[77]; info.Type != SubPinchRun {
		t.Errorf("type = %s, want pinch-run", info.Type)
	}
}

func TestStructuredSubstitutionObjectWins(t *testing.T) {
	sub := play(7, "top", 0, 0)
	sub.Result.EventType = "defensive_substitution"
	sub.Result.Description = "Defensive substitution: Rivera."
	sub.Substitution = &mlb.Substitution{
		Player:  mlb.Person{ID: 88, FullName: "Rivera"},
		SubType: "pinch_hitter",
	}

	subs := inferSubstitutions(feedWithPlays(sub))
	if info := subs[88]; info.Type != SubPinchHit {
		t.Errorf("type = %s, want pinch-hit from the structured object", info.Type)
	}
}

func TestBoxscoreFallbackWhenNoExplicitEvents(t *testing.T) {
	// play-by-play with zero substitution events; the bench batter shows
	// up in the 7th
	appearance := play(7, "bottom", 1, 1)
	appearance.Matchup.Batter = mlb.Person{ID: 42, FullName: "Bench Bat"}

	feed := feedWithPlays(play(1, "top", 0, 0), appearance)
	feed.LiveData.Boxscore = &mlb.Boxscore{}
	feed.LiveData.Boxscore.Teams.Home.Players = map[string]mlb.BoxPlayer{
		"ID42": boxPlayer(42, "Bench Bat", false, &mlb.BattingStats{AtBats: 1, Hits: 1}),
		"ID10": boxPlayer(10, "Starter Guy", true, &mlb.BattingStats{AtBats: 4}),
	}

	subs := inferSubstitutions(feed)
	info, ok := subs[42]
	if !ok {
		t.Fatal("expected non-starter with batting stats to be inferred as a substitute")
	}
	if info.Type != SubPinchHit {
		t.Errorf("type = %s, want pinch-hit for batting activity", info.Type)
	}
	if info.Inning != 7 || info.Half != "bottom" {
		t.Errorf("entry = %d/%s, want first appearance 7/bottom", info.Inning, info.Half)
	}
	if _, ok := subs[10]; ok {
		t.Error("starters must not be inferred as substitutes")
	}
}

func TestBoxscoreFallbackDefensiveType(t *testing.T) {
	feed := feedWithPlays(play(1, "top", 0, 0))
	feed.LiveData.Boxscore = &mlb.Boxscore{}
	feed.LiveData.Boxscore.Teams.Away.Players = map[string]mlb.BoxPlayer{
		"ID9": boxPlayer(9, "Glove Only", false, nil, "LF", "CF"),
	}

	subs := inferSubstitutions(feed)
	info, ok := subs[9]
	if !ok {
		t.Fatal("expected multi-position non-starter to be inferred")
	}
	if info.Type != SubDefensive {
		t.Errorf("type = %s, want defensive without batting activity", info.Type)
	}
}

func TestEntryDefaultsToTopNinth(t *testing.T) {
	feed := feedWithPlays(play(1, "top", 0, 0))
	feed.LiveData.Boxscore = &mlb.Boxscore{}
	feed.LiveData.Boxscore.Teams.Home.Players = map[string]mlb.BoxPlayer{
		"ID5": boxPlayer(5, "Ghost Player", false, &mlb.BattingStats{AtBats: 1}),
	}

	subs := inferSubstitutions(feed)
	info := subs[5]
	if info.Inning != 9 || info.Half != "top" {
		t.Errorf("entry = %d/%s, want default 9/top", info.Inning, info.Half)
	}
}

func TestEntryByNameSubstring(t *testing.T) {
	mention := play(4, "top", 0, 0)
	mention.Result.Description = "Wild pitch. Ghost Player advances to 2nd."

	feed := feedWithPlays(mention)
	feed.LiveData.Boxscore = &mlb.Boxscore{}
	feed.LiveData.Boxscore.Teams.Away.Players = map[string]mlb.BoxPlayer{
		"ID5": boxPlayer(5, "Ghost Player", false, &mlb.BattingStats{AtBats: 1}),
	}

	subs := inferSubstitutions(feed)
	info := subs[5]
	if info.Inning != 4 || info.Half != "top" {
		t.Errorf("entry = %d/%s, want 4/top from the description mention", info.Inning, info.Half)
	}
}

func TestExplicitEventsSuppressBoxscoreFallback(t *testing.T) {
	sub := play(5, "top", 0, 0)
	sub.IsSubstitution = true
	sub.Result.Description = "Defensive substitution: Someone."
	sub.Players = []mlb.PlayActor{{Player: mlb.Person{ID: 1, FullName: "Someone"}, PlayerType: "substitute"}}

	feed := feedWithPlays(sub)
	feed.LiveData.Boxscore = &mlb.Boxscore{}
	feed.LiveData.Boxscore.Teams.Home.Players = map[string]mlb.BoxPlayer{
		"ID2": boxPlayer(2, "Other Bench", false, &mlb.BattingStats{AtBats: 1}),
	}

	subs := inferSubstitutions(feed)
	if _, ok := subs[1]; !ok {
		t.Error("expected the explicit substitution to be recorded")
	}
	if _, ok := subs[2]; ok {
		t.Error("box-score fallback must not run when explicit events exist")
	}
}
