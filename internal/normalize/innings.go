package normalize

import (
	"github.com/onnwee/scorebook/backend/internal/metrics"
	"github.com/onnwee/scorebook/backend/internal/mlb"
)

// reconstructInnings builds the per-inning line from the best available
// source: the explicit line-score array, then the box-score innings array,
// then differencing of cumulative scores in the flat play-by-play list.
// A final game shorter than 9 reconstructed innings is padded with
// zero-run innings; extra innings are kept as recorded.
func reconstructInnings(feed *mlb.LiveFeed, status GameStatus) []Inning {
	var innings []Inning

	if ls := feed.LiveData.Linescore; ls != nil && len(ls.Innings) > 0 {
		innings = fromLinescore(ls)
	}
	if innings == nil {
		if bs := feed.LiveData.Boxscore; bs != nil && len(bs.Innings) > 0 {
			innings = fromBoxscore(bs.Innings)
			metrics.NormalizeFallbacks.WithLabelValues("boxscore_innings").Inc()
		}
	}
	if innings == nil {
		if p := feed.LiveData.Plays; p != nil && len(p.AllPlays) > 0 {
			innings = fromPlays(p.AllPlays)
			metrics.NormalizeFallbacks.WithLabelValues("play_differencing").Inc()
		}
	}

	if status == StatusFinal && len(innings) < 9 {
		metrics.NormalizeFallbacks.WithLabelValues("zero_fill").Inc()
		zero := 0
		for n := len(innings) + 1; n <= 9; n++ {
			z1, z2 := zero, zero
			innings = append(innings, Inning{Num: n, Away: &z1, Home: &z2})
		}
	}
	return innings
}

func fromLinescore(ls *mlb.Linescore) []Inning {
	out := make([]Inning, 0, len(ls.Innings))
	for _, in := range ls.Innings {
		inn := Inning{Num: in.Num}
		if in.Away.Runs != nil {
			v := *in.Away.Runs
			inn.Away = &v
		}
		if in.Home.Runs != nil {
			v := *in.Home.Runs
			inn.Home = &v
		}
		out = append(out, inn)
	}
	return out
}

func fromBoxscore(box []mlb.BoxInning) []Inning {
	out := make([]Inning, 0, len(box))
	for _, in := range box {
		inn := Inning{Num: in.Num}
		if in.AwayRuns != nil {
			v := *in.AwayRuns
			inn.Away = &v
		}
		if in.HomeRuns != nil {
			v := *in.HomeRuns
			inn.Home = &v
		}
		out = append(out, inn)
	}
	return out
}

// fromPlays reconstructs per-half runs from cumulative scores: for each
// half-inning, take the combined score after its last play and subtract
// the previous half's combined score. Only the batting side scores, so
// the whole difference belongs to that half.
func fromPlays(plays []mlb.Play) []Inning {
	type halfKey struct {
		inning int
		top    bool
	}
	// last combined score observed per half, in play order
	var order []halfKey
	last := make(map[halfKey]int)
	for _, p := range plays {
		k := halfKey{inning: p.About.Inning, top: p.About.HalfInning == "top" || p.About.IsTopInning}
		if _, seen := last[k]; !seen {
			order = append(order, k)
		}
		last[k] = p.Result.AwayScore + p.Result.HomeScore
	}

	byInning := make(map[int]*Inning)
	var maxInning int
	prev := 0
	for _, k := range order {
		runs := last[k] - prev
		if runs < 0 {
			runs = 0
		}
		prev = last[k]

		inn := byInning[k.inning]
		if inn == nil {
			inn = &Inning{Num: k.inning}
			byInning[k.inning] = inn
		}
		v := runs
		if k.top {
			inn.Away = &v
		} else {
			inn.Home = &v
		}
		if k.inning > maxInning {
			maxInning = k.inning
		}
	}

	out := make([]Inning, 0, maxInning)
	for n := 1; n <= maxInning; n++ {
		if inn, ok := byInning[n]; ok {
			out = append(out, *inn)
		} else {
			out = append(out, Inning{Num: n})
		}
	}
	return out
}
