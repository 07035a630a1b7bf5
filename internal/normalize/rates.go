package normalize

import (
	"strconv"
	"strings"

	"github.com/onnwee/scorebook/backend/internal/mlb"
)

// All rate computations treat division by zero as zero rather than an
// error; a pitcher with no recorded outs simply has 0.00 everywhere.

func battingAverage(hits, atBats int) float64 {
	if atBats == 0 {
		return 0
	}
	return float64(hits) / float64(atBats)
}

func onBasePct(b *mlb.BattingStats) float64 {
	num := b.Hits + b.BaseOnBalls + b.HitByPitch
	den := b.AtBats + b.BaseOnBalls + b.HitByPitch + b.SacFlies
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func slugging(b *mlb.BattingStats) float64 {
	if b.AtBats == 0 {
		return 0
	}
	singles := b.Hits - b.Doubles - b.Triples - b.HomeRuns
	if singles < 0 {
		singles = 0
	}
	total := singles + 2*b.Doubles + 3*b.Triples + 4*b.HomeRuns
	return float64(total) / float64(b.AtBats)
}

// parseInningsPitched converts the provider's "6.2" convention (six
// innings plus two outs) into fractional innings.
func parseInningsPitched(ip string) float64 {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return 0
	}
	whole := ip
	outs := 0
	if i := strings.IndexByte(ip, '.'); i >= 0 {
		whole = ip[:i]
		if o, err := strconv.Atoi(ip[i+1:]); err == nil {
			outs = o
		}
	}
	w, err := strconv.Atoi(whole)
	if err != nil {
		return 0
	}
	return float64(w) + float64(outs)/3.0
}

func earnedRunAverage(earnedRuns int, innings float64) float64 {
	if innings == 0 {
		return 0
	}
	return float64(earnedRuns) * 9.0 / innings
}

func walksHitsPerInning(hits, walks int, innings float64) float64 {
	if innings == 0 {
		return 0
	}
	return float64(hits+walks) / innings
}
