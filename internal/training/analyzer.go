package training

import (
	"context"
	"sort"
	"time"

	"github.com/pacelog/pacelog/internal/telemetry/tracing"

	"go.opentelemetry.io/otel/attribute"
)

// streakLookbackDays bounds both the streak query size and the largest
// possible streak value. An open-ended streak is deliberately not
// supported, the walk stays O(30) regardless of history size.
const streakLookbackDays = 30

// Analyzer derives fitness insights from a user's entry history. It is a
// strictly read-only consumer of the repo.
type Analyzer struct {
	repo entriesRepo
}

func NewAnalyzer(repo entriesRepo) *Analyzer {
	return &Analyzer{
		repo: repo,
	}
}

// WeeklySummary aggregates entries of one owner over an explicit,
// inclusive date range.
type WeeklySummary struct {
	TotalDistance     float64 `json:"totalDistance"`
	TotalDuration     float64 `json:"totalDuration"`
	TotalRuns         int     `json:"totalRuns"`
	TotalRestDays     int     `json:"totalRestDays"`
	AveragePace       float64 `json:"averagePace"`
	AverageDifficulty float64 `json:"averageDifficulty"`
}

// WeeklySummary never returns a missing result: a range with no entries
// yields an all-zero summary. Averages ignore entries without the averaged
// field and are 0 when no entry carries it.
func (a *Analyzer) WeeklySummary(
	ctx context.Context,
	ownerID string,
	from, to time.Time,
) (_ *WeeklySummary, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.training.weeklySummary")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("from", from.String()))
	span.SetAttributes(attribute.String("to", to.String()))

	entries, err := a.repo.ListAll(ctx, EntryParams{
		UserID: ownerID,
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}

	summary := &WeeklySummary{}
	var paceSum float64
	var paceCount int
	var difficultySum int
	var difficultyCount int

	for _, e := range entries {
		summary.TotalDistance += e.Distance
		summary.TotalDuration += e.Duration
		if e.Type == ActivityRun {
			summary.TotalRuns++
		}
		if e.IsRestDay {
			summary.TotalRestDays++
		}
		if e.Pace != nil {
			paceSum += *e.Pace
			paceCount++
		}
		if e.Difficulty != nil {
			difficultySum += *e.Difficulty
			difficultyCount++
		}
	}

	if paceCount > 0 {
		summary.AveragePace = paceSum / float64(paceCount)
	}
	if difficultyCount > 0 {
		summary.AverageDifficulty = float64(difficultySum) / float64(difficultyCount)
	}

	return summary, nil
}

type TotalStats struct {
	TotalDistance     float64 `json:"totalDistance"`
	TotalDuration     float64 `json:"totalDuration"`
	TotalActivities   int     `json:"totalActivities"`
	AveragePace       float64 `json:"averagePace"`
	AverageDifficulty float64 `json:"averageDifficulty"`
}

type TypeStats struct {
	Type          ActivityType `json:"type"`
	Count         int          `json:"count"`
	TotalDistance float64      `json:"totalDistance"`
	TotalDuration float64      `json:"totalDuration"`
}

// WeekBucket aggregates the entries of one ISO (year, week).
type WeekBucket struct {
	Year          int     `json:"year"`
	Week          int     `json:"week"`
	TotalDistance float64 `json:"totalDistance"`
	TotalDuration float64 `json:"totalDuration"`
	ActivityCount int     `json:"activityCount"`
}

type PeriodStats struct {
	TotalStats    TotalStats   `json:"totalStats"`
	TypeBreakdown []TypeStats  `json:"typeBreakdown"`
	WeeklyTrend   []WeekBucket `json:"weeklyTrend"`
}

// PeriodStats produces total stats, the per-type breakdown and the weekly
// trend from the same matched set: all entries of the owner within
// [now − periodDays, now].
func (a *Analyzer) PeriodStats(
	ctx context.Context,
	ownerID string,
	periodDays int,
	now time.Time,
) (_ *PeriodStats, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.training.periodStats")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("period_days", periodDays))

	from := now.AddDate(0, 0, -periodDays)
	entries, err := a.repo.ListAll(ctx, EntryParams{
		UserID: ownerID,
		From:   &from,
		To:     &now,
	})
	if err != nil {
		return nil, err
	}

	stats := &PeriodStats{
		TypeBreakdown: make([]TypeStats, 0),
		WeeklyTrend:   make([]WeekBucket, 0),
	}

	var paceSum float64
	var paceCount int
	var difficultySum int
	var difficultyCount int
	type2stats := make(map[ActivityType]*TypeStats)
	week2bucket := make(map[[2]int]*WeekBucket)

	for _, e := range entries {
		stats.TotalStats.TotalDistance += e.Distance
		stats.TotalStats.TotalDuration += e.Duration
		stats.TotalStats.TotalActivities++
		if e.Pace != nil {
			paceSum += *e.Pace
			paceCount++
		}
		if e.Difficulty != nil {
			difficultySum += *e.Difficulty
			difficultyCount++
		}

		ts, ok := type2stats[e.Type]
		if !ok {
			ts = &TypeStats{Type: e.Type}
			type2stats[e.Type] = ts
		}
		ts.Count++
		ts.TotalDistance += e.Distance
		ts.TotalDuration += e.Duration

		year, week := e.Date.UTC().ISOWeek()
		key := [2]int{year, week}
		bucket, ok := week2bucket[key]
		if !ok {
			bucket = &WeekBucket{Year: year, Week: week}
			week2bucket[key] = bucket
		}
		bucket.TotalDistance += e.Distance
		bucket.TotalDuration += e.Duration
		bucket.ActivityCount++
	}

	if paceCount > 0 {
		stats.TotalStats.AveragePace = paceSum / float64(paceCount)
	}
	if difficultyCount > 0 {
		stats.TotalStats.AverageDifficulty = float64(difficultySum) / float64(difficultyCount)
	}

	for _, ts := range type2stats {
		stats.TypeBreakdown = append(stats.TypeBreakdown, *ts)
	}
	sort.Slice(stats.TypeBreakdown, func(i, j int) bool {
		return stats.TypeBreakdown[i].Type < stats.TypeBreakdown[j].Type
	})

	for _, bucket := range week2bucket {
		stats.WeeklyTrend = append(stats.WeeklyTrend, *bucket)
	}
	sort.Slice(stats.WeeklyTrend, func(i, j int) bool {
		if stats.WeeklyTrend[i].Year != stats.WeeklyTrend[j].Year {
			return stats.WeeklyTrend[i].Year < stats.WeeklyTrend[j].Year
		}
		return stats.WeeklyTrend[i].Week < stats.WeeklyTrend[j].Week
	})

	return stats, nil
}

// CurrentStreak walks backward from the calendar day of referenceDate and
// counts consecutive days with at least one non-rest entry. Days are
// normalized to UTC. A day with no qualifying activity terminates the walk
// immediately, including the reference day itself.
func (a *Analyzer) CurrentStreak(
	ctx context.Context,
	ownerID string,
	referenceDate time.Time,
) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "analyzer.training.currentStreak")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	from := referenceDate.AddDate(0, 0, -streakLookbackDays)
	entries, err := a.repo.ListAll(ctx, EntryParams{
		UserID:          ownerID,
		From:            &from,
		ExcludeRestDays: true,
	})
	if err != nil {
		return 0, err
	}

	activeDays := make(map[time.Time]bool, len(entries))
	for _, e := range entries {
		activeDays[e.Date.UTC().Truncate(24*time.Hour)] = true
	}

	streak := 0
	day := referenceDate.UTC().Truncate(24 * time.Hour)
	for i := 0; i < streakLookbackDays; i++ {
		if !activeDays[day] {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}

	span.SetAttributes(attribute.Int("streak", streak))
	return streak, nil
}
