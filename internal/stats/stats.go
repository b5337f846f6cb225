// Package stats computes trailing-window statistics over activity records:
// per-action counts, meal-period bucketing, truncating clock-time averages
// and start/end interval durations.
package stats

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/corso/puplog/internal/model"
)

// EmptyMark is reported for a bucket with no records.
const EmptyMark = "—"

// bucket indexes the four meal periods of a day.
type bucket int

const (
	bucketBreakfast bucket = iota
	bucketLunch
	bucketDinner
	bucketLate
	bucketCount
)

var bucketNames = [bucketCount]string{"breakfast", "lunch", "dinner", "late dinner"}

// boundaries holds the three cut points, in minutes since midnight, that
// split the day into four half-open meal periods.
type boundaries struct {
	lunch, dinner, late int
}

func boundsFrom(set model.Settings) boundaries {
	lunch, err := model.ParseClock(set.MealAt(model.MealLunch))
	if err != nil {
		lunch = 13 * 60
	}
	dinner, err := model.ParseClock(set.MealAt(model.MealDinner))
	if err != nil {
		dinner = 18 * 60
	}
	late, err := model.ParseClock(set.MealAt(model.MealLateDinner))
	if err != nil {
		late = 23 * 60
	}
	return boundaries{lunch: lunch, dinner: dinner, late: late}
}

// bucketFor places a minute-of-day into a meal period. Lower bounds are
// inclusive: a record exactly at the lunch time belongs to the lunch bucket.
func (b boundaries) bucketFor(minute int) bucket {
	switch {
	case minute < b.lunch:
		return bucketBreakfast
	case minute < b.dinner:
		return bucketLunch
	case minute < b.late:
		return bucketDinner
	default:
		return bucketLate
	}
}

// averageClock returns the truncating integer mean of minutes-since-midnight
// values rendered as "HH:MM", or EmptyMark for an empty set.
func averageClock(minutes []int) string {
	if len(minutes) == 0 {
		return EmptyMark
	}
	total := 0
	for _, m := range minutes {
		total += m
	}
	return model.FormatClock(total / len(minutes))
}

// averageDuration returns the truncating mean of per-interval minutes as
// "Xh Ym", or EmptyMark for an empty set.
func averageDuration(minutes []int) string {
	if len(minutes) == 0 {
		return EmptyMark
	}
	total := 0
	for _, m := range minutes {
		total += m
	}
	return model.FormatDuration(total / len(minutes))
}

// Interval is one closed start/end pair.
type Interval struct {
	Start, End time.Time
}

// Minutes returns the interval length in whole minutes.
func (iv Interval) Minutes() int {
	return int(iv.End.Sub(iv.Start) / time.Minute)
}

// PairIntervals pairs chronologically sorted start/end records of a single
// action into closed intervals. A start is closed by the next end; an
// unmatched trailing start is discarded; an orphan end is skipped.
func PairIntervals(recs []model.Record) []Interval {
	sorted := make([]model.Record, 0, len(recs))
	for _, r := range recs {
		if r.Note == model.NoteStart || r.Note == model.NoteEnd {
			sorted = append(sorted, r)
		}
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Time.Before(sorted[j].Time) })

	var (
		out     []Interval
		pending *time.Time
	)
	for _, r := range sorted {
		switch r.Note {
		case model.NoteStart:
			t := r.Time
			pending = &t
		case model.NoteEnd:
			if pending != nil {
				out = append(out, Interval{Start: *pending, End: r.Time})
				pending = nil
			}
		}
	}
	return out
}

// AverageMinutes returns the truncating mean clock time, in minutes since
// midnight, of an action's records over the trailing window. Interval
// actions contribute their start records; instantaneous actions all of
// them. The second result is false when the window holds no records.
func AverageMinutes(recs []model.Record, action model.Action, days int, now time.Time) (int, bool) {
	cutoff := now.AddDate(0, 0, -days)
	interval := model.Behaviors[action].Interval

	var minutes []int
	for _, r := range recs {
		if r.Action != action || r.Time.Before(cutoff) {
			continue
		}
		if interval && r.Note != model.NoteStart {
			continue
		}
		minutes = append(minutes, model.MinuteOfDay(r.Time))
	}
	if len(minutes) == 0 {
		return 0, false
	}
	total := 0
	for _, m := range minutes {
		total += m
	}
	return total / len(minutes), true
}

// Report renders the multi-line statistics report for a trailing window of
// days: Feed first, then the remaining actions in enumeration order.
func Report(recs []model.Record, set model.Settings, days int, now time.Time) string {
	cutoff := now.AddDate(0, 0, -days)
	var window []model.Record
	for _, r := range recs {
		if !r.Time.Before(cutoff) {
			window = append(window, r)
		}
	}
	bounds := boundsFrom(set)

	var b strings.Builder
	fmt.Fprintf(&b, "📊 Stats for the last %d days:\n", days)
	b.WriteString(actionSection(window, model.Feed, bounds))
	for _, a := range model.Actions {
		if a == model.Feed {
			continue
		}
		b.WriteString(actionSection(window, a, bounds))
	}
	return strings.TrimRight(b.String(), "\n")
}

// actionSection renders one action's per-bucket line block.
func actionSection(window []model.Record, action model.Action, bounds boundaries) string {
	var mine []model.Record
	for _, r := range window {
		if r.Action == action {
			mine = append(mine, r)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s %s:\n", model.Emoji[action], action)

	if model.Behaviors[action].Interval {
		var counts [bucketCount]int
		var durations [bucketCount][]int
		// Closed intervals bucket by their end time.
		for _, iv := range PairIntervals(mine) {
			bk := bounds.bucketFor(model.MinuteOfDay(iv.End))
			counts[bk]++
			durations[bk] = append(durations[bk], iv.Minutes())
		}
		for bk := bucketBreakfast; bk < bucketCount; bk++ {
			if counts[bk] == 0 {
				fmt.Fprintf(&b, "  %s: %s\n", bucketNames[bk], EmptyMark)
				continue
			}
			fmt.Fprintf(&b, "  %s: %d, avg %s\n", bucketNames[bk], counts[bk], averageDuration(durations[bk]))
		}
		return b.String()
	}

	var clocks [bucketCount][]int
	for _, r := range mine {
		m := model.MinuteOfDay(r.Time)
		clocks[bounds.bucketFor(m)] = append(clocks[bounds.bucketFor(m)], m)
	}
	for bk := bucketBreakfast; bk < bucketCount; bk++ {
		if len(clocks[bk]) == 0 {
			fmt.Fprintf(&b, "  %s: %s\n", bucketNames[bk], EmptyMark)
			continue
		}
		fmt.Fprintf(&b, "  %s: %d, avg at %s\n", bucketNames[bk], len(clocks[bk]), averageClock(clocks[bk]))
	}
	return b.String()
}
