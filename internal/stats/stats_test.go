package stats

import (
	"strings"
	"testing"
	"time"

	"github.com/corso/puplog/internal/model"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

func rec(action model.Action, daysAgo, hour, minute int, note model.Note) model.Record {
	d := testNow.AddDate(0, 0, -daysAgo)
	return model.Record{
		ID:     "id",
		Action: action,
		Time:   time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, time.Local),
		User:   1,
		Note:   note,
	}
}

func TestAverageMinutes(t *testing.T) {
	recs := []model.Record{
		rec(model.Feed, 1, 8, 0, model.NoteNone),
		rec(model.Feed, 1, 9, 0, model.NoteNone),
	}
	avg, ok := AverageMinutes(recs, model.Feed, 5, testNow)
	if !ok {
		t.Fatal("expected an average")
	}
	if got := model.FormatClock(avg); got != "08:30" {
		t.Errorf("expected 08:30, got %s", got)
	}
}

func TestAverageMinutesTruncates(t *testing.T) {
	recs := []model.Record{
		rec(model.Feed, 1, 8, 0, model.NoteNone),
		rec(model.Feed, 1, 8, 1, model.NoteNone),
		rec(model.Feed, 2, 8, 1, model.NoteNone),
	}
	avg, _ := AverageMinutes(recs, model.Feed, 5, testNow)
	if avg != 8*60 {
		t.Errorf("expected truncation to 480, got %d", avg)
	}
}

func TestAverageMinutesEmpty(t *testing.T) {
	if _, ok := AverageMinutes(nil, model.Feed, 5, testNow); ok {
		t.Error("expected no average for empty set")
	}
}

func TestAverageMinutesIgnoresOutsideWindow(t *testing.T) {
	recs := []model.Record{
		rec(model.Feed, 10, 6, 0, model.NoteNone),
		rec(model.Feed, 1, 8, 0, model.NoteNone),
	}
	avg, _ := AverageMinutes(recs, model.Feed, 5, testNow)
	if avg != 8*60 {
		t.Errorf("expected only in-window record to count, got %d", avg)
	}
}

func TestAverageMinutesIntervalUsesStarts(t *testing.T) {
	recs := []model.Record{
		rec(model.Walk, 1, 10, 0, model.NoteStart),
		rec(model.Walk, 1, 11, 0, model.NoteEnd),
	}
	avg, ok := AverageMinutes(recs, model.Walk, 5, testNow)
	if !ok || avg != 10*60 {
		t.Errorf("expected 600 from the start record only, got %d, %v", avg, ok)
	}
}

func TestPairIntervals(t *testing.T) {
	recs := []model.Record{
		rec(model.Walk, 1, 9, 30, model.NoteEnd), // orphan end, skipped
		rec(model.Walk, 1, 10, 0, model.NoteStart),
		rec(model.Walk, 1, 10, 45, model.NoteEnd),
		rec(model.Walk, 1, 20, 0, model.NoteStart), // trailing start, discarded
	}
	ivs := PairIntervals(recs)
	if len(ivs) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(ivs))
	}
	if ivs[0].Minutes() != 45 {
		t.Errorf("expected 45 minutes, got %d", ivs[0].Minutes())
	}
}

func TestReportMealBucketBoundaries(t *testing.T) {
	recs := []model.Record{
		rec(model.Feed, 1, 12, 59, model.NoteNone), // breakfast bucket
		rec(model.Feed, 1, 13, 0, model.NoteNone),  // lunch, lower bound inclusive
		rec(model.Feed, 1, 17, 59, model.NoteNone), // lunch
		rec(model.Feed, 1, 18, 0, model.NoteNone),  // dinner
	}
	report := Report(recs, model.DefaultSettings(), 2, testNow)

	wantLines := []string{
		"breakfast: 1, avg at 12:59",
		"lunch: 2, avg at 15:29",
		"dinner: 1, avg at 18:00",
		"late dinner: —",
	}
	for _, want := range wantLines {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

func TestReportIntervalDurations(t *testing.T) {
	recs := []model.Record{
		rec(model.Walk, 1, 17, 0, model.NoteStart),
		rec(model.Walk, 1, 18, 30, model.NoteEnd), // ends in the dinner bucket
	}
	report := Report(recs, model.DefaultSettings(), 2, testNow)
	if !strings.Contains(report, "dinner: 1, avg 1h 30m") {
		t.Errorf("expected dinner interval line:\n%s", report)
	}
}

func TestReportFeedFirst(t *testing.T) {
	report := Report(nil, model.DefaultSettings(), 2, testNow)
	feed := strings.Index(report, string(model.Feed))
	sleep := strings.Index(report, string(model.Sleep))
	if feed < 0 || sleep < 0 || feed > sleep {
		t.Errorf("expected Feed section before Sleep:\n%s", report)
	}
}

func TestReportExcludesOldRecords(t *testing.T) {
	recs := []model.Record{rec(model.Feed, 5, 8, 0, model.NoteNone)}
	report := Report(recs, model.DefaultSettings(), 2, testNow)
	if !strings.Contains(report, "breakfast: —") {
		t.Errorf("expected the 5-day-old feed excluded from a 2-day window:\n%s", report)
	}
}
