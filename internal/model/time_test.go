package model

import (
	"testing"
	"time"
)

func TestParseInput(t *testing.T) {
	got, err := ParseInput("31.08.2026 09:05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := time.Date(2026, 8, 31, 9, 5, 0, 0, time.Local)
	if !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	if _, err := ParseInput("2026-08-31 09:05"); err == nil {
		t.Error("expected ISO layout to be rejected")
	}
}

func TestClockRoundTrip(t *testing.T) {
	m, err := ParseClock("08:30")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if m != 510 {
		t.Errorf("expected 510, got %d", m)
	}
	if got := FormatClock(m); got != "08:30" {
		t.Errorf("expected 08:30, got %s", got)
	}

	if _, err := ParseClock("25:70"); err == nil {
		t.Error("expected invalid clock to be rejected")
	}
}

func TestFormatDuration(t *testing.T) {
	if got := FormatDuration(95); got != "1h 35m" {
		t.Errorf("expected 1h 35m, got %s", got)
	}
	if got := FormatDuration(40); got != "0h 40m" {
		t.Errorf("expected 0h 40m, got %s", got)
	}
}

func TestTimeStorageRoundTrip(t *testing.T) {
	orig := time.Date(2026, 8, 31, 23, 59, 58, 0, time.Local)
	got, err := ParseTime(FormatTime(orig))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !got.Equal(orig) {
		t.Errorf("expected %v, got %v", orig, got)
	}
}

func TestSettingsMealAtFallsBack(t *testing.T) {
	s := Settings{FeedingsPerDay: 2, Meals: []Meal{{Name: MealLunch, At: "12:00"}}}
	if got := s.MealAt(MealLunch); got != "12:00" {
		t.Errorf("expected 12:00, got %s", got)
	}
	if got := s.MealAt(MealDinner); got != "18:00" {
		t.Errorf("expected default dinner, got %s", got)
	}
}
