package sched

import (
	"context"
	"testing"
	"time"
)

func TestRunOnce(t *testing.T) {
	fired := make(chan time.Time, 1)
	RunOnce(context.Background(), 10*time.Millisecond, func(now time.Time) {
		fired <- now
	})
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("one-shot never fired")
	}
}

func TestRunOnceCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	fired := make(chan struct{}, 1)
	RunOnce(ctx, 50*time.Millisecond, func(time.Time) {
		fired <- struct{}{}
	})
	cancel()
	select {
	case <-fired:
		t.Fatal("cancelled one-shot fired")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestRunRepeating(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ticks := make(chan struct{}, 8)
	RunRepeating(ctx, 10*time.Millisecond, 0, func(time.Time) {
		ticks <- struct{}{}
	})

	for i := 0; i < 3; i++ {
		select {
		case <-ticks:
		case <-time.After(time.Second):
			t.Fatalf("tick %d never arrived", i)
		}
	}
}
