// Package sched provides the thin timer collaborator: daily, repeating
// and one-shot callbacks driven by wall-clock time.
package sched

import (
	"context"
	"time"
)

// RunRepeating invokes fn every interval until ctx is done. The first run
// happens after initialDelay.
func RunRepeating(ctx context.Context, interval, initialDelay time.Duration, fn func(time.Time)) {
	go func() {
		select {
		case <-ctx.Done():
			return
		case now := <-time.After(initialDelay):
			fn(now)
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				fn(now)
			}
		}
	}()
}

// RunDaily invokes fn once a day at the given local hour and minute.
func RunDaily(ctx context.Context, hour, minute int, fn func(time.Time)) {
	go func() {
		for {
			now := time.Now()
			next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, time.Local)
			if !next.After(now) {
				next = next.AddDate(0, 0, 1)
			}
			select {
			case <-ctx.Done():
				return
			case fired := <-time.After(time.Until(next)):
				fn(fired)
			}
		}
	}()
}

// RunOnce invokes fn a single time after delay.
func RunOnce(ctx context.Context, delay time.Duration, fn func(time.Time)) {
	go func() {
		select {
		case <-ctx.Done():
		case now := <-time.After(delay):
			fn(now)
		}
	}()
}
