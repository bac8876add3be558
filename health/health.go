// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package health provides utilities for monitoring the healthiness of an application.
package health

import (
	"context"
	"errors"
	"sync/atomic"
)

// Monitor represents anything which can report its current state of health.
type Monitor interface {
	Healthy(context.Context) (bool, error)
}

// Binary is a [Monitor] which simply has 2 states: healthy or unhealthy.
// It is safe for concurrent use. The zero value represents an unhealthy state.
type Binary struct {
	healthy atomic.Bool
}

// MarkUnhealthy changes the state to unhealthy.
func (b *Binary) MarkUnhealthy() {
	b.healthy.Swap(false)
}

// MarkHealthy changes that state to healthy.
func (b *Binary) MarkHealthy() {
	b.healthy.Swap(true)
}

// Healthy implements the [Monitor] interface.
func (b *Binary) Healthy(ctx context.Context) (bool, error) {
	return b.healthy.Load(), nil
}

// AllMonitor is a collection of [Monitor]s which is healthy only while
// every one of its monitors is healthy.
//
// In the case of an error it will fail fast.
type AllMonitor []Monitor

// All is a simple helper for initializing a [AllMonitor] in a more functional style.
func All(ms ...Monitor) AllMonitor {
	return AllMonitor(ms)
}

// Healthy implements the [Monitor] interface.
func (am AllMonitor) Healthy(ctx context.Context) (bool, error) {
	for _, m := range am {
		healthy, err := m.Healthy(ctx)
		if !healthy || err != nil {
			return healthy, err
		}
	}
	return true, nil
}

// AnyMonitor is a collection of [Monitor]s which is healthy while at
// least one of its monitors is healthy.
//
// It will check all [Monitor]s and if any errors are encountered they will be collected
// and returned as a single joined error via [errors.Join].
type AnyMonitor []Monitor

// Any is a simple helper for initializing a [AnyMonitor] in a more functional style.
func Any(ms ...Monitor) AnyMonitor {
	return AnyMonitor(ms)
}

// Healthy implements the [Monitor] interface.
func (am AnyMonitor) Healthy(ctx context.Context) (bool, error) {
	errs := make([]error, 0, len(am))
	for _, m := range am {
		healthy, err := m.Healthy(ctx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if healthy {
			return true, nil
		}
	}
	return false, errors.Join(errs...)
}
