// Copyright (c) 2025 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type monitorFunc func(context.Context) (bool, error)

func (f monitorFunc) Healthy(ctx context.Context) (bool, error) {
	return f(ctx)
}

func TestAllMonitor_Healthy(t *testing.T) {
	t.Run("will return healthy", func(t *testing.T) {
		t.Run("if every Monitor returns healthy", func(t *testing.T) {
			var a Binary
			a.MarkHealthy()

			var b Binary
			b.MarkHealthy()

			all := All(&a, &b)

			healthy, err := all.Healthy(context.Background())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, healthy) {
				return
			}
		})
	})

	t.Run("will return unhealthy", func(t *testing.T) {
		t.Run("if at least one of the Monitors return unhealthy", func(t *testing.T) {
			var a Binary
			a.MarkHealthy()

			var b Binary

			var c Binary
			c.MarkHealthy()

			all := All(&a, &b, &c)

			healthy, err := all.Healthy(context.Background())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.False(t, healthy) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if at least one of the Monitors return an error", func(t *testing.T) {
			var a Binary
			a.MarkHealthy()

			healthErr := errors.New("failed to check health status")
			b := monitorFunc(func(ctx context.Context) (bool, error) {
				return false, healthErr
			})

			var c Binary
			c.MarkHealthy()

			all := All(&a, &b, &c)

			healthy, err := all.Healthy(context.Background())
			if !assert.ErrorIs(t, err, healthErr) {
				return
			}
			if !assert.False(t, healthy) {
				return
			}
		})
	})
}

func TestAnyMonitor_Healthy(t *testing.T) {
	t.Run("will return healthy", func(t *testing.T) {
		t.Run("if at least one of the Monitors returns healthy", func(t *testing.T) {
			var a Binary

			var b Binary
			b.MarkHealthy()

			anyOf := Any(&a, &b)

			healthy, err := anyOf.Healthy(context.Background())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.True(t, healthy) {
				return
			}
		})
	})

	t.Run("will return unhealthy", func(t *testing.T) {
		t.Run("if all Monitors return unhealthy", func(t *testing.T) {
			var a Binary
			var b Binary
			var c Binary

			anyOf := Any(&a, &b, &c)

			healthy, err := anyOf.Healthy(context.Background())
			if !assert.Nil(t, err) {
				return
			}
			if !assert.False(t, healthy) {
				return
			}
		})
	})

	t.Run("will return an error", func(t *testing.T) {
		t.Run("if at least one of the Monitors return an error", func(t *testing.T) {
			var a Binary

			healthErr := errors.New("failed to check health status")
			b := monitorFunc(func(ctx context.Context) (bool, error) {
				return false, healthErr
			})

			var c Binary

			anyOf := Any(&a, &b, &c)

			healthy, err := anyOf.Healthy(context.Background())
			if !assert.ErrorIs(t, err, healthErr) {
				return
			}
			if !assert.False(t, healthy) {
				return
			}
		})
	})
}
