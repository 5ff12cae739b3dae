// Package cache holds the last-fetched job template collection with a
// time-based freshness policy.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"aapmcp/internal/controller"
	"aapmcp/pkg/logging"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched template collection stays fresh.
const DefaultTTL = 300 * time.Second

// ColdCacheError indicates a fetch failed before any template collection was
// ever populated. A warm cache swallows the same failure and serves stale
// data instead.
type ColdCacheError struct {
	Err error
}

func (e *ColdCacheError) Error() string {
	return fmt.Sprintf("template cache never populated: %v", e.Err)
}

func (e *ColdCacheError) Unwrap() error {
	return e.Err
}

// IsColdCache checks if an error is or wraps a ColdCacheError.
func IsColdCache(err error) bool {
	var coldErr *ColdCacheError
	return errors.As(err, &coldErr)
}

// Lister is the slice of the controller client the cache depends on.
type Lister interface {
	ListJobTemplates(ctx context.Context) (templates []controller.JobTemplate, partial bool, err error)
	GetSurveySpec(ctx context.Context, templateID int) (*controller.SurveySpec, error)
}

// snapshot is an immutable view of one successful fetch. Readers share the
// slice; nothing mutates it after the swap.
type snapshot struct {
	templates []controller.JobTemplate
	fetchedAt time.Time
	partial   bool
}

// TemplateCache serves the current template collection and refreshes it when
// stale. At most one refresh is in flight at a time; concurrent callers
// during a refresh share its result rather than triggering their own.
type TemplateCache struct {
	client Lister
	ttl    time.Duration

	mu      sync.RWMutex
	current *snapshot

	refreshGroup singleflight.Group

	// now is replaceable in tests.
	now func() time.Time
}

// Option configures the cache.
type Option func(*TemplateCache)

// WithTTL overrides the freshness window.
func WithTTL(ttl time.Duration) Option {
	return func(c *TemplateCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *TemplateCache) {
		c.now = now
	}
}

// New creates a template cache backed by the given controller client.
func New(client Lister, opts ...Option) *TemplateCache {
	c := &TemplateCache{
		client: client,
		ttl:    DefaultTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetTemplates returns the current template collection, refreshing it first
// if it is stale or was never populated. On refresh failure a warm cache
// serves the previous collection with a logged warning; only a cold cache
// propagates the failure.
func (c *TemplateCache) GetTemplates(ctx context.Context) ([]controller.JobTemplate, error) {
	return c.get(ctx, false)
}

// Refresh forces a fetch regardless of freshness and returns the resulting
// collection. Tool registrations are not updated; templates added on the
// controller get no dedicated tool until the process restarts.
func (c *TemplateCache) Refresh(ctx context.Context) ([]controller.JobTemplate, error) {
	return c.get(ctx, true)
}

func (c *TemplateCache) get(ctx context.Context, force bool) ([]controller.JobTemplate, error) {
	c.mu.RLock()
	current := c.current
	c.mu.RUnlock()

	if !force && current != nil && c.now().Sub(current.fetchedAt) < c.ttl {
		return current.templates, nil
	}

	// Exactly one refresh runs at a time; everyone arriving here while it
	// is in flight shares its outcome.
	_, err, _ := c.refreshGroup.Do("templates", func() (interface{}, error) {
		// A caller may have been queued behind a refresh that already
		// replaced the snapshot; don't fetch twice for one expiry.
		c.mu.RLock()
		cur := c.current
		c.mu.RUnlock()
		if !force && cur != nil && c.now().Sub(cur.fetchedAt) < c.ttl {
			return nil, nil
		}
		return nil, c.fetch(ctx)
	})

	c.mu.RLock()
	defer c.mu.RUnlock()

	if err != nil {
		if c.current != nil {
			logging.Warn("Cache", "Template refresh failed, serving %d stale templates: %v",
				len(c.current.templates), err)
			return c.current.templates, nil
		}
		return nil, &ColdCacheError{Err: err}
	}
	return c.current.templates, nil
}

// fetch drains the template listing, enriches each template with its survey
// spec, and atomically swaps in the new snapshot.
func (c *TemplateCache) fetch(ctx context.Context) error {
	templates, partial, err := c.client.ListJobTemplates(ctx)
	if err != nil {
		return err
	}
	if partial {
		logging.Warn("Cache", "Template listing is partial; caching %d templates anyway", len(templates))
	}

	surveyCount := 0
	for i := range templates {
		spec, err := c.client.GetSurveySpec(ctx, templates[i].ID)
		if err != nil {
			// A missing survey never fails the refresh; the template is
			// still launchable without one.
			logging.Warn("Cache", "Failed to fetch survey spec for template %q (%d): %v",
				templates[i].Name, templates[i].ID, err)
			continue
		}
		if spec != nil {
			templates[i].Survey = spec
			surveyCount++
		}
	}

	c.mu.Lock()
	c.current = &snapshot{
		templates: templates,
		fetchedAt: c.now(),
		partial:   partial,
	}
	c.mu.Unlock()

	logging.Info("Cache", "Cached %d job templates (%d with surveys)", len(templates), surveyCount)
	return nil
}

// Populated reports whether a collection has ever been fetched.
func (c *TemplateCache) Populated() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil
}

// Partial reports whether the current collection came from an incomplete
// pagination drain.
func (c *TemplateCache) Partial() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current != nil && c.current.partial
}
