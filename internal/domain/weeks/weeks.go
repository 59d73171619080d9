// Package weeks resolves which weekly snapshot is the latest and
// orders descriptors for a week selector.
package weeks

import (
	"context"
	"sort"
	"strconv"
	"time"

	"github.com/clanhq/chestboard/internal/domain/model"
	"github.com/clanhq/chestboard/pkg/logger"
)

// Accepted date layouts in the weeks index.
var dateLayouts = []string{"2006-01-02", time.RFC3339}

// Resolver picks the latest week from an index of descriptors.
type Resolver struct {
	log logger.Logger
}

// Option applies a configuration option to the Resolver.
type Option func(*Resolver)

// WithLogger sets a custom logger for the resolver.
func WithLogger(log logger.Logger) Option {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// New creates a Resolver with the given options.
func New(opts ...Option) *Resolver {
	r := &Resolver{log: logger.Nop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ResolveLatest returns the latest descriptor. End dates win when any
// entry carries a date; otherwise numeric week ids decide. When
// neither resolves for any entry the first element is returned rather
// than failing. Empty input yields ErrNoWeeks.
func (r *Resolver) ResolveLatest(ctx context.Context, descs []model.WeekDescriptor) (model.WeekDescriptor, error) {
	if len(descs) == 0 {
		return model.WeekDescriptor{}, ErrNoWeeks
	}
	ordered := r.SelectorOrder(ctx, descs)
	latest := ordered[0]
	if !hasDate(latest) {
		if _, ok := numericID(latest); !ok {
			r.log.Warn(ctx, "weeks index has no parsable dates or numeric ids; falling back to first entry",
				logger.String("week", descs[0].WeekID))
			return descs[0], nil
		}
	}
	return latest, nil
}

// SelectorOrder returns descriptors in descending presentation order
// for a week selector: newest first, entries with invalid or missing
// sort values always after those with valid ones. The input is not
// mutated.
func (r *Resolver) SelectorOrder(ctx context.Context, descs []model.WeekDescriptor) []model.WeekDescriptor {
	out := make([]model.WeekDescriptor, len(descs))
	copy(out, descs)

	byDate := false
	for _, d := range out {
		if hasDate(d) {
			byDate = true
			break
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if byDate {
			return dateAfter(out[i], out[j])
		}
		return idAfter(out[i], out[j])
	})
	return out
}

// WeekDate returns the date used to order a descriptor: the end date
// when parsable, else the start date. The second return is false when
// neither parses.
func WeekDate(d model.WeekDescriptor) (time.Time, bool) {
	if t, ok := parseDate(d.EndDate); ok {
		return t, true
	}
	if t, ok := parseDate(d.StartDate); ok {
		return t, true
	}
	return time.Time{}, false
}

// dateAfter orders i before j when i's date is later. Entries without
// a valid date sort after dated ones regardless of direction.
func dateAfter(a, b model.WeekDescriptor) bool {
	at, aok := WeekDate(a)
	bt, bok := WeekDate(b)
	switch {
	case aok && bok:
		return at.After(bt)
	case aok:
		return true
	case bok:
		return false
	}
	return false
}

// idAfter orders i before j when i's numeric week id is larger.
// Non-numeric ids sort last.
func idAfter(a, b model.WeekDescriptor) bool {
	an, aok := numericID(a)
	bn, bok := numericID(b)
	switch {
	case aok && bok:
		return an > bn
	case aok:
		return true
	case bok:
		return false
	}
	return false
}

func hasDate(d model.WeekDescriptor) bool {
	_, ok := WeekDate(d)
	return ok
}

func numericID(d model.WeekDescriptor) (float64, bool) {
	n, err := strconv.ParseFloat(d.WeekID, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func parseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
