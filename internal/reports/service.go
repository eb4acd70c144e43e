package reports

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eashaop2023/admineashaop/internal/appointments"
	"github.com/eashaop2023/admineashaop/internal/cache"
)

const cachePrefix = "reports:"

var (
	ErrInvalidYear   = errors.New("invalid year")
	ErrInvalidRange  = errors.New("invalid range")
	ErrInvalidStatus = errors.New("invalid status")
)

type AppointmentSource interface {
	All(ctx context.Context) ([]appointments.View, error)
}

type Service struct {
	source  AppointmentSource
	counter Counter
	cache   cache.Cache
	ttl     time.Duration
	loc     *time.Location
	now     func() time.Time
}

func NewService(source AppointmentSource, counter Counter, c cache.Cache, ttl time.Duration, loc *time.Location) *Service {
	if c == nil {
		c = cache.NewNoop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		source:  source,
		counter: counter,
		cache:   c,
		ttl:     ttl,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *Service) CurrentYear() int {
	return s.now().In(s.loc).Year()
}

// Dashboard returns the summary for year, served from the cache while fresh.
// Cache failures fall through to a fresh computation.
func (s *Service) Dashboard(ctx context.Context, year int) (DashboardSummary, error) {
	if year < 1970 || year > 9999 {
		return DashboardSummary{}, ErrInvalidYear
	}

	key := fmt.Sprintf("%sdashboard:%d", cachePrefix, year)
	if raw, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		var cached DashboardSummary
		if json.Unmarshal(raw, &cached) == nil {
			return cached, nil
		}
	}

	items, err := s.source.All(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}
	totals, err := s.counter.Totals(ctx)
	if err != nil {
		return DashboardSummary{}, err
	}

	summary := Dashboard(items, totals, year, s.loc)
	if s.ttl > 0 {
		if raw, err := json.Marshal(summary); err == nil {
			_ = s.cache.Set(ctx, key, raw, s.ttl)
		}
	}
	return summary, nil
}

func (s *Service) Billing(ctx context.Context, filter BillingFilter) (BillingSummary, error) {
	filter.Status = strings.ToLower(strings.TrimSpace(filter.Status))
	filter.Range = strings.ToLower(strings.TrimSpace(filter.Range))
	if !ValidStatus(filter.Status) {
		return BillingSummary{}, ErrInvalidStatus
	}
	if !ValidRange(filter.Range) {
		return BillingSummary{}, ErrInvalidRange
	}

	items, err := s.source.All(ctx)
	if err != nil {
		return BillingSummary{}, err
	}
	return Billing(items, filter, s.now(), s.loc), nil
}

// Invalidate drops every cached report.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.DeletePrefix(ctx, cachePrefix)
}
