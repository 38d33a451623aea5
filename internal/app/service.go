package app

import (
	"fmt"
	"time"

	"github.com/guttosm/b3yield/config"
	"github.com/guttosm/b3yield/internal/calendar"
	"github.com/guttosm/b3yield/internal/logger"
	"github.com/guttosm/b3yield/internal/numeric"
	"github.com/guttosm/b3yield/internal/service"
	"github.com/guttosm/b3yield/internal/storage"
	"github.com/guttosm/b3yield/internal/yield"
)

// HolidaySource supplies closures stored outside the built-in rule set.
type HolidaySource interface {
	ListHolidays(calendar string) ([]time.Time, error)
}

// NewCalendars builds the calendar registry, merging the extra holidays kept
// in src into the ANBIMA calendar. src may be nil.
func NewCalendars(src HolidaySource) (*calendar.Registry, error) {
	var extra []time.Time
	if src != nil {
		var err error
		if extra, err = src.ListHolidays(calendar.ANBIMA); err != nil {
			return nil, fmt.Errorf("load %s holidays: %w", calendar.ANBIMA, err)
		}
	}
	if len(extra) > 0 {
		logger.Component("calendar").Info().Str("calendar", calendar.ANBIMA).Int("extra_holidays", len(extra)).Msg("calendar extended")
	}
	return calendar.NewRegistry(calendar.NewANBIMA(extra...)), nil
}

// NewPricingService applies the pricing settings of cfg and wires a service
// over repo and the calendars built from it.
//
// Behavior:
//   - Sets numeric.DecimalPrecision process-wide.
//   - Fails when the configured default calendar is not registered.
func NewPricingService(cfg config.Config, repo storage.QuotationsRepository) (service.PricingService, *calendar.Registry, error) {
	policy, err := yield.ParseTruncationPolicy(cfg.Pricing.BondTruncation)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Pricing.DecimalPrecision > 0 {
		numeric.DecimalPrecision = int32(cfg.Pricing.DecimalPrecision)
	}

	var src HolidaySource
	if repo != nil {
		src = repo
	}
	cals, err := NewCalendars(src)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Pricing.Calendar != "" {
		if _, err := cals.Get(cfg.Pricing.Calendar); err != nil {
			return nil, nil, fmt.Errorf("default calendar: %w", err)
		}
	}

	svc := service.NewPricingService(repo, cals, service.Options{
		DefaultCalendar: cfg.Pricing.Calendar,
		BondTruncation:  policy,
		Parallel:        cfg.Pricing.Parallel,
	})
	return svc, cals, nil
}
