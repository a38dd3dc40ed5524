// Package forecast composes the month-scoped cash flow forecast of a
// profile from its pending expenses, recurring transactions, debt payment
// schedules, recorded income and appointments.
package forecast

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Dan9191/finance-forecast/internal/models"
)

// ErrInvalidMonth is returned for a month outside 0-11
var ErrInvalidMonth = errors.New("month must be between 0 and 11")

// Composer builds forecasts from a Store
type Composer struct {
	store Store
	now   func() time.Time
	loc   *time.Location
}

// Option configures a Composer
type Option func(*Composer)

// WithClock overrides the source of the current time
func WithClock(now func() time.Time) Option {
	return func(c *Composer) { c.now = now }
}

// WithLocation sets the location month bounds are computed in
func WithLocation(loc *time.Location) Option {
	return func(c *Composer) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// NewComposer initializes a composer reading from store
func NewComposer(store Store, opts ...Option) *Composer {
	c := &Composer{store: store, now: time.Now, loc: time.UTC}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose returns the forecast of profileID for a 0-based month of year,
// ordered by date. An unknown profile (id <= 0) yields an empty forecast.
// Any failed read aborts the whole composition.
func (c *Composer) Compose(ctx context.Context, profileID int64, month, year int) ([]models.ForecastItem, error) {
	if month < 0 || month > 11 {
		return nil, ErrInvalidMonth
	}
	if profileID <= 0 {
		return []models.ForecastItem{}, nil
	}

	start, end := MonthBounds(year, time.Month(month+1), c.loc)
	current := monthStart(c.now(), c.loc)

	var (
		pending, recurring, income, projected, appointments []models.ForecastItem

		debtMu    sync.Mutex
		debtItems = make(map[int64][]models.ForecastItem)
		debtOrder []int64
	)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		pending, err = pendingExpenses(ctx, c.store, profileID, start, end)
		return err
	})

	g.Go(func() error {
		var err error
		recurring, err = recurringExpenses(ctx, c.store, profileID, start, end)
		return err
	})

	g.Go(func() error {
		debts, err := c.store.ActiveDebts(ctx, profileID)
		if err != nil {
			return fmt.Errorf("failed to load debts: %w", err)
		}
		for _, d := range debts {
			d := d
			debtOrder = append(debtOrder, d.ID)
			g.Go(func() error {
				items, err := debtForecast(ctx, c.store, d, current, start)
				if err != nil {
					return err
				}
				debtMu.Lock()
				debtItems[d.ID] = items
				debtMu.Unlock()
				return nil
			})
		}
		return nil
	})

	g.Go(func() error {
		var err error
		income, projected, err = c.incomeForecast(ctx, profileID, start, end)
		return err
	})

	g.Go(func() error {
		list, err := c.store.AppointmentsInRange(ctx, profileID, start, end)
		if err != nil {
			return fmt.Errorf("failed to load appointments: %w", err)
		}
		appointments = appointmentItems(list)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	var debts []models.ForecastItem
	for _, id := range debtOrder {
		debts = append(debts, debtItems[id]...)
	}

	return merge(pending, recurring, debts, income, projected, appointments), nil
}

// incomeForecast returns the income recorded in the month and the
// projections of recurring income not yet recorded.
func (c *Composer) incomeForecast(ctx context.Context, profileID int64, start, end time.Time) ([]models.ForecastItem, []models.ForecastItem, error) {
	current, err := c.store.TransactionsInRange(ctx, profileID, models.TransactionIncome, start, end)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load income: %w", err)
	}
	history, err := c.store.LatestRecurring(ctx, profileID, models.TransactionIncome, start)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load recurring income: %w", err)
	}
	settings, err := c.store.ProfileSettings(ctx, profileID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load profile settings: %w", err)
	}

	mode := MonSat
	if settings != nil {
		mode = ParseBusinessDays(settings.BusinessDaysConfig)
	}
	return incomeItems(current), recurringIncome(history, current, start, mode), nil
}

func appointmentItems(list []models.Appointment) []models.ForecastItem {
	items := make([]models.ForecastItem, 0, len(list))
	for _, a := range list {
		items = append(items, models.ForecastItem{
			ID:             fmt.Sprintf("appointment-%d", a.ID),
			Description:    a.Title,
			Date:           a.Date,
			Type:           models.ForecastAppointment,
			Location:       a.Location,
			ClientID:       a.ClientID,
			RawDescription: a.Description,
		})
	}
	return items
}

// merge concatenates the groups in order and stable-sorts them by date
func merge(groups ...[]models.ForecastItem) []models.ForecastItem {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]models.ForecastItem, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	slices.SortStableFunc(out, func(a, b models.ForecastItem) int {
		return a.Date.Compare(b.Date)
	})
	return out
}
