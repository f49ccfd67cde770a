package rigidcosts

import (
	"errors"
	"fmt"
	"iter"
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrInvalidWindow indicates a projection window with from after to.
	ErrInvalidWindow = errors.New("invalid projection window")
	// ErrInvalidRecurrenceRange indicates a cost whose end date precedes its
	// start date. Surfaced at validation instead of silently yielding nothing.
	ErrInvalidRecurrenceRange = errors.New("invalid recurrence range")
	// ErrUnknownRecurrence indicates a recurrence kind outside the known set.
	ErrUnknownRecurrence = errors.New("unknown recurrence")
)

// Window is an inclusive date range, normalized to midnight UTC.
type Window struct {
	From time.Time
	To   time.Time
}

// NewWindow validates and normalizes a projection window.
func NewWindow(from, to time.Time) (Window, error) {
	from = dateOnly(from)
	to = dateOnly(to)
	if from.After(to) {
		return Window{}, fmt.Errorf("%w: %s after %s", ErrInvalidWindow, from.Format("2006-01-02"), to.Format("2006-01-02"))
	}
	return Window{From: from, To: to}, nil
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// monthDay places a day-of-month inside a target month, clamping to the last
// day when the month is shorter (Jan 31 starts land on Feb 28/29).
func monthDay(year int, month time.Month, day int) time.Time {
	if max := daysInMonth(year, month); day > max {
		day = max
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func validateCost(cost RigidCost) error {
	if !cost.Recurrence.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRecurrence, cost.Recurrence)
	}
	if cost.EndDate != nil && dateOnly(*cost.EndDate).Before(dateOnly(cost.StartDate)) {
		return fmt.Errorf("%w: cost %d ends %s before start %s", ErrInvalidRecurrenceRange,
			cost.ID, cost.EndDate.Format("2006-01-02"), cost.StartDate.Format("2006-01-02"))
	}
	return nil
}

// Expand turns a cost record into its dated occurrences within the window.
// The returned sequence is finite and restartable; each range over it
// re-derives the occurrences from the record.
func Expand(cost RigidCost, w Window) (iter.Seq[Occurrence], error) {
	if w.From.After(w.To) {
		return nil, fmt.Errorf("%w: %s after %s", ErrInvalidWindow, w.From.Format("2006-01-02"), w.To.Format("2006-01-02"))
	}
	if err := validateCost(cost); err != nil {
		return nil, err
	}

	start := dateOnly(cost.StartDate)
	last := w.To
	if cost.EndDate != nil && dateOnly(*cost.EndDate).Before(last) {
		last = dateOnly(*cost.EndDate)
	}

	occurrence := func(date time.Time) Occurrence {
		return Occurrence{
			CostID:   cost.ID,
			Name:     cost.Name,
			Category: cost.Category,
			Date:     date,
			Amount:   cost.Amount,
		}
	}

	return func(yield func(Occurrence) bool) {
		if start.After(w.To) || last.Before(w.From) {
			return
		}
		switch cost.Recurrence {
		case RecurrenceOneTime:
			if !start.Before(w.From) && !start.After(w.To) {
				yield(occurrence(start))
			}
		case RecurrenceWeekly:
			d := start
			if d.Before(w.From) {
				days := int(w.From.Sub(d).Hours() / 24)
				steps := days / 7
				if days%7 != 0 {
					steps++
				}
				d = d.AddDate(0, 0, 7*steps)
			}
			for ; !d.After(last); d = d.AddDate(0, 0, 7) {
				if !yield(occurrence(d)) {
					return
				}
			}
		case RecurrenceMonthly:
			day := start.Day()
			for k := 0; ; k++ {
				d := monthDay(start.Year(), start.Month()+time.Month(k), day)
				if d.After(last) {
					return
				}
				if d.Before(w.From) {
					continue
				}
				if !yield(occurrence(d)) {
					return
				}
			}
		case RecurrenceYearly:
			day := start.Day()
			for k := 0; ; k++ {
				d := monthDay(start.Year()+k, start.Month(), day)
				if d.After(last) {
					return
				}
				if d.Before(w.From) {
					continue
				}
				if !yield(occurrence(d)) {
					return
				}
			}
		}
	}, nil
}

// CategoryTotal aggregates occurrences sharing a category.
type CategoryTotal struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Total    decimal.Decimal `json:"total"`
}

// MonthBucket aggregates occurrences of one calendar month. Every month of
// the window appears in a summary, zero months included, so callers can
// render a gapless time series.
type MonthBucket struct {
	Month string          `json:"month"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

// ProjectionSummary is the aggregated cash-flow forecast for a window.
type ProjectionSummary struct {
	From       time.Time       `json:"from"`
	To         time.Time       `json:"to"`
	Count      int             `json:"count"`
	Total      decimal.Decimal `json:"total"`
	ByCategory []CategoryTotal `json:"by_category"`
	ByMonth    []MonthBucket   `json:"by_month"`
}

// Project expands every cost into the window and aggregates the occurrences.
// All costs are validated before any expansion; there are no partial results.
func Project(costs []RigidCost, w Window) (ProjectionSummary, error) {
	if w.From.After(w.To) {
		return ProjectionSummary{}, fmt.Errorf("%w: %s after %s", ErrInvalidWindow, w.From.Format("2006-01-02"), w.To.Format("2006-01-02"))
	}
	for _, cost := range costs {
		if err := validateCost(cost); err != nil {
			return ProjectionSummary{}, err
		}
	}

	months := make([]MonthBucket, 0, 12)
	monthIdx := make(map[string]int)
	for cursor := time.Date(w.From.Year(), w.From.Month(), 1, 0, 0, 0, 0, time.UTC); !cursor.After(w.To); cursor = cursor.AddDate(0, 1, 0) {
		key := cursor.Format("2006-01")
		monthIdx[key] = len(months)
		months = append(months, MonthBucket{Month: key, Total: decimal.Zero})
	}

	summary := ProjectionSummary{From: w.From, To: w.To, Total: decimal.Zero}
	categories := make(map[string]*CategoryTotal)

	for _, cost := range costs {
		seq, err := Expand(cost, w)
		if err != nil {
			return ProjectionSummary{}, err
		}
		for occ := range seq {
			summary.Count++
			summary.Total = summary.Total.Add(occ.Amount)

			key := occ.Date.Format("2006-01")
			idx := monthIdx[key]
			months[idx].Count++
			months[idx].Total = months[idx].Total.Add(occ.Amount)

			cat, ok := categories[occ.Category]
			if !ok {
				cat = &CategoryTotal{Category: occ.Category, Total: decimal.Zero}
				categories[occ.Category] = cat
			}
			cat.Count++
			cat.Total = cat.Total.Add(occ.Amount)
		}
	}

	summary.ByMonth = months
	summary.ByCategory = make([]CategoryTotal, 0, len(categories))
	for _, cat := range categories {
		summary.ByCategory = append(summary.ByCategory, *cat)
	}
	sort.Slice(summary.ByCategory, func(i, j int) bool {
		return summary.ByCategory[i].Category < summary.ByCategory[j].Category
	})

	return summary, nil
}
