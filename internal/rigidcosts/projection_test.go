package rigidcosts

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func window(t *testing.T, from, to time.Time) Window {
	t.Helper()
	w, err := NewWindow(from, to)
	if err != nil {
		t.Fatalf("new window: %v", err)
	}
	return w
}

func collect(t *testing.T, cost RigidCost, w Window) []Occurrence {
	t.Helper()
	seq, err := Expand(cost, w)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	var out []Occurrence
	for occ := range seq {
		out = append(out, occ)
	}
	return out
}

func TestNewWindowRejectsInvertedRange(t *testing.T) {
	if _, err := NewWindow(date(2026, 2, 1), date(2026, 1, 1)); !errors.Is(err, ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
}

func TestExpandOneTime(t *testing.T) {
	w := window(t, date(2026, 1, 1), date(2026, 3, 31))

	inside := RigidCost{ID: 1, Category: "rent", Amount: dec("1200"), Recurrence: RecurrenceOneTime, StartDate: date(2026, 2, 15)}
	occ := collect(t, inside, w)
	if len(occ) != 1 || !occ[0].Date.Equal(date(2026, 2, 15)) {
		t.Fatalf("expected single occurrence on 2026-02-15, got %+v", occ)
	}
	if !occ[0].Amount.Equal(dec("1200")) {
		t.Fatalf("occurrence amount must equal source amount, got %s", occ[0].Amount)
	}

	outside := RigidCost{ID: 2, Amount: dec("500"), Recurrence: RecurrenceOneTime, StartDate: date(2026, 4, 1)}
	if occ := collect(t, outside, w); len(occ) != 0 {
		t.Fatalf("start outside window must yield nothing, got %+v", occ)
	}
}

func TestExpandWeekly(t *testing.T) {
	w := window(t, date(2026, 1, 10), date(2026, 2, 10))
	cost := RigidCost{ID: 3, Amount: dec("50"), Recurrence: RecurrenceWeekly, StartDate: date(2026, 1, 1)}

	occ := collect(t, cost, w)
	expected := []time.Time{
		date(2026, 1, 15), date(2026, 1, 22), date(2026, 1, 29), date(2026, 2, 5),
	}
	if len(occ) != len(expected) {
		t.Fatalf("expected %d occurrences, got %d: %+v", len(expected), len(occ), occ)
	}
	for i, want := range expected {
		if !occ[i].Date.Equal(want) {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want.Format("2006-01-02"), occ[i].Date.Format("2006-01-02"))
		}
	}
}

func TestExpandWeeklyHonorsEndDate(t *testing.T) {
	end := date(2026, 1, 15)
	cost := RigidCost{ID: 4, Amount: dec("10"), Recurrence: RecurrenceWeekly, StartDate: date(2026, 1, 1), EndDate: &end}
	w := window(t, date(2026, 1, 1), date(2026, 3, 1))

	occ := collect(t, cost, w)
	if len(occ) != 3 {
		t.Fatalf("expected occurrences on 1st, 8th, 15th only, got %+v", occ)
	}
	if !occ[2].Date.Equal(end) {
		t.Fatalf("last occurrence must be on end date, got %s", occ[2].Date)
	}
}

func TestExpandMonthlyClampsShortMonths(t *testing.T) {
	cost := RigidCost{ID: 5, Amount: dec("99"), Recurrence: RecurrenceMonthly, StartDate: date(2026, 1, 31)}
	w := window(t, date(2026, 1, 1), date(2026, 4, 30))

	occ := collect(t, cost, w)
	expected := []time.Time{
		date(2026, 1, 31), date(2026, 2, 28), date(2026, 3, 31), date(2026, 4, 30),
	}
	if len(occ) != len(expected) {
		t.Fatalf("expected %d occurrences, got %d: %+v", len(expected), len(occ), occ)
	}
	for i, want := range expected {
		if !occ[i].Date.Equal(want) {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want.Format("2006-01-02"), occ[i].Date.Format("2006-01-02"))
		}
	}
}

func TestExpandMonthlyClampsLeapFebruary(t *testing.T) {
	cost := RigidCost{ID: 6, Amount: dec("99"), Recurrence: RecurrenceMonthly, StartDate: date(2024, 1, 31)}
	w := window(t, date(2024, 2, 1), date(2024, 2, 29))

	occ := collect(t, cost, w)
	if len(occ) != 1 || !occ[0].Date.Equal(date(2024, 2, 29)) {
		t.Fatalf("expected single occurrence on 2024-02-29, got %+v", occ)
	}
}

func TestExpandYearlyClampsLeapStart(t *testing.T) {
	cost := RigidCost{ID: 7, Amount: dec("300"), Recurrence: RecurrenceYearly, StartDate: date(2024, 2, 29)}
	w := window(t, date(2024, 1, 1), date(2026, 12, 31))

	occ := collect(t, cost, w)
	expected := []time.Time{
		date(2024, 2, 29), date(2025, 2, 28), date(2026, 2, 28),
	}
	if len(occ) != len(expected) {
		t.Fatalf("expected %d occurrences, got %d: %+v", len(expected), len(occ), occ)
	}
	for i, want := range expected {
		if !occ[i].Date.Equal(want) {
			t.Fatalf("occurrence %d: expected %s, got %s", i, want.Format("2006-01-02"), occ[i].Date.Format("2006-01-02"))
		}
	}
}

func TestExpandIsRestartable(t *testing.T) {
	cost := RigidCost{ID: 8, Amount: dec("5"), Recurrence: RecurrenceWeekly, StartDate: date(2026, 1, 1)}
	w := window(t, date(2026, 1, 1), date(2026, 1, 31))

	seq, err := Expand(cost, w)
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	first, second := 0, 0
	for range seq {
		first++
	}
	for range seq {
		second++
	}
	if first == 0 || first != second {
		t.Fatalf("sequence not restartable: %d vs %d", first, second)
	}
}

func TestExpandRejectsInvertedCostRange(t *testing.T) {
	end := date(2025, 12, 1)
	cost := RigidCost{ID: 9, Amount: dec("5"), Recurrence: RecurrenceMonthly, StartDate: date(2026, 1, 1), EndDate: &end}
	w := window(t, date(2026, 1, 1), date(2026, 6, 30))

	if _, err := Expand(cost, w); !errors.Is(err, ErrInvalidRecurrenceRange) {
		t.Fatalf("expected ErrInvalidRecurrenceRange, got %v", err)
	}
}

func TestExpandRejectsUnknownRecurrence(t *testing.T) {
	cost := RigidCost{ID: 10, Amount: dec("5"), Recurrence: "DAILY", StartDate: date(2026, 1, 1)}
	w := window(t, date(2026, 1, 1), date(2026, 1, 31))

	if _, err := Expand(cost, w); !errors.Is(err, ErrUnknownRecurrence) {
		t.Fatalf("expected ErrUnknownRecurrence, got %v", err)
	}
}

func TestProjectEmptyCostsCoversEveryMonth(t *testing.T) {
	w := window(t, date(2026, 1, 15), date(2026, 4, 10))

	summary, err := Project(nil, w)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if summary.Count != 0 || !summary.Total.IsZero() {
		t.Fatalf("expected empty summary, got %+v", summary)
	}
	expected := []string{"2026-01", "2026-02", "2026-03", "2026-04"}
	if len(summary.ByMonth) != len(expected) {
		t.Fatalf("expected %d month buckets, got %d", len(expected), len(summary.ByMonth))
	}
	for i, month := range expected {
		bucket := summary.ByMonth[i]
		if bucket.Month != month || bucket.Count != 0 || !bucket.Total.IsZero() {
			t.Fatalf("bucket %d: expected empty %s, got %+v", i, month, bucket)
		}
	}
}

func TestProjectAggregatesByCategoryAndMonth(t *testing.T) {
	w := window(t, date(2026, 1, 1), date(2026, 3, 31))
	costs := []RigidCost{
		{ID: 1, Category: "infrastructure", Amount: dec("100"), Recurrence: RecurrenceMonthly, StartDate: date(2026, 1, 10)},
		{ID: 2, Category: "software", Amount: dec("25.50"), Recurrence: RecurrenceMonthly, StartDate: date(2025, 6, 5)},
		{ID: 3, Category: "software", Amount: dec("600"), Recurrence: RecurrenceOneTime, StartDate: date(2026, 2, 1)},
		{ID: 4, Category: "office", Amount: dec("40"), Recurrence: RecurrenceOneTime, StartDate: date(2025, 12, 31)},
	}

	summary, err := Project(costs, w)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	// 3 monthly from cost 1, 3 monthly from cost 2, 1 one-time; cost 4 is
	// outside the window.
	if summary.Count != 7 {
		t.Fatalf("expected 7 occurrences, got %d", summary.Count)
	}
	if !summary.Total.Equal(dec("976.50")) {
		t.Fatalf("expected total 976.50, got %s", summary.Total)
	}

	if len(summary.ByCategory) != 2 {
		t.Fatalf("expected 2 categories, got %+v", summary.ByCategory)
	}
	if summary.ByCategory[0].Category != "infrastructure" || !summary.ByCategory[0].Total.Equal(dec("300")) {
		t.Fatalf("unexpected infrastructure bucket: %+v", summary.ByCategory[0])
	}
	if summary.ByCategory[1].Category != "software" || !summary.ByCategory[1].Total.Equal(dec("676.50")) {
		t.Fatalf("unexpected software bucket: %+v", summary.ByCategory[1])
	}

	feb := summary.ByMonth[1]
	if feb.Month != "2026-02" || feb.Count != 3 || !feb.Total.Equal(dec("725.50")) {
		t.Fatalf("unexpected february bucket: %+v", feb)
	}
}

func TestProjectFailsEntirelyOnBadCost(t *testing.T) {
	w := window(t, date(2026, 1, 1), date(2026, 3, 31))
	end := date(2025, 1, 1)
	costs := []RigidCost{
		{ID: 1, Category: "ok", Amount: dec("10"), Recurrence: RecurrenceMonthly, StartDate: date(2026, 1, 1)},
		{ID: 2, Category: "bad", Amount: dec("10"), Recurrence: RecurrenceMonthly, StartDate: date(2026, 2, 1), EndDate: &end},
	}

	if _, err := Project(costs, w); !errors.Is(err, ErrInvalidRecurrenceRange) {
		t.Fatalf("expected ErrInvalidRecurrenceRange, got %v", err)
	}
}
