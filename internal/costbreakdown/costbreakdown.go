// Package costbreakdown prices duration series with date and hour dependent tariffs.
package costbreakdown

import (
	"sort"
	"strings"
	"time"

	"powerview/internal/model"

	"github.com/shopspring/decimal"
)

// CostBreakdown is a named set of tariff entries in one currency, with VAT in percent.
type CostBreakdown struct {
	Title    string     `json:"title"`
	Currency model.Unit `json:"currency"`
	Vat      int        `json:"vat"`
	Entries  []Entry    `json:"entries"`
}

func New(title string, currency model.Unit, vat int, entries []Entry) (*CostBreakdown, error) {
	cb := &CostBreakdown{Title: title, Currency: currency, Vat: vat, Entries: entries}
	if err := cb.Validate(); err != nil {
		return nil, err
	}
	return cb, nil
}

func (cb *CostBreakdown) Validate() error {
	if cb == nil {
		return model.NewError(model.InvalidArgument, "cost breakdown is nil")
	}
	if strings.TrimSpace(cb.Title) == "" {
		return model.NewError(model.InvalidArgument, "cost breakdown title is required")
	}
	if !cb.Currency.IsCurrency() {
		return model.NewError(model.OutOfRange, "cost breakdown %q: currency must be EUR or DKK, got %s", cb.Title, cb.Currency)
	}
	if cb.Vat < 0 || cb.Vat > 100 {
		return model.NewError(model.OutOfRange, "cost breakdown %q: vat must be in [0, 100]", cb.Title)
	}
	for _, e := range cb.Entries {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Period is a closed date range produced by EntriesByPeriods.
type Period struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// PeriodEntries pairs a period with the entries in effect during it.
type PeriodEntries struct {
	Period  Period  `json:"period"`
	Entries []Entry `json:"entries"`
}

// EntriesByPeriods splits the entries' date ranges into consecutive periods that
// each have a constant set of entries. A period ending on a from date is followed
// directly by the next; a period ending on a to date includes that day, so the
// next period starts one day later. Periods without entries are kept.
func (cb *CostBreakdown) EntriesByPeriods() []PeriodEntries {
	if len(cb.Entries) == 0 {
		return []PeriodEntries{}
	}
	froms := distinctSorted(cb.Entries, func(e Entry) time.Time { return e.FromDate })
	tos := distinctSorted(cb.Entries, func(e Entry) time.Time { return e.ToDate })
	last := tos[len(tos)-1]

	var out []PeriodEntries
	for start := froms[0]; start.Before(last); {
		nextTo, ok := firstAfter(tos, start)
		if !ok {
			break
		}
		end, nextStart := nextTo, nextTo.AddDate(0, 0, 1)
		if nextFrom, ok := firstAfter(froms, start); ok && nextFrom.Before(nextTo) {
			end, nextStart = nextFrom, nextFrom
		}
		out = append(out, PeriodEntries{
			Period:  Period{From: start, To: end},
			Entries: cb.entriesOverlapping(start, end),
		})
		start = nextStart
	}
	return out
}

func (cb *CostBreakdown) entriesOverlapping(from, to time.Time) []Entry {
	out := []Entry{}
	for _, e := range cb.Entries {
		startsBeforeEndsInside := e.FromDate.Before(from) && e.ToDate.After(from) && !e.ToDate.After(to)
		contains := !e.FromDate.After(from) && !e.ToDate.Before(to)
		startsInsideEndsAfter := !e.FromDate.Before(from) && e.FromDate.Before(to) && !e.ToDate.Before(to)
		if startsBeforeEndsInside || contains || startsInsideEndsAfter {
			out = append(out, e)
		}
	}
	return out
}

func distinctSorted(entries []Entry, key func(Entry) time.Time) []time.Time {
	out := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		k := key(e)
		dup := false
		for _, t := range out {
			if t.Equal(k) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, k)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func firstAfter(ts []time.Time, after time.Time) (time.Time, bool) {
	for _, t := range ts {
		if t.After(after) {
			return t, true
		}
	}
	return time.Time{}, false
}

// Applied is a priced value and the entries that contributed to it. An empty
// Entries slice means no entry applied to the value.
type Applied struct {
	Value   model.NormalizedDurationValue `json:"value"`
	Entries []Entry                       `json:"entries"`
}

// Apply adds the amounts of every entry matching each value's normalized span and
// local start hour, then adds VAT. Values must already be in the breakdown's currency.
func (cb *CostBreakdown) Apply(loc *time.Location, values []model.NormalizedDurationValue) ([]Applied, error) {
	if loc == nil {
		return nil, model.NewError(model.InvalidArgument, "location is required")
	}
	vatFactor := decimal.NewFromInt(int64(100 + cb.Vat)).Div(decimal.NewFromInt(100))

	out := make([]Applied, 0, len(values))
	for _, v := range values {
		if v.Value.Unit != cb.Currency {
			return nil, model.NewError(model.DataMisalignment, "cost breakdown %q: value unit %s does not match currency %s", cb.Title, v.Value.Unit, cb.Currency)
		}
		localStart := v.NormalizedStart.In(loc)
		matched := []Entry{}
		sum := decimal.NewFromFloat(v.Value.Value)
		for _, e := range cb.Entries {
			if e.AppliesToDates(v.NormalizedStart, v.NormalizedEnd) && e.AppliesToTime(localStart) {
				matched = append(matched, e)
				sum = sum.Add(decimal.NewFromFloat(e.Amount))
			}
		}
		amount := model.UnitValue{Value: sum.Mul(vatFactor).InexactFloat64(), Unit: cb.Currency}
		out = append(out, Applied{Value: v.WithValue(amount, cb.Title), Entries: matched})
	}
	return out, nil
}
