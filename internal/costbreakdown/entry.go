package costbreakdown

import (
	"strings"
	"time"

	"powerview/internal/model"
)

// Entry is one tariff line of a cost breakdown: an amount added to every value
// whose span lies inside [FromDate, ToDate] and whose local start hour lies in
// [StartHour, EndHour].
type Entry struct {
	FromDate  time.Time `json:"from_date"`
	ToDate    time.Time `json:"to_date"`
	Name      string    `json:"name"`
	StartHour int       `json:"start_hour"`
	EndHour   int       `json:"end_hour"`
	Amount    float64   `json:"amount"`
}

func NewEntry(fromDate, toDate time.Time, name string, startHour, endHour int, amount float64) (Entry, error) {
	e := Entry{
		FromDate:  fromDate,
		ToDate:    toDate,
		Name:      name,
		StartHour: startHour,
		EndHour:   endHour,
		Amount:    amount,
	}
	if err := e.Validate(); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (e Entry) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return model.NewError(model.InvalidArgument, "entry name is required")
	}
	if err := model.RequireUTC("entry from date", e.FromDate); err != nil {
		return err
	}
	if err := model.RequireUTC("entry to date", e.ToDate); err != nil {
		return err
	}
	if !e.ToDate.After(e.FromDate) {
		return model.NewError(model.OutOfRange, "entry %q: to date must be after from date", e.Name)
	}
	if e.StartHour < 0 || e.StartHour > 22 {
		return model.NewError(model.OutOfRange, "entry %q: start hour must be in [0, 22]", e.Name)
	}
	if e.EndHour < 1 || e.EndHour > 23 {
		return model.NewError(model.OutOfRange, "entry %q: end hour must be in [1, 23]", e.Name)
	}
	if e.EndHour <= e.StartHour {
		return model.NewError(model.OutOfRange, "entry %q: end hour must be after start hour", e.Name)
	}
	return nil
}

// AppliesToDates reports whether [from, to] lies within the entry's date range.
func (e Entry) AppliesToDates(from, to time.Time) bool {
	return !from.Before(e.FromDate) && !to.After(e.ToDate)
}

// AppliesToTime reports whether the hour of the local time is within the entry's hours.
func (e Entry) AppliesToTime(local time.Time) bool {
	h := local.Hour()
	return e.StartHour <= h && h <= e.EndHour
}
