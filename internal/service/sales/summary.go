package sales

import (
	"time"

	"github.com/Mimoh123/saleTracker/internal/domain/models"
)

// Period selects the date window a summary covers.
type Period string

const (
	PeriodToday     Period = "today"
	PeriodYesterday Period = "yesterday"
	PeriodLastWeek  Period = "lastWeek"
	PeriodThisMonth Period = "thisMonth"
	PeriodLastMonth Period = "lastMonth"
)

// PaymentFilterAll matches every payment type.
const PaymentFilterAll = "all"

// Summary holds the filtered subset of entries together with the running
// total over their amounts.
type Summary struct {
	Entries []models.SaleEntry `json:"entries"`
	Count   int                `json:"count"`
	Total   float64            `json:"total"`
}

// Summarize filters entries by the period's date window and an optional
// payment type, and sums the remaining amounts. It is a pure function of its
// arguments; "now" anchors the window so callers and tests control the clock.
// Entries whose date does not parse are excluded. An unknown period falls
// back to today, an unknown payment filter matches everything.
func Summarize(entries []models.SaleEntry, period Period, paymentFilter string, now time.Time) Summary {
	start, end := periodRange(period, now)

	payment := models.PaymentType(paymentFilter)
	filterByPayment := false
	switch payment {
	case models.PaymentCash, models.PaymentQR, models.PaymentLoan:
		filterByPayment = true
	}

	out := Summary{Entries: make([]models.SaleEntry, 0, len(entries))}
	for _, e := range entries {
		day, err := time.ParseInLocation(dateLayout, e.Date, now.Location())
		if err != nil {
			continue
		}
		if day.Before(start) || day.After(end) {
			continue
		}
		if filterByPayment && e.PaymentType != payment {
			continue
		}
		out.Entries = append(out.Entries, e)
		out.Count++
		out.Total += e.Amount
	}
	return out
}

// periodRange returns the inclusive day-granularity window for a period,
// anchored at now's calendar day.
func periodRange(period Period, now time.Time) (start, end time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch period {
	case PeriodYesterday:
		y := today.AddDate(0, 0, -1)
		return y, y
	case PeriodLastWeek:
		return today.AddDate(0, 0, -7), today
	case PeriodThisMonth:
		return time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()), today
	case PeriodLastMonth:
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return firstOfThis.AddDate(0, -1, 0), firstOfThis.AddDate(0, 0, -1)
	default: // PeriodToday
		return today, today
	}
}
