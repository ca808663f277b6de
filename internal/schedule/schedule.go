// Package schedule builds and transitions the fixed four-slot weekly payment
// plan attached to every customer.
package schedule

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/utils"
)

// SlotUpdate carries the mutable fields of a payment slot.
type SlotUpdate struct {
	Status domain.PaymentStatus
	Amount string
	Date   string
	Note   string
}

// Summary counts slots by status.
type Summary struct {
	Paid      int
	Pending   int
	Unpaid    int
	PaidTotal decimal.Decimal
}

// NextFriday returns the first Friday strictly after a Friday t, or the next
// Friday on or after any other weekday. The pickup week is a grace week.
func NextFriday(t time.Time) time.Time {
	wd := t.Weekday()
	if wd == time.Friday {
		return t.AddDate(0, 0, 7)
	}
	days := (int(time.Friday) - int(wd) + 7) % 7
	return t.AddDate(0, 0, days)
}

// WeekOfMonth buckets a day-of-month into 1-4 (1-7, 8-14, 15-21, 22-31).
func WeekOfMonth(t time.Time) int {
	day := t.Day()
	switch {
	case day <= 7:
		return 1
	case day <= 14:
		return 2
	case day <= 21:
		return 3
	default:
		return 4
	}
}

// NextPaymentDate is the default due date for a slot saved without one.
func NextPaymentDate(now time.Time) string {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return utils.FormatDate(NextFriday(today))
}

// Initialize derives the initial plan from the pickup date and weekly rate.
// It never fails: an unparsable pickup date produces an unscheduled plan.
func Initialize(pickupDate, weeklyRate string) []domain.PaymentSlot {
	pickup, err := utils.ParseDate(pickupDate)
	if err != nil {
		return Unscheduled(weeklyRate, true)
	}

	amount := money.Format(money.Parse(weeklyRate))
	firstDue := NextFriday(pickup)
	firstWeek := WeekOfMonth(firstDue)

	slots := make([]domain.PaymentSlot, 0, domain.SlotsPerSchedule)
	for i := 0; i < domain.SlotsPerSchedule; i++ {
		slot := domain.PaymentSlot{
			WeekNumber: (firstWeek+i-1)%domain.SlotsPerSchedule + 1,
			Status:     domain.PaymentStatusUnpaid,
			Amount:     amount,
		}
		if i == 0 {
			slot.Status = domain.PaymentStatusPending
			slot.Date = utils.FormatDate(firstDue)
		}
		slots = append(slots, slot)
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].WeekNumber < slots[j].WeekNumber })
	return slots
}

// Unscheduled returns slots 1-4 without dates. When firstPending is set,
// week 1 starts as pending.
func Unscheduled(weeklyRate string, firstPending bool) []domain.PaymentSlot {
	amount := money.Format(money.Parse(weeklyRate))
	slots := make([]domain.PaymentSlot, domain.SlotsPerSchedule)
	for i := range slots {
		slots[i] = domain.PaymentSlot{
			WeekNumber: i + 1,
			Status:     domain.PaymentStatusUnpaid,
			Amount:     amount,
		}
	}
	if firstPending {
		slots[0].Status = domain.PaymentStatusPending
	}
	return slots
}

// UpdateSlot replaces the mutable fields of one slot. Paid slots are locked.
// The input slice is left untouched.
func UpdateSlot(schedule []domain.PaymentSlot, week int, upd SlotUpdate) ([]domain.PaymentSlot, error) {
	idx := indexOf(schedule, week)
	if idx < 0 {
		return schedule, fmt.Errorf("week %d: %w", week, domain.ErrNotFound)
	}
	if schedule[idx].Locked() {
		return schedule, fmt.Errorf("week %d is paid and locked: %w", week, domain.ErrInvalidTransition)
	}
	if !upd.Status.Valid() {
		return schedule, fmt.Errorf("%w: unknown payment status %q", domain.ErrValidation, upd.Status)
	}

	out := append([]domain.PaymentSlot(nil), schedule...)
	out[idx].Status = upd.Status
	out[idx].Amount = upd.Amount
	out[idx].Date = upd.Date
	out[idx].Note = upd.Note
	return out, nil
}

// NextPendingOrUnpaid returns the week that should receive editing focus:
// the lowest pending week, else the lowest unpaid week.
func NextPendingOrUnpaid(schedule []domain.PaymentSlot) (int, bool) {
	if week, ok := lowestWithStatus(schedule, domain.PaymentStatusPending); ok {
		return week, true
	}
	return lowestWithStatus(schedule, domain.PaymentStatusUnpaid)
}

// RecomputeAmounts overwrites the amount of every slot, paid ones included.
func RecomputeAmounts(schedule []domain.PaymentSlot, weeklyRate string) []domain.PaymentSlot {
	amount := money.Format(money.Parse(weeklyRate))
	out := append([]domain.PaymentSlot(nil), schedule...)
	for i := range out {
		out[i].Amount = amount
	}
	return out
}

// Summarize counts slots per status and totals what has been paid.
func Summarize(schedule []domain.PaymentSlot) Summary {
	s := Summary{PaidTotal: decimal.Zero}
	for _, slot := range schedule {
		switch slot.Status {
		case domain.PaymentStatusPaid:
			s.Paid++
			s.PaidTotal = s.PaidTotal.Add(money.Parse(slot.Amount))
		case domain.PaymentStatusPending:
			s.Pending++
		default:
			s.Unpaid++
		}
	}
	return s
}

func indexOf(schedule []domain.PaymentSlot, week int) int {
	for i, slot := range schedule {
		if slot.WeekNumber == week {
			return i
		}
	}
	return -1
}

func lowestWithStatus(schedule []domain.PaymentSlot, status domain.PaymentStatus) (int, bool) {
	week, found := 0, false
	for _, slot := range schedule {
		if slot.Status != status {
			continue
		}
		if !found || slot.WeekNumber < week {
			week, found = slot.WeekNumber, true
		}
	}
	return week, found
}
