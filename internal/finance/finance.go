// Package finance aggregates received payments, discounts and expected
// revenue across the registry.
package finance

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/utils"
)

var monthNames = [...]string{
	"Janeiro", "Fevereiro", "Março", "Abril", "Maio", "Junho",
	"Julho", "Agosto", "Setembro", "Outubro", "Novembro", "Dezembro",
}

type WeekTotal struct {
	Week  int
	Total decimal.Decimal
}

type MonthTotal struct {
	Year  int
	Month int
	Name  string
	Total decimal.Decimal
}

type Referred struct {
	LoginID string
	Name    string
}

// ReferrerSummary lists a customer allowed to refer and who they brought in.
type ReferrerSummary struct {
	LoginID         string
	Name            string
	Referred        []Referred
	DiscountApplied bool
	DiscountAmount  string
}

// PaymentState is the overall progress of one customer's schedule.
type PaymentState string

const (
	StatePaid       PaymentState = "pago"
	StateInProgress PaymentState = "pendente"
	StateNotPaid    PaymentState = "nao_pago"
)

type CustomerStatus struct {
	LoginID string
	Name    string
	State   PaymentState
	Label   string
}

type Summary struct {
	Week      int
	Received  decimal.Decimal
	Discounts decimal.Decimal
	Net       decimal.Decimal

	Weeks        []WeekTotal
	WeeklyTotal  decimal.Decimal
	Months       []MonthTotal
	MonthlyTotal decimal.Decimal

	Referrers  []ReferrerSummary
	Statuses   []CustomerStatus
	Discounted []domain.Customer
}

// Summarize computes the dashboard figures for the selected week (1-4).
func Summarize(customers []domain.Customer, week int) (Summary, error) {
	if week < 1 || week > domain.SlotsPerSchedule {
		return Summary{}, fmt.Errorf("%w: week must be between 1 and %d", domain.ErrValidation, domain.SlotsPerSchedule)
	}

	s := Summary{
		Week:         week,
		Received:     decimal.Zero,
		Discounts:    decimal.Zero,
		WeeklyTotal:  decimal.Zero,
		MonthlyTotal: decimal.Zero,
	}

	months := make(map[[2]int]decimal.Decimal)
	for _, c := range customers {
		for _, p := range c.Payments {
			if p.Status == domain.PaymentStatusPaid && p.WeekNumber == week {
				s.Received = s.Received.Add(money.Parse(p.Amount))
			}
		}
		if c.DiscountApplied && c.DiscountAmount != "" {
			s.Discounts = s.Discounts.Add(money.Parse(c.DiscountAmount))
			s.Discounted = append(s.Discounted, c.Clone())
		}

		s.WeeklyTotal = s.WeeklyTotal.Add(money.Parse(c.WeeklyPrice))

		if pickup, err := utils.ParseDate(c.PickupDate); err == nil {
			key := [2]int{pickup.Year(), int(pickup.Month())}
			if _, ok := months[key]; !ok {
				months[key] = decimal.Zero
			}
			months[key] = months[key].Add(money.Parse(c.TotalPrice))
		}

		s.Statuses = append(s.Statuses, StatusOf(c))
	}
	s.Net = s.Received.Sub(s.Discounts)

	for w := 1; w <= domain.SlotsPerSchedule; w++ {
		s.Weeks = append(s.Weeks, WeekTotal{Week: w, Total: s.WeeklyTotal})
	}

	for key, total := range months {
		s.Months = append(s.Months, MonthTotal{Year: key[0], Month: key[1], Name: monthNames[key[1]-1], Total: total})
		s.MonthlyTotal = s.MonthlyTotal.Add(total)
	}
	sort.Slice(s.Months, func(i, j int) bool {
		if s.Months[i].Year != s.Months[j].Year {
			return s.Months[i].Year < s.Months[j].Year
		}
		return s.Months[i].Month < s.Months[j].Month
	})

	s.Referrers = referrers(customers)
	return s, nil
}

// StatusOf classifies a customer's payment progress.
func StatusOf(c domain.Customer) CustomerStatus {
	st := CustomerStatus{LoginID: c.LoginID, Name: c.Name}
	if len(c.Payments) == 0 {
		st.State, st.Label = StateNotPaid, "Não iniciado"
		return st
	}

	paid, pending := 0, 0
	for _, p := range c.Payments {
		switch p.Status {
		case domain.PaymentStatusPaid:
			paid++
		case domain.PaymentStatusPending:
			pending++
		}
	}
	switch {
	case paid == len(c.Payments):
		st.State, st.Label = StatePaid, "Pago"
	case pending > 0:
		st.State = StateInProgress
		st.Label = fmt.Sprintf("%d/%d pagas", paid, len(c.Payments))
	default:
		st.State = StateNotPaid
		st.Label = fmt.Sprintf("%d/%d pagas", paid, len(c.Payments))
	}
	return st
}

func referrers(customers []domain.Customer) []ReferrerSummary {
	var out []ReferrerSummary
	pos := make(map[string]int)
	for _, c := range customers {
		if !c.CanRefer {
			continue
		}
		if _, ok := pos[c.LoginID]; ok {
			continue
		}
		amount := c.DiscountAmount
		if amount == "" {
			amount = money.Format(decimal.Zero)
		}
		pos[c.LoginID] = len(out)
		out = append(out, ReferrerSummary{
			LoginID:         c.LoginID,
			Name:            c.Name,
			DiscountApplied: c.DiscountApplied,
			DiscountAmount:  amount,
		})
	}

	for _, c := range customers {
		i, ok := pos[c.ReferredBy]
		if c.ReferredBy == "" || !ok {
			continue
		}
		dup := false
		for _, r := range out[i].Referred {
			if r.LoginID == c.LoginID {
				dup = true
				break
			}
		}
		if !dup {
			out[i].Referred = append(out[i].Referred, Referred{LoginID: c.LoginID, Name: c.Name})
		}
	}
	return out
}
