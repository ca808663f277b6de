// Package textblock reads and writes the human-readable "KEY: value" customer
// blocks exchanged over chat. Blocks are separated by a line of three or more
// dashes. The format is lossy: payment history and renewal history are not
// carried, and a parsed customer gets a fresh schedule.
package textblock

import (
	"bufio"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/money"
	"fleetdesk-backend/internal/schedule"
	"fleetdesk-backend/internal/utils"
)

const (
	KeyName            = "NOME:"
	KeyLogin           = "LOGIN CPF:"
	KeyPassword        = "SENHA:"
	KeyTotal           = "VALOR COBRADO TOTAL:"
	KeyWeekly          = "VALOR COBRADO SEMANAL:"
	KeyCategory        = "CATEGORIA CARRO:"
	KeyPickupLocation  = "LOCAL RETIRADA:"
	KeyPickupDate      = "DATA RETIRADA:"
	KeyReturnDate      = "DATA DEVOLUÇÃO:"
	KeyPostRenewalDate = "DATA APOS RENOVAÇÃO:"
	KeyCardBrands      = "CARTÕES USADO BANDEIRA:"
	KeyCardSuffixes    = "FINAL CARTOES USADO NÚMERO:"
	KeyReferredBy      = "INDICADO POR:"
	KeyReferrals       = "INDICAÇÕES:"
	KeyDiscount        = "DESCONTO DE INDICAÇÃO:"
	KeyOriginalTotal   = "VALOR ORIGINAL:"
	KeyStatus          = "STATUS:"
	KeyInactiveReason  = "MOTIVO DE DESATIVAÇÃO:"
	KeyNotes           = "OBSERVAÇÕES:"

	separator      = "---------------------------------------------------"
	emptyValue     = "----"
	statusActive   = "ATIVO"
	statusInactive = "INATIVO"
	noReason       = "Não informado"
)

// longer keys first so that no key is shadowed by a shorter prefix
var keys = []string{
	KeyCardSuffixes, KeyCardBrands, KeyPostRenewalDate, KeyWeekly, KeyTotal,
	KeyInactiveReason, KeyDiscount, KeyOriginalTotal, KeyCategory,
	KeyPickupLocation, KeyPickupDate, KeyReturnDate, KeyReferredBy,
	KeyReferrals, KeyLogin, KeyPassword, KeyStatus, KeyName, KeyNotes,
}

var separatorLine = regexp.MustCompile(`^\s*-{3,}\s*$`)

// Parse reads every block in text. Blocks without any known key (headers,
// warnings) are ignored. A block missing NOME or LOGIN CPF fails the whole
// parse with ErrValidation.
func Parse(text string) ([]domain.Customer, error) {
	var customers []domain.Customer
	for i, section := range splitSections(text) {
		fields, notes, found := scanSection(section)
		if !found {
			continue
		}
		c, err := buildCustomer(fields, notes)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i+1, err)
		}
		customers = append(customers, c)
	}
	if len(customers) == 0 {
		return nil, fmt.Errorf("%w: no customer block found", domain.ErrValidation)
	}
	return customers, nil
}

func splitSections(text string) [][]string {
	var sections [][]string
	var current []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if separatorLine.MatchString(line) {
			sections = append(sections, current)
			current = nil
			continue
		}
		current = append(current, line)
	}
	return append(sections, current)
}

func scanSection(lines []string) (map[string]string, string, bool) {
	fields := make(map[string]string)
	var notes []string
	inNotes := false
	found := false

	for _, line := range lines {
		if inNotes {
			notes = append(notes, line)
			continue
		}
		trimmed := strings.TrimSpace(line)
		upper := strings.ToUpper(trimmed)
		for _, key := range keys {
			if !strings.HasPrefix(upper, key) {
				continue
			}
			found = true
			value := strings.TrimSpace(trimmed[len(key):])
			if key == KeyNotes {
				inNotes = true
				if value != "" {
					notes = append(notes, value)
				}
				break
			}
			if _, seen := fields[key]; !seen {
				fields[key] = value
			}
			break
		}
	}
	return fields, strings.TrimSpace(strings.Join(notes, "\n")), found
}

func buildCustomer(fields map[string]string, notes string) (domain.Customer, error) {
	get := func(key string) string {
		v := fields[key]
		if v == emptyValue {
			return ""
		}
		return v
	}

	c := domain.Customer{
		Name:            get(KeyName),
		LoginID:         get(KeyLogin),
		AccountPassword: get(KeyPassword),
		VehicleCategory: get(KeyCategory),
		PickupLocation:  get(KeyPickupLocation),
		PickupDate:      get(KeyPickupDate),
		ReturnDate:      get(KeyReturnDate),
		PostRenewalDate: get(KeyPostRenewalDate),
		CardBrands:      splitList(get(KeyCardBrands)),
		CardSuffixes:    splitList(get(KeyCardSuffixes)),
		ReferredBy:      get(KeyReferredBy),
		Referrals:       splitList(get(KeyReferrals)),
		Notes:           notes,
	}
	if c.Name == "" || c.LoginID == "" {
		return domain.Customer{}, fmt.Errorf("%w: NOME and LOGIN CPF are required", domain.ErrValidation)
	}

	c.TotalPrice = amountOrZero(get(KeyTotal))
	c.WeeklyPrice = amountOrZero(get(KeyWeekly))
	if d := get(KeyDiscount); d != "" {
		c.DiscountApplied = true
		c.DiscountAmount = money.Format(money.Parse(firstAmount(d)))
		c.OriginalTotalPrice = amountOrZero(get(KeyOriginalTotal))
	}

	if strings.EqualFold(get(KeyStatus), statusInactive) {
		c.Active = domain.BoolPtr(false)
		c.InactiveReason = get(KeyInactiveReason)
		if c.InactiveReason == "" {
			c.InactiveReason = noReason
		}
	}

	c.Payments = schedule.Initialize(c.PickupDate, c.WeeklyPrice)
	return c, nil
}

// firstAmount drops trailing commentary after a run of spaces, as in
// "R$ 2.500,00    R$ 500,00 DESCONTOS".
func firstAmount(v string) string {
	head, _, _ := strings.Cut(v, "  ")
	return strings.TrimSpace(head)
}

func amountOrZero(v string) string {
	if v == "" {
		return money.Format(money.Parse(""))
	}
	return money.Format(money.Parse(firstAmount(v)))
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Format renders the export summary: a header with urgent renewals, then one
// block per customer ordered by nearest return date. The output parses back
// with Parse.
func Format(customers []domain.Customer, now time.Time) string {
	sorted := append([]domain.Customer(nil), customers...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return daysKey(sorted[i], now) < daysKey(sorted[j], now)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "RESUMO DE CADASTROS - GERADO EM %s\n", utils.FormatDate(now))

	var urgent []string
	for _, c := range sorted {
		if days, ok := utils.DaysUntil(c.ReturnDate, now); ok && days <= 7 {
			urgent = append(urgent, fmt.Sprintf("- %s (%d dia(s) restante(s)) - Devolução: %s", c.Name, days, c.ReturnDate))
		}
	}
	if len(urgent) > 0 {
		b.WriteString("\n⚠️ ATENÇÃO: RENOVAÇÕES URGENTES ⚠️\n")
		b.WriteString(strings.Join(urgent, "\n"))
		b.WriteString("\n")
	}

	for _, c := range sorted {
		b.WriteString("\n" + separator + "\n\n")
		writeCustomer(&b, c, now)
	}
	return b.String()
}

func writeCustomer(b *strings.Builder, c domain.Customer, now time.Time) {
	line := func(key, value string) {
		b.WriteString(key)
		if value != "" {
			b.WriteString(" ")
			b.WriteString(value)
		}
		b.WriteString("\n")
	}

	if days, ok := utils.DaysUntil(c.ReturnDate, now); ok && days <= 14 {
		fmt.Fprintf(b, "⚠️ ATENÇÃO: RENOVAÇÃO EM %d DIA(S) ⚠️\n", days)
	}
	line("CLIENTE HÁ:", timeWithUs(c.PickupDate, now))

	summary := schedule.Summarize(c.Payments)
	if summary.Paid > 0 {
		line("PAGAMENTO:", fmt.Sprintf("%d SEMANA(S) PAGA(S) - TOTAL %s", summary.Paid, money.Format(summary.PaidTotal)))
	} else {
		line("PAGAMENTO:", "NENHUMA SEMANA PAGA AINDA")
	}

	line(KeyTotal, c.TotalPrice)
	line(KeyWeekly, c.WeeklyPrice)
	if c.DiscountApplied {
		line(KeyDiscount, c.DiscountAmount)
		line(KeyOriginalTotal, c.OriginalTotalPrice)
	}
	line(KeyName, c.Name)
	line(KeyLogin, c.LoginID)
	line(KeyPassword, c.AccountPassword)
	line(KeyCategory, c.VehicleCategory)
	line(KeyPickupLocation, c.PickupLocation)
	line(KeyPickupDate, c.PickupDate)
	line(KeyReturnDate, c.ReturnDate)
	if c.PostRenewalDate != "" {
		line(KeyPostRenewalDate, c.PostRenewalDate)
	}
	line(KeyCardBrands, strings.Join(c.CardBrands, ", "))
	line(KeyCardSuffixes, strings.Join(c.CardSuffixes, ", "))
	if c.ReferredBy != "" {
		line(KeyReferredBy, c.ReferredBy)
	}
	if len(c.Referrals) > 0 {
		line(KeyReferrals, strings.Join(c.Referrals, ", "))
	}
	if c.IsActive() {
		line(KeyStatus, statusActive)
	} else {
		line(KeyStatus, statusInactive)
		reason := c.InactiveReason
		if reason == "" {
			reason = noReason
		}
		line(KeyInactiveReason, reason)
	}
	if c.Notes != "" {
		b.WriteString("\n" + KeyNotes + "\n" + c.Notes + "\n")
	}
}

func daysKey(c domain.Customer, now time.Time) int {
	if days, ok := utils.DaysUntil(c.ReturnDate, now); ok {
		return days
	}
	return int(^uint(0) >> 1)
}

func timeWithUs(pickupDate string, now time.Time) string {
	if strings.TrimSpace(pickupDate) == "" {
		return "Não disponível"
	}
	days, ok := utils.DaysUntil(pickupDate, now)
	if !ok {
		return "Formato de data inválido"
	}
	elapsed := -days
	if elapsed < 0 {
		return "Data futura"
	}
	if months := elapsed / 30; months > 0 {
		return fmt.Sprintf("%d mês(es) e %d dia(s)", months, elapsed%30)
	}
	return fmt.Sprintf("%d dia(s)", elapsed)
}

// RenewalNotice renders the message sent to the operator after a renewal.
func RenewalNotice(c domain.Customer) string {
	return strings.Join([]string{
		"RENOVAÇÃO",
		"NOME: " + c.Name,
		"LOGIN CPF: " + c.LoginID,
		"SENHA: " + c.AccountPassword,
		"DIA: " + shortDate(c.ReturnDate),
	}, "\n")
}

// shortDate turns "22/03/2025 10:30" into "22/03 10:30".
func shortDate(value string) string {
	datePart, clock, _ := strings.Cut(strings.TrimSpace(value), " ")
	parts := strings.Split(datePart, "/")
	if len(parts) != 3 {
		return value
	}
	out := parts[0] + "/" + parts[1]
	if clock = strings.TrimSpace(clock); clock != "" {
		out += " " + clock
	}
	return out
}
