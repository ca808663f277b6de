// Package renewal records return-date extensions and classifies how close a
// customer is to their return date.
package renewal

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"fleetdesk-backend/internal/domain"
	"fleetdesk-backend/internal/utils"
)

// Level is the urgency bucket of an upcoming return date.
type Level string

const (
	LevelCritical Level = "critical"
	LevelWarning  Level = "warning"
	LevelUpcoming Level = "upcoming"
	LevelNormal   Level = "normal"
	LevelUnknown  Level = "unknown"
)

var (
	visaSuffix       = regexp.MustCompile(`^V\d{4}$`)
	mastercardSuffix = regexp.MustCompile(`^M\d{4}$`)
	amexSuffix       = regexp.MustCompile(`^AX\d{3}$`)
	fourDigits       = regexp.MustCompile(`^\d{4}$`)
)

// Record extends c's return date to newReturnDate. The previous return date
// moves to PostRenewalDate and a history entry is appended. The card used is
// added to the card lists when not already present.
func Record(c domain.Customer, newReturnDate, cardBrand, cardSuffix string, now time.Time) (domain.Customer, error) {
	newReturnDate = strings.TrimSpace(newReturnDate)
	if _, err := utils.ParseDate(newReturnDate); err != nil {
		return c, fmt.Errorf("%w: new return date: %v", domain.ErrValidation, err)
	}

	out := c.Clone()
	out.Renewals = append(out.Renewals, domain.RenewalRecord{
		PreviousReturnDate: c.ReturnDate,
		NewReturnDate:      newReturnDate,
		RenewalTimestamp:   utils.FormatDateTime(now),
		CardBrand:          cardBrand,
		CardSuffix:         cardSuffix,
	})
	out.PostRenewalDate = c.ReturnDate
	out.ReturnDate = newReturnDate

	if cardBrand != "" && !contains(out.CardBrands, cardBrand) {
		out.CardBrands = append(out.CardBrands, cardBrand)
	}
	if cardSuffix != "" && !contains(out.CardSuffixes, cardSuffix) {
		out.CardSuffixes = append(out.CardSuffixes, cardSuffix)
	}
	return out, nil
}

// ValidateCardSuffix checks the brand-prefixed suffix convention:
// Visa V1234, Mastercard M1234, Amex AX123, anything else its first letter
// followed by four digits.
func ValidateCardSuffix(brand, suffix string) error {
	brand = strings.TrimSpace(brand)
	suffix = strings.ToUpper(strings.TrimSpace(suffix))
	if brand == "" || suffix == "" {
		return fmt.Errorf("%w: card brand and suffix are required", domain.ErrValidation)
	}

	var ok bool
	switch strings.ToLower(brand) {
	case "visa":
		ok = visaSuffix.MatchString(suffix)
	case "mastercard":
		ok = mastercardSuffix.MatchString(suffix)
	case "amex", "american express":
		ok = amexSuffix.MatchString(suffix)
	default:
		r, _ := utf8.DecodeRuneInString(brand)
		prefix := strings.ToUpper(string(r))
		ok = strings.HasPrefix(suffix, prefix) && fourDigits.MatchString(suffix[len(prefix):])
	}
	if !ok {
		return fmt.Errorf("%w: suffix %q does not match brand %s", domain.ErrValidation, suffix, brand)
	}
	return nil
}

// Urgency buckets the days left until returnDate.
func Urgency(returnDate string, now time.Time) (Level, int) {
	days, ok := utils.DaysUntil(returnDate, now)
	if !ok {
		return LevelUnknown, 0
	}
	switch {
	case days <= 3:
		return LevelCritical, days
	case days <= 7:
		return LevelWarning, days
	case days <= 14:
		return LevelUpcoming, days
	default:
		return LevelNormal, days
	}
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
