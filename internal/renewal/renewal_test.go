package renewal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk-backend/internal/domain"
)

func TestRecord_TwoRenewals(t *testing.T) {
	c := domain.Customer{LoginID: "111", Name: "Ana", ReturnDate: "01/03/2025", CardBrands: []string{"Visa"}, CardSuffixes: []string{"V1234"}}
	first := time.Date(2025, 2, 25, 9, 30, 0, 0, time.UTC)
	second := time.Date(2025, 3, 28, 17, 5, 0, 0, time.UTC)

	c1, err := Record(c, "01/04/2025", "Visa", "V1234", first)
	require.NoError(t, err)
	c2, err := Record(c1, "01/05/2025", "Mastercard", "M9876", second)
	require.NoError(t, err)

	require.Len(t, c2.Renewals, 2)
	assert.Equal(t, domain.RenewalRecord{
		PreviousReturnDate: "01/03/2025",
		NewReturnDate:      "01/04/2025",
		RenewalTimestamp:   "25/02/2025 09:30",
		CardBrand:          "Visa",
		CardSuffix:         "V1234",
	}, c2.Renewals[0])
	assert.Equal(t, "01/04/2025", c2.Renewals[1].PreviousReturnDate)
	assert.Equal(t, "28/03/2025 17:05", c2.Renewals[1].RenewalTimestamp)

	assert.Equal(t, "01/05/2025", c2.ReturnDate)
	assert.Equal(t, "01/04/2025", c2.PostRenewalDate)
	assert.Equal(t, []string{"Visa", "Mastercard"}, c2.CardBrands)
	assert.Equal(t, []string{"V1234", "M9876"}, c2.CardSuffixes)

	// history of the earlier value is untouched
	assert.Len(t, c1.Renewals, 1)
	assert.Empty(t, c.Renewals)
}

func TestRecord_InvalidDate(t *testing.T) {
	c := domain.Customer{LoginID: "111", Name: "Ana", ReturnDate: "01/03/2025"}
	out, err := Record(c, "next month", "", "", time.Now())
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, c, out)
}

func TestValidateCardSuffix(t *testing.T) {
	tests := []struct {
		brand  string
		suffix string
		valid  bool
	}{
		{"Visa", "V1234", true},
		{"Visa", "1234", false},
		{"Mastercard", "M0001", true},
		{"Mastercard", "V0001", false},
		{"Amex", "AX123", true},
		{"Amex", "AX1234", false},
		{"Elo", "E5555", true},
		{"Elo", "e5555", true},
		{"Hipercard", "E5555", false},
		{"Élo", "É1234", true},
		{"Élo", "é1234", true},
		{"Élo", "E1234", false},
		{"Élo", "É123", false},
		{"", "V1234", false},
	}
	for _, tt := range tests {
		t.Run(tt.brand+"/"+tt.suffix, func(t *testing.T) {
			err := ValidateCardSuffix(tt.brand, tt.suffix)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrValidation)
			}
		})
	}
}

func TestUrgency(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		date  string
		level Level
		days  int
	}{
		{"28/02/2025", LevelCritical, -1},
		{"04/03/2025", LevelCritical, 3},
		{"08/03/2025", LevelWarning, 7},
		{"15/03/2025", LevelUpcoming, 14},
		{"16/03/2025", LevelNormal, 15},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			level, days := Urgency(tt.date, now)
			assert.Equal(t, tt.level, level)
			assert.Equal(t, tt.days, days)
		})
	}

	level, _ := Urgency("", now)
	assert.Equal(t, LevelUnknown, level)
}
