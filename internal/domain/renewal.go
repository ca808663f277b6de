package domain

// RenewalRecord is an append-only entry describing one return-date extension.
type RenewalRecord struct {
	PreviousReturnDate string `json:"previousReturnDate"`
	NewReturnDate      string `json:"newReturnDate"`
	RenewalTimestamp   string `json:"renewalTimestamp"`
	CardBrand          string `json:"cardBrand,omitempty"`
	CardSuffix         string `json:"cardSuffix,omitempty"`
}
