package domain

// Customer is one rental-agreement subject, keyed by LoginID.
type Customer struct {
	LoginID         string `json:"loginId" validate:"required"`
	Name            string `json:"name" validate:"required"`
	AccountPassword string `json:"accountPassword"`
	VehicleCategory string `json:"vehicleCategory"`
	PickupLocation  string `json:"pickupLocation"`

	TotalPrice         string `json:"totalPrice"`
	WeeklyPrice        string `json:"weeklyPrice"`
	OriginalTotalPrice string `json:"originalTotalPrice,omitempty"`

	PickupDate      string `json:"pickupDate"`
	ReturnDate      string `json:"returnDate"`
	PostRenewalDate string `json:"postRenewalDate,omitempty"`

	CardBrands   []string `json:"cardBrands"`
	CardSuffixes []string `json:"cardSuffixes"`

	ReferredBy      string   `json:"referredBy,omitempty" validate:"omitempty,nefield=LoginID"`
	Referrals       []string `json:"referrals,omitempty" validate:"unique"`
	CanRefer        bool     `json:"canRefer"`
	DiscountApplied bool     `json:"discountApplied"`
	DiscountAmount  string   `json:"discountAmount,omitempty"`

	Payments []PaymentSlot   `json:"payments" validate:"omitempty,len=4,unique=WeekNumber,dive"`
	Renewals []RenewalRecord `json:"renewals,omitempty"`

	Active         *bool  `json:"active,omitempty"`
	InactiveReason string `json:"inactiveReason,omitempty"`
	Notes          string `json:"notes,omitempty"`
}

// IsActive reports the lifecycle status; an unset flag means active.
func (c Customer) IsActive() bool {
	return c.Active == nil || *c.Active
}

// HasReferral reports whether loginID already appears in c.Referrals.
func (c Customer) HasReferral(loginID string) bool {
	for _, r := range c.Referrals {
		if r == loginID {
			return true
		}
	}
	return false
}

// Clone returns a deep copy so registry values never share slices.
func (c Customer) Clone() Customer {
	out := c
	out.CardBrands = cloneStrings(c.CardBrands)
	out.CardSuffixes = cloneStrings(c.CardSuffixes)
	out.Referrals = cloneStrings(c.Referrals)
	if c.Payments != nil {
		out.Payments = append([]PaymentSlot(nil), c.Payments...)
	}
	if c.Renewals != nil {
		out.Renewals = append([]RenewalRecord(nil), c.Renewals...)
	}
	if c.Active != nil {
		active := *c.Active
		out.Active = &active
	}
	return out
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// BoolPtr is a small helper for optional flags.
func BoolPtr(v bool) *bool {
	return &v
}
