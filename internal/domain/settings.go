package domain

// Settings holds the dashboard-wide preferences persisted next to the registry.
type Settings struct {
	PixKey      string `json:"pixKey"`
	PaymentDay  string `json:"paymentDay" validate:"required"`
	CompanyName string `json:"companyName" validate:"required"`

	// Currency is the layout every stored amount was written in. It is set
	// once per data set and never follows later config changes.
	Currency *CurrencyLayout `json:"currency,omitempty"`
}

// CurrencyLayout is the symbol and separators of stored amount strings.
type CurrencyLayout struct {
	Symbol    string `json:"symbol"`
	Decimal   string `json:"decimal"`
	Thousands string `json:"thousands"`
}

// DefaultSettings mirrors the values a fresh installation starts with.
func DefaultSettings() Settings {
	return Settings{
		PaymentDay:  "Sexta-feira",
		CompanyName: "Minha Empresa",
	}
}
