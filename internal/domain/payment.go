package domain

type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "pago"
	PaymentStatusPending PaymentStatus = "pendente"
	PaymentStatusUnpaid  PaymentStatus = "nao_pago"
)

// Valid reports whether s is one of the known statuses.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPaid, PaymentStatusPending, PaymentStatusUnpaid:
		return true
	}
	return false
}

// SlotsPerSchedule is the fixed size of every weekly schedule.
const SlotsPerSchedule = 4

// PaymentSlot is one weekly installment. A paid slot is locked.
type PaymentSlot struct {
	WeekNumber int           `json:"weekNumber" validate:"min=1,max=4"`
	Status     PaymentStatus `json:"status" validate:"oneof=pago pendente nao_pago"`
	Amount     string        `json:"amount"`
	Date       string        `json:"date"`
	Note       string        `json:"note,omitempty"`
}

// Locked reports whether the slot can no longer be edited.
func (p PaymentSlot) Locked() bool {
	return p.Status == PaymentStatusPaid
}
