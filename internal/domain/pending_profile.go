package domain

type PendingStatus string

const (
	PendingStatusPending   PendingStatus = "pendente"
	PendingStatusContacted PendingStatus = "em_contato"
	PendingStatusGaveUp    PendingStatus = "desistiu"
)

// PendingProfile is a pre-registration lead that has not become a customer yet.
type PendingProfile struct {
	ID        string        `json:"id" validate:"required"`
	Name      string        `json:"name" validate:"required"`
	Contact   string        `json:"contact"`
	LoginID   string        `json:"loginId,omitempty"`
	Notes     string        `json:"notes"`
	CreatedAt string        `json:"createdAt"`
	Status    PendingStatus `json:"status" validate:"oneof=pendente em_contato desistiu"`
}
