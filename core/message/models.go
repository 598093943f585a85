package message

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Recipient types
const (
	RecipientClass      = "class"
	RecipientStaff      = "staff"
	RecipientIndividual = "individual"
)

type Message struct {
	ID            string    `json:"id" db:"id"`
	SenderID      string    `json:"sender_id" db:"sender_id"`
	RecipientType string    `json:"recipient_type" db:"recipient_type"`
	RecipientID   string    `json:"recipient_id,omitempty" db:"recipient_id"`
	Subject       string    `json:"subject" db:"subject"`
	Content       string    `json:"content" db:"content"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"` // UTC
}

// NewMessage contains information needed to send a message. RecipientID is
// required unless the message goes to all staff.
type NewMessage struct {
	RecipientType string `json:"recipient_type" validate:"required,oneof=class staff individual"`
	RecipientID   string `json:"recipient_id" validate:"required_unless=RecipientType staff"`
	Subject       string `json:"subject" validate:"required"`
	Content       string `json:"content" validate:"required"`
}

func (nm *NewMessage) Validate(validate *validator.Validate) error {
	nm.RecipientType = core.CleanString(nm.RecipientType, true /* lower */)
	nm.RecipientID = core.CleanString(nm.RecipientID)
	nm.Subject = core.CleanString(nm.Subject)
	nm.Content = core.CleanString(nm.Content)
	return validate.Struct(nm)
}
