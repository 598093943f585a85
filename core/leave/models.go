package leave

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Statuses. A request starts pending and resolves to approved or rejected
// exactly once; resolutions are never reversed.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// DateLayout is the day format leave ranges are expressed in.
const DateLayout = "2006-01-02"

type Request struct {
	ID         string     `json:"id" db:"id"`
	UserID     string     `json:"user_id" db:"user_id"`
	StartDate  string     `json:"start_date" db:"start_date"` // DateLayout
	EndDate    string     `json:"end_date" db:"end_date"`     // DateLayout
	Reason     string     `json:"reason" db:"reason"`
	Status     string     `json:"status" db:"status"`
	ApprovedBy string     `json:"approved_by,omitempty" db:"approved_by"`
	ApprovedAt *time.Time `json:"approved_at,omitempty" db:"approved_at"` // UTC; set together with ApprovedBy
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`             // UTC
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`             // UTC
}

func (r Request) IsResolved() bool { return r.Status != StatusPending }

// NewRequest contains information needed to file a leave request.
type NewRequest struct {
	StartDate string `json:"start_date" validate:"required"`
	EndDate   string `json:"end_date" validate:"required"`
	Reason    string `json:"reason" validate:"required"`
}

func (nr *NewRequest) Validate(validate *validator.Validate) error {
	nr.StartDate = core.CleanString(nr.StartDate)
	nr.EndDate = core.CleanString(nr.EndDate)
	nr.Reason = core.CleanString(nr.Reason)

	if err := validate.Struct(nr); err != nil {
		return err
	}
	for fld, val := range map[string]string{"start_date": nr.StartDate, "end_date": nr.EndDate} {
		if _, err := time.Parse(DateLayout, val); err != nil {
			return core.NewValidationError(ErrBadDate, core.FieldError{Field: fld, Error: ErrBadDate.Error()})
		}
	}
	// DateLayout orders lexicographically
	if nr.EndDate < nr.StartDate {
		return core.NewValidationError(
			ErrEndBeforeStart,
			core.FieldError{Field: "end_date", Error: ErrEndBeforeStart.Error()},
		)
	}
	return nil
}
