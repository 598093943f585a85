package attendance

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// DateLayout is the day format attendance is keyed by.
const DateLayout = "2006-01-02"

// Attendance records one student's status in one class on one day;
// at most one record per (class, student, date).
type Attendance struct {
	ID        string    `json:"id" db:"id"`
	ClassID   string    `json:"class_id" db:"class_id"`
	StudentID string    `json:"student_id" db:"student_id"`
	Date      string    `json:"date" db:"date"` // DateLayout
	Status    string    `json:"status" db:"status"`
	Notes     string    `json:"notes,omitempty" db:"notes"`
	MarkedBy  string    `json:"marked_by" db:"marked_by"`
	MarkedAt  time.Time `json:"marked_at" db:"marked_at"` // UTC
}

// NewAttendance contains information needed to mark a student's attendance.
type NewAttendance struct {
	ClassID   string `json:"class_id" validate:"required"`
	StudentID string `json:"student_id" validate:"required"`
	Date      string `json:"date" validate:"required"`
	Status    string `json:"status" validate:"required,oneof=present absent late excused"`
	Notes     string `json:"notes"`
}

func (na *NewAttendance) Validate(validate *validator.Validate) error {
	na.Date = core.CleanString(na.Date)
	na.Status = core.CleanString(na.Status, true /* lower */)
	na.Notes = core.CleanString(na.Notes)

	if err := validate.Struct(na); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, na.Date); err != nil {
		return core.NewValidationError(
			ErrBadDate,
			core.FieldError{Field: "date", Error: ErrBadDate.Error()},
		)
	}
	return nil
}
