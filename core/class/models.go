package class

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

type Class struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Subject     string    `json:"subject" db:"subject"`
	GradeLevel  string    `json:"grade_level" db:"grade_level"`
	TeacherID   string    `json:"teacher_id" db:"teacher_id"`
	Description string    `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Enrollment relates a student to a class; at most one per (class, student).
type Enrollment struct {
	ID         string    `json:"id" db:"id"`
	ClassID    string    `json:"class_id" db:"class_id"`
	StudentID  string    `json:"student_id" db:"student_id"`
	EnrolledAt time.Time `json:"enrolled_at" db:"enrolled_at"` // UTC
}

// NewClass contains information needed to create a new Class.
type NewClass struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	GradeLevel  string `json:"grade_level" validate:"required"`
	Description string `json:"description"`
	// TeacherID is only honored for admins; teachers always own what they create.
	TeacherID string `json:"teacher_id"`
}

func (nc *NewClass) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Subject = core.CleanString(nc.Subject)
	nc.GradeLevel = core.CleanString(nc.GradeLevel)
	nc.Description = core.CleanString(nc.Description)
	return validate.Struct(nc)
}

// UpdateClass defines what information may be provided to modify an existing Class.
type UpdateClass struct {
	Name        string `json:"name"`
	Subject     string `json:"subject"`
	GradeLevel  string `json:"grade_level"`
	Description string `json:"description"`
}

func (uc *UpdateClass) Validate(origCls Class, validate *validator.Validate) error {
	if name := core.CleanString(uc.Name); name != "" {
		uc.Name = name
	} else {
		uc.Name = origCls.Name
	}
	if subj := core.CleanString(uc.Subject); subj != "" {
		uc.Subject = subj
	} else {
		uc.Subject = origCls.Subject
	}
	if lvl := core.CleanString(uc.GradeLevel); lvl != "" {
		uc.GradeLevel = lvl
	} else {
		uc.GradeLevel = origCls.GradeLevel
	}
	if desc := core.CleanString(uc.Description); desc != "" {
		uc.Description = desc
	} else {
		uc.Description = origCls.Description
	}
	return validate.Struct(uc)
}
