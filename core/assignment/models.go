package assignment

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

type Assignment struct {
	ID          string    `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description,omitempty" db:"description"`
	ClassID     string    `json:"class_id" db:"class_id"`
	TeacherID   string    `json:"teacher_id" db:"teacher_id"`
	DueDate     time.Time `json:"due_date" db:"due_date"`
	MaxPoints   int       `json:"max_points" db:"max_points"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"` // UTC
}

// Submission is a student's answer to an assignment;
// at most one per (assignment, student).
type Submission struct {
	ID             string     `json:"id" db:"id"`
	AssignmentID   string     `json:"assignment_id" db:"assignment_id"`
	StudentID      string     `json:"student_id" db:"student_id"`
	SubmissionURL  string     `json:"submission_url,omitempty" db:"submission_url"`
	SubmissionText string     `json:"submission_text,omitempty" db:"submission_text"`
	SubmittedAt    time.Time  `json:"submitted_at" db:"submitted_at"` // UTC
	Grade          *int       `json:"grade,omitempty" db:"grade"`
	Feedback       string     `json:"feedback,omitempty" db:"feedback"`
	GradedAt       *time.Time `json:"graded_at,omitempty" db:"graded_at"` // UTC; set together with GradedBy
	GradedBy       string     `json:"graded_by,omitempty" db:"graded_by"`
}

func (s Submission) IsGraded() bool { return s.Grade != nil }

// NewAssignment contains information needed to create a new Assignment.
type NewAssignment struct {
	Title       string    `json:"title" validate:"required"`
	Description string    `json:"description"`
	ClassID     string    `json:"class_id" validate:"required"`
	DueDate     time.Time `json:"due_date" validate:"required"`
	MaxPoints   int       `json:"max_points" validate:"required,gt=0"`
}

func (na *NewAssignment) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.Description = core.CleanString(na.Description)
	return validate.Struct(na)
}

// UpdateAssignment defines what information may be provided to modify an
// existing Assignment.
type UpdateAssignment struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	DueDate     time.Time `json:"due_date"`
	MaxPoints   int       `json:"max_points" validate:"omitempty,gt=0"`
}

func (ua *UpdateAssignment) Validate(origAsg Assignment, validate *validator.Validate) error {
	if title := core.CleanString(ua.Title); title != "" {
		ua.Title = title
	} else {
		ua.Title = origAsg.Title
	}
	if desc := core.CleanString(ua.Description); desc != "" {
		ua.Description = desc
	} else {
		ua.Description = origAsg.Description
	}
	if ua.DueDate.IsZero() {
		ua.DueDate = origAsg.DueDate
	}
	if ua.MaxPoints == 0 {
		ua.MaxPoints = origAsg.MaxPoints
	}
	return validate.Struct(ua)
}

// NewSubmission contains a student's answer; either a URL or text is required.
type NewSubmission struct {
	AssignmentID   string `json:"assignment_id" validate:"required"`
	SubmissionURL  string `json:"submission_url" validate:"required_without=SubmissionText,omitempty,url"`
	SubmissionText string `json:"submission_text" validate:"required_without=SubmissionURL"`
}

func (ns *NewSubmission) Validate(validate *validator.Validate) error {
	ns.SubmissionURL = core.CleanString(ns.SubmissionURL)
	ns.SubmissionText = core.CleanString(ns.SubmissionText)
	return validate.Struct(ns)
}

// GradeSubmission carries a teacher's grading of a submission.
type GradeSubmission struct {
	Grade    *int   `json:"grade" validate:"required,gte=0"`
	Feedback string `json:"feedback"`
}

func (gs *GradeSubmission) Validate(maxPoints int, validate *validator.Validate) error {
	gs.Feedback = core.CleanString(gs.Feedback)
	if err := validate.Struct(gs); err != nil {
		return err
	}
	if gs.Grade != nil && *gs.Grade > maxPoints {
		return core.NewValidationError(
			ErrGradeTooHigh,
			core.FieldError{Field: "grade", Error: ErrGradeTooHigh.Error()},
		)
	}
	return nil
}
