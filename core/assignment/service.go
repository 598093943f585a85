package assignment

import (
	"errors"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")
	ErrGradeTooHigh       = errors.New("grade exceeds the assignment's max points")
)

type (
	Repository interface {
		CreateAssignment(asg Assignment) (Assignment, error)
		GetAssignmentByID(id string) (Assignment, error)
		// FilterAssignments returns matching assignments, newest-first by
		// due_date unless overridden.
		FilterAssignments(qry store.Query) ([]Assignment, error)
		CountAssignments(where store.Expr) (int, error)
		// UpdateAssignment merges set fields of asg over the stored record.
		UpdateAssignment(asg Assignment) (Assignment, error)
		DeleteAssignmentsByID(ids ...string) error

		CreateSubmission(sub Submission) (Submission, error)
		GetSubmissionByID(id string) (Submission, error)
		// FilterSubmissions returns matching submissions, newest-first by
		// submitted_at unless overridden.
		FilterSubmissions(qry store.Query) ([]Submission, error)
		CountSubmissions(where store.Expr) (int, error)
		UpdateSubmission(sub Submission) (Submission, error)
	}

	Service struct {
		repo   Repository
		clsSvc *class.Service
	}
)

func NewService(repo Repository, clsSvc *class.Service) *Service {
	return &Service{repo: repo, clsSvc: clsSvc}
}

func (svc *Service) Create(idn user.Identity, na NewAssignment) (Assignment, error) {
	if idn.IsZero() {
		return Assignment{}, core.ErrAuthRequired
	}
	if !(idn.IsAdmin() || idn.IsTeacher()) {
		return Assignment{}, core.ErrPermissionDenied
	}

	cls, err := svc.clsSvc.GetByID(idn, na.ClassID)
	if err != nil {
		return Assignment{}, err
	}
	if idn.IsTeacher() && cls.TeacherID != idn.ID {
		return Assignment{}, core.ErrPermissionDenied
	}

	teacherID := idn.ID
	if idn.IsAdmin() {
		teacherID = cls.TeacherID
	}

	now := time.Now().UTC()
	asg := Assignment{
		ID:          core.NewID("assignment"),
		Title:       na.Title,
		Description: na.Description,
		ClassID:     na.ClassID,
		TeacherID:   teacherID,
		DueDate:     na.DueDate,
		MaxPoints:   na.MaxPoints,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateAssignment(asg)
}

// Query lists the assignments the requesting identity may see:
// admins all, teachers their own, students those of their enrolled classes,
// staff none. Newest due date first.
func (svc *Service) Query(idn user.Identity) ([]Assignment, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	switch {
	case idn.IsAdmin():
		return svc.repo.FilterAssignments(store.Query{})
	case idn.IsTeacher():
		return svc.repo.FilterAssignments(store.Query{Where: store.Eq{Field: "teacher_id", Value: idn.ID}})
	case idn.IsStudent():
		classIDs, err := svc.clsSvc.EnrolledClassIDs(idn.ID)
		if err != nil {
			return nil, err
		}
		if len(classIDs) == 0 {
			return []Assignment{}, nil
		}
		return svc.repo.FilterAssignments(store.Query{Where: store.AnyOf("class_id", classIDs...)})
	default:
		return []Assignment{}, nil
	}
}

func (svc *Service) QueryByClass(idn user.Identity, classID string) ([]Assignment, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}
	return svc.repo.FilterAssignments(store.Query{Where: store.Eq{Field: "class_id", Value: classID}})
}

func (svc *Service) GetByID(idn user.Identity, id string) (Assignment, error) {
	if idn.IsZero() {
		return Assignment{}, core.ErrAuthRequired
	}
	return svc.repo.GetAssignmentByID(id)
}

func (svc *Service) Update(idn user.Identity, id string, ua UpdateAssignment) (Assignment, error) {
	asg, err := svc.ownedAssignment(idn, id)
	if err != nil {
		return Assignment{}, err
	}

	asg.Title = ua.Title
	asg.Description = ua.Description
	asg.DueDate = ua.DueDate
	asg.MaxPoints = ua.MaxPoints
	asg.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAssignment(asg)
}

// Delete removes assignments by ID. It does not cascade: submissions of a
// deleted assignment are left orphaned.
func (svc *Service) Delete(idn user.Identity, ids ...string) error {
	for _, id := range ids {
		if _, err := svc.ownedAssignment(idn, id); err != nil {
			return err
		}
	}
	return svc.repo.DeleteAssignmentsByID(ids...)
}

// Submit records a student's submission. It upserts on (assignment, student):
// resubmitting overwrites the previous answer in place instead of creating a
// duplicate. The read-then-write sequence is not atomic; concurrent
// resubmission by the same student may lose one of the writes.
func (svc *Service) Submit(idn user.Identity, ns NewSubmission) (Submission, error) {
	if idn.IsZero() {
		return Submission{}, core.ErrAuthRequired
	}
	if !idn.IsStudent() {
		return Submission{}, core.ErrPermissionDenied
	}

	asg, err := svc.repo.GetAssignmentByID(ns.AssignmentID)
	if err != nil {
		return Submission{}, err
	}
	classIDs, err := svc.clsSvc.EnrolledClassIDs(idn.ID)
	if err != nil {
		return Submission{}, err
	}
	var enrolled bool
	for _, id := range classIDs {
		if id == asg.ClassID {
			enrolled = true
			break
		}
	}
	if !enrolled {
		return Submission{}, core.ErrPermissionDenied
	}

	now := time.Now().UTC()

	existing, err := svc.repo.FilterSubmissions(store.Query{
		Where: store.And{
			store.Eq{Field: "assignment_id", Value: ns.AssignmentID},
			store.Eq{Field: "student_id", Value: idn.ID},
		},
	})
	if err != nil {
		return Submission{}, err
	}
	if len(existing) > 0 {
		sub := existing[0]
		sub.SubmissionURL = ns.SubmissionURL
		sub.SubmissionText = ns.SubmissionText
		sub.SubmittedAt = now
		return svc.repo.UpdateSubmission(sub)
	}

	sub := Submission{
		ID:             core.NewID("submission"),
		AssignmentID:   ns.AssignmentID,
		StudentID:      idn.ID,
		SubmissionURL:  ns.SubmissionURL,
		SubmissionText: ns.SubmissionText,
		SubmittedAt:    now,
	}
	return svc.repo.CreateSubmission(sub)
}

// QuerySubmissions lists the submissions the requesting identity may see:
// students their own, teachers those of their own assignments (via the
// assignment bridge), admins all, staff none.
func (svc *Service) QuerySubmissions(idn user.Identity) ([]Submission, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	switch {
	case idn.IsAdmin():
		return svc.repo.FilterSubmissions(store.Query{})
	case idn.IsStudent():
		return svc.repo.FilterSubmissions(store.Query{Where: store.Eq{Field: "student_id", Value: idn.ID}})
	case idn.IsTeacher():
		asgs, err := svc.repo.FilterAssignments(store.Query{Where: store.Eq{Field: "teacher_id", Value: idn.ID}})
		if err != nil {
			return nil, err
		}
		asgIDs := make([]string, 0, len(asgs))
		for _, asg := range asgs {
			asgIDs = append(asgIDs, asg.ID)
		}
		if len(asgIDs) == 0 {
			return []Submission{}, nil
		}
		return svc.repo.FilterSubmissions(store.Query{Where: store.AnyOf("assignment_id", asgIDs...)})
	default:
		return []Submission{}, nil
	}
}

func (svc *Service) SubmissionsByAssignment(idn user.Identity, assignmentID string) ([]Submission, error) {
	if _, err := svc.ownedAssignment(idn, assignmentID); err != nil {
		return nil, err
	}
	return svc.repo.FilterSubmissions(store.Query{Where: store.Eq{Field: "assignment_id", Value: assignmentID}})
}

// Grade records a grade on a submission; gradedAt and gradedBy are set
// together with the grade.
func (svc *Service) Grade(idn user.Identity, submissionID string, gs GradeSubmission) (Submission, error) {
	sub, err := svc.repo.GetSubmissionByID(submissionID)
	if err != nil {
		return Submission{}, err
	}
	if _, err = svc.ownedAssignment(idn, sub.AssignmentID); err != nil {
		return Submission{}, err
	}

	now := time.Now().UTC()
	sub.Grade = gs.Grade
	sub.Feedback = gs.Feedback
	sub.GradedAt = &now
	sub.GradedBy = idn.ID
	return svc.repo.UpdateSubmission(sub)
}

// ownedAssignment fetches an assignment and checks the identity may mutate
// (or inspect submissions of) it: admin, or the teacher that created it.
func (svc *Service) ownedAssignment(idn user.Identity, id string) (Assignment, error) {
	if idn.IsZero() {
		return Assignment{}, core.ErrAuthRequired
	}
	asg, err := svc.repo.GetAssignmentByID(id)
	if err != nil {
		return Assignment{}, err
	}
	if !(idn.IsAdmin() || (idn.IsTeacher() && asg.TeacherID == idn.ID)) {
		return Assignment{}, core.ErrPermissionDenied
	}
	return asg, nil
}
