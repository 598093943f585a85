package class

import (
	"errors"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound           = errors.New("class not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
)

type (
	Repository interface {
		CreateClass(cls Class) (Class, error)
		GetClassByID(id string) (Class, error)
		// FilterClasses returns matching classes, newest-first by created_at
		// unless overridden.
		FilterClasses(qry store.Query) ([]Class, error)
		CountClasses(where store.Expr) (int, error)
		// UpdateClass merges set fields of cls over the stored record.
		UpdateClass(cls Class) (Class, error)
		DeleteClassesByID(ids ...string) error

		CreateEnrollment(enr Enrollment) (Enrollment, error)
		FilterEnrollments(qry store.Query) ([]Enrollment, error)
		DeleteEnrollmentsByID(ids ...string) error
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
	}
)

func NewService(repo Repository, usrRepo user.Repository) *Service {
	return &Service{repo: repo, usrRepo: usrRepo}
}

func (svc *Service) Create(idn user.Identity, nc NewClass) (Class, error) {
	if idn.IsZero() {
		return Class{}, core.ErrAuthRequired
	}
	if !(idn.IsAdmin() || idn.IsTeacher()) {
		return Class{}, core.ErrPermissionDenied
	}

	teacherID := nc.TeacherID
	if idn.IsTeacher() || teacherID == "" {
		teacherID = idn.ID
	}

	now := time.Now().UTC()
	cls := Class{
		ID:          core.NewID("class"),
		Name:        nc.Name,
		Subject:     nc.Subject,
		GradeLevel:  nc.GradeLevel,
		TeacherID:   teacherID,
		Description: nc.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateClass(cls)
}

// Query lists the classes the requesting identity may see:
// admins all, teachers their own, students the ones they are enrolled in
// (via the enrollment bridge), staff none.
func (svc *Service) Query(idn user.Identity) ([]Class, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	switch {
	case idn.IsAdmin():
		return svc.repo.FilterClasses(store.Query{})
	case idn.IsTeacher():
		return svc.repo.FilterClasses(store.Query{Where: store.Eq{Field: "teacher_id", Value: idn.ID}})
	case idn.IsStudent():
		classIDs, err := svc.enrolledClassIDs(idn.ID)
		if err != nil {
			return nil, err
		}
		if len(classIDs) == 0 {
			return []Class{}, nil
		}
		return svc.repo.FilterClasses(store.Query{Where: store.AnyOf("id", classIDs...)})
	default: // staff has no class affiliation
		return []Class{}, nil
	}
}

func (svc *Service) GetByID(idn user.Identity, id string) (Class, error) {
	if idn.IsZero() {
		return Class{}, core.ErrAuthRequired
	}
	return svc.repo.GetClassByID(id)
}

func (svc *Service) Update(idn user.Identity, id string, uc UpdateClass) (Class, error) {
	cls, err := svc.ownedClass(idn, id)
	if err != nil {
		return Class{}, err
	}

	cls.Name = uc.Name
	cls.Subject = uc.Subject
	cls.GradeLevel = uc.GradeLevel
	cls.Description = uc.Description
	cls.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateClass(cls)
}

// Delete removes classes by ID. It does not cascade: assignments, enrollments
// and attendance referring to a deleted class are left orphaned.
func (svc *Service) Delete(idn user.Identity, ids ...string) error {
	for _, id := range ids {
		if _, err := svc.ownedClass(idn, id); err != nil {
			return err
		}
	}
	return svc.repo.DeleteClassesByID(ids...)
}

// Enroll adds a student to a class. It is idempotent: re-enrolling an already
// enrolled student returns the existing enrollment.
func (svc *Service) Enroll(idn user.Identity, classID, studentID string) (Enrollment, error) {
	if _, err := svc.ownedClass(idn, classID); err != nil {
		return Enrollment{}, err
	}

	existing, err := svc.repo.FilterEnrollments(store.Query{
		Where: store.And{
			store.Eq{Field: "class_id", Value: classID},
			store.Eq{Field: "student_id", Value: studentID},
		},
	})
	if err != nil {
		return Enrollment{}, err
	}
	if len(existing) > 0 {
		return existing[0], nil
	}

	enr := Enrollment{
		ID:         core.NewID("enrollment"),
		ClassID:    classID,
		StudentID:  studentID,
		EnrolledAt: time.Now().UTC(),
	}
	return svc.repo.CreateEnrollment(enr)
}

func (svc *Service) Unenroll(idn user.Identity, classID, studentID string) error {
	if _, err := svc.ownedClass(idn, classID); err != nil {
		return err
	}

	existing, err := svc.repo.FilterEnrollments(store.Query{
		Where: store.And{
			store.Eq{Field: "class_id", Value: classID},
			store.Eq{Field: "student_id", Value: studentID},
		},
	})
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		return ErrEnrollmentNotFound
	}
	return svc.repo.DeleteEnrollmentsByID(existing[0].ID)
}

// Students resolves a class roster through the enrollment bridge.
func (svc *Service) Students(idn user.Identity, classID string) ([]user.User, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	enrs, err := svc.repo.FilterEnrollments(store.Query{
		Where: store.Eq{Field: "class_id", Value: classID},
	})
	if err != nil {
		return nil, err
	}
	studentIDs := make([]string, 0, len(enrs))
	for _, enr := range enrs {
		studentIDs = append(studentIDs, enr.StudentID)
	}
	if len(studentIDs) == 0 {
		return []user.User{}, nil
	}
	return svc.usrRepo.FilterUsers(store.Query{Where: store.AnyOf("id", studentIDs...)})
}

// OwnedClassIDs returns the IDs of the classes a teacher owns; the bridging
// key set for teacher-scoped submission/attendance/enrollment queries.
func (svc *Service) OwnedClassIDs(teacherID string) ([]string, error) {
	classes, err := svc.repo.FilterClasses(store.Query{Where: store.Eq{Field: "teacher_id", Value: teacherID}})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(classes))
	for _, cls := range classes {
		ids = append(ids, cls.ID)
	}
	return ids, nil
}

// EnrolledClassIDs returns the IDs of the classes a student is enrolled in.
func (svc *Service) EnrolledClassIDs(studentID string) ([]string, error) {
	return svc.enrolledClassIDs(studentID)
}

func (svc *Service) enrolledClassIDs(studentID string) ([]string, error) {
	enrs, err := svc.repo.FilterEnrollments(store.Query{
		Where: store.Eq{Field: "student_id", Value: studentID},
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(enrs))
	for _, enr := range enrs {
		ids = append(ids, enr.ClassID)
	}
	return ids, nil
}

// ownedClass fetches a class and checks the identity may mutate it:
// admin, or the teacher owning it.
func (svc *Service) ownedClass(idn user.Identity, id string) (Class, error) {
	if idn.IsZero() {
		return Class{}, core.ErrAuthRequired
	}
	cls, err := svc.repo.GetClassByID(id)
	if err != nil {
		return Class{}, err
	}
	if !(idn.IsAdmin() || (idn.IsTeacher() && cls.TeacherID == idn.ID)) {
		return Class{}, core.ErrPermissionDenied
	}
	return cls, nil
}
