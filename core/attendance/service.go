package attendance

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
	ErrNotFound = errors.New("attendance record not found")
	ErrBadDate  = errors.New("date must be formatted as YYYY-MM-DD")
)

type (
	Repository interface {
		CreateAttendance(att Attendance) (Attendance, error)
		// FilterAttendance returns matching records, newest-first by date
		// unless overridden.
		FilterAttendance(qry store.Query) ([]Attendance, error)
		CountAttendance(where store.Expr) (int, error)
		UpdateAttendance(att Attendance) (Attendance, error)
	}

	Service struct {
		repo   Repository
		clsSvc *class.Service
	}
)

func NewService(repo Repository, clsSvc *class.Service) *Service {
	return &Service{repo: repo, clsSvc: clsSvc}
}

// Mark records a student's attendance for a day. It upserts on
// (class, student, date): marking the same triple again overwrites the
// existing record rather than duplicating it. The read-then-write sequence is
// not atomic; two concurrent markings of the same triple may lose one write.
func (svc *Service) Mark(idn user.Identity, na NewAttendance) (Attendance, error) {
	if err := svc.canMark(idn, na.ClassID); err != nil {
		return Attendance{}, err
	}

	now := time.Now().UTC()

	existing, err := svc.repo.FilterAttendance(store.Query{
		Where: store.And{
			store.Eq{Field: "class_id", Value: na.ClassID},
			store.Eq{Field: "student_id", Value: na.StudentID},
			store.Eq{Field: "date", Value: na.Date},
		},
	})
	if err != nil {
		return Attendance{}, err
	}
	if len(existing) > 0 {
		att := existing[0]
		att.Status = na.Status
		att.Notes = na.Notes
		att.MarkedBy = idn.ID
		att.MarkedAt = now
		return svc.repo.UpdateAttendance(att)
	}

	att := Attendance{
		ID:        core.NewID("attendance"),
		ClassID:   na.ClassID,
		StudentID: na.StudentID,
		Date:      na.Date,
		Status:    na.Status,
		Notes:     na.Notes,
		MarkedBy:  idn.ID,
		MarkedAt:  now,
	}
	return svc.repo.CreateAttendance(att)
}

// Query lists the attendance records the requesting identity may see:
// students their own, teachers those of their own classes (via the class
// bridge), admins all, staff none. Newest date first.
func (svc *Service) Query(idn user.Identity) ([]Attendance, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	switch {
	case idn.IsAdmin():
		return svc.repo.FilterAttendance(store.Query{})
	case idn.IsStudent():
		return svc.repo.FilterAttendance(store.Query{Where: store.Eq{Field: "student_id", Value: idn.ID}})
	case idn.IsTeacher():
		classIDs, err := svc.clsSvc.OwnedClassIDs(idn.ID)
		if err != nil {
			return nil, err
		}
		if len(classIDs) == 0 {
			return []Attendance{}, nil
		}
		return svc.repo.FilterAttendance(store.Query{Where: store.AnyOf("class_id", classIDs...)})
	default:
		return []Attendance{}, nil
	}
}

// QueryByClass lists a class's attendance, optionally narrowed to one day.
func (svc *Service) QueryByClass(idn user.Identity, classID, date string) ([]Attendance, error) {
	if err := svc.canMark(idn, classID); err != nil {
		return nil, err
	}

	where := store.Expr(store.Eq{Field: "class_id", Value: classID})
	if date != "" {
		where = store.And{where, store.Eq{Field: "date", Value: date}}
	}
	return svc.repo.FilterAttendance(store.Query{Where: where})
}

// canMark checks the identity may record or inspect a class's attendance:
// admin, or the teacher owning the class.
func (svc *Service) canMark(idn user.Identity, classID string) error {
	if idn.IsZero() {
		return core.ErrAuthRequired
	}
	if idn.IsAdmin() {
		return nil
	}
	if !idn.IsTeacher() {
		return core.ErrPermissionDenied
	}
	cls, err := svc.clsSvc.GetByID(idn, classID)
	if err != nil {
		return err
	}
	if cls.TeacherID != idn.ID {
		return core.ErrPermissionDenied
	}
	return nil
}
