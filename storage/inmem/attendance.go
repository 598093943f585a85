package inmem

import (
	"sort"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/store"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func attendanceFields(att attendance.Attendance) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return att.ID
		case "class_id":
			return att.ClassID
		case "student_id":
			return att.StudentID
		case "date":
			return att.Date
		case "status":
			return att.Status
		case "marked_by":
			return att.MarkedBy
		default:
			return nil
		}
	}
}

func (repo *attendanceRepository) query(where store.Expr) []attendance.Attendance {
	atts := make([]attendance.Attendance, 0, len(repo.db.table))
	for _, att := range repo.db.table {
		if store.Match(where, attendanceFields(*att)) {
			atts = append(atts, *att)
		}
	}
	return atts
}

func (repo *attendanceRepository) CreateAttendance(att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attendanceRepository) FilterAttendance(qry store.Query) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	atts := repo.query(qry.Where)
	// DateLayout orders lexicographically
	sort.SliceStable(atts, func(i, j int) bool { return atts[i].Date > atts[j].Date })
	return capped(atts, qry.Limit), nil
}

func (repo *attendanceRepository) CountAttendance(where store.Expr) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.query(where)), nil
}

func (repo *attendanceRepository) UpdateAttendance(att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[att.ID]; !ok {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	repo.db.table[att.ID] = &att
	return att, nil
}
