package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/store"
)

const attendanceColumns = `id, class_id, student_id, date, status, notes, marked_by, marked_at`

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) CreateAttendance(att attendance.Attendance) (attendance.Attendance, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO attendance (id, class_id, student_id, date, status, notes, marked_by, marked_at)
		VALUES (:id, :class_id, :student_id, :date, :status, :notes, :marked_by, :marked_at)
	`, att)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "creating attendance record")
	}
	return att, nil
}

func (repo *attendanceRepository) FilterAttendance(qry store.Query) ([]attendance.Attendance, error) {
	q, args := buildSelect(attendanceColumns, "attendance", qry, "date")
	atts := []attendance.Attendance{}
	if err := repo.db.Select(&atts, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering attendance records")
	}
	return atts, nil
}

func (repo *attendanceRepository) CountAttendance(where store.Expr) (int, error) {
	q, args := buildCount("attendance", where)
	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting attendance records")
	}
	return count, nil
}

func (repo *attendanceRepository) UpdateAttendance(att attendance.Attendance) (attendance.Attendance, error) {
	res, err := repo.db.NamedExec(`
		UPDATE attendance
		SET status = :status, notes = :notes, marked_by = :marked_by, marked_at = :marked_at
		WHERE id = :id
	`, att)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "updating attendance record")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	return att, nil
}
