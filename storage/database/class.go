package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/store"
)

const (
	classColumns      = `id, name, subject, grade_level, teacher_id, description, created_at, updated_at`
	enrollmentColumns = `id, class_id, student_id, enrolled_at`
)

type classRepository struct {
	db *sqlx.DB
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(db *sqlx.DB) class.Repository {
	return &classRepository{db: db}
}

func (repo *classRepository) CreateClass(cls class.Class) (class.Class, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO class (id, name, subject, grade_level, teacher_id, description, created_at, updated_at)
		VALUES (:id, :name, :subject, :grade_level, :teacher_id, :description, :created_at, :updated_at)
	`, cls)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "creating class")
	}
	return cls, nil
}

func (repo *classRepository) GetClassByID(id string) (class.Class, error) {
	var cls class.Class
	err := repo.db.Get(&cls, `SELECT `+classColumns+` FROM class WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return class.Class{}, class.ErrNotFound
	}
	if err != nil {
		return class.Class{}, errors.Wrap(err, "getting class")
	}
	return cls, nil
}

func (repo *classRepository) FilterClasses(qry store.Query) ([]class.Class, error) {
	q, args := buildSelect(classColumns, "class", qry, "created_at")
	classes := []class.Class{}
	if err := repo.db.Select(&classes, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering classes")
	}
	return classes, nil
}

func (repo *classRepository) CountClasses(where store.Expr) (int, error) {
	q, args := buildCount("class", where)
	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting classes")
	}
	return count, nil
}

func (repo *classRepository) UpdateClass(cls class.Class) (class.Class, error) {
	res, err := repo.db.NamedExec(`
		UPDATE class
		SET name = :name, subject = :subject, grade_level = :grade_level,
		    description = :description, updated_at = :updated_at
		WHERE id = :id
	`, cls)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return class.Class{}, class.ErrNotFound
	}
	return cls, nil
}

func (repo *classRepository) DeleteClassesByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM class WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting classes")
	}
	return nil
}

func (repo *classRepository) CreateEnrollment(enr class.Enrollment) (class.Enrollment, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO enrollment (id, class_id, student_id, enrolled_at)
		VALUES (:id, :class_id, :student_id, :enrolled_at)
	`, enr)
	if err != nil {
		return class.Enrollment{}, errors.Wrap(err, "creating enrollment")
	}
	return enr, nil
}

func (repo *classRepository) FilterEnrollments(qry store.Query) ([]class.Enrollment, error) {
	q, args := buildSelect(enrollmentColumns, "enrollment", qry, "enrolled_at")
	enrs := []class.Enrollment{}
	if err := repo.db.Select(&enrs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering enrollments")
	}
	return enrs, nil
}

func (repo *classRepository) DeleteEnrollmentsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM enrollment WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting enrollments")
	}
	return nil
}
