package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/store"
)

const (
	assignmentColumns = `id, title, description, class_id, teacher_id, due_date, max_points, created_at, updated_at`
	submissionColumns = `id, assignment_id, student_id, submission_url, submission_text, submitted_at, grade, feedback, graded_at, graded_by`
)

type assignmentRepository struct {
	db *sqlx.DB
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(db *sqlx.DB) assignment.Repository {
	return &assignmentRepository{db: db}
}

func (repo *assignmentRepository) CreateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO assignment (id, title, description, class_id, teacher_id, due_date, max_points, created_at, updated_at)
		VALUES (:id, :title, :description, :class_id, :teacher_id, :due_date, :max_points, :created_at, :updated_at)
	`, asg)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "creating assignment")
	}
	return asg, nil
}

func (repo *assignmentRepository) GetAssignmentByID(id string) (assignment.Assignment, error) {
	var asg assignment.Assignment
	err := repo.db.Get(&asg, `SELECT `+assignmentColumns+` FROM assignment WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "getting assignment")
	}
	return asg, nil
}

func (repo *assignmentRepository) FilterAssignments(qry store.Query) ([]assignment.Assignment, error) {
	q, args := buildSelect(assignmentColumns, "assignment", qry, "due_date")
	asgs := []assignment.Assignment{}
	if err := repo.db.Select(&asgs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering assignments")
	}
	return asgs, nil
}

func (repo *assignmentRepository) CountAssignments(where store.Expr) (int, error) {
	q, args := buildCount("assignment", where)
	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting assignments")
	}
	return count, nil
}

func (repo *assignmentRepository) UpdateAssignment(asg assignment.Assignment) (assignment.Assignment, error) {
	res, err := repo.db.NamedExec(`
		UPDATE assignment
		SET title = :title, description = :description, due_date = :due_date,
		    max_points = :max_points, updated_at = :updated_at
		WHERE id = :id
	`, asg)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return asg, nil
}

func (repo *assignmentRepository) DeleteAssignmentsByID(ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	q, args, err := sqlx.In(`DELETE FROM assignment WHERE id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	if _, err = repo.db.Exec(repo.db.Rebind(q), args...); err != nil {
		return errors.Wrap(err, "deleting assignments")
	}
	return nil
}

func (repo *assignmentRepository) CreateSubmission(sub assignment.Submission) (assignment.Submission, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO submission (id, assignment_id, student_id, submission_url, submission_text, submitted_at, grade, feedback, graded_at, graded_by)
		VALUES (:id, :assignment_id, :student_id, :submission_url, :submission_text, :submitted_at, :grade, :feedback, :graded_at, :graded_by)
	`, sub)
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "creating submission")
	}
	return sub, nil
}

func (repo *assignmentRepository) GetSubmissionByID(id string) (assignment.Submission, error) {
	var sub assignment.Submission
	err := repo.db.Get(&sub, `SELECT `+submissionColumns+` FROM submission WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "getting submission")
	}
	return sub, nil
}

func (repo *assignmentRepository) FilterSubmissions(qry store.Query) ([]assignment.Submission, error) {
	q, args := buildSelect(submissionColumns, "submission", qry, "submitted_at")
	subs := []assignment.Submission{}
	if err := repo.db.Select(&subs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering submissions")
	}
	return subs, nil
}

func (repo *assignmentRepository) CountSubmissions(where store.Expr) (int, error) {
	q, args := buildCount("submission", where)
	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting submissions")
	}
	return count, nil
}

func (repo *assignmentRepository) UpdateSubmission(sub assignment.Submission) (assignment.Submission, error) {
	res, err := repo.db.NamedExec(`
		UPDATE submission
		SET submission_url = :submission_url, submission_text = :submission_text,
		    submitted_at = :submitted_at, grade = :grade, feedback = :feedback,
		    graded_at = :graded_at, graded_by = :graded_by
		WHERE id = :id
	`, sub)
	if err != nil {
		return assignment.Submission{}, errors.Wrap(err, "updating submission")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return assignment.Submission{}, assignment.ErrSubmissionNotFound
	}
	return sub, nil
}
