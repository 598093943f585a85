package database

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/store"
)

const leaveColumns = `id, user_id, start_date, end_date, reason, status, approved_by, approved_at, created_at, updated_at`

type leaveRepository struct {
	db *sqlx.DB
}

var _ leave.Repository = (*leaveRepository)(nil) // interface compliance check

func NewLeaveRepository(db *sqlx.DB) leave.Repository {
	return &leaveRepository{db: db}
}

func (repo *leaveRepository) CreateLeaveRequest(req leave.Request) (leave.Request, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO leave_request (id, user_id, start_date, end_date, reason, status, approved_by, approved_at, created_at, updated_at)
		VALUES (:id, :user_id, :start_date, :end_date, :reason, :status, :approved_by, :approved_at, :created_at, :updated_at)
	`, req)
	if err != nil {
		return leave.Request{}, errors.Wrap(err, "creating leave request")
	}
	return req, nil
}

func (repo *leaveRepository) GetLeaveRequestByID(id string) (leave.Request, error) {
	var req leave.Request
	err := repo.db.Get(&req, `SELECT `+leaveColumns+` FROM leave_request WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return leave.Request{}, leave.ErrNotFound
	}
	if err != nil {
		return leave.Request{}, errors.Wrap(err, "getting leave request")
	}
	return req, nil
}

func (repo *leaveRepository) FilterLeaveRequests(qry store.Query) ([]leave.Request, error) {
	q, args := buildSelect(leaveColumns, "leave_request", qry, "created_at")
	reqs := []leave.Request{}
	if err := repo.db.Select(&reqs, q, args...); err != nil {
		return nil, errors.Wrap(err, "filtering leave requests")
	}
	return reqs, nil
}

func (repo *leaveRepository) CountLeaveRequests(where store.Expr) (int, error) {
	q, args := buildCount("leave_request", where)
	var count int
	if err := repo.db.Get(&count, q, args...); err != nil {
		return 0, errors.Wrap(err, "counting leave requests")
	}
	return count, nil
}

func (repo *leaveRepository) UpdateLeaveRequest(req leave.Request) (leave.Request, error) {
	res, err := repo.db.NamedExec(`
		UPDATE leave_request
		SET status = :status, approved_by = :approved_by, approved_at = :approved_at, updated_at = :updated_at
		WHERE id = :id
	`, req)
	if err != nil {
		return leave.Request{}, errors.Wrap(err, "updating leave request")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return leave.Request{}, leave.ErrNotFound
	}
	return req, nil
}
