package inmem

import (
	"sort"

	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/store"
)

type leaveRepository struct {
	db *leaveTable
}

var _ leave.Repository = (*leaveRepository)(nil) // interface compliance check

func NewLeaveRepository(db *DB) leave.Repository {
	return &leaveRepository{db: db.leave}
}

func leaveFields(req leave.Request) func(string) interface{} {
	return func(field string) interface{} {
		switch field {
		case "id":
			return req.ID
		case "user_id":
			return req.UserID
		case "status":
			return req.Status
		case "approved_by":
			return req.ApprovedBy
		default:
			return nil
		}
	}
}

func (repo *leaveRepository) query(where store.Expr) []leave.Request {
	reqs := make([]leave.Request, 0, len(repo.db.table))
	for _, req := range repo.db.table {
		if store.Match(where, leaveFields(*req)) {
			reqs = append(reqs, *req)
		}
	}
	return reqs
}

func (repo *leaveRepository) CreateLeaveRequest(req leave.Request) (leave.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[req.ID] = &req
	return req, nil
}

func (repo *leaveRepository) GetLeaveRequestByID(id string) (leave.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if req, ok := repo.db.table[id]; ok {
		return *req, nil
	}
	return leave.Request{}, leave.ErrNotFound
}

func (repo *leaveRepository) FilterLeaveRequests(qry store.Query) ([]leave.Request, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	reqs := repo.query(qry.Where)
	sort.SliceStable(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return capped(reqs, qry.Limit), nil
}

func (repo *leaveRepository) CountLeaveRequests(where store.Expr) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return len(repo.query(where)), nil
}

func (repo *leaveRepository) UpdateLeaveRequest(req leave.Request) (leave.Request, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origReq, ok := repo.db.table[req.ID]
	if !ok {
		return leave.Request{}, leave.ErrNotFound
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = origReq.CreatedAt
	}
	repo.db.table[req.ID] = &req
	return req, nil
}
