package leave

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/store"
	"github.com/trezcool/shule/core/user"
)

var (
	// errors
	ErrNotFound        = errors.New("leave request not found")
	ErrAlreadyResolved = errors.New("leave request has already been resolved")
	ErrBadStatus       = errors.New("status must be approved or rejected")
	ErrBadDate         = errors.New("dates must be formatted as YYYY-MM-DD")
	ErrEndBeforeStart  = errors.New("end date cannot be before start date")
)

type (
	Repository interface {
		CreateLeaveRequest(req Request) (Request, error)
		GetLeaveRequestByID(id string) (Request, error)
		// FilterLeaveRequests returns matching requests, newest-first by
		// created_at unless overridden.
		FilterLeaveRequests(qry store.Query) ([]Request, error)
		CountLeaveRequests(where store.Expr) (int, error)
		UpdateLeaveRequest(req Request) (Request, error)
	}

	Service struct {
		repo    Repository
		usrRepo user.Repository
		mailSvc core.EmailService
	}
)

func NewService(repo Repository, usrRepo user.Repository, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, usrRepo: usrRepo, mailSvc: mailSvc}
}

// Create files a leave request for the requesting identity; it starts pending.
func (svc *Service) Create(idn user.Identity, nr NewRequest) (Request, error) {
	if idn.IsZero() {
		return Request{}, core.ErrAuthRequired
	}

	now := time.Now().UTC()
	req := Request{
		ID:        core.NewID("leave"),
		UserID:    idn.ID,
		StartDate: nr.StartDate,
		EndDate:   nr.EndDate,
		Reason:    nr.Reason,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateLeaveRequest(req)
}

// Query lists leave requests: admins see everyone's, all other roles only
// their own.
func (svc *Service) Query(idn user.Identity) ([]Request, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}

	if idn.IsAdmin() {
		return svc.repo.FilterLeaveRequests(store.Query{})
	}
	return svc.repo.FilterLeaveRequests(store.Query{Where: store.Eq{Field: "user_id", Value: idn.ID}})
}

// Resolve transitions a pending request to approved or rejected. Only admins
// may resolve, a request resolves at most once, and approvedBy/approvedAt are
// set together with the new status.
func (svc *Service) Resolve(idn user.Identity, id, status string) (Request, error) {
	if idn.IsZero() {
		return Request{}, core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return Request{}, core.ErrPermissionDenied
	}
	if !(status == StatusApproved || status == StatusRejected) {
		return Request{}, core.NewValidationError(ErrBadStatus, core.FieldError{Field: "status", Error: ErrBadStatus.Error()})
	}

	req, err := svc.repo.GetLeaveRequestByID(id)
	if err != nil {
		return Request{}, err
	}
	if req.IsResolved() {
		return Request{}, core.NewValidationError(ErrAlreadyResolved)
	}

	now := time.Now().UTC()
	req.Status = status
	req.ApprovedBy = idn.ID
	req.ApprovedAt = &now
	req.UpdatedAt = now

	req, err = svc.repo.UpdateLeaveRequest(req)
	if err != nil {
		return Request{}, err
	}
	svc.notifyRequester(req)
	return req, nil
}

func (svc *Service) notifyRequester(req Request) {
	if svc.mailSvc == nil {
		return
	}
	usr, err := svc.usrRepo.GetUserByID(req.UserID)
	if err != nil {
		return // requester gone; nothing to notify
	}
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.DisplayName, Address: usr.Email}},
		Subject: "Leave request " + req.Status,
		Body: fmt.Sprintf(
			"Your leave request for %s to %s has been %s.", req.StartDate, req.EndDate, req.Status,
		),
	})
}
