package user

import (
	"errors"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/store"
)

var (
	// errors
	ErrNotFound    = errors.New("user not found")
	ErrEmailExists = errors.New("a user with this email already exists")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string, excludedUsers ...User) error
		CreateUser(usr User) (User, error)
		GetUserByID(id string) (User, error)
		GetUserByEmail(email string) (User, error)
		// FilterUsers applies the query's filter expression and returns
		// matching users, newest-first by created_at unless overridden.
		FilterUsers(qry store.Query) ([]User, error)
		CountUsers(where store.Expr) (int, error)
		// UpdateUser merges set fields of usr over the stored record.
		UpdateUser(usr User, isActive *bool) (User, error)
		DeleteUsersByID(ids ...string) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) checkUniqueness(email string, exclUsers ...User) error {
	if err := svc.repo.CheckEmailUniqueness(email, exclUsers...); err != nil {
		if err == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Create(nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		ID:          core.NewID("user"),
		Email:       nu.Email,
		DisplayName: nu.DisplayName,
		Role:        nu.Role,
		AvatarURL:   nu.AvatarURL,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, err
	}
	return svc.repo.CreateUser(usr)
}

// Query lists users for the requesting identity: admins see everyone,
// optionally narrowed by role; everyone else is denied.
func (svc *Service) Query(idn Identity, filter QueryFilter) ([]User, error) {
	if idn.IsZero() {
		return nil, core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return nil, core.ErrPermissionDenied
	}

	var where store.Expr
	if filter.Role != "" {
		where = store.Eq{Field: "role", Value: filter.Role}
	}
	return svc.repo.FilterUsers(store.Query{Where: where})
}

func (svc *Service) GetByID(idn Identity, id string) (User, error) {
	if idn.IsZero() {
		return User{}, core.ErrAuthRequired
	}
	return svc.repo.GetUserByID(id)
}

// Authenticate verifies credentials for the login flow.
func (svc *Service) Authenticate(email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		return User{}, err
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrNotFound
	}
	return usr, nil
}

func (svc *Service) Update(idn Identity, id string, uu UpdateUser) (User, error) {
	if idn.IsZero() {
		return User{}, core.ErrAuthRequired
	}
	if !(idn.IsAdmin() || idn.ID == id) {
		return User{}, core.ErrPermissionDenied
	}
	// `IsActive` can only be changed by an admin
	if uu.IsActive != nil && !idn.IsAdmin() {
		return User{}, core.ErrPermissionDenied
	}

	usr := User{
		ID:          id,
		Email:       uu.Email,
		DisplayName: uu.DisplayName,
		AvatarURL:   uu.AvatarURL,
		UpdatedAt:   time.Now().UTC(),
	}
	if uu.Password != "" {
		if err := usr.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
	}
	return svc.repo.UpdateUser(usr, uu.IsActive)
}

func (svc *Service) Delete(idn Identity, ids ...string) error {
	if idn.IsZero() {
		return core.ErrAuthRequired
	}
	if !idn.IsAdmin() {
		return core.ErrPermissionDenied
	}
	return svc.repo.DeleteUsersByID(ids...)
}
