package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/shule/core"
)

// Roles. A user holds exactly one; it is the sole authorization axis and is
// immutable for the lifetime of a session.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
	RoleStudent = "student"
	RoleStaff   = "staff"
)

var (
	AllRoles = []string{RoleAdmin, RoleTeacher, RoleStudent, RoleStaff}

	Roles = []Role{
		{Name: "Student", Value: RoleStudent},
		{Name: "Teacher", Value: RoleTeacher},
		{Name: "Staff", Value: RoleStaff},
		{Name: "Admin", Value: RoleAdmin},
	}
)

type Role struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type User struct {
	ID           string    `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	DisplayName  string    `json:"display_name" db:"display_name"`
	Role         string    `json:"role" db:"role"`
	AvatarURL    string    `json:"avatar_url,omitempty" db:"avatar_url"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	PasswordHash []byte    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"` // UTC
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsAdmin() bool   { return u.Role == RoleAdmin }
func (u User) IsTeacher() bool { return u.Role == RoleTeacher }
func (u User) IsStudent() bool { return u.Role == RoleStudent }
func (u User) IsStaff() bool   { return u.Role == RoleStaff }

// Identity returns the scoping identity all query and mutation services take.
func (u User) Identity() Identity {
	return Identity{ID: u.ID, Role: u.Role}
}

// Identity is the (id, role) pair every scoped query and mutation is invoked
// with. It is threaded in explicitly rather than read from ambient session
// state so services stay deterministic under test.
type Identity struct {
	ID   string
	Role string
}

func (idn Identity) IsZero() bool    { return idn.ID == "" }
func (idn Identity) IsAdmin() bool   { return idn.Role == RoleAdmin }
func (idn Identity) IsTeacher() bool { return idn.Role == RoleTeacher }
func (idn Identity) IsStudent() bool { return idn.Role == RoleStudent }
func (idn Identity) IsStaff() bool   { return idn.Role == RoleStaff }

// NewUser contains information needed to create a new User.
type NewUser struct {
	Email           string `json:"email" validate:"required,email"`
	DisplayName     string `json:"display_name" validate:"required"`
	Role            string `json:"role" validate:"required,role"`
	AvatarURL       string `json:"avatar_url" validate:"omitempty,url"`
	Password        string `json:"password" validate:"required"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.DisplayName = core.CleanString(nu.DisplayName)
	nu.Role = core.CleanString(nu.Role, true /* lower */)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Email)
}

// UpdateUser defines what information may be provided to modify an existing
// User. Role is deliberately absent: it is immutable.
type UpdateUser struct {
	Email           string `json:"email" validate:"omitempty,email"`
	DisplayName     string `json:"display_name"`
	AvatarURL       string `json:"avatar_url" validate:"omitempty,url"`
	IsActive        *bool  `json:"is_active"`
	Password        string `json:"password" validate:"omitempty"`
	PasswordConfirm string `json:"password_confirm" validate:"required_with=Password,eqfield=Password"`
}

func (uu *UpdateUser) Validate(origUsr User, validate *validator.Validate, svc *Service) error {
	if email := core.CleanString(uu.Email, true /* lower */); email != "" {
		uu.Email = email
	} else {
		uu.Email = origUsr.Email
	}
	if name := core.CleanString(uu.DisplayName); name != "" {
		uu.DisplayName = name
	} else {
		uu.DisplayName = origUsr.DisplayName
	}

	if err := validate.Struct(uu); err != nil {
		return err
	}
	return svc.checkUniqueness(uu.Email, origUsr)
}

type QueryFilter struct {
	Role string `query:"role"`
}

func (qf *QueryFilter) Clean() {
	qf.Role = core.CleanString(qf.Role, true /* lower */)
}
