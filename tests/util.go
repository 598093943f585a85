package testutil

import (
	"net/mail"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/inmem"
)

// NewConfig returns a minimal TEST mode configuration.
func NewConfig() *core.Config {
	return &core.Config{
		TestMode:         true,
		Env:              "TEST",
		AppName:          "Shule",
		SecretKey:        "secret",
		DefaultFromEmail: mail.Address{Name: "Shule", Address: "noreply@test.cd"},
		Server: core.ServerConfig{
			JWTExpirationDelta:        10 * time.Minute,
			JWTRefreshExpirationDelta: 4 * time.Hour,
		},
	}
}

// NewValidator returns a validator wired with all custom validations and
// English translations.
func NewValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	validate := validator.New()
	enLocale := en.New()
	translator, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	if !ok {
		t.Fatal("NewValidator() failed: en translator not found")
	}
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)
	return validate, translator
}

func OpenDB(t *testing.T) *inmem.DB {
	db, err := inmem.Open()
	if err != nil {
		t.Fatalf("OpenDB() failed: %v", err)
	}
	return db
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	name, email, role, pwd string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:          core.NewID("user"),
		Email:       email,
		DisplayName: name,
		Role:        role,
		IsActive:    isActive,
		CreatedAt:   tstamp,
		UpdatedAt:   tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateClass(
	t *testing.T,
	repo class.Repository,
	name, subject, teacherID string,
	createdAt ...time.Time,
) class.Class {
	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	cls, err := repo.CreateClass(class.Class{
		ID:         core.NewID("class"),
		Name:       name,
		Subject:    subject,
		GradeLevel: "10",
		TeacherID:  teacherID,
		CreatedAt:  tstamp,
		UpdatedAt:  tstamp,
	})
	if err != nil {
		t.Fatalf("CreateClass() failed: %v", err)
	}
	return cls
}

func Enroll(t *testing.T, repo class.Repository, classID, studentID string) class.Enrollment {
	enr, err := repo.CreateEnrollment(class.Enrollment{
		ID:         core.NewID("enrollment"),
		ClassID:    classID,
		StudentID:  studentID,
		EnrolledAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	return enr
}

func CreateAssignment(
	t *testing.T,
	repo assignment.Repository,
	title, classID, teacherID string,
	maxPoints int,
	dueDate ...time.Time,
) assignment.Assignment {
	now := time.Now().UTC()
	due := now.Add(7 * 24 * time.Hour)
	if len(dueDate) > 0 {
		due = dueDate[0].UTC()
	}
	asg, err := repo.CreateAssignment(assignment.Assignment{
		ID:        core.NewID("assignment"),
		Title:     title,
		ClassID:   classID,
		TeacherID: teacherID,
		DueDate:   due,
		MaxPoints: maxPoints,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateAssignment() failed: %v", err)
	}
	return asg
}
