package user_test

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func setup(t *testing.T) (*user.Service, user.Repository) {
	db := testutil.OpenDB(t)
	repo := inmem.NewUserRepository(db)
	return user.NewService(repo), repo
}

func TestService_CreateAndAuthenticate(t *testing.T) {
	svc, _ := setup(t)

	usr, err := svc.Create(user.NewUser{
		Email:       "jim@test.cd",
		DisplayName: "Jim",
		Role:        user.RoleTeacher,
		Password:    "s3cret",
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.Empty(t, usr.AvatarURL)

	got, err := svc.Authenticate("jim@test.cd", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	assert.Equal(t, usr.ID, got.ID)

	// email is case-insensitive
	if _, err = svc.Authenticate("JIM@Test.CD", "s3cret"); err != nil {
		t.Errorf("Authenticate() with mixed-case email failed: %v", err)
	}

	if _, err = svc.Authenticate("jim@test.cd", "wrong"); err != user.ErrNotFound {
		t.Errorf("Authenticate() error = %v; want %v", err, user.ErrNotFound)
	}
	if _, err = svc.Authenticate("ghost@test.cd", "s3cret"); err != user.ErrNotFound {
		t.Errorf("Authenticate() error = %v; want %v", err, user.ErrNotFound)
	}
}

func TestService_Query(t *testing.T) {
	svc, repo := setup(t)

	admin := testutil.CreateUser(t, repo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	teacher := testutil.CreateUser(t, repo, "Teacher", "teacher@test.cd", user.RoleTeacher, "", true)
	student := testutil.CreateUser(t, repo, "Student", "student@test.cd", user.RoleStudent, "", true)
	staff := testutil.CreateUser(t, repo, "Staff", "staff@test.cd", user.RoleStaff, "", true)

	tests := []struct {
		name    string
		idn     user.Identity
		filter  user.QueryFilter
		want    []user.User
		wantErr error
	}{
		{name: "auth required", wantErr: core.ErrAuthRequired},
		{name: "student denied", idn: student.Identity(), wantErr: core.ErrPermissionDenied},
		{name: "teacher denied", idn: teacher.Identity(), wantErr: core.ErrPermissionDenied},
		{name: "staff denied", idn: staff.Identity(), wantErr: core.ErrPermissionDenied},
		{name: "admin gets all", idn: admin.Identity(), want: []user.User{admin, teacher, student, staff}},
		{
			name: "admin filters by role", idn: admin.Identity(),
			filter: user.QueryFilter{Role: user.RoleTeacher}, want: []user.User{teacher},
		},
		{
			name: "unknown role matches none", idn: admin.Identity(),
			filter: user.QueryFilter{Role: "lol"}, want: []user.User{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(tt.idn, tt.filter)
			if err != tt.wantErr {
				t.Fatalf("Query() error = %v; wantErr %v", err, tt.wantErr)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, repo := setup(t)

	admin := testutil.CreateUser(t, repo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	usr := testutil.CreateUser(t, repo, "Jim", "jim@test.cd", user.RoleStudent, "s3cret", true)
	other := testutil.CreateUser(t, repo, "Bob", "bob@test.cd", user.RoleStudent, "", true)

	bPtr := func(b bool) *bool { return &b }

	tests := []struct {
		name    string
		idn     user.Identity
		id      string
		uu      user.UpdateUser
		wantErr error
	}{
		{name: "auth required", id: usr.ID, wantErr: core.ErrAuthRequired},
		{name: "other user denied", idn: other.Identity(), id: usr.ID, wantErr: core.ErrPermissionDenied},
		{
			name: "self cannot deactivate", idn: usr.Identity(), id: usr.ID,
			uu:      user.UpdateUser{Email: usr.Email, DisplayName: usr.DisplayName, IsActive: bPtr(false)},
			wantErr: core.ErrPermissionDenied,
		},
		{
			name: "self updates profile", idn: usr.Identity(), id: usr.ID,
			uu: user.UpdateUser{Email: "jim.new@test.cd", DisplayName: "Jimmy"},
		},
		{
			name: "admin deactivates", idn: admin.Identity(), id: usr.ID,
			uu: user.UpdateUser{Email: "jim.new@test.cd", DisplayName: "Jimmy", IsActive: bPtr(false)},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Update(tt.idn, tt.id, tt.uu)
			if err != tt.wantErr {
				t.Fatalf("Update() error = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				assert.Equal(t, tt.uu.Email, got.Email)
				assert.Equal(t, tt.uu.DisplayName, got.DisplayName)
				if tt.uu.IsActive != nil {
					assert.Equal(t, *tt.uu.IsActive, got.IsActive)
				}
			}
		})
	}

	// password change survives a round trip
	uu := user.UpdateUser{Email: usr.Email, DisplayName: usr.DisplayName, Password: "n3wpwd"}
	if _, err := svc.Update(usr.Identity(), usr.ID, uu); err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	refreshed, err := repo.GetUserByID(usr.ID)
	if err != nil {
		t.Fatalf("GetUserByID() failed: %v", err)
	}
	if err = refreshed.CheckPassword("n3wpwd"); err != nil {
		t.Error("failed to update password")
	}
}

func TestService_Delete(t *testing.T) {
	svc, repo := setup(t)

	admin := testutil.CreateUser(t, repo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	usr := testutil.CreateUser(t, repo, "Jim", "jim@test.cd", user.RoleStudent, "", true)

	if err := svc.Delete(usr.Identity(), usr.ID); err != core.ErrPermissionDenied {
		t.Errorf("Delete() error = %v; want %v", err, core.ErrPermissionDenied)
	}
	if err := svc.Delete(admin.Identity(), usr.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(admin.Identity(), usr.ID); err != user.ErrNotFound {
		t.Errorf("GetByID() error = %v; want %v", err, user.ErrNotFound)
	}
}

func TestNewUser_Validate(t *testing.T) {
	svc, repo := setup(t)
	validate, _ := testutil.NewValidator(t)

	testutil.CreateUser(t, repo, "Jim", "jim@test.cd", user.RoleStudent, "", true)

	tests := []struct {
		name       string
		nu         user.NewUser
		wantFields []string
	}{
		{
			name: "valid",
			nu: user.NewUser{
				Email: "bob@test.cd", DisplayName: "Bob", Role: user.RoleStaff,
				Password: "s3cret", PasswordConfirm: "s3cret",
			},
		},
		{
			name: "duplicate email",
			nu: user.NewUser{
				Email: " JIM@test.cd ", DisplayName: "Jim 2", Role: user.RoleStudent,
				Password: "s3cret", PasswordConfirm: "s3cret",
			},
			wantFields: []string{"email"},
		},
		{
			name: "unknown role",
			nu: user.NewUser{
				Email: "eve@test.cd", DisplayName: "Eve", Role: "boss",
				Password: "s3cret", PasswordConfirm: "s3cret",
			},
			wantFields: []string{"role"},
		},
		{
			name: "password mismatch",
			nu: user.NewUser{
				Email: "eve@test.cd", DisplayName: "Eve", Role: user.RoleStaff,
				Password: "s3cret", PasswordConfirm: "nope",
			},
			wantFields: []string{"password_confirm"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.nu.Validate(validate, svc)
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			switch verr := err.(type) {
			case *core.ValidationError:
				flds := make([]string, 0, len(verr.Fields))
				for _, fe := range verr.Fields {
					flds = append(flds, fe.Field)
				}
				assert.ElementsMatch(t, tt.wantFields, flds)
			case validator.ValidationErrors:
				flds := make([]string, 0, len(verr))
				for _, fe := range verr {
					flds = append(flds, fe.Field())
				}
				assert.ElementsMatch(t, tt.wantFields, flds)
			default:
				t.Fatalf("Validate() error = %v; want a validation error", err)
			}
		})
	}
}
