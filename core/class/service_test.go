package class_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func setup(t *testing.T) (*class.Service, class.Repository, user.Repository) {
	db := testutil.OpenDB(t)
	clsRepo := inmem.NewClassRepository(db)
	usrRepo := inmem.NewUserRepository(db)
	return class.NewService(clsRepo, usrRepo), clsRepo, usrRepo
}

func TestService_Create(t *testing.T) {
	svc, _, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", user.RoleTeacher, "", true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student@test.cd", user.RoleStudent, "", true)

	nc := class.NewClass{Name: "Algebra I", Subject: "Math", GradeLevel: "9"}

	tests := []struct {
		name        string
		idn         user.Identity
		nc          class.NewClass
		wantTeacher string
		wantErr     error
	}{
		{name: "auth required", nc: nc, wantErr: core.ErrAuthRequired},
		{name: "student denied", idn: student.Identity(), nc: nc, wantErr: core.ErrPermissionDenied},
		{name: "teacher owns what they create", idn: teacher.Identity(), nc: nc, wantTeacher: teacher.ID},
		{
			// a teacher cannot assign a class to someone else
			name: "teacher_id ignored for teachers", idn: teacher.Identity(),
			nc:          class.NewClass{Name: "Algebra I", Subject: "Math", GradeLevel: "9", TeacherID: admin.ID},
			wantTeacher: teacher.ID,
		},
		{
			name: "admin assigns a teacher", idn: admin.Identity(),
			nc:          class.NewClass{Name: "Algebra I", Subject: "Math", GradeLevel: "9", TeacherID: teacher.ID},
			wantTeacher: teacher.ID,
		},
		{name: "admin defaults to self", idn: admin.Identity(), nc: nc, wantTeacher: admin.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cls, err := svc.Create(tt.idn, tt.nc)
			if err != tt.wantErr {
				t.Fatalf("Create() error = %v; wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr == nil {
				assert.Equal(t, tt.wantTeacher, cls.TeacherID)
				assert.NotEmpty(t, cls.ID)
			}
		})
	}
}

func TestService_Query(t *testing.T) {
	svc, clsRepo, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	teacher1 := testutil.CreateUser(t, usrRepo, "T1", "t1@test.cd", user.RoleTeacher, "", true)
	teacher2 := testutil.CreateUser(t, usrRepo, "T2", "t2@test.cd", user.RoleTeacher, "", true)
	student := testutil.CreateUser(t, usrRepo, "S1", "s1@test.cd", user.RoleStudent, "", true)
	loner := testutil.CreateUser(t, usrRepo, "S2", "s2@test.cd", user.RoleStudent, "", true)
	staff := testutil.CreateUser(t, usrRepo, "Staff", "staff@test.cd", user.RoleStaff, "", true)

	math := testutil.CreateClass(t, clsRepo, "Algebra I", "Math", teacher1.ID)
	bio := testutil.CreateClass(t, clsRepo, "Biology", "Science", teacher1.ID)
	hist := testutil.CreateClass(t, clsRepo, "History", "Social Studies", teacher2.ID)

	testutil.Enroll(t, clsRepo, math.ID, student.ID)
	testutil.Enroll(t, clsRepo, hist.ID, student.ID)

	tests := []struct {
		name    string
		idn     user.Identity
		want    []class.Class
		wantErr error
	}{
		{name: "auth required", wantErr: core.ErrAuthRequired},
		{name: "admin gets all", idn: admin.Identity(), want: []class.Class{math, bio, hist}},
		{name: "teacher gets own", idn: teacher1.Identity(), want: []class.Class{math, bio}},
		{name: "student gets enrolled", idn: student.Identity(), want: []class.Class{math, hist}},
		{name: "unenrolled student gets none", idn: loner.Identity(), want: []class.Class{}},
		{name: "staff gets none", idn: staff.Identity(), want: []class.Class{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := svc.Query(tt.idn)
			if err != tt.wantErr {
				t.Fatalf("Query() error = %v; wantErr %v", err, tt.wantErr)
			}
			assert.ElementsMatch(t, tt.want, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	svc, clsRepo, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	owner := testutil.CreateUser(t, usrRepo, "Owner", "owner@test.cd", user.RoleTeacher, "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", user.RoleTeacher, "", true)

	cls := testutil.CreateClass(t, clsRepo, "Algebra I", "Math", owner.ID)

	uc := class.UpdateClass{Name: "Algebra II", Subject: "Math", GradeLevel: "10"}

	if _, err := svc.Update(other.Identity(), cls.ID, uc); err != core.ErrPermissionDenied {
		t.Errorf("Update() error = %v; want %v", err, core.ErrPermissionDenied)
	}
	if _, err := svc.Update(owner.Identity(), "nope", uc); err != class.ErrNotFound {
		t.Errorf("Update() error = %v; want %v", err, class.ErrNotFound)
	}

	got, err := svc.Update(owner.Identity(), cls.ID, uc)
	if err != nil {
		t.Fatalf("Update() failed: %v", err)
	}
	assert.Equal(t, "Algebra II", got.Name)
	assert.Equal(t, "10", got.GradeLevel)

	if _, err = svc.Update(admin.Identity(), cls.ID, uc); err != nil {
		t.Errorf("Update() by admin failed: %v", err)
	}
}

func TestService_EnrollUnenroll(t *testing.T) {
	svc, clsRepo, usrRepo := setup(t)

	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", user.RoleTeacher, "", true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student@test.cd", user.RoleStudent, "", true)

	cls := testutil.CreateClass(t, clsRepo, "Algebra I", "Math", teacher.ID)

	if _, err := svc.Enroll(student.Identity(), cls.ID, student.ID); err != core.ErrPermissionDenied {
		t.Errorf("Enroll() error = %v; want %v", err, core.ErrPermissionDenied)
	}

	enr, err := svc.Enroll(teacher.Identity(), cls.ID, student.ID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}

	// re-enrolling returns the existing enrollment
	again, err := svc.Enroll(teacher.Identity(), cls.ID, student.ID)
	if err != nil {
		t.Fatalf("Enroll() failed: %v", err)
	}
	assert.Equal(t, enr.ID, again.ID)

	roster, err := svc.Students(teacher.Identity(), cls.ID)
	if err != nil {
		t.Fatalf("Students() failed: %v", err)
	}
	assert.ElementsMatch(t, []user.User{student}, roster)

	if err = svc.Unenroll(teacher.Identity(), cls.ID, student.ID); err != nil {
		t.Fatalf("Unenroll() failed: %v", err)
	}
	if err = svc.Unenroll(teacher.Identity(), cls.ID, student.ID); err != class.ErrEnrollmentNotFound {
		t.Errorf("Unenroll() error = %v; want %v", err, class.ErrEnrollmentNotFound)
	}

	roster, err = svc.Students(teacher.Identity(), cls.ID)
	if err != nil {
		t.Fatalf("Students() failed: %v", err)
	}
	assert.Empty(t, roster)
}

func TestService_Delete(t *testing.T) {
	svc, clsRepo, usrRepo := setup(t)

	owner := testutil.CreateUser(t, usrRepo, "Owner", "owner@test.cd", user.RoleTeacher, "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", user.RoleTeacher, "", true)

	cls := testutil.CreateClass(t, clsRepo, "Algebra I", "Math", owner.ID)

	if err := svc.Delete(other.Identity(), cls.ID); err != core.ErrPermissionDenied {
		t.Errorf("Delete() error = %v; want %v", err, core.ErrPermissionDenied)
	}
	if err := svc.Delete(owner.Identity(), cls.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := svc.GetByID(owner.Identity(), cls.ID); err != class.ErrNotFound {
		t.Errorf("GetByID() error = %v; want %v", err, class.ErrNotFound)
	}
}
