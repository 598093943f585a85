package attendance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/user"
	"github.com/trezcool/shule/storage/inmem"
	testutil "github.com/trezcool/shule/tests"
)

func setup(t *testing.T) (*attendance.Service, class.Repository, user.Repository) {
	db := testutil.OpenDB(t)
	attRepo := inmem.NewAttendanceRepository(db)
	clsRepo := inmem.NewClassRepository(db)
	usrRepo := inmem.NewUserRepository(db)
	clsSvc := class.NewService(clsRepo, usrRepo)
	return attendance.NewService(attRepo, clsSvc), clsRepo, usrRepo
}

func TestService_Mark(t *testing.T) {
	svc, clsRepo, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	owner := testutil.CreateUser(t, usrRepo, "Owner", "owner@test.cd", user.RoleTeacher, "", true)
	other := testutil.CreateUser(t, usrRepo, "Other", "other@test.cd", user.RoleTeacher, "", true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student@test.cd", user.RoleStudent, "", true)

	cls := testutil.CreateClass(t, clsRepo, "Algebra I", "Math", owner.ID)
	testutil.Enroll(t, clsRepo, cls.ID, student.ID)

	na := attendance.NewAttendance{
		ClassID:   cls.ID,
		StudentID: student.ID,
		Date:      "2026-03-02",
		Status:    attendance.StatusPresent,
	}

	if _, err := svc.Mark(user.Identity{}, na); err != core.ErrAuthRequired {
		t.Errorf("Mark() error = %v; want %v", err, core.ErrAuthRequired)
	}
	if _, err := svc.Mark(student.Identity(), na); err != core.ErrPermissionDenied {
		t.Errorf("Mark() error = %v; want %v", err, core.ErrPermissionDenied)
	}
	if _, err := svc.Mark(other.Identity(), na); err != core.ErrPermissionDenied {
		t.Errorf("Mark() error = %v; want %v", err, core.ErrPermissionDenied)
	}

	att, err := svc.Mark(owner.Identity(), na)
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}
	assert.Equal(t, attendance.StatusPresent, att.Status)
	assert.Equal(t, owner.ID, att.MarkedBy)

	// re-marking the same (class, student, date) overwrites the record
	na.Status = attendance.StatusLate
	na.Notes = "arrived 10 min late"
	remarked, err := svc.Mark(admin.Identity(), na)
	if err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}
	assert.Equal(t, att.ID, remarked.ID)
	assert.Equal(t, attendance.StatusLate, remarked.Status)
	assert.Equal(t, admin.ID, remarked.MarkedBy)

	recs, err := svc.QueryByClass(owner.Identity(), cls.ID, na.Date)
	if err != nil {
		t.Fatalf("QueryByClass() failed: %v", err)
	}
	assert.Len(t, recs, 1)

	// a different day is a different record
	na.Date = "2026-03-03"
	if _, err = svc.Mark(owner.Identity(), na); err != nil {
		t.Fatalf("Mark() failed: %v", err)
	}
	recs, err = svc.QueryByClass(owner.Identity(), cls.ID, "")
	if err != nil {
		t.Fatalf("QueryByClass() failed: %v", err)
	}
	assert.Len(t, recs, 2)
}

func TestService_Query(t *testing.T) {
	svc, clsRepo, usrRepo := setup(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	teacher1 := testutil.CreateUser(t, usrRepo, "T1", "t1@test.cd", user.RoleTeacher, "", true)
	teacher2 := testutil.CreateUser(t, usrRepo, "T2", "t2@test.cd", user.RoleTeacher, "", true)
	idle := testutil.CreateUser(t, usrRepo, "Idle", "idle@test.cd", user.RoleTeacher, "", true)
	student1 := testutil.CreateUser(t, usrRepo, "S1", "s1@test.cd", user.RoleStudent, "", true)
	student2 := testutil.CreateUser(t, usrRepo, "S2", "s2@test.cd", user.RoleStudent, "", true)
	staff := testutil.CreateUser(t, usrRepo, "Staff", "staff@test.cd", user.RoleStaff, "", true)

	math := testutil.CreateClass(t, clsRepo, "Algebra I", "Math", teacher1.ID)
	hist := testutil.CreateClass(t, clsRepo, "History", "Social Studies", teacher2.ID)
	testutil.Enroll(t, clsRepo, math.ID, student1.ID)
	testutil.Enroll(t, clsRepo, hist.ID, student2.ID)

	mark := func(idn user.Identity, classID, studentID, date, status string) attendance.Attendance {
		att, err := svc.Mark(idn, attendance.NewAttendance{
			ClassID: classID, StudentID: studentID, Date: date, Status: status,
		})
		if err != nil {
			t.Fatalf("Mark() failed: %v", err)
		}
		return att
	}

	att1 := mark(teacher1.Identity(), math.ID, student1.ID, "2026-03-02", attendance.StatusPresent)
	att2 := mark(teacher1.Identity(), math.ID, student1.ID, "2026-03-03", attendance.StatusAbsent)
	att3 := mark(teacher2.Identity(), hist.ID, student2.ID, "2026-03-02", attendance.StatusExcused)

	tests := []struct {
		name    string
		idn     user.Identity
		want    []attendance.Attendance
		wantErr error
	}{
		{name: "auth required", wantErr: core.ErrAuthRequired},
		{name: "admin gets all", idn: admin.Identity(), want: []attendance.Attendance{att1, att2, att3}},
		{name: "student gets own", idn: student1.Identity(), want: []attendance.Attendance{att1, att2}},
		{name: "teacher gets own classes'", idn: teacher1.Identity(), want: []attendance.Attendance{att1, att2}},
		{name: "teacher without classes gets none", idn: idle.Identity(), want: []attendance.Attendance{}},
		{name: "staff gets none", idn: staff.Identity(), want: []attendance.Attendance{}},
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

func TestNewAttendance_Validate(t *testing.T) {
	validate, _ := testutil.NewValidator(t)

	tests := []struct {
		name    string
		na      attendance.NewAttendance
		wantErr bool
	}{
		{
			name: "valid",
			na:   attendance.NewAttendance{ClassID: "c", StudentID: "s", Date: "2026-03-02", Status: "Present "},
		},
		{
			name:    "unknown status",
			na:      attendance.NewAttendance{ClassID: "c", StudentID: "s", Date: "2026-03-02", Status: "vanished"},
			wantErr: true,
		},
		{
			name:    "bad date",
			na:      attendance.NewAttendance{ClassID: "c", StudentID: "s", Date: "03/02/2026", Status: "present"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.na.Validate(validate)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, attendance.StatusPresent, tt.na.Status)
			}
		})
	}
}
