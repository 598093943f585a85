package tests

import (
	"net/http"
	"testing"
	"time"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

func Test_dashboardApi_stats(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", user.RoleTeacher, "", true)
	student := testutil.CreateUser(t, usrRepo, "Student", "student@test.cd", user.RoleStudent, "", true)

	cls := testutil.CreateClass(t, clsRepo, "Algebra I", "Math", teacher.ID)
	testutil.CreateAssignment(t, asgRepo, "HW 1", cls.ID, teacher.ID, 100)

	now := time.Now().UTC()
	for i, status := range []string{attendance.StatusPresent, attendance.StatusAbsent} {
		_, err := attRepo.CreateAttendance(attendance.Attendance{
			ID: core.NewID("attendance"), ClassID: cls.ID, StudentID: student.ID,
			Date: now.AddDate(0, 0, -i).Format(attendance.DateLayout), Status: status,
			MarkedBy: teacher.ID, MarkedAt: now,
		})
		if err != nil {
			t.Fatalf("CreateAttendance() failed: %v", err)
		}
	}

	tests := []httpTest{
		{name: "Auth required", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, teacher),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied),
		},
		{
			name: "Stats", token: getToken(t, admin), wantCode: http.StatusOK,
			wantData: marchallObj(t, dashboard.Stats{
				TotalStudents:    1,
				TotalTeachers:    1,
				TotalClasses:     1,
				TotalAssignments: 1,
				AttendanceRate:   50,
			}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/dashboard/stats", tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
