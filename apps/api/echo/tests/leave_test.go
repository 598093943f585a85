package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/user"
	testutil "github.com/trezcool/shule/tests"
)

func Test_leaveApi_lifecycle(t *testing.T) {
	resetDB(t)

	admin := testutil.CreateUser(t, usrRepo, "Admin", "admin@test.cd", user.RoleAdmin, "", true)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.cd", user.RoleTeacher, "", true)

	adminToken := getToken(t, admin)
	teacherToken := getToken(t, teacher)

	t.Run("dates are validated", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"start_date": "2026-04-03", "end_date": "2026-04-01", "reason": "trip"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/leave-requests", teacherToken, body)
		app.ServeHTTP(rec, req)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"end_date": "end date cannot be before start date"}),
		}
		checkCodeAndData(t, tt, rec)
	})

	var req leave.Request
	t.Run("file a request", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"start_date": "2026-04-01", "end_date": "2026-04-03", "reason": "family"})
		httpReq, rec := newAuthRequest(http.MethodPost, "/v1/leave-requests", teacherToken, body)
		app.ServeHTTP(rec, httpReq)
		if rec.Code != http.StatusCreated {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &req); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if req.Status != leave.StatusPending || req.ApprovedBy != "" || req.ApprovedAt != nil {
			t.Errorf("unexpected request: %+v", req)
		}
	})

	t.Run("requester sees it, admin sees it", func(t *testing.T) {
		for _, token := range []string{teacherToken, adminToken} {
			httpReq, rec := newAuthRequest(http.MethodGet, "/v1/leave-requests", token)
			app.ServeHTTP(rec, httpReq)
			tt := httpTest{wantCode: http.StatusOK, wantData: marchallList(t, req)}
			checkCodeAndData(t, tt, rec)
		}
	})

	t.Run("only admins resolve", func(t *testing.T) {
		httpReq, rec := newAuthRequest(http.MethodPost, "/v1/leave-requests/"+req.ID+"/approve", teacherToken)
		app.ServeHTTP(rec, httpReq)
		tt := httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errPermDenied)}
		checkCodeAndData(t, tt, rec)
	})

	t.Run("approve", func(t *testing.T) {
		httpReq, rec := newAuthRequest(http.MethodPost, "/v1/leave-requests/"+req.ID+"/approve", adminToken)
		app.ServeHTTP(rec, httpReq)
		if rec.Code != http.StatusOK {
			t.Fatalf("failed! code = %v; body = %v", rec.Code, rec.Body.String())
		}
		var resolved leave.Request
		if err := json.Unmarshal(rec.Body.Bytes(), &resolved); err != nil {
			t.Fatalf("unmarshalling response: %v", err)
		}
		if resolved.Status != leave.StatusApproved || resolved.ApprovedBy != admin.ID || resolved.ApprovedAt == nil {
			t.Errorf("unexpected request: %+v", resolved)
		}
	})

	t.Run("a resolution is final", func(t *testing.T) {
		httpReq, rec := newAuthRequest(http.MethodPost, "/v1/leave-requests/"+req.ID+"/reject", adminToken)
		app.ServeHTTP(rec, httpReq)
		tt := httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "leave request has already been resolved"}),
		}
		checkCodeAndData(t, tt, rec)
	})
}
