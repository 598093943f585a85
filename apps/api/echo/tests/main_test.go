package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"reflect"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	echoapi "github.com/trezcool/shule/apps/api/echo"
	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/assignment"
	"github.com/trezcool/shule/core/attendance"
	"github.com/trezcool/shule/core/class"
	"github.com/trezcool/shule/core/content"
	"github.com/trezcool/shule/core/dashboard"
	"github.com/trezcool/shule/core/leave"
	"github.com/trezcool/shule/core/message"
	"github.com/trezcool/shule/core/user"
	emailsvc "github.com/trezcool/shule/services/email"
	logsvc "github.com/trezcool/shule/services/logger"
	"github.com/trezcool/shule/storage/inmem"
	testutil "github.com/trezcool/shule/tests"
)

var (
	db   *inmem.DB
	app  echoapi.Server
	conf *core.Config

	usrRepo user.Repository
	clsRepo class.Repository
	asgRepo assignment.Repository
	attRepo attendance.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errPermDenied   = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func TestMain(m *testing.M) {
	var err error

	// set up DB & repos
	if db, err = inmem.Open(); err != nil {
		fmt.Printf("inmem.Open(): %v", err)
		os.Exit(1)
	}
	usrRepo = inmem.NewUserRepository(db)
	clsRepo = inmem.NewClassRepository(db)
	asgRepo = inmem.NewAssignmentRepository(db)
	attRepo = inmem.NewAttendanceRepository(db)
	lveRepo := inmem.NewLeaveRepository(db)
	msgRepo := inmem.NewMessageRepository(db)
	cntRepo := inmem.NewContentRepository(db)

	// set up services
	conf = testutil.NewConfig()
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	usrSvc := user.NewService(usrRepo)
	clsSvc := class.NewService(clsRepo, usrRepo)

	validate := validator.New()
	enLocale := en.New()
	translator, ok := ut.New(enLocale, enLocale).GetTranslator("en")
	if !ok {
		fmt.Print("en translator not found")
		os.Exit(1)
	}
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "TEST : ", log.LstdFlags), conf)
	logger.Enable(false)

	// set up server
	app = echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		DisableReqLogs: true,

		UsrSvc:  usrSvc,
		ClsSvc:  clsSvc,
		AsgSvc:  assignment.NewService(asgRepo, clsSvc),
		AttSvc:  attendance.NewService(attRepo, clsSvc),
		LveSvc:  leave.NewService(lveRepo, usrRepo, mailSvc),
		MsgSvc:  message.NewService(msgRepo, usrRepo, clsSvc, mailSvc),
		CntSvc:  content.NewService(cntRepo),
		DashSvc: dashboard.NewService(usrRepo, clsRepo, asgRepo, attRepo, lveRepo, msgRepo, nil),

		Validate:   validate,
		Translator: translator,
	})

	os.Exit(m.Run())
}

func resetDB(t *testing.T) {
	t.Helper()
	db.Reset()
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	extra    interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	claims := echoapi.GetUserClaims(usr)
	token, err := echoapi.GenerateToken(claims)
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func marchallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{} // a nil slice marshals to "null" instead of "[]"
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marchallList(): %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	return false, nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
