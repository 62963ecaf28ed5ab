package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	echoapi "github.com/smartgrade/smartgrade/apps/api/echo"
	"github.com/smartgrade/smartgrade/core"
	"github.com/smartgrade/smartgrade/core/evaluation"
	"github.com/smartgrade/smartgrade/core/identity"
	"github.com/smartgrade/smartgrade/core/presentation"
	"github.com/smartgrade/smartgrade/core/session"
	logsvc "github.com/smartgrade/smartgrade/services/logger"
	inmemdb "github.com/smartgrade/smartgrade/storage/inmem"
	"github.com/smartgrade/smartgrade/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*echoapi.Server
	mgr   *session.Manager
	store core.Store
}

func setup(t *testing.T) testApp {
	t.Helper()

	store := inmemdb.Open()
	mgr, _ := testutil.NewSession(t, store)
	return setupWith(t, mgr, store)
}

// setupWith serves mgr, whose identities are persisted in store.
func setupWith(t *testing.T, mgr *session.Manager, store core.Store) testApp {
	t.Helper()

	conf := core.NewTestConfig()
	logger := logsvc.NewNopLogger()
	validate, translator := testutil.NewValidator()

	srv := echoapi.NewServer(echoapi.ServerDeps{
		Conf:           conf,
		Logger:         logger,
		Session:        mgr,
		Grading:        evaluation.NewService(evaluation.NewMockEvaluator(evaluation.MockConfig{Sleep: core.NoSleep}), logger),
		Catalog:        evaluation.MustDefaultCatalog(),
		Presentations:  presentation.NewGenerator(presentation.Config{Sleep: core.NoSleep}),
		Validate:       validate,
		Translator:     translator,
		DisableReqLogs: true,
	})
	t.Cleanup(func() { _ = srv.Close() })
	return testApp{Server: srv, mgr: mgr, store: store}
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

// login logs a demo account in through the API and returns its token.
func login(t *testing.T, app testApp, email string) string {
	t.Helper()

	req, rec := newRequest(http.MethodPost, "/v1/session/login", marshalObj(t, echoapi.LoginRequest{Email: email, Password: identity.DemoPassword}))
	app.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login(%s) failed: %d %s", email, rec.Code, rec.Body.String())
	}

	var resp echoapi.AuthResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("login(%s) failed: %v", email, err)
	}
	return resp.Token
}

func marshalObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshalObj() failed: %v", err)
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
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	if tt.wantData == nil {
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}

func runHTTPTests(t *testing.T, app testApp, tests []httpTest) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
