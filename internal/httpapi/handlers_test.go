package httpapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/auth"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/common"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/logging"
	"github.com/HuongLanTo/miu-cloud-computing-final-project/internal/users"
)

const testSecret = "test-secret"

type fakeUserService struct {
	signupURL string
	signupErr error

	loginToken string
	loginErr   error

	profileOut   *users.User
	profileErr   error
	profileEmail string

	uploadURL   string
	uploadErr   error
	uploadEmail string
}

func (f *fakeUserService) SignUp(ctx context.Context, email, password, profileName, fileName, contentType string) (string, error) {
	return f.signupURL, f.signupErr
}

func (f *fakeUserService) Login(ctx context.Context, email, password string) (string, error) {
	return f.loginToken, f.loginErr
}

func (f *fakeUserService) Profile(ctx context.Context, email string) (*users.User, error) {
	f.profileEmail = email
	return f.profileOut, f.profileErr
}

func (f *fakeUserService) NewUploadURL(ctx context.Context, email, fileName, contentType string) (string, error) {
	f.uploadEmail = email
	return f.uploadURL, f.uploadErr
}

func newTestServer(t *testing.T, svc UserService) *Server {
	t.Helper()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewServer(":0", logger, svc, testSecret)
}

func doRequest(t *testing.T, s *Server, method, target, body, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not JSON: %v (%s)", err, rec.Body.String())
	}
	return m
}

func validToken(t *testing.T, email string) string {
	t.Helper()
	token, err := auth.GenerateToken(email, []byte(testSecret), time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return token
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, &fakeUserService{})

	rec := doRequest(t, s, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := decodeBody(t, rec)["status"]; got != "OK" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestSignUp(t *testing.T) {
	svc := &fakeUserService{signupURL: "https://signed.example/put"}
	s := newTestServer(t, svc)

	body := `{"filename":"a.png","contentType":"image/png","email":"a@x.com","password":"p","profileName":"A"}`
	rec := doRequest(t, s, http.MethodPost, "/signup", body, "")

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["uploadURL"]; got != "https://signed.example/put" {
		t.Fatalf("unexpected uploadURL: %v", got)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("missing request id header")
	}
}

func TestSignUpServiceError(t *testing.T) {
	svc := &fakeUserService{signupErr: common.ErrorInternal}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodPost, "/signup", `{"email":"a@x.com"}`, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "signup failed" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestLogin(t *testing.T) {
	svc := &fakeUserService{loginToken: "tok123"}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodPost, "/login", `{"email":"a@x.com","password":"p"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["message"] != "Login successful." {
		t.Fatalf("unexpected message: %v", body["message"])
	}
	if body["token"] != "tok123" {
		t.Fatalf("unexpected token: %v", body["token"])
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	svc := &fakeUserService{loginErr: common.ErrorNotFound}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodPost, "/login", `{"email":"missing@x.com","password":"p"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "1: Invalid email or password." {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	svc := &fakeUserService{loginErr: common.ErrorUnauthorized}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodPost, "/login", `{"email":"a@x.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := decodeBody(t, rec)["error"]; got != "2: Invalid email or password." {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestLoginInternalError(t *testing.T) {
	svc := &fakeUserService{loginErr: common.ErrorInternal}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodPost, "/login", `{"email":"a@x.com","password":"p"}`, "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestProfileWithoutToken(t *testing.T) {
	s := newTestServer(t, &fakeUserService{})

	rec := doRequest(t, s, http.MethodGet, "/profile", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestProfileInvalidToken(t *testing.T) {
	s := newTestServer(t, &fakeUserService{})

	rec := doRequest(t, s, http.MethodGet, "/profile", "", "not-a-token")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestProfileExpiredToken(t *testing.T) {
	s := newTestServer(t, &fakeUserService{})

	token, err := auth.GenerateToken("a@x.com", []byte(testSecret), -time.Minute)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}

	rec := doRequest(t, s, http.MethodGet, "/profile", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestProfile(t *testing.T) {
	svc := &fakeUserService{
		profileOut: &users.User{Email: "a@x.com", ProfileName: "A", ImageURL: "https://img"},
	}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodGet, "/profile", "", validToken(t, "a@x.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d (%s)", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if body["profileName"] != "A" || body["email"] != "a@x.com" || body["imageUrl"] != "https://img" {
		t.Fatalf("unexpected body: %v", body)
	}
	if svc.profileEmail != "a@x.com" {
		t.Fatalf("handler did not use token email: %q", svc.profileEmail)
	}
}

func TestProfileNotFound(t *testing.T) {
	svc := &fakeUserService{profileErr: common.ErrorNotFound}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodGet, "/profile", "", validToken(t, "ghost@x.com"))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "User not found" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestUploadImage(t *testing.T) {
	svc := &fakeUserService{uploadURL: "https://signed.example/put2"}
	s := newTestServer(t, svc)

	body := `{"fileName":"new.png","contentType":"image/png"}`
	rec := doRequest(t, s, http.MethodPut, "/upload-image", body, validToken(t, "a@x.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeBody(t, rec)["preSignedUrl"]; got != "https://signed.example/put2" {
		t.Fatalf("unexpected body: %v", got)
	}
	if svc.uploadEmail != "a@x.com" {
		t.Fatalf("handler did not use token email: %q", svc.uploadEmail)
	}
}

func TestUploadImageWithoutToken(t *testing.T) {
	s := newTestServer(t, &fakeUserService{})

	rec := doRequest(t, s, http.MethodPut, "/upload-image", `{"fileName":"new.png"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
}

func TestUploadImageServiceError(t *testing.T) {
	svc := &fakeUserService{uploadErr: common.ErrorInternal}
	s := newTestServer(t, svc)

	rec := doRequest(t, s, http.MethodPut, "/upload-image", `{"fileName":"new.png"}`, validToken(t, "a@x.com"))
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("unexpected status: %d", rec.Code)
	}
	if got := decodeBody(t, rec)["message"]; got != "Internal server error" {
		t.Fatalf("unexpected body: %v", got)
	}
}

func TestCORSHeaders(t *testing.T) {
	s := newTestServer(t, &fakeUserService{})

	req := httptest.NewRequest(http.MethodOptions, "/login", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin: %q", got)
	}
}
