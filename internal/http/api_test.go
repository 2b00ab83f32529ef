package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"participant-registry/internal/repository/sqlite"
	"participant-registry/internal/service"
)

const testOrigin = "http://localhost:5173"

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo := sqlite.NewParticipantRepository(db)
	if err := repo.Init(context.Background()); err != nil {
		t.Fatalf("init repository: %v", err)
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := gin.New()
	NewHandler(service.NewParticipantService(repo), testOrigin, logger).RegisterRoutes(router)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Origin", testOrigin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
	}
	return w, resp
}

func signupBody() map[string]string {
	return map[string]string{
		"firstname":  "Ann",
		"lastname":   "Lee",
		"email":      "ann@x.edu",
		"department": "CS",
		"student_id": "S1",
		"password":   "hunter2",
	}
}

func TestPreflight(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/signup", "/login"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", testOrigin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("pre-flight status = %d, want 200", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != testOrigin {
				t.Errorf("Access-Control-Allow-Origin = %q, want %q", got, testOrigin)
			}
			if w.Body.Len() != 0 {
				t.Errorf("pre-flight body = %q, want empty", w.Body.String())
			}
		})
	}
}

func TestInvalidRequestMethod(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/signup"},
		{http.MethodPut, "/signup"},
		{http.MethodGet, "/login"},
		{http.MethodDelete, "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			var resp map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
			}
			if resp["status"] != "error" || resp["message"] != "Invalid request method." {
				t.Errorf("response = %v", resp)
			}
		})
	}
}

func TestSignupValidation(t *testing.T) {
	router := newTestRouter(t)

	fields := []string{"firstname", "lastname", "email", "department", "student_id", "password"}
	for _, field := range fields {
		t.Run("empty "+field, func(t *testing.T) {
			body := signupBody()
			body[field] = ""
			_, resp := postJSON(t, router, "/signup", body)
			if resp["status"] != "error" || resp["message"] != "All fields are required." {
				t.Errorf("response = %v", resp)
			}
		})
	}

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/signup", strings.NewReader("{not json"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp map[string]any
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response %q: %v", w.Body.String(), err)
		}
		if resp["status"] != "error" || resp["message"] != "All fields are required." {
			t.Errorf("response = %v", resp)
		}
	})
}

func TestSignupConflict(t *testing.T) {
	router := newTestRouter(t)

	if _, resp := postJSON(t, router, "/signup", signupBody()); resp["status"] != "success" {
		t.Fatalf("first signup response = %v", resp)
	}

	t.Run("same email", func(t *testing.T) {
		body := signupBody()
		body["student_id"] = "S2"
		_, resp := postJSON(t, router, "/signup", body)
		if resp["status"] != "error" || resp["message"] != "Email or Student ID already exists." {
			t.Errorf("response = %v", resp)
		}
	})

	t.Run("same student id", func(t *testing.T) {
		body := signupBody()
		body["email"] = "other@x.edu"
		_, resp := postJSON(t, router, "/signup", body)
		if resp["status"] != "error" || resp["message"] != "Email or Student ID already exists." {
			t.Errorf("response = %v", resp)
		}
	})
}

func TestLoginValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"empty student id", map[string]string{"student_id": "", "password": "hunter2"}},
		{"empty password", map[string]string{"student_id": "S1", "password": ""}},
		{"empty body", map[string]string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp := postJSON(t, router, "/login", tt.body)
			if resp["status"] != "error" || resp["message"] != "Student ID and password are required." {
				t.Errorf("response = %v", resp)
			}
		})
	}
}

func TestSignupLoginScenario(t *testing.T) {
	router := newTestRouter(t)

	w, resp := postJSON(t, router, "/signup", signupBody())
	if w.Code != http.StatusOK || resp["status"] != "success" || resp["message"] != "Signup successful!" {
		t.Fatalf("signup response = %v (status %d)", resp, w.Code)
	}

	w, resp = postJSON(t, router, "/login", map[string]string{"student_id": "S1", "password": "hunter2"})
	if resp["status"] != "success" || resp["message"] != "Login successful!" {
		t.Fatalf("login response = %v", resp)
	}
	if resp["student_id"] != "S1" || resp["firstname"] != "Ann" || resp["lastname"] != "Lee" ||
		resp["email"] != "ann@x.edu" || resp["department"] != "CS" {
		t.Errorf("login profile = %v", resp)
	}
	if strings.Contains(w.Body.String(), "hunter2") || strings.Contains(w.Body.String(), "password") {
		t.Errorf("login response leaks credential material: %s", w.Body.String())
	}

	_, resp = postJSON(t, router, "/login", map[string]string{"student_id": "S1", "password": "wrong"})
	if resp["status"] != "error" || resp["message"] != "Invalid Student ID or password." {
		t.Errorf("wrong-password response = %v", resp)
	}

	_, resp = postJSON(t, router, "/login", map[string]string{"student_id": "S404", "password": "hunter2"})
	if resp["status"] != "error" || resp["message"] != "User not found." {
		t.Errorf("unknown-id response = %v", resp)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", w.Code)
	}
}
