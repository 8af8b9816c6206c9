package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edupredict/edupredict/internal/cli"
	"github.com/edupredict/edupredict/internal/config"
)

const (
	testUser     = "admin"
	testPassword = "secret"
	testToken    = "tok-1"
)

// fakeBackend is an in-memory EduPredict API.
type fakeBackend struct {
	*httptest.Server

	mu       sync.Mutex
	students []map[string]any
	assigned []map[string]any
	deleted  []string
}

func newFakeBackend(t *testing.T, students int) *fakeBackend {
	t.Helper()

	b := &fakeBackend{}
	for i := 1; i <= students; i++ {
		b.students = append(b.students, map[string]any{
			"id":         i,
			"first_name": fmt.Sprintf("Student%02d", i),
			"last_name":  "Perez",
			"email":      fmt.Sprintf("s%02d@uni.edu", i),
			"age":        18 + i%6,
			"major":      []string{"Sistemas", "Industrial"}[i%2],
			"grade":      5 + i%15,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", b.login)
	mux.HandleFunc("GET /auth/me", b.authed(b.me))
	mux.HandleFunc("GET /users/", b.authed(b.listStudents))
	mux.HandleFunc("GET /roles/", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []any{"Admin", map[string]any{"name": "Profesor", "description": "Teaching staff"}})
	}))
	mux.HandleFunc("POST /roles/assign", b.authed(b.assign))
	mux.HandleFunc("GET /attendance/stats", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"global_rate": 91.25, "today_rate": 88.0, "today_absent": 1234, "last_record_date": "2026-10-18",
		})
	}))
	mux.HandleFunc("GET /financial/stats", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"total_revenue": 1234567.805, "pending_debt": 0.5, "delinquency_rate": 12.5, "collection_rate": 87.5}`))
	}))
	mux.HandleFunc("GET /attendance/by-course", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"course": "Cálculo I", "rate": 91.5},
			{"course": "Física II", "rate": 64},
			{"course": "Química", "rate": 78},
		})
	}))
	mux.HandleFunc("GET /attendance/critical", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"id": 7, "name": "Student07 Perez", "email": "s07@uni.edu", "average": 45},
			{"id": 9, "name": "Student09 Perez", "email": "s09@uni.edu", "average": 62},
			{"id": 3, "name": "Student03 Perez", "email": "s03@uni.edu", "average": 68},
		})
	}))
	mux.HandleFunc("GET /financial/trends", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{{"month": "Sep", "revenue": 15000}, {"month": "Oct", "revenue": 18250.5}})
	}))
	mux.HandleFunc("GET /financial/delinquency", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id": 4, "name": "Student04 Perez", "overdue_count": 3, "total_debt": 98765432.1},
			{"id": 5, "name": "Student05 Perez", "overdue_count": 1, "total_debt": 300}]`))
	}))
	mux.HandleFunc("GET /analytics/feature-importance", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]float64{"asistencia_promedio": 0.33, "notas_promedio": 0.41})
	}))
	mux.HandleFunc("GET /analytics/correlations", b.authed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"scatter_data": []map[string]float64{
			{"asistencia_promedio": 0.5, "notas_promedio": 10},
			{"asistencia_promedio": 0.9, "notas_promedio": 18},
		}})
	}))
	mux.HandleFunc("POST /analytics/simulate", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]any
		_ = json.NewDecoder(r.Body).Decode(&req)
		writeJSON(w, http.StatusOK, map[string]any{
			"baseline_risk": 0.24, "simulated_risk": 0.18, "improvement_percent": 25,
			"students_saved_projection": 42, "insight": fmt.Sprintf("target %v", req["target"]),
		})
	}))
	mux.HandleFunc("GET /dashboard/student/{id}", b.authed(b.dashboard))
	mux.HandleFunc("POST /academic/aulas/", b.authed(func(w http.ResponseWriter, r *http.Request) {
		var item map[string]any
		_ = json.NewDecoder(r.Body).Decode(&item)
		item["aula_id"] = 12
		writeJSON(w, http.StatusCreated, item)
	}))
	mux.HandleFunc("DELETE /academic/aulas/{id}", b.authed(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.deleted = append(b.deleted, r.PathValue("id"))
		b.mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": "1.2.0"})
	})

	b.Server = httptest.NewServer(mux)
	t.Cleanup(b.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (b *fakeBackend) authed(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Could not validate credentials"})
			return
		}
		next(w, r)
	}
}

func (b *fakeBackend) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil || r.PostForm.Get("username") != testUser || r.PostForm.Get("password") != testPassword {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Incorrect username or password"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"access_token": testToken, "token_type": "bearer"})
}

func (b *fakeBackend) me(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id": 1, "username": testUser, "email": "admin@uni.edu",
		"first_name": "Ada", "last_name": "Admin", "role": "Admin",
	})
}

func (b *fakeBackend) listStudents(w http.ResponseWriter, r *http.Request) {
	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	b.mu.Lock()
	defer b.mu.Unlock()
	if skip > len(b.students) {
		skip = len(b.students)
	}
	end := min(skip+limit, len(b.students))
	writeJSON(w, http.StatusOK, b.students[skip:end])
}

func (b *fakeBackend) assign(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body["role"] == "Root" {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "Not enough permissions"})
		return
	}
	b.mu.Lock()
	b.assigned = append(b.assigned, body)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
}

func (b *fakeBackend) dashboard(w http.ResponseWriter, r *http.Request) {
	if r.PathValue("id") != "7" {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Student not found"})
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{
		"student": {"id": 7, "name": "Student07 Perez", "email": "s07@uni.edu"},
		"global_status": {"color": "yellow", "ai_summary": "Needs support in calculus", "badges": ["Puntual"]},
		"metrics": {"academic": {"average": 12.4, "success_rate": 0.8}},
		"agents_status": {"m2_risk": {"value": 0.35, "status": "Medio"}, "m3_tutor": {"weak_subjects": ["Cálculo I"]}}
	}`))
}

// setupCLITest isolates config, session and logs in a temp EDUPREDICT_HOME.
func setupCLITest(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("EDUPREDICT_HOME", home)
	t.Setenv("EDUPREDICT_LOG_LEVEL", "error")
	config.ResetGlobalConfigForTest()
	t.Cleanup(config.ResetGlobalConfigForTest)
	return home
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs the root command against backend with stdin.
func execute(t *testing.T, backend *fakeBackend, stdin string, args ...string) result {
	t.Helper()
	config.ResetGlobalConfigForTest()

	var stdout, stderr bytes.Buffer
	root := cli.NewRootCmd("test")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetIn(strings.NewReader(stdin))
	if backend != nil {
		args = append(args, "--api-url", backend.URL)
	}
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	return result{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

// login signs in to backend and fails the test otherwise.
func login(t *testing.T, backend *fakeBackend) {
	t.Helper()
	res := execute(t, backend, testPassword+"\n", "login", "--username", testUser, "--password-stdin")
	require.NoError(t, res.err, res.stderr)
}
