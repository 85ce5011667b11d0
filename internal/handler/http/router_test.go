package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/overtime-ledger-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/overtime-ledger-go/internal/repository/memory"
	authService "github.com/cmlabs-hris/overtime-ledger-go/internal/service/auth"
	overtimeService "github.com/cmlabs-hris/overtime-ledger-go/internal/service/overtime"
	workerService "github.com/cmlabs-hris/overtime-ledger-go/internal/service/worker"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	handlerTestAccessExp = "1h"
	handlerTestSecret    = "test-secret-key-for-jwt"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]string `json:"details"`
	} `json:"error"`
}

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	store := memory.NewStore()
	userRepo := memory.NewUserRepository(store)
	workerRepo := memory.NewWorkerRepository(store)
	entryRepo := memory.NewWorkEntryRepository(store)
	summaryRepo := memory.NewSummaryRepository(store)

	jwtSvc := jwt.NewJWTService(handlerTestSecret, handlerTestAccessExp)
	ledger := overtimeService.NewLedgerService(store, entryRepo, summaryRepo, workerRepo)

	return NewRouter(RouterOptions{AllowedOrigins: []string{"http://localhost:5173"}}, jwtSvc, Handlers{
		Auth:     NewAuthHandler(authService.NewAuthService(userRepo, jwtSvc)),
		Worker:   NewWorkerHandler(workerService.NewWorkerService(workerRepo, summaryRepo)),
		Worklog:  NewWorklogHandler(ledger),
		Overtime: NewOvertimeHandler(ledger),
	})
}

func doJSON(t *testing.T, router http.Handler, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.NewDecoder(w.Body).Decode(&env), "body for %s %s", method, path)
	return w.Code, env
}

func register(t *testing.T, router http.Handler, username, role string) string {
	t.Helper()
	code, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":         username,
		"password":         "password123",
		"confirm_password": "password123",
		"role":             role,
	})
	require.Equal(t, http.StatusCreated, code, "register %s", username)

	var data struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.AccessToken)
	return data.AccessToken
}

func createWorker(t *testing.T, router http.Handler, token, name string) string {
	t.Helper()
	code, env := doJSON(t, router, http.MethodPost, "/api/v1/workers", token, map[string]any{
		"name":       name,
		"department": "Assembly",
	})
	require.Equal(t, http.StatusCreated, code)

	var data struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.ID
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "supervisor", "admin")

	code, env := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "supervisor",
		"password": "password123",
	})
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	code, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "supervisor",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, env = doJSON(t, router, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username":         "supervisor",
		"password":         "password123",
		"confirm_password": "password123",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CONFLICT", env.Error.Code)
}

func TestLedgerRoutes_RequireToken(t *testing.T) {
	router := newTestRouter(t)

	code, _ := doJSON(t, router, http.MethodGet, "/api/v1/workers", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = doJSON(t, router, http.MethodGet, "/api/v1/workers", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestWorklog_CreateReturnsBreakdown(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "supervisor", "admin")
	workerID := createWorker(t, router, token, "Ayu")

	code, env := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{
		"worker_id":  workerID,
		"date":       "2024-03-04",
		"start_time": "08:00",
		"end_time":   "20:00",
	})
	require.Equal(t, http.StatusCreated, code)

	var data struct {
		Entry struct {
			ID              string `json:"id"`
			OvertimeMinutes int    `json:"overtime_minutes"`
			PaidMinutes     int    `json:"paid_minutes"`
			Month           int    `json:"month"`
			Year            int    `json:"year"`
		} `json:"entry"`
		Breakdown struct {
			TotalWorkedMinutes   int `json:"total_worked_minutes"`
			LunchDeductedMinutes int `json:"lunch_deducted_minutes"`
			BaseMinutesDeducted  int `json:"base_minutes_deducted"`
		} `json:"breakdown"`
		RemainingPaidMinutesAfter int `json:"remaining_paid_minutes_after"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, 660, data.Breakdown.TotalWorkedMinutes)
	assert.Equal(t, 60, data.Breakdown.LunchDeductedMinutes)
	assert.Equal(t, 480, data.Breakdown.BaseMinutesDeducted)
	assert.Equal(t, 180, data.Entry.OvertimeMinutes)
	assert.Equal(t, 180, data.Entry.PaidMinutes)
	assert.Equal(t, 3, data.Entry.Month)
	assert.Equal(t, 2024, data.Entry.Year)
	assert.Equal(t, 4320-180, data.RemainingPaidMinutesAfter)

	code, env = doJSON(t, router, http.MethodGet, "/api/v1/overtime/"+workerID+"/3/2024", token, nil)
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		TotalPaidMinutes     int     `json:"total_paid_minutes"`
		TotalPaidHours       float64 `json:"total_paid_hours"`
		RemainingPaidMinutes int     `json:"remaining_paid_minutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 180, summary.TotalPaidMinutes)
	assert.Equal(t, 3.0, summary.TotalPaidHours)
	assert.Equal(t, 4140, summary.RemainingPaidMinutes)

	code, env = doJSON(t, router, http.MethodDelete, "/api/v1/worklogs/"+data.Entry.ID, token, nil)
	require.Equal(t, http.StatusOK, code)
	var deleted struct {
		RemovedPaid     int  `json:"removed_paid_minutes"`
		SummaryAdjusted bool `json:"summary_adjusted"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &deleted))
	assert.Equal(t, 180, deleted.RemovedPaid)
	assert.True(t, deleted.SummaryAdjusted)

	code, _ = doJSON(t, router, http.MethodGet, "/api/v1/worklogs/"+data.Entry.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWorklog_ErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "supervisor", "admin")
	workerID := createWorker(t, router, token, "Budi")

	t.Run("no overtime", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{
			"worker_id":  workerID,
			"date":       "2024-03-04",
			"start_time": "08:00",
			"end_time":   "16:00",
		})
		assert.Equal(t, http.StatusBadRequest, code)
		require.NotNil(t, env.Error)
		assert.Equal(t, "420", env.Error.Details["total_worked_minutes"])
		assert.Equal(t, "480", env.Error.Details["base_minutes"])
	})

	t.Run("invalid clock", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{
			"worker_id":  workerID,
			"date":       "2024-03-04",
			"start_time": "25:00",
			"end_time":   "16:00",
		})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "INVALID_TIME_WINDOW", env.Error.Code)
	})

	t.Run("missing fields", func(t *testing.T) {
		code, env := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{})
		assert.Equal(t, http.StatusUnprocessableEntity, code)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
		assert.Contains(t, env.Error.Details, "worker_id")
	})

	t.Run("unknown worker", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{
			"worker_id":  "0190f5c2-7b7e-7c3a-9d4e-2f1a6b8c9d0e",
			"date":       "2024-03-04",
			"start_time": "08:00",
			"end_time":   "20:00",
		})
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("duplicate window", func(t *testing.T) {
		body := map[string]any{
			"worker_id":  workerID,
			"date":       "2024-03-05",
			"start_time": "08:00",
			"end_time":   "20:00",
		}
		code, _ := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, body)
		require.Equal(t, http.StatusCreated, code)
		code, _ = doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, body)
		assert.Equal(t, http.StatusConflict, code)
	})

	t.Run("malformed id", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodDelete, "/api/v1/worklogs/not-an-id", token, nil)
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("month without year", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodGet, "/api/v1/worklogs?month=3", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})

	t.Run("bad month path", func(t *testing.T) {
		code, _ := doJSON(t, router, http.MethodGet, "/api/v1/overtime/all/13/2024", token, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, code)
	})
}

func TestOvertimeAudit_AdminOnly(t *testing.T) {
	router := newTestRouter(t)
	admin := register(t, router, "supervisor", "admin")
	staff := register(t, router, "clerk", "staff")

	code, env := doJSON(t, router, http.MethodPost, "/api/v1/overtime/audit/3/2024", staff, nil)
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	code, env = doJSON(t, router, http.MethodPost, "/api/v1/overtime/audit/3/2024?repair=true", admin, nil)
	require.Equal(t, http.StatusOK, code)
	var result struct {
		Checked  int `json:"checked"`
		Repaired int `json:"repaired"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &result))
	assert.Equal(t, 0, result.Checked)

	code, _ = doJSON(t, router, http.MethodPost, "/api/v1/overtime/audit/3/2024?repair=maybe", admin, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWorkers_ListWithUsage(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "supervisor", "admin")
	workerID := createWorker(t, router, token, "Citra")

	code, _ := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{
		"worker_id":    workerID,
		"date":         "2024-03-04",
		"start_time":   "08:00",
		"end_time":     "18:30",
		"deduct_lunch": false,
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := doJSON(t, router, http.MethodGet, "/api/v1/workers?month=3&year=2024", token, nil)
	require.Equal(t, http.StatusOK, code)
	var workers []struct {
		ID               string  `json:"id"`
		UsedMinutes      int     `json:"used_minutes"`
		UsedHours        float64 `json:"used_hours"`
		RemainingMinutes int     `json:"remaining_minutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &workers))
	require.Len(t, workers, 1)
	assert.Equal(t, 150, workers[0].UsedMinutes)
	assert.Equal(t, 2.5, workers[0].UsedHours)
	assert.Equal(t, 4170, workers[0].RemainingMinutes)

	code, _ = doJSON(t, router, http.MethodGet, "/api/v1/workers/"+workerID, token, nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestWorklog_UpdateReturnsDelta(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "supervisor", "admin")
	workerID := createWorker(t, router, token, "Dimas")

	code, env := doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{
		"worker_id":  workerID,
		"date":       "2024-03-04",
		"start_time": "08:00",
		"end_time":   "20:00",
	})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Entry struct {
			ID string `json:"id"`
		} `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	code, env = doJSON(t, router, http.MethodPut, "/api/v1/worklogs/"+created.Entry.ID, token, map[string]any{
		"end_time": "19:00",
	})
	require.Equal(t, http.StatusOK, code)
	var updated struct {
		Entry struct {
			EndTime     string `json:"end_time"`
			PaidMinutes int    `json:"paid_minutes"`
		} `json:"entry"`
		Breakdown struct {
			TotalWorkedMinutes int `json:"total_worked_minutes"`
		} `json:"breakdown"`
		PreviousPaidMinutes       int `json:"previous_paid_minutes"`
		RemainingPaidMinutesAfter int `json:"remaining_paid_minutes_after"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "19:00", updated.Entry.EndTime)
	assert.Equal(t, 120, updated.Entry.PaidMinutes)
	assert.Equal(t, 600, updated.Breakdown.TotalWorkedMinutes)
	assert.Equal(t, 180, updated.PreviousPaidMinutes)
	assert.Equal(t, 4320-120, updated.RemainingPaidMinutesAfter)

	code, env = doJSON(t, router, http.MethodPut, "/api/v1/worklogs/"+created.Entry.ID, token, map[string]any{
		"end_time": "16:00",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "420", env.Error.Details["total_worked_minutes"])
	assert.Equal(t, "60", env.Error.Details["lunch_deducted_minutes"])
	assert.Equal(t, "480", env.Error.Details["base_minutes"])

	code, env = doJSON(t, router, http.MethodGet, "/api/v1/overtime/"+workerID+"/3/2024", token, nil)
	require.Equal(t, http.StatusOK, code)
	var summary struct {
		TotalPaidMinutes int `json:"total_paid_minutes"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 120, summary.TotalPaidMinutes)
}

func TestWorkers_UpdateAndDelete(t *testing.T) {
	router := newTestRouter(t)
	token := register(t, router, "supervisor", "admin")
	workerID := createWorker(t, router, token, "Eka")

	code, env := doJSON(t, router, http.MethodPut, "/api/v1/workers/"+workerID, token, map[string]any{
		"name":               "Eka Putri",
		"base_hours_per_day": 7.5,
	})
	require.Equal(t, http.StatusOK, code)
	var updated struct {
		Name            string  `json:"name"`
		Department      string  `json:"department"`
		BaseHoursPerDay float64 `json:"base_hours_per_day"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Eka Putri", updated.Name)
	assert.Equal(t, "Assembly", updated.Department)
	assert.Equal(t, 7.5, updated.BaseHoursPerDay)

	code, env = doJSON(t, router, http.MethodPut, "/api/v1/workers/"+workerID, token, map[string]any{
		"base_hours_per_day": 0,
	})
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Contains(t, env.Error.Details, "base_hours_per_day")

	code, env = doJSON(t, router, http.MethodPost, "/api/v1/worklogs", token, map[string]any{
		"worker_id":  workerID,
		"date":       "2024-03-04",
		"start_time": "08:00",
		"end_time":   "20:00",
	})
	require.Equal(t, http.StatusCreated, code)
	var entry struct {
		Entry struct {
			ID              string `json:"id"`
			OvertimeMinutes int    `json:"overtime_minutes"`
		} `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &entry))
	assert.Equal(t, 210, entry.Entry.OvertimeMinutes)

	code, env = doJSON(t, router, http.MethodDelete, "/api/v1/workers/"+workerID, token, nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "WORKER_HAS_ENTRIES", env.Error.Code)

	code, _ = doJSON(t, router, http.MethodDelete, "/api/v1/worklogs/"+entry.Entry.ID, token, nil)
	require.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, router, http.MethodDelete, "/api/v1/workers/"+workerID, token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, _ = doJSON(t, router, http.MethodGet, "/api/v1/workers/"+workerID, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}
