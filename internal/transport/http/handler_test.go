package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"habithero-service/internal/config"
	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/repository"
	domainservice "habithero-service/internal/domain/service"
	"habithero-service/internal/service"
	"habithero-service/pkg/jwt"
)

// stubHabitService returns canned values; transport tests only exercise
// routing, decoding and error mapping.
type stubHabitService struct {
	habit *entity.Habit
	err   error
}

func (s *stubHabitService) CreateHabit(context.Context, uuid.UUID, string, string, int32) (*entity.Habit, error) {
	return s.habit, s.err
}
func (s *stubHabitService) GetHabit(context.Context, uuid.UUID, uuid.UUID) (*entity.Habit, error) {
	return s.habit, s.err
}
func (s *stubHabitService) ListHabits(context.Context, uuid.UUID, bool) ([]*entity.Habit, error) {
	if s.err != nil {
		return nil, s.err
	}
	return []*entity.Habit{s.habit}, nil
}
func (s *stubHabitService) UpdateHabit(context.Context, uuid.UUID, uuid.UUID, *string, *string, *int32) (*entity.Habit, error) {
	return s.habit, s.err
}
func (s *stubHabitService) DeleteHabit(context.Context, uuid.UUID, uuid.UUID) error { return s.err }
func (s *stubHabitService) PurgeHabit(context.Context, uuid.UUID, uuid.UUID) error  { return s.err }
func (s *stubHabitService) IncrementProgress(context.Context, uuid.UUID, uuid.UUID) (*entity.Habit, error) {
	return s.habit, s.err
}
func (s *stubHabitService) ToggleCompletion(context.Context, uuid.UUID, uuid.UUID) (*entity.Habit, error) {
	return s.habit, s.err
}
func (s *stubHabitService) ResetProgress(context.Context, uuid.UUID, uuid.UUID) (*entity.Habit, error) {
	return s.habit, s.err
}
func (s *stubHabitService) EntriesInRange(context.Context, uuid.UUID, uuid.UUID, time.Time, time.Time) ([]*entity.HabitEntry, error) {
	return nil, s.err
}

type stubInsightsService struct{}

func (s *stubInsightsService) WeeklyData(_ context.Context, habitID, _ uuid.UUID, weekOffset int) (*domainservice.WeeklyReport, error) {
	if weekOffset > 0 {
		return nil, service.ErrInvalidWeekOffset
	}
	return &domainservice.WeeklyReport{HabitID: habitID, Days: make([]domainservice.DayProgress, 7)}, nil
}
func (s *stubInsightsService) CompletionRate(context.Context, uuid.UUID, uuid.UUID) (int, error) {
	return 75, nil
}
func (s *stubInsightsService) AnalyzeHabit(context.Context, uuid.UUID, uuid.UUID) (*entity.HabitAnalysis, error) {
	return &entity.HabitAnalysis{Summary: "ok"}, nil
}

type stubQuoteService struct{}

func (s *stubQuoteService) DailyQuote(context.Context) (*entity.Quote, error) {
	return &entity.Quote{Text: "Keep at it.", Author: "Anon"}, nil
}

type stubResetService struct {
	outcome domainservice.ResetOutcome
}

func (s *stubResetService) Run(context.Context) (*domainservice.ResetOutcome, error) {
	out := s.outcome
	return &out, nil
}

func testServer(t *testing.T, habits domainservice.HabitService) (*Server, string, uuid.UUID) {
	t.Helper()

	sessionUser := uuid.New()
	tm := jwt.NewTokenManager("test-secret", time.Hour, "test")
	token, _, err := tm.GenerateToken(sessionUser)
	require.NoError(t, err)

	handler := NewHandler(habits, &stubInsightsService{}, &stubQuoteService{}, &stubResetService{outcome: domainservice.ResetOutcome{Reset: 2, Skipped: 1}}, nil)
	srv := NewServer(handler, tm, &config.HTTPConfig{Port: 0}, &config.AuthConfig{SessionUserID: sessionUser.String()})
	return srv, token, sessionUser
}

func doRequest(t *testing.T, srv *Server, method, path, token string, body any) *nethttp.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *nethttp.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func TestHealthEndpoint(t *testing.T) {
	srv, _, _ := testServer(t, &stubHabitService{})

	resp := doRequest(t, srv, nethttp.MethodGet, "/health", "", nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestAPIRequiresToken(t *testing.T) {
	srv, _, _ := testServer(t, &stubHabitService{})

	resp := doRequest(t, srv, nethttp.MethodGet, "/api/habits/", "", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)

	resp = doRequest(t, srv, nethttp.MethodGet, "/api/habits/", "not-a-token", nil)
	assert.Equal(t, nethttp.StatusUnauthorized, resp.StatusCode)
}

func TestTokenEndpointIssuesUsableToken(t *testing.T) {
	srv, _, _ := testServer(t, &stubHabitService{habit: &entity.Habit{ID: uuid.New(), Title: "Run"}})

	resp := doRequest(t, srv, nethttp.MethodPost, "/auth/token", "", nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp = doRequest(t, srv, nethttp.MethodGet, "/api/habits/", token, nil)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestCreateHabit(t *testing.T) {
	habit := &entity.Habit{ID: uuid.New(), Title: "Read", Frequency: 1}
	srv, token, _ := testServer(t, &stubHabitService{habit: habit})

	resp := doRequest(t, srv, nethttp.MethodPost, "/api/habits/", token,
		map[string]any{"title": "Read", "frequency": 1})
	require.Equal(t, nethttp.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Read", body["title"])
	assert.Equal(t, habit.ID.String(), body["id"])
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"not found", repository.ErrNotFound, nethttp.StatusNotFound},
		{"duplicate title", service.ErrDuplicateTitle, nethttp.StatusConflict},
		{"empty title", service.ErrEmptyTitle, nethttp.StatusBadRequest},
		{"invalid frequency", service.ErrInvalidFrequency, nethttp.StatusBadRequest},
		{"store failure", fmt.Errorf("connection refused"), nethttp.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv, token, _ := testServer(t, &stubHabitService{err: tc.err})
			resp := doRequest(t, srv, nethttp.MethodPost, "/api/habits/", token,
				map[string]any{"title": "X"})
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestIncrementRoute(t *testing.T) {
	habit := &entity.Habit{ID: uuid.New(), Title: "Water", Frequency: 2, Progress: 1}
	srv, token, _ := testServer(t, &stubHabitService{habit: habit})

	resp := doRequest(t, srv, nethttp.MethodPost, "/api/habits/"+habit.ID.String()+"/increment", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(1), body["progress"])

	resp = doRequest(t, srv, nethttp.MethodPost, "/api/habits/not-a-uuid/increment", token, nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestWeeklyRoute(t *testing.T) {
	srv, token, _ := testServer(t, &stubHabitService{})
	id := uuid.New()

	resp := doRequest(t, srv, nethttp.MethodGet, "/api/habits/"+id.String()+"/weekly", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	days, ok := body["days"].([]any)
	require.True(t, ok)
	assert.Len(t, days, 7)

	resp = doRequest(t, srv, nethttp.MethodGet, "/api/habits/"+id.String()+"/weekly?week_offset=1", token, nil)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestQuoteRoute(t *testing.T) {
	srv, token, _ := testServer(t, &stubHabitService{})

	resp := doRequest(t, srv, nethttp.MethodGet, "/api/quote", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, "Keep at it.", body["quote"])
}

func TestDebugResetRoute(t *testing.T) {
	srv, token, _ := testServer(t, &stubHabitService{})

	resp := doRequest(t, srv, nethttp.MethodPost, "/api/debug/reset", token, nil)
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	body := decodeBody(t, resp)
	assert.Equal(t, float64(2), body["reset"])
	assert.Equal(t, float64(1), body["skipped"])
}

func TestDebugRecapRouteDisabled(t *testing.T) {
	srv, token, _ := testServer(t, &stubHabitService{})

	resp := doRequest(t, srv, nethttp.MethodPost, "/api/debug/recap", token, nil)
	assert.Equal(t, nethttp.StatusNotFound, resp.StatusCode)
}

func TestDeleteRoute(t *testing.T) {
	srv, token, _ := testServer(t, &stubHabitService{})
	id := uuid.New()

	resp := doRequest(t, srv, nethttp.MethodDelete, "/api/habits/"+id.String(), token, nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)

	resp = doRequest(t, srv, nethttp.MethodDelete, "/api/habits/"+id.String()+"?purge=true", token, nil)
	assert.Equal(t, nethttp.StatusNoContent, resp.StatusCode)
}
