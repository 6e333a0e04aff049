//go:build test && !integration

package httpservice

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/Arten331/observability/logger"
	"github.com/Arten331/observability/metrics"
	"github.com/eduplatform/notifier/internal/config"
	"github.com/eduplatform/notifier/internal/dispatch"
	notificationmemdb "github.com/eduplatform/notifier/internal/domain/notification/memdb"
	"github.com/eduplatform/notifier/internal/httpservice/httpwriter"
	"github.com/eduplatform/notifier/internal/notifier"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestLogger() {
	logger.MustSetupGlobal(
		logger.WithConfiguration(logger.CoreOptions{
			OutputPath: "stderr",
			Level:      logger.KeyLevelDebug,
			Encoding:   logger.EncodingConsole,
		}),
	)
}

func TestHttpService_liveness(t *testing.T) {
	setupTestLogger()

	rec := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/liveness", nil)

	cfg, _ := config.Init()

	s, _ := New(
		WithHTTPAddress(net.JoinHostPort("", strconv.Itoa(cfg.HTTPService.Port))),
		WithResponseWritter(&httpwriter.JSONResponseWriter{}),
	)

	s.liveness().ServeHTTP(rec, req)

	assert.Equal(t, rec.Code, 200)

	resp := &httpwriter.Response{}

	err := json.Unmarshal(rec.Body.Bytes(), resp)

	assert.NoError(t, err)

	if err != nil {
		return
	}

	assert.Equal(t, resp.Message, "OK")
}

func newTestService(t *testing.T) (*Service, *notificationmemdb.Store) {
	t.Helper()
	setupTestLogger()

	store, err := notificationmemdb.NewNotificationMemDBStore()
	require.NoError(t, err)

	ms := metrics.New()

	d, err := dispatch.New(&dispatch.Options{
		MetricService: &ms,
		Store:         &store,
	})
	require.NoError(t, err)

	notifierService, err := notifier.New(notifier.Options{Dispatcher: d})
	require.NoError(t, err)

	s, err := New(
		WithHTTPAddress(net.JoinHostPort("", "0")),
		WithResponseWritter(&httpwriter.JSONResponseWriter{}),
		WithServices(Services{
			Metrics:       &ms,
			Notifier:      notifierService,
			Dispatcher:    d,
			Notifications: &store,
		}),
	)
	require.NoError(t, err)

	return s, &store
}

func postJSON(t *testing.T, router http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	router.ServeHTTP(rec, req)

	return rec
}

func TestHttpService_registerAndAnnounce(t *testing.T) {
	s, store := newTestService(t)

	rec := postJSON(t, s.router, "/users", registerUserRequest{UserID: 1, Name: "Marta", Role: "administrador"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, s.router, "/events/course-created", courseCreatedRequest{CourseID: 9, CourseName: "Algebra I"})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := struct {
		Data deliveredResponse `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Delivered)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/1/notifications/unread", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	listResp := struct {
		Data []notificationResponse `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listResp))
	require.Len(t, listResp.Data, 1)
	assert.Equal(t, "Nuevo curso disponible", listResp.Data[0].Subject)
	assert.Equal(t, "UNREAD", listResp.Data[0].Status)

	records, err := store.ListUnread(req.Context(), 1)
	require.NoError(t, err)
	require.Len(t, records, 1)
}

func TestHttpService_registerUserEmptyRole(t *testing.T) {
	s, _ := newTestService(t)

	rec := postJSON(t, s.router, "/users", registerUserRequest{UserID: 1, Name: "Marta", Role: "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHttpService_subscribeAndListSubscribers(t *testing.T) {
	s, _ := newTestService(t)

	rec := postJSON(t, s.router, "/courses/9/subscribers", subscribeStudentRequest{StudentID: 10, Name: "Elena"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/courses/9/subscribers", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	resp := struct {
		Data []subscriberResponse `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, int64(10), resp.Data[0].UserID)
	assert.Equal(t, "estudiante", resp.Data[0].Role)
}

func TestHttpService_markReadNotFound(t *testing.T) {
	s, _ := newTestService(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/notifications/999/read", nil)
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHttpService_badUserID(t *testing.T) {
	s, _ := newTestService(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/users/abc/courses", nil)
	s.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHttpService_assignTeacherAndEnroll(t *testing.T) {
	s, _ := newTestService(t)

	rec := httptest.NewRecorder()
	payload, _ := json.Marshal(assignTeacherRequest{TeacherID: 2})
	req := httptest.NewRequest(http.MethodPut, "/courses/9/teacher", bytes.NewReader(payload))
	s.router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = postJSON(t, s.router, "/events/student-enrolled", studentEnrolledRequest{
		CourseID:    9,
		StudentID:   10,
		StudentName: "Elena",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := struct {
		Data deliveredResponse `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Delivered)
}

func TestHttpService_stats(t *testing.T) {
	s, _ := newTestService(t)

	rec := postJSON(t, s.router, "/users", registerUserRequest{UserID: 1, Name: "Marta", Role: "admin"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	s.router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	resp := struct {
		Data dispatch.Statistics `json:"data"`
	}{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Data.Subscribers)
	assert.Equal(t, 1, resp.Data.RolesIndexed)
}
