package contact

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/akeren/portfolio-api/config/router"
	"github.com/akeren/portfolio-api/pkg/ratelimit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const contactPath = "/v1/contact"

func newTestRouter(t *testing.T, repository MessageRepository) *router.RouterService {
	t.Helper()
	t.Setenv("METRICS_ENABLED", "true")

	rs := router.CreateRouterService(testLogger(), nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    5 * time.Second,
	})
	rs.MountController(NewContactController(testLogger(), repository, ratelimit.NewFixedWindowRateLimiter(5, 15*time.Minute)))
	return rs
}

func postContact(rs *router.RouterService, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, contactPath, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

const validBody = `{"name":"Ada","email":"ada@example.com","message":"Hello"}`

func TestSubmitHandler_Success(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))

	w := postContact(rs, validBody, map[string]string{"X-Forwarded-For": "1.2.3.4"})

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	body := decodeBody(t, w)
	assert.Len(t, body, 2)
	assert.Equal(t, MessageSent, body["message"])
	assert.Regexp(t, objectIDHex, body["id"])
}

func TestSubmitHandler_RateLimitsPerClient(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))
	headers := map[string]string{"X-Forwarded-For": "1.2.3.4"}

	ids := map[string]bool{}
	for i := 0; i < 5; i++ {
		w := postContact(rs, validBody, headers)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		ids[decodeBody(t, w)["id"].(string)] = true
	}
	assert.Len(t, ids, 5)

	w := postContact(rs, validBody, headers)
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, map[string]any{"message": MessageTooManyRequests}, decodeBody(t, w))

	other := postContact(rs, validBody, map[string]string{"X-Forwarded-For": "5.6.7.8"})
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestSubmitHandler_InvalidSubmissionsCountTowardLimit(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))
	headers := map[string]string{"X-Real-IP": "9.9.9.9"}

	for i := 0; i < 5; i++ {
		w := postContact(rs, `{"name":"","email":"","message":""}`, headers)
		require.Equal(t, http.StatusBadRequest, w.Code)
	}

	w := postContact(rs, validBody, headers)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestSubmitHandler_ValidationMessages(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{name: "missing field", body: `{"name":"Ada","email":"ada@example.com"}`, message: MessageAllFieldsRequired},
		{name: "invalid email", body: `{"name":"Ada","email":"ada","message":"Hi"}`, message: MessageInvalidEmail},
		{name: "too long", body: `{"name":"` + strings.Repeat("a", 101) + `","email":"ada@example.com","message":"Hi"}`, message: MessageFieldTooLong},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))

			w := postContact(rs, tc.body, nil)

			require.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, map[string]any{"message": tc.message}, decodeBody(t, w))
		})
	}
}

func TestSubmitHandler_MalformedJSONIsInternalError(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))

	for _, body := range []string{`{"name":`, ``, `{"name":42,"email":"a@b.c","message":"x"}`, `null`, " null\n"} {
		w := postContact(rs, body, map[string]string{"X-Forwarded-For": "7.7.7.7"})

		require.Equal(t, http.StatusInternalServerError, w.Code, "body %q", body)
		assert.Equal(t, map[string]any{"message": MessageInternalError}, decodeBody(t, w))
	}
}

func TestSubmitHandler_EmptyObjectIsMissingFields(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))

	w := postContact(rs, `{}`, nil)

	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string]any{"message": MessageAllFieldsRequired}, decodeBody(t, w))
}

func TestSubmitHandler_OversizedBodyIsInternalError(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))

	oversized := `{"name":"Ada","email":"ada@example.com","message":"` + strings.Repeat("a", 2<<20) + `"}`
	w := postContact(rs, oversized, map[string]string{"X-Forwarded-For": "8.8.8.8"})

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"message": MessageInternalError}, decodeBody(t, w))
}

func TestContactController_OversizedBodyStillNotAllowed(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))
	oversized := bytes.Repeat([]byte{'a'}, 2<<20)

	for _, method := range []string{http.MethodPut, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, contactPath, bytes.NewReader(oversized))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			rs.GetEngine().ServeHTTP(w, req)

			require.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
			assert.Equal(t, map[string]any{"message": MessageMethodNotAllowed}, decodeBody(t, w))
		})
	}
}

func TestSubmitRequest_NullBodyIsRejected(t *testing.T) {
	var req SubmitContactRequest
	assert.ErrorIs(t, json.Unmarshal([]byte(" null "), &req), ErrNullBody)

	require.NoError(t, json.Unmarshal([]byte(validBody), &req))
	assert.Equal(t, SubmitContactRequest{Name: "Ada", Email: "ada@example.com", Message: "Hello"}, req)
}

func TestSubmitHandler_StoreFailureIsInternalError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := NewMockMessageRepository(ctrl)
	repo.EXPECT().InsertMessage(gomock.Any(), gomock.Any()).Return("", errors.New("pq: connection refused"))

	rs := newTestRouter(t, repo)
	w := postContact(rs, validBody, nil)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, map[string]any{"message": MessageInternalError}, decodeBody(t, w))
	assert.NotContains(t, w.Body.String(), "connection refused")
}

func TestContactController_OtherMethodsAreNotAllowed(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, contactPath, bytes.NewBufferString(validBody))
			req.Header.Set("X-Forwarded-For", "1.2.3.4")
			w := httptest.NewRecorder()
			rs.GetEngine().ServeHTTP(w, req)

			require.Equal(t, http.StatusMethodNotAllowed, w.Code)
			assert.Equal(t, http.MethodPost, w.Header().Get("Allow"))
			assert.Equal(t, map[string]any{"message": MessageMethodNotAllowed}, decodeBody(t, w))
		})
	}

	head := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(head, httptest.NewRequest(http.MethodHead, contactPath, nil))
	assert.Equal(t, http.StatusMethodNotAllowed, head.Code)
	assert.Equal(t, http.MethodPost, head.Header().Get("Allow"))
	assert.Empty(t, head.Body.String())

	// 405s never touch the limiter.
	for i := 0; i < 5; i++ {
		w := postContact(rs, validBody, map[string]string{"X-Forwarded-For": "1.2.3.4"})
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
	}
}

func TestSubmitHandler_RecordsOutcomeMetrics(t *testing.T) {
	rs := newTestRouter(t, NewNoopMessageRepository(testLogger()))

	postContact(rs, validBody, nil)
	postContact(rs, `{"name":"Ada"}`, nil)

	w := httptest.NewRecorder()
	rs.GetEngine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `contact_submissions_total{outcome="accepted"} 1`)
	assert.Contains(t, w.Body.String(), `contact_submissions_total{outcome="invalid"} 1`)
}
