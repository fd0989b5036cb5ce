package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"realty-notify-system/internal/core/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAddSubscriptionUC struct {
	err      error
	received *domain.UserFilter
}

func (f *fakeAddSubscriptionUC) Execute(ctx context.Context, filter *domain.UserFilter) error {
	f.received = filter
	if f.err != nil {
		return f.err
	}
	filter.ID = 42
	return nil
}

func newTestServer(addUC *fakeAddSubscriptionUC) http.Handler {
	handler := NewSubscriptionsHandler(addUC, nil, nil, nil, nil)
	mux := http.NewServeMux()
	mux.Handle("/api/v1/subscriptions", AuthMiddleware(http.HandlerFunc(handler.AddSubscription)))
	return mux
}

func TestAddSubscription_Success(t *testing.T) {
	addUC := &fakeAddSubscriptionUC{}
	srv := newTestServer(addUC)

	body, _ := json.Marshal(SubscriptionRequest{
		City:       strPtr("Київ"),
		RoomsCount: []int{1, 2},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader(body))
	req.Header.Set("X-User-ID", "7")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, addUC.received)
	assert.Equal(t, int64(7), addUC.received.UserID)
	assert.Equal(t, []int{1, 2}, addUC.received.RoomsCount)

	var resp SubscriptionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(42), resp.ID)
}

func TestAddSubscription_MissingUserHeader(t *testing.T) {
	srv := newTestServer(&fakeAddSubscriptionUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddSubscription_LimitReachedMapsToConflict(t *testing.T) {
	srv := newTestServer(&fakeAddSubscriptionUC{err: domain.ErrSubscriptionLimitReached})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("X-User-ID", "7")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthMiddleware_RejectsNonNumericID(t *testing.T) {
	srv := newTestServer(&fakeAddSubscriptionUC{})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/subscriptions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("X-User-ID", "not-a-number")
	rec := httptest.NewRecorder()

	srv.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func strPtr(s string) *string { return &s }
