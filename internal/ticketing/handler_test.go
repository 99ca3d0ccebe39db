package ticketing_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/globalevent/service-ticketing/internal/ticketing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(svc *ticketing.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	ticketing.NewHandler(svc).RegisterRoutes(r)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &parsed))
	return w, parsed
}

func TestBuyEndpoint_Success(t *testing.T) {
	svc, store, _, _ := newService()
	store.seed(ticketing.Concert{EventID: "E1", TicketsLeft: 2})
	r := setupRouter(svc)

	w, body := doJSON(t, r, http.MethodPost, "/buy", `{"event_id":"E1","email":"a@x.com"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, body["order_id"])
	assert.NotEmpty(t, body["message"])
}

func TestBuyEndpoint_SoldOut(t *testing.T) {
	svc, store, _, _ := newService()
	store.seed(ticketing.Concert{EventID: "E1", TicketsLeft: 0})
	r := setupRouter(svc)

	w, body := doJSON(t, r, http.MethodPost, "/buy", `{"event_id":"E1","email":"a@x.com"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, body["message"], "sold out")
	assert.Nil(t, body["order_id"])
}

func TestBuyEndpoint_MissingEventID(t *testing.T) {
	svc, _, _, _ := newService()
	r := setupRouter(svc)

	w, _ := doJSON(t, r, http.MethodPost, "/buy", `{"email":"a@x.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBuyEndpoint_DefaultEmail(t *testing.T) {
	svc, store, led, _ := newService()
	store.seed(ticketing.Concert{EventID: "E1", TicketsLeft: 1})
	r := setupRouter(svc)

	w, _ := doJSON(t, r, http.MethodPost, "/buy", `{"event_id":"E1"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, led.orders, 1)
	assert.Equal(t, "client@test.com", led.orders[0].UserEmail)
}

func TestBuyEndpoint_DependencyFailureIsOpaque(t *testing.T) {
	svc, store, _, _ := newService()
	store.failWith = errors.New("redis: connection refused 10.0.3.7:6379")
	r := setupRouter(svc)

	w, body := doJSON(t, r, http.MethodPost, "/buy", `{"event_id":"E1","email":"a@x.com"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, body["error"])
	assert.NotContains(t, w.Body.String(), "10.0.3.7", "internal topology must not leak")
	assert.NotContains(t, w.Body.String(), "redis")
}

func TestListEndpoint(t *testing.T) {
	svc, store, _, _ := newService()
	store.seed(ticketing.Concert{EventID: "E1", Artist: "Coldplay", Date: "2025-06-20", TicketsLeft: 3})
	r := setupRouter(svc)

	w, body := doJSON(t, r, http.MethodGet, "/", "")

	assert.Equal(t, http.StatusOK, w.Code)
	concerts, ok := body["concerts"].([]any)
	require.True(t, ok)
	require.Len(t, concerts, 1)
	entry := concerts[0].(map[string]any)
	assert.Equal(t, "E1", entry["event_id"])
	assert.Equal(t, "Coldplay", entry["artist"])
	assert.Equal(t, float64(3), entry["tickets_left"])
}

func TestListEndpoint_Unavailable(t *testing.T) {
	svc, store, _, _ := newService()
	store.failWith = errors.New("connection refused")
	r := setupRouter(svc)

	w, body := doJSON(t, r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotEmpty(t, body["error"])
}

func TestCreateConcertEndpoint(t *testing.T) {
	svc, store, _, _ := newService()
	r := setupRouter(svc)

	w, body := doJSON(t, r, http.MethodPost, "/concerts", `{"artist":"Dua Lipa","date":"2025-09-10"}`)

	assert.Equal(t, http.StatusCreated, w.Code)
	concert, ok := body["concert"].(map[string]any)
	require.True(t, ok)
	eventID, _ := concert["event_id"].(string)
	require.NotEmpty(t, eventID)
	assert.Equal(t, int64(100), store.ticketsLeft(eventID))

	w, _ = doJSON(t, r, http.MethodPost, "/concerts", `{"artist":"No Date"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
