package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"buildnchill-server/internal/events"
)

// sseRecorder is a ResponseRecorder that can be read while the handler is
// still writing on another goroutine.
type sseRecorder struct {
	*httptest.ResponseRecorder
	mu    sync.Mutex
	wrote chan struct{}
}

func newSSERecorder() *sseRecorder {
	return &sseRecorder{
		ResponseRecorder: httptest.NewRecorder(),
		wrote:            make(chan struct{}, 1),
	}
}

func (r *sseRecorder) Write(b []byte) (int, error) {
	r.mu.Lock()
	n, err := r.ResponseRecorder.Write(b)
	r.mu.Unlock()
	select {
	case r.wrote <- struct{}{}:
	default:
	}
	return n, err
}

func (r *sseRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Body.String()
}

func TestStreamWritesChangeEvents(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	h := NewEventsHandler(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events?entities=orders", nil).WithContext(ctx)
	rec := newSSERecorder()
	c := echo.New().NewContext(req, rec)

	done := make(chan error, 1)
	go func() { done <- h.Stream(c) }()

	// The subscription is registered inside Stream, so keep publishing
	// until the handler has picked one up.
	deadline := time.After(5 * time.Second)
	for received := false; !received; {
		bus.Publish(events.EntityOrders)
		select {
		case <-rec.wrote:
			received = true
		case <-deadline:
			t.Fatal("no event reached the stream")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, rec.body(), "event: change")
	assert.Contains(t, rec.body(), "data: orders")
	assert.Equal(t, "text/event-stream", rec.Header().Get(echo.HeaderContentType))
}

func TestStreamFiltersUnwantedEntities(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	h := NewEventsHandler(bus)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/api/events?entities=recharges", nil).WithContext(ctx)
	rec := newSSERecorder()
	c := echo.New().NewContext(req, rec)

	done := make(chan error, 1)
	go func() { done <- h.Stream(c) }()

	deadline := time.After(5 * time.Second)
	for received := false; !received; {
		bus.Publish(events.EntityNews)
		bus.Publish(events.EntityRecharges)
		select {
		case <-rec.wrote:
			received = true
		case <-deadline:
			t.Fatal("no event reached the stream")
		case <-time.After(5 * time.Millisecond):
		}
	}

	cancel()
	require.NoError(t, <-done)

	assert.Contains(t, rec.body(), "data: recharges")
	assert.NotContains(t, rec.body(), "data: news")
}

func TestStreamRejectsUnknownEntity(t *testing.T) {
	bus := events.NewBus()
	defer bus.Close()
	h := NewEventsHandler(bus)

	req := httptest.NewRequest(http.MethodGet, "/api/events?entities=invoices", nil)
	c := echo.New().NewContext(req, httptest.NewRecorder())

	err := h.Stream(c)
	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}
