package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"buildnchill-server/internal/events"
)

// EventsHandler streams entity-change notifications over SSE so the site can
// refetch instead of polling every list endpoint.
type EventsHandler struct {
	bus *events.Bus
}

func NewEventsHandler(bus *events.Bus) *EventsHandler {
	return &EventsHandler{bus: bus}
}

// Stream sends one "change" event per mutated entity type. The optional
// entities query param narrows the feed, e.g. ?entities=orders,recharges.
func (h *EventsHandler) Stream(c echo.Context) error {
	interested := events.All()
	if raw := c.QueryParam("entities"); raw != "" {
		interested = interested[:0]
		for _, name := range strings.Split(raw, ",") {
			entity, ok := events.ParseEntity(strings.TrimSpace(name))
			if !ok {
				return echo.NewHTTPError(http.StatusBadRequest, "unknown entity: "+name)
			}
			interested = append(interested, entity)
		}
	}

	sub := h.bus.Subscribe(interested...)
	defer sub.Unsubscribe()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case entity, ok := <-sub.C:
			if !ok {
				return nil
			}
			if _, err := fmt.Fprintf(res, "event: change\ndata: %s\n\n", entity); err != nil {
				return nil
			}
			res.Flush()
		}
	}
}
