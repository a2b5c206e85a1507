package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/linesmerrill/civicdesk/models"
)

type ticketResponse struct {
	Ticket string `json:"ticket"`
}

// StreamTicket asks the api for a short-lived ticket to open the notification stream
func (c *Client) StreamTicket(ctx context.Context) (string, error) {
	if c.Token() == "" {
		return "", ErrUnauthenticated
	}
	var out ticketResponse
	if err := c.doJSON(ctx, "stream ticket", http.MethodGet, "/ws/ticket", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Ticket, nil
}

// WatchStatusChanges opens the notification stream and calls fn for every complaint
// status change until ctx is cancelled or the connection drops. Unknown events are
// skipped.
func (c *Client) WatchStatusChanges(ctx context.Context, fn func(models.ComplaintStatusEvent)) error {
	ticket, err := c.StreamTicket(ctx)
	if err != nil {
		return err
	}

	u, err := url.Parse(c.baseURL + apiPrefix + "/ws/notifications")
	if err != nil {
		return &RequestError{Op: "watch", Err: err}
	}
	u.Scheme = strings.Replace(u.Scheme, "http", "ws", 1)
	u.RawQuery = url.Values{"ticket": {ticket}}.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return &RequestError{Op: "watch", Err: err}
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var env struct {
			Event string          `json:"event"`
			Data  json.RawMessage `json:"data"`
		}
		if err := conn.ReadJSON(&env); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return &RequestError{Op: "watch", Err: err}
		}
		if env.Event != models.EventComplaintStatusChanged {
			continue
		}
		var ev models.ComplaintStatusEvent
		if err := json.Unmarshal(env.Data, &ev); err != nil {
			c.log.Warnw("skipping malformed stream event", "error", err)
			continue
		}
		fn(ev)
	}
}
