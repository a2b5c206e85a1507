package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/models"
)

// TicketTTL is how long a stream ticket may wait before it is redeemed
const TicketTTL = time.Minute

// ErrNoSecret is returned when stream tickets are requested without a signing secret
var ErrNoSecret = errors.New("stream ticket secret is not configured")

// WebSocket upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WriteWait bounds each frame written to a stream subscriber
const WriteWait = 10 * time.Second

// streamConn is the part of a websocket connection the hub writes to
type streamConn interface {
	SetWriteDeadline(t time.Time) error
	WriteJSON(v interface{}) error
	Close() error
}

type subscriber struct {
	caller api.Caller

	// gorilla allows one concurrent writer per connection
	writeMu sync.Mutex
}

// Hub fans complaint events out to connected stream subscribers. Admins see every
// event, residents only those about their own complaints.
type Hub struct {
	mu      sync.Mutex
	clients map[streamConn]*subscriber
}

// NewHub returns an empty hub
func NewHub() *Hub {
	return &Hub{clients: make(map[streamConn]*subscriber)}
}

func (h *Hub) add(conn streamConn, c api.Caller) {
	h.mu.Lock()
	h.clients[conn] = &subscriber{caller: c}
	h.mu.Unlock()
}

func (h *Hub) remove(conn streamConn) {
	h.mu.Lock()
	delete(h.clients, conn)
	h.mu.Unlock()
}

// Len is the number of connected subscribers
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// BroadcastStatusChange sends a complaint_status_changed event to every
// subscriber allowed to see it. Writes run in parallel outside the hub lock and
// each is bounded by WriteWait; subscribers that fail a write are dropped.
func (h *Hub) BroadcastStatusChange(c models.Complaint) {
	if h == nil {
		return
	}
	frame := models.StreamEnvelope{
		Event: models.EventComplaintStatusChanged,
		Data: models.ComplaintStatusEvent{
			ComplaintID: c.ID,
			ResidentID:  c.ResidentID,
			Status:      c.Status,
			UpdatedAt:   c.UpdatedAt,
		},
	}

	targets := make(map[streamConn]*subscriber)
	h.mu.Lock()
	for conn, sub := range h.clients {
		if sub.caller.IsAdmin() || sub.caller.ID == c.ResidentID {
			targets[conn] = sub
		}
	}
	h.mu.Unlock()

	var g errgroup.Group
	for conn, sub := range targets {
		conn, sub := conn, sub
		g.Go(func() error {
			if err := sub.write(conn, frame); err != nil {
				zap.S().Warnw("dropping stream subscriber",
					"user", sub.caller.ID.Hex(),
					"error", err)
				h.remove(conn)
				conn.Close()
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (s *subscriber) write(conn streamConn, v interface{}) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := conn.SetWriteDeadline(time.Now().Add(WriteWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}

// Notifications issues stream tickets and serves the websocket stream
type Notifications struct {
	Hub    *Hub
	Secret []byte
}

// TicketHandler returns a short-lived signed ticket for the authenticated caller.
// Browsers cannot set headers on websocket upgrades, so the ticket rides in the query.
func (n Notifications) TicketHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return
	}
	ticket, err := n.issue(caller, time.Now())
	if err != nil {
		config.ErrorStatus("failed to issue ticket", http.StatusInternalServerError, w, err)
		return
	}
	b, _ := json.Marshal(map[string]string{"ticket": ticket})
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

func (n Notifications) issue(c api.Caller, now time.Time) (string, error) {
	if len(n.Secret) == 0 {
		return "", ErrNoSecret
	}
	claims := jwt.MapClaims{
		"sub":  c.ID.Hex(),
		"name": c.Name,
		"role": string(c.Role),
		"typ":  "stream",
		"iat":  now.Unix(),
		"exp":  now.Add(TicketTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(n.Secret)
}

func (n Notifications) verify(ticket string) (api.Caller, error) {
	if len(n.Secret) == 0 {
		return api.Caller{}, ErrNoSecret
	}
	token, err := jwt.Parse(ticket, func(t *jwt.Token) (interface{}, error) {
		return n.Secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return api.Caller{}, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["typ"] != "stream" {
		return api.Caller{}, fmt.Errorf("not a stream ticket")
	}
	sub, _ := claims["sub"].(string)
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return api.Caller{}, fmt.Errorf("ticket subject: %w", err)
	}
	name, _ := claims["name"].(string)
	role, _ := claims["role"].(string)
	return api.Caller{ID: id, Name: name, Role: models.Role(role)}, nil
}

// StreamHandler upgrades to a websocket once the ticket checks out and keeps the
// subscriber registered until the connection drops
func (n Notifications) StreamHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := n.verify(r.URL.Query().Get("ticket"))
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		config.ErrorStatus("invalid stream ticket", http.StatusUnauthorized, w, err)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		zap.S().Errorw("websocket upgrade error", "error", err)
		return
	}

	n.Hub.add(conn, caller)
	zap.S().Infow("stream subscriber connected",
		"user", caller.ID.Hex(),
		"role", caller.Role)

	for {
		if _, _, err := conn.NextReader(); err != nil {
			break
		}
	}
	n.Hub.remove(conn)
	conn.Close()
	zap.S().Infow("stream subscriber disconnected", "user", caller.ID.Hex())
}
