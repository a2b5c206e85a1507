package api

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaj13/go-guardian/auth"
	"github.com/shaj13/go-guardian/auth/strategies/basic"
	"github.com/shaj13/go-guardian/auth/strategies/bearer"
	"github.com/shaj13/go-guardian/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
)

// TokenTTL is how long an issued bearer token stays valid
const TokenTTL = 24 * time.Hour

// ErrNoUser is returned when a request carries no authenticated user
var ErrNoUser = errors.New("no authenticated user on request")

// MiddlewareDB is a struct that holds the database
type MiddlewareDB struct {
	DB databases.UserDatabase
}

var authenticator auth.Authenticator
var cache store.Cache

// Middleware adds some basic header authentication around accessing the routes.
// The authenticated user is attached to the request for the handlers.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if authenticator == nil {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"response": "unauthorized"}`))
			return
		}
		user, err := authenticator.Authenticate(r)
		if err != nil {
			zap.S().Errorw("unauthorized",
				"url", r.URL)
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"response": "unauthorized"}`))
			return
		}
		zap.S().Debugw("user authenticated", "user", user.UserName())
		next.ServeHTTP(w, auth.RequestWithUser(user, r))
	})
}

// RequireRole only lets users holding role through. It must run inside Middleware.
func RequireRole(role models.Role, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller, err := CallerFrom(r)
		if err != nil || caller.Role != role {
			zap.S().Warnw("forbidden",
				"url", r.URL,
				"required", role)
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"response": "forbidden"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Caller is the authenticated user behind a request
type Caller struct {
	ID   primitive.ObjectID
	Name string
	Role models.Role
}

// IsAdmin reports whether the caller holds the admin role
func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// CallerFrom reads the authenticated user attached by Middleware
func CallerFrom(r *http.Request) (Caller, error) {
	info := auth.User(r)
	if info == nil {
		return Caller{}, ErrNoUser
	}
	id, err := primitive.ObjectIDFromHex(info.ID())
	if err != nil {
		return Caller{}, fmt.Errorf("caller id: %w", err)
	}
	c := Caller{ID: id, Name: info.UserName(), Role: models.RoleResident}
	for _, g := range info.Groups() {
		if models.Role(g) == models.RoleAdmin {
			c.Role = models.RoleAdmin
		}
	}
	return c, nil
}

// WithCaller attaches a caller to the request the same way Middleware does
func WithCaller(r *http.Request, c Caller) *http.Request {
	return auth.RequestWithUser(auth.NewDefaultUser(c.Name, c.ID.Hex(), []string{string(c.Role)}, nil), r)
}

// CreateToken returns a token
func (m MiddlewareDB) CreateToken(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	email, _, ok := r.BasicAuth()
	if !ok {
		http.Error(w, "basic auth failed", http.StatusUnauthorized)
		return
	}

	ctx, cancel := WithQueryTimeout(r.Context())
	defer cancel()
	user, err := m.DB.FindOne(ctx, bson.M{"email": strings.ToLower(email)})
	if err != nil {
		http.Error(w, "failed to get user by email", http.StatusUnauthorized)
		return
	}

	token := uuid.New().String()
	authUser := auth.NewDefaultUser(user.Name, user.ID.Hex(), []string{string(user.Role)}, nil)
	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Append(tokenStrategy, token, authUser, r); err != nil {
		http.Error(w, "failed to store token", http.StatusInternalServerError)
		return
	}

	response := map[string]string{
		"token": token,
		"_id":   user.ID.Hex(),
		"role":  string(user.Role),
	}

	responseBody, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "failed to marshal response", http.StatusInternalServerError)
		return
	}

	w.Write(responseBody)
}

// SetupGoGuardian sets up the go-guardian middleware
func (m MiddlewareDB) SetupGoGuardian() {
	authenticator = auth.New()
	cache = store.NewFIFO(context.Background(), TokenTTL)
	basicStrategy := basic.New(m.ValidateUser, cache)
	tokenStrategy := bearer.New(bearer.NoOpAuthenticate, cache)

	authenticator.EnableStrategy(basic.StrategyKey, basicStrategy)
	authenticator.EnableStrategy(bearer.CachedStrategyKey, tokenStrategy)
}

// ValidateUser validates a user
func (m MiddlewareDB) ValidateUser(ctx context.Context, r *http.Request, email, password string) (auth.Info, error) {
	email = strings.ToLower(email)
	usernameHash := sha256.Sum256([]byte(email))

	ctx, cancel := WithQueryTimeout(ctx)
	defer cancel()
	user, err := m.DB.FindOne(ctx, bson.M{"email": email})
	if err != nil {
		return nil, fmt.Errorf("no matching email found")
	}

	expectedUsernameHash := sha256.Sum256([]byte(strings.ToLower(user.Email)))
	usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err != nil {
		return nil, fmt.Errorf("failed to compare password")
	}

	if usernameMatch {
		return auth.NewDefaultUser(user.Name, user.ID.Hex(), []string{string(user.Role)}, nil), nil
	}
	return nil, fmt.Errorf("invalid credentials")
}

// RevokeToken revokes a token
func RevokeToken(w http.ResponseWriter, r *http.Request) {
	reqToken := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if reqToken == "" || authenticator == nil {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"response": "missing bearer token"}`))
		return
	}

	tokenStrategy := authenticator.Strategy(bearer.CachedStrategyKey)
	if err := auth.Revoke(tokenStrategy, reqToken, r); err != nil {
		zap.S().Warnw("failed to revoke token", "error", err)
	}
	body := fmt.Sprintf(`{"revoked token": "%s"}`, reqToken)
	w.Write([]byte(body))
}
