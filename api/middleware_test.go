package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/civicdesk/databases/mocks"
	"github.com/linesmerrill/civicdesk/models"
)

func seededAdmin(t *testing.T) *models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.User{
		ID:       primitive.NewObjectID(),
		Name:     "Dana",
		Email:    "dana@civic.test",
		Password: string(hash),
		Role:     models.RoleAdmin,
	}
}

// whoami answers with the caller the middleware attached
func whoami(w http.ResponseWriter, r *http.Request) {
	c, err := CallerFrom(r)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(map[string]string{"id": c.ID.Hex(), "name": c.Name, "role": string(c.Role)})
}

func TestMiddlewareWithoutAuthenticator(t *testing.T) {
	authenticator = nil
	rr := httptest.NewRecorder()
	Middleware(http.HandlerFunc(whoami)).ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/complaints", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, `{"response": "unauthorized"}`, rr.Body.String())
}

func TestBasicThenBearerAuth(t *testing.T) {
	user := seededAdmin(t)
	db := &mocks.UserDatabase{}
	db.On("FindOne", mock.Anything, bson.M{"email": "dana@civic.test"}).Return(user, nil)
	m := MiddlewareDB{DB: db}
	m.SetupGoGuardian()

	req := httptest.NewRequest("POST", "/api/v1/auth/token", nil)
	req.SetBasicAuth("Dana@Civic.test", "correct horse")
	rr := httptest.NewRecorder()
	Middleware(http.HandlerFunc(m.CreateToken)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var issued map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &issued))
	assert.Equal(t, user.ID.Hex(), issued["_id"])
	assert.Equal(t, "admin", issued["role"])
	require.NotEmpty(t, issued["token"])

	req = httptest.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+issued["token"])
	rr = httptest.NewRecorder()
	Middleware(http.HandlerFunc(whoami)).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"id": "`+user.ID.Hex()+`", "name": "Dana", "role": "admin"}`, rr.Body.String())

	// a revoked token no longer authenticates
	req = httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer "+issued["token"])
	rr = httptest.NewRecorder()
	RevokeToken(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	req = httptest.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+issued["token"])
	rr = httptest.NewRecorder()
	Middleware(http.HandlerFunc(whoami)).ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestValidateUser(t *testing.T) {
	user := seededAdmin(t)
	tests := []struct {
		name     string
		found    *models.User
		findErr  error
		password string
		wantErr  bool
	}{
		{name: "match", found: user, password: "correct horse"},
		{name: "wrong password", found: user, password: "battery staple", wantErr: true},
		{name: "unknown email", findErr: errors.New("mongo: no documents in result"), password: "correct horse", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := &mocks.UserDatabase{}
			db.On("FindOne", mock.Anything, mock.Anything).Return(tt.found, tt.findErr)
			req := httptest.NewRequest("GET", "/", nil)

			info, err := MiddlewareDB{DB: db}.ValidateUser(req.Context(), req, "dana@civic.test", tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, info)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, user.ID.Hex(), info.ID())
			assert.Equal(t, []string{"admin"}, info.Groups())
		})
	}
}

func TestRevokeTokenWithoutBearer(t *testing.T) {
	rr := httptest.NewRecorder()
	RevokeToken(rr, httptest.NewRequest("DELETE", "/api/v1/auth/logout", nil))
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestRequireRole(t *testing.T) {
	admin := Caller{ID: primitive.NewObjectID(), Name: "Dana", Role: models.RoleAdmin}
	resident := Caller{ID: primitive.NewObjectID(), Name: "Ana", Role: models.RoleResident}
	tests := []struct {
		name   string
		caller *Caller
		want   int
	}{
		{"admin", &admin, http.StatusOK},
		{"resident", &resident, http.StatusForbidden},
		{"anonymous", nil, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/v1/reports", nil)
			if tt.caller != nil {
				req = WithCaller(req, *tt.caller)
			}
			rr := httptest.NewRecorder()
			RequireRole(models.RoleAdmin, http.HandlerFunc(whoami)).ServeHTTP(rr, req)
			assert.Equal(t, tt.want, rr.Code)
		})
	}
}

func TestCallerRoundTrip(t *testing.T) {
	want := Caller{ID: primitive.NewObjectID(), Name: "Ana", Role: models.RoleResident}
	got, err := CallerFrom(WithCaller(httptest.NewRequest("GET", "/", nil), want))
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.False(t, got.IsAdmin())

	_, err = CallerFrom(httptest.NewRequest("GET", "/", nil))
	assert.ErrorIs(t, err, ErrNoUser)
}

func TestTimeoutMiddleware(t *testing.T) {
	release := make(chan struct{})
	late := make(chan error, 1)
	slow := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		_, err := w.Write([]byte(`{"late": true}`))
		late <- err
	})
	rr := httptest.NewRecorder()
	TimeoutMiddleware(20*time.Millisecond)(slow).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Equal(t, `{"response": "request timeout"}`, rr.Body.String())
	close(release)
	assert.ErrorIs(t, <-late, http.ErrHandlerTimeout)
	assert.Equal(t, `{"response": "request timeout"}`, rr.Body.String())

	fast := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})
	rr = httptest.NewRecorder()
	TimeoutMiddleware(time.Second)(fast).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusCreated, rr.Code)
}

func TestTimeoutMiddlewareCopiesHeadersOnSuccess(t *testing.T) {
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	rr := httptest.NewRecorder()
	TimeoutMiddleware(time.Second)(h).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, `[]`, rr.Body.String())
}

func TestTimeoutMiddlewareClientGone(t *testing.T) {
	release := make(chan struct{})
	late := make(chan error, 1)
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.Header().Set("X-Late", "yes")
		w.WriteHeader(http.StatusCreated)
		_, err := w.Write([]byte(`{"late": true}`))
		late <- err
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	rr := httptest.NewRecorder()
	TimeoutMiddleware(time.Second)(h).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil).WithContext(ctx))

	close(release)
	assert.ErrorIs(t, <-late, http.ErrHandlerTimeout)
	assert.False(t, rr.Flushed)
	assert.Empty(t, rr.Body.String())
	assert.Empty(t, rr.Header().Get("X-Late"))
}

func TestTimeoutMiddlewareHandlerKeepsSettingHeaders(t *testing.T) {
	release := make(chan struct{})
	finished := make(chan struct{})
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer close(finished)
		for i := 0; ; i++ {
			select {
			case <-release:
				return
			default:
				w.Header().Set("X-Progress", strconv.Itoa(i))
			}
		}
	})
	rr := httptest.NewRecorder()
	TimeoutMiddleware(10*time.Millisecond)(h).ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusRequestTimeout, rr.Code)
	assert.Empty(t, rr.Header().Get("X-Progress"))
	close(release)
	<-finished
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	defer zap.ReplaceGlobals(zap.New(core))()

	failing := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := RequestLogger(failing)

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/health", nil))
	assert.Zero(t, logs.Len())

	req := httptest.NewRequest("GET", "/api/v1/complaints", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, "req-42", rr.Header().Get("X-Request-ID"))
	entries := logs.FilterMessage("request failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	assert.Equal(t, "req-42", entries[0].ContextMap()["requestId"])

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/api/v1/complaints", nil))
	assert.NotEmpty(t, rr.Header().Get("X-Request-ID"))
}
