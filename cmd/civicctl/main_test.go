package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/presenter"
)

// fakeAPI serves the handful of endpoints the commands call and records what it saw
type fakeAPI struct {
	mu         sync.Mutex
	complaints []models.Complaint
	stats      models.StatisticsSnapshot
	statsFail  bool
	patched    []string
	listCalls  int
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	switch {
	case r.URL.Path == "/api/v1/auth/token" && r.Method == http.MethodPost:
		email, password, ok := r.BasicAuth()
		if !ok || email != "dana@civic.test" || password != "correct horse" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"response": "unauthorized"}`)
			return
		}
		io.WriteString(w, `{"token": "tok-1", "_id": "64b000000000000000000001", "role": "admin"}`)
	case r.URL.Path == "/api/v1/complaints":
		f.listCalls++
		json.NewEncoder(w).Encode(f.complaints)
	case strings.HasSuffix(r.URL.Path, "/status") && r.Method == http.MethodPatch:
		var body models.UpdateComplaintStatusRequest
		json.NewDecoder(r.Body).Decode(&body)
		f.patched = append(f.patched, body.Status)
		for i := range f.complaints {
			if strings.Contains(r.URL.Path, f.complaints[i].ID.Hex()) {
				f.complaints[i].Status = models.ComplaintStatus(body.Status)
				json.NewEncoder(w).Encode(f.complaints[i])
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		io.WriteString(w, `{"response": "complaint not found"}`)
	case strings.HasPrefix(r.URL.Path, "/api/v1/dashboard/"):
		if f.statsFail {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{"response": "failed to count complaints, boom"}`)
			return
		}
		json.NewEncoder(w).Encode(f.stats)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (f *fakeAPI) Patched() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.patched...)
}

func (f *fakeAPI) ListCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listCalls
}

func sampleComplaints() []models.Complaint {
	at := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	return []models.Complaint{
		{ID: primitive.NewObjectID(), Title: "Broken streetlight", AuthorName: "Ana", Category: "Infrastructure", Status: models.StatusPending, CreatedAt: at, UpdatedAt: at},
		{ID: primitive.NewObjectID(), Title: "Loud music", AuthorName: "Ben", Category: "Noise", Status: models.StatusResolved, CreatedAt: at, UpdatedAt: at},
	}
}

type result struct {
	stdout string
	stderr string
	err    error
}

// execute runs civicctl against srv with a fresh set of flag values
func execute(t *testing.T, srv *httptest.Server, cfg, stdin string, args ...string) result {
	t.Helper()
	verbose, baseURL, timeout = false, "", 5*time.Second
	listResident, listFilter, statusYes = "", presenter.ComplaintFilter{}, false
	dashboardResident = false
	loginEmail, loginPassword = "", ""

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(append([]string{"--config", cfg, "--url", srv.URL}, args...))

	err := rootCmd.ExecuteContext(context.Background())
	return result{stdout: out.String(), stderr: errOut.String(), err: err}
}

func loggedIn(t *testing.T) string {
	t.Helper()
	cfg := filepath.Join(t.TempDir(), "civicctl.yaml")
	require.NoError(t, saveConfig(cfg, cliConfig{Token: "tok-1", UserID: "64b000000000000000000001", Role: models.RoleAdmin}))
	return cfg
}

func TestLoginSavesSession(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()
	cfg := filepath.Join(t.TempDir(), "nested", "civicctl.yaml")

	res := execute(t, srv, cfg, "", "login", "--email", "dana@civic.test", "--password", "correct horse")

	require.NoError(t, res.err)
	assert.Equal(t, "Logged in as dana@civic.test (admin)\n", res.stdout)
	saved, err := loadConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "tok-1", saved.Token)
	assert.Equal(t, models.RoleAdmin, saved.Role)
	assert.Equal(t, srv.URL, saved.BaseURL)

	info, err := os.Stat(cfg)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()
	cfg := filepath.Join(t.TempDir(), "civicctl.yaml")

	res := execute(t, srv, cfg, "correct horse\n", "login", "--email", "dana@civic.test")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Password: ")

	res = execute(t, srv, cfg, "wrong\n", "login", "--email", "dana@civic.test")
	assert.Error(t, res.err)
}

func TestCommandsNeedLogin(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{})
	defer srv.Close()
	cfg := filepath.Join(t.TempDir(), "civicctl.yaml")

	for _, args := range [][]string{
		{"complaints", "list"},
		{"dashboard"},
		{"announcements", "list"},
		{"reports", "list"},
		{"watch"},
	} {
		res := execute(t, srv, cfg, "", args...)
		require.Error(t, res.err, strings.Join(args, " "))
		assert.Contains(t, res.err.Error(), "not logged in")
	}
}

func TestComplaintsList(t *testing.T) {
	api := &fakeAPI{complaints: sampleComplaints()}
	srv := httptest.NewServer(api)
	defer srv.Close()
	cfg := loggedIn(t)

	res := execute(t, srv, cfg, "", "complaints", "list")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "TITLE")
	assert.Contains(t, res.stdout, "Broken streetlight")
	assert.Contains(t, res.stdout, "Loud music")

	res = execute(t, srv, cfg, "", "complaints", "list", "--status", "resolved")
	require.NoError(t, res.err)
	assert.NotContains(t, res.stdout, "Broken streetlight")
	assert.Contains(t, res.stdout, "Loud music")
}

func TestComplaintsListEmpty(t *testing.T) {
	srv := httptest.NewServer(&fakeAPI{complaints: []models.Complaint{}})
	defer srv.Close()

	res := execute(t, srv, loggedIn(t), "", "complaints", "list")
	require.NoError(t, res.err)
	assert.Equal(t, "No complaints found\n", res.stdout)
	assert.Empty(t, res.stderr)
}

func TestComplaintStatusNeedsConfirmation(t *testing.T) {
	api := &fakeAPI{complaints: sampleComplaints()}
	srv := httptest.NewServer(api)
	defer srv.Close()
	id := api.complaints[0].ID.Hex()

	res := execute(t, srv, loggedIn(t), "n\n", "complaints", "status", id, "resolved")

	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Change status of complaint "+id)
	assert.Equal(t, "Cancelled, nothing was sent\n", res.stdout)
	assert.Empty(t, api.Patched())
}

func TestComplaintStatusConfirmed(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
	}{
		{name: "answered yes", stdin: "yes\n"},
		{name: "flag", args: []string{"--yes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{complaints: sampleComplaints()}
			srv := httptest.NewServer(api)
			defer srv.Close()
			id := api.complaints[0].ID.Hex()

			args := append([]string{"complaints", "status", id, "in progress"}, tt.args...)
			res := execute(t, srv, loggedIn(t), tt.stdin, args...)

			require.NoError(t, res.err)
			assert.Equal(t, []string{"InProgress"}, api.Patched())
			assert.Contains(t, res.stderr, "Status updated")
			// the list is refetched after the change
			assert.Equal(t, 1, api.ListCalls())
			assert.Contains(t, res.stdout, "Broken streetlight")
		})
	}
}

func TestComplaintStatusRejectsUnknownStatus(t *testing.T) {
	api := &fakeAPI{complaints: sampleComplaints()}
	srv := httptest.NewServer(api)
	defer srv.Close()

	res := execute(t, srv, loggedIn(t), "", "complaints", "status", api.complaints[0].ID.Hex(), "closed", "--yes")

	require.Error(t, res.err)
	assert.ErrorIs(t, res.err, models.ErrInvalidStatus)
	assert.Contains(t, res.err.Error(), "Pending, InProgress, Resolved, Rejected")
	assert.Empty(t, api.Patched())
}

func TestComplaintStatusFailureIsReported(t *testing.T) {
	api := &fakeAPI{complaints: sampleComplaints()}
	srv := httptest.NewServer(api)
	defer srv.Close()

	res := execute(t, srv, loggedIn(t), "", "complaints", "status", primitive.NewObjectID().Hex(), "resolved", "--yes")

	require.Error(t, res.err)
	assert.Equal(t, 1, strings.Count(res.stderr, "Failed to update status"))
	assert.Zero(t, api.ListCalls())

	var printed bytes.Buffer
	reportError(&printed, res.err)
	assert.Empty(t, printed.String())
}

func TestReportError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"plain", errors.New("not logged in"), "Error: not logged in\n"},
		{"already shown", shown(errors.New("503")), ""},
		{"wrapped shown", fmt.Errorf("listing: %w", shown(errors.New("503"))), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			reportError(&buf, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
	assert.NoError(t, shown(nil))
}

func TestDashboard(t *testing.T) {
	api := &fakeAPI{
		complaints: sampleComplaints(),
		stats:      models.StatisticsSnapshot{TotalComplaints: 2, ResolvedComplaints: 1, PendingComplaints: 1, Announcements: 3, Users: 7},
	}
	srv := httptest.NewServer(api)
	defer srv.Close()

	res := execute(t, srv, loggedIn(t), "", "dashboard")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Overview")
	assert.Contains(t, res.stdout, "Users")
	assert.Contains(t, res.stdout, "Loud music")

	res = execute(t, srv, loggedIn(t), "", "dashboard", "--resident")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "My complaints")
	assert.NotContains(t, res.stdout, "Users")
}

func TestDashboardStatsFailureStillShowsList(t *testing.T) {
	api := &fakeAPI{complaints: sampleComplaints(), statsFail: true}
	srv := httptest.NewServer(api)
	defer srv.Close()

	res := execute(t, srv, loggedIn(t), "", "dashboard")

	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "Failed to load statistics")
	assert.Contains(t, res.stdout, "Could not load statistics")
	assert.Contains(t, res.stdout, "Broken streetlight")
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{" yes \r\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"sure", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var out bytes.Buffer
			got, err := confirm(strings.NewReader(tt.in), &out, "Proceed?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, "Proceed? [y/N] ", out.String())
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	c, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, cliConfig{}, c)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("token: [unclosed"), 0o600))
	_, err = loadConfig(bad)
	assert.Error(t, err)
}
