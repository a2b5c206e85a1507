package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/api/handlers"
	mocksdb "github.com/linesmerrill/civicdesk/databases/mocks"
	"github.com/linesmerrill/civicdesk/models"
)

const reportBody = `{"title": " October review ", "summary": "Potholes dominate", "periodStart": "2026-10-01T00:00:00Z", "periodEnd": "2026-10-31T00:00:00Z"}`

func statsFor(t *testing.T, complaintsErr error) handlers.Dashboard {
	t.Helper()
	cdb := &mocksdb.ComplaintDatabase{}
	adb := &mocksdb.AnnouncementDatabase{}
	udb := &mocksdb.UserDatabase{}
	cdb.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(9), complaintsErr)
	cdb.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusResolved}).Return(int64(5), complaintsErr)
	cdb.On("CountDocuments", mock.Anything, bson.M{"status": models.StatusPending}).Return(int64(2), complaintsErr)
	adb.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(1), nil)
	udb.On("CountDocuments", mock.Anything, bson.M{}).Return(int64(30), nil)
	return handlers.Dashboard{CDB: cdb, ADB: adb, UDB: udb}
}

func TestReport_ReportsHandler(t *testing.T) {
	tests := []struct {
		name    string
		reports []models.Report
		err     error
		code    int
		body    string
	}{
		{"empty", nil, nil, http.StatusOK, "[]"},
		{"listed", []models.Report{{Title: "September review"}}, nil, http.StatusOK, "September review"},
		{"db error", nil, errors.New("mocked-error"), http.StatusInternalServerError, "failed to get reports"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := &mocksdb.ReportDatabase{}
			rdb.On("Find", mock.Anything, bson.M{}, mock.Anything).Return(tt.reports, tt.err)

			req := httptest.NewRequest("GET", "/api/v1/reports", nil)
			rr := serve(handlers.Report{RDB: rdb}.ReportsHandler, api.WithCaller(req, adminCaller))

			assert.Equal(t, tt.code, rr.Code)
			assert.Contains(t, strings.TrimSpace(rr.Body.String()), tt.body)
		})
	}
}

func TestReport_CreateReportHandler(t *testing.T) {
	rdb := &mocksdb.ReportDatabase{}
	rdb.On("InsertOne", mock.Anything, mock.MatchedBy(func(r models.Report) bool {
		return r.Title == "October review" && r.AuthorName == "City Admin" && r.Snapshot.Users == 30
	})).Return(primitive.NewObjectID(), nil)

	req := httptest.NewRequest("POST", "/api/v1/reports", strings.NewReader(reportBody))
	rr := serve(handlers.Report{RDB: rdb, Stats: statsFor(t, nil)}.CreateReportHandler, api.WithCaller(req, adminCaller))

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var got models.Report
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, models.StatisticsSnapshot{
		TotalComplaints:    9,
		ResolvedComplaints: 5,
		PendingComplaints:  2,
		Announcements:      1,
		Users:              30,
	}, got.Snapshot)
	assert.False(t, got.CreatedAt.IsZero())
	rdb.AssertExpectations(t)
}

func TestReport_CreateReportHandlerRejects(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		stats error
		code  int
	}{
		{"bad json", `{"title": `, nil, http.StatusBadRequest},
		{"missing summary", `{"title": "October review", "periodStart": "2026-10-01T00:00:00Z", "periodEnd": "2026-10-31T00:00:00Z"}`, nil, http.StatusBadRequest},
		{"period ends before it starts", `{"title": "October review", "summary": "x", "periodStart": "2026-10-31T00:00:00Z", "periodEnd": "2026-10-01T00:00:00Z"}`, nil, http.StatusBadRequest},
		{"stats unavailable", reportBody, errors.New("mocked-error"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rdb := &mocksdb.ReportDatabase{}
			req := httptest.NewRequest("POST", "/api/v1/reports", strings.NewReader(tt.body))
			rr := serve(handlers.Report{RDB: rdb, Stats: statsFor(t, tt.stats)}.CreateReportHandler, api.WithCaller(req, adminCaller))

			assert.Equal(t, tt.code, rr.Code, rr.Body.String())
			rdb.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
		})
	}
}
