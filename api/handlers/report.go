package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
)

// Report handles report-related requests
type Report struct {
	RDB   databases.ReportDatabase
	Stats Dashboard
}

// ReportsHandler lists reports, newest first
func (re Report) ReportsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	reports, err := re.RDB.Find(ctx, bson.M{}, databases.NewestFirst(0, 0))
	if err != nil {
		config.ErrorStatus("failed to get reports", http.StatusInternalServerError, w, err)
		return
	}
	if reports == nil {
		reports = []models.Report{}
	}
	writeJSON(w, http.StatusOK, reports)
}

// CreateReportHandler creates a new report and freezes the current overview
// statistics into it
func (re Report) CreateReportHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return
	}
	var req models.CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid report", http.StatusBadRequest, w, validationFailed(err))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	snap, err := re.Stats.snapshot(ctx, bson.M{}, true)
	if err != nil {
		config.ErrorStatus("failed to get statistics", http.StatusInternalServerError, w, err)
		return
	}

	report := models.Report{
		ID:          primitive.NewObjectID(),
		Title:       strings.TrimSpace(req.Title),
		Summary:     strings.TrimSpace(req.Summary),
		PeriodStart: req.PeriodStart,
		PeriodEnd:   req.PeriodEnd,
		AuthorName:  caller.Name,
		Snapshot:    snap,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := re.RDB.InsertOne(ctx, report); err != nil {
		config.ErrorStatus("failed to insert report", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}
