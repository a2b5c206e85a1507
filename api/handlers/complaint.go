package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
)

// Complaint exists for dependency injection
type Complaint struct {
	DB  databases.ComplaintDatabase
	Hub *Hub
	Now func() time.Time
}

func (c Complaint) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now().UTC()
}

// ComplaintsHandler lists complaints. Admins see all of them or one resident's
// with ?residentId; residents always get only their own.
func (c Complaint) ComplaintsHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return
	}

	filter := bson.M{}
	residentID := r.URL.Query().Get("residentId")
	switch {
	case !caller.IsAdmin():
		filter["residentId"] = caller.ID
	case residentID != "":
		rID, err := primitive.ObjectIDFromHex(residentID)
		if err != nil {
			config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
			return
		}
		filter["residentId"] = rID
	}
	if raw := r.URL.Query().Get("status"); raw != "" {
		status, err := models.ParseStatus(raw)
		if err != nil {
			config.ErrorStatus("invalid status filter", http.StatusBadRequest, w, err)
			return
		}
		filter["status"] = status
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	complaints, err := c.DB.Find(ctx, filter, databases.NewestFirst(limit, page))
	if err != nil {
		config.ErrorStatus("failed to get complaints", http.StatusInternalServerError, w, err)
		return
	}
	// an empty list is a valid answer, never null
	if complaints == nil {
		complaints = []models.Complaint{}
	}

	b, err := json.Marshal(complaints)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// ComplaintByIDHandler returns one complaint. Residents may only read their own.
func (c Complaint) ComplaintByIDHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return
	}
	cID, err := primitive.ObjectIDFromHex(mux.Vars(r)["complaint_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	complaint, err := c.DB.FindOne(ctx, bson.M{"_id": cID})
	if errors.Is(err, mongo.ErrNoDocuments) || (err == nil && !caller.IsAdmin() && complaint.ResidentID != caller.ID) {
		config.ErrorStatus("complaint not found", http.StatusNotFound, w, mongo.ErrNoDocuments)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to get complaint by ID", http.StatusInternalServerError, w, err)
		return
	}

	b, err := json.Marshal(complaint)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}

// CreateComplaintHandler stores a resident's complaint. New complaints always start Pending.
func (c Complaint) CreateComplaintHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return
	}

	var req models.CreateComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid complaint", http.StatusBadRequest, w, validationFailed(err))
		return
	}
	complaint, err := models.NewComplaint(caller.ID, caller.Name, req, c.now())
	if err != nil {
		config.ErrorStatus("invalid complaint", http.StatusBadRequest, w, err)
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := c.DB.InsertOne(ctx, complaint); err != nil {
		config.ErrorStatus("failed to insert complaint", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("complaint submitted",
		"complaint", complaint.ID.Hex(),
		"resident", caller.ID.Hex(),
		"category", models.ClassifyCategory(complaint.Category).Key)

	b, err := json.Marshal(complaint)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	w.Write(b)
}

// UpdateComplaintStatusHandler moves a complaint to any of the four statuses and
// returns it as stored. Subscribers of the stream are told about the change.
func (c Complaint) UpdateComplaintStatusHandler(w http.ResponseWriter, r *http.Request) {
	cID, err := primitive.ObjectIDFromHex(mux.Vars(r)["complaint_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}

	var req models.UpdateComplaintStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	status, err := models.ParseStatus(req.Status)
	if err != nil {
		config.ErrorStatus("invalid status", http.StatusBadRequest, w, err)
		return
	}

	now := c.now()
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	// updatedAt never drops below createdAt
	update := bson.A{bson.M{"$set": bson.M{
		"status":    status,
		"updatedAt": bson.M{"$max": bson.A{"$createdAt", now}},
	}}}
	complaint, err := c.DB.FindOneAndUpdate(ctx, bson.M{"_id": cID}, update)
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("complaint not found", http.StatusNotFound, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to update complaint status", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("complaint status updated",
		"complaint", cID.Hex(),
		"status", status)

	c.Hub.BroadcastStatusChange(*complaint)

	b, err := json.Marshal(complaint)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b)
}
