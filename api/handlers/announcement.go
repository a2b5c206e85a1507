package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
)

// Announcement exists for dependency injection
type Announcement struct {
	DB databases.AnnouncementDatabase
}

// AnnouncementsHandler lists announcements, pinned first
func (a Announcement) AnnouncementsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	announcements, err := a.DB.Find(ctx, bson.M{})
	if err != nil {
		config.ErrorStatus("failed to get announcements", http.StatusInternalServerError, w, err)
		return
	}
	if announcements == nil {
		announcements = []models.Announcement{}
	}
	writeJSON(w, http.StatusOK, announcements)
}

// CreateAnnouncementHandler publishes an announcement authored by the calling admin
func (a Announcement) CreateAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return
	}
	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid announcement", http.StatusBadRequest, w, validationFailed(err))
		return
	}

	now := time.Now().UTC()
	announcement := models.Announcement{
		ID:         primitive.NewObjectID(),
		Creator:    caller.ID,
		AuthorName: caller.Name,
		Title:      strings.TrimSpace(req.Title),
		Content:    strings.TrimSpace(req.Content),
		Priority:   req.Priority,
		IsPinned:   req.IsPinned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	if _, err := a.DB.InsertOne(ctx, announcement); err != nil {
		config.ErrorStatus("failed to insert announcement", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusCreated, announcement)
}

// UpdateAnnouncementHandler applies the fields present in the body
func (a Announcement) UpdateAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	aID, err := primitive.ObjectIDFromHex(mux.Vars(r)["announcement_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	var req models.UpdateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.ErrorStatus("failed to decode request body", http.StatusBadRequest, w, err)
		return
	}
	if err := validate.Struct(req); err != nil {
		config.ErrorStatus("invalid announcement", http.StatusBadRequest, w, validationFailed(err))
		return
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if req.Title != nil {
		set["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Content != nil {
		set["content"] = strings.TrimSpace(*req.Content)
	}
	if req.Priority != nil {
		set["priority"] = *req.Priority
	}
	if req.IsPinned != nil {
		set["isPinned"] = *req.IsPinned
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	announcement, err := a.DB.FindOneAndUpdate(ctx, bson.M{"_id": aID}, bson.M{"$set": set})
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("announcement not found", http.StatusNotFound, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to update announcement", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, announcement)
}

// DeleteAnnouncementHandler removes an announcement
func (a Announcement) DeleteAnnouncementHandler(w http.ResponseWriter, r *http.Request) {
	aID, err := primitive.ObjectIDFromHex(mux.Vars(r)["announcement_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	n, err := a.DB.DeleteOne(ctx, bson.M{"_id": aID})
	if err != nil {
		config.ErrorStatus("failed to delete announcement", http.StatusInternalServerError, w, err)
		return
	}
	if n == 0 {
		config.ErrorStatus("announcement not found", http.StatusNotFound, w, mongo.ErrNoDocuments)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "announcement deleted"}`))
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	b, err := json.Marshal(v)
	if err != nil {
		config.ErrorStatus("failed to marshal response", http.StatusInternalServerError, w, err)
		return
	}
	w.WriteHeader(status)
	w.Write(b)
}
