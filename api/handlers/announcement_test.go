package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/api/handlers"
	mocksdb "github.com/linesmerrill/civicdesk/databases/mocks"
	"github.com/linesmerrill/civicdesk/models"
)

func TestAnnouncement_CreateAnnouncementHandler(t *testing.T) {
	db := &mocksdb.AnnouncementDatabase{}
	db.On("InsertOne", mock.Anything, mock.MatchedBy(func(a models.Announcement) bool {
		return a.Creator == adminCaller.ID && a.Priority == "high" && a.IsPinned
	})).Return(primitive.NewObjectID(), nil)

	body := `{"title": "Road works", "content": "Main street closed", "priority": "high", "isPinned": true}`
	req := httptest.NewRequest("POST", "/api/v1/announcements", strings.NewReader(body))
	rr := serve(handlers.Announcement{DB: db}.CreateAnnouncementHandler, api.WithCaller(req, adminCaller))

	require.Equal(t, http.StatusCreated, rr.Code)
	var got models.Announcement
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, "City Admin", got.AuthorName)
	db.AssertExpectations(t)
}

func TestAnnouncement_CreateAnnouncementHandlerValidation(t *testing.T) {
	db := &mocksdb.AnnouncementDatabase{}
	body := `{"title": "Road works", "content": "Main street closed", "priority": "whenever"}`
	req := httptest.NewRequest("POST", "/api/v1/announcements", strings.NewReader(body))
	rr := serve(handlers.Announcement{DB: db}.CreateAnnouncementHandler, api.WithCaller(req, adminCaller))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "Priority must be one of")
	db.AssertNotCalled(t, "InsertOne", mock.Anything, mock.Anything)
}

func TestAnnouncement_UpdateAnnouncementHandlerOnlySetsGivenFields(t *testing.T) {
	id := primitive.NewObjectID()
	db := &mocksdb.AnnouncementDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, bson.M{"_id": id}, mock.MatchedBy(func(u bson.M) bool {
		set := u["$set"].(bson.M)
		_, hasTitle := set["title"]
		return set["isPinned"] == false && !hasTitle
	})).Return(&models.Announcement{ID: id, Title: "Road works"}, nil)

	req := httptest.NewRequest("PUT", "/api/v1/announcements/"+id.Hex(), strings.NewReader(`{"isPinned": false}`))
	req = mux.SetURLVars(req, map[string]string{"announcement_id": id.Hex()})
	rr := serve(handlers.Announcement{DB: db}.UpdateAnnouncementHandler, api.WithCaller(req, adminCaller))

	assert.Equal(t, http.StatusOK, rr.Code)
	db.AssertExpectations(t)
}

func TestAnnouncement_DeleteAnnouncementHandler(t *testing.T) {
	gone := primitive.NewObjectID()
	present := primitive.NewObjectID()
	db := &mocksdb.AnnouncementDatabase{}
	db.On("DeleteOne", mock.Anything, bson.M{"_id": present}).Return(int64(1), nil)
	db.On("DeleteOne", mock.Anything, bson.M{"_id": gone}).Return(int64(0), nil)

	tests := []struct {
		id   string
		code int
	}{
		{present.Hex(), http.StatusOK},
		{gone.Hex(), http.StatusNotFound},
		{"nope", http.StatusBadRequest},
	}
	for _, tt := range tests {
		req := httptest.NewRequest("DELETE", "/api/v1/announcements/"+tt.id, nil)
		req = mux.SetURLVars(req, map[string]string{"announcement_id": tt.id})
		rr := serve(handlers.Announcement{DB: db}.DeleteAnnouncementHandler, api.WithCaller(req, adminCaller))
		assert.Equal(t, tt.code, rr.Code, tt.id)
	}
}

func TestAnnouncement_UpdateAnnouncementHandlerMissing(t *testing.T) {
	id := primitive.NewObjectID()
	db := &mocksdb.AnnouncementDatabase{}
	db.On("FindOneAndUpdate", mock.Anything, mock.Anything, mock.Anything).Return(nil, mongo.ErrNoDocuments)

	req := httptest.NewRequest("PUT", "/api/v1/announcements/"+id.Hex(), strings.NewReader(`{"title": "New"}`))
	req = mux.SetURLVars(req, map[string]string{"announcement_id": id.Hex()})
	rr := serve(handlers.Announcement{DB: db}.UpdateAnnouncementHandler, api.WithCaller(req, adminCaller))

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
