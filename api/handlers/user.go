package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
)

// MaxUploadSize bounds the multipart user form including its document
const MaxUploadSize = 10 << 20

// User exported for testing purposes
type User struct {
	DB   databases.UserDatabase
	Docs DocumentStore
}

// UsersHandler lists every user
func (u User) UsersHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	users, err := u.DB.Find(ctx, bson.M{}, databases.NewestFirst(0, 0))
	if err != nil {
		config.ErrorStatus("failed to get users", http.StatusInternalServerError, w, err)
		return
	}
	if users == nil {
		users = []models.User{}
	}
	writeJSON(w, http.StatusOK, users)
}

// UserHandler returns a single user. Residents may only read themselves.
func (u User) UserHandler(w http.ResponseWriter, r *http.Request) {
	uID, ok := u.target(w, r)
	if !ok {
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	user, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// UserCreateHandler creates a user from a multipart form with an optional document
func (u User) UserCreateHandler(w http.ResponseWriter, r *http.Request) {
	form, ok := u.parseForm(w, r)
	if !ok {
		return
	}
	if form.Password == "" {
		config.ErrorStatus("invalid user", http.StatusBadRequest, w, errors.New("password is required"))
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	count, err := u.DB.CountDocuments(ctx, bson.M{"email": form.Email})
	if err != nil {
		config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
		return
	}
	if count > 0 {
		config.ErrorStatus("email already in use", http.StatusConflict, w, fmt.Errorf("%s", form.Email))
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
		return
	}

	now := time.Now().UTC()
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      form.Name,
		Email:     form.Email,
		Password:  string(hashedPassword),
		Role:      models.RoleResident,
		Phone:     form.Phone,
		Address:   form.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if form.Role != "" {
		user.Role = models.Role(form.Role)
	}

	doc, err := u.storeDocument(ctx, r)
	if err != nil {
		config.ErrorStatus("failed to store document", http.StatusBadGateway, w, err)
		return
	}
	user.DocumentURL, user.DocumentID = doc.URL, doc.ID

	if _, err := u.DB.InsertOne(ctx, user); err != nil {
		config.ErrorStatus("failed to insert user", http.StatusInternalServerError, w, err)
		return
	}
	zap.S().Infow("user created",
		"user", user.ID.Hex(),
		"role", user.Role)
	writeJSON(w, http.StatusCreated, user)
}

// UpdateUserByIDHandler replaces a user's profile fields. A new document replaces
// the old one, a blank password keeps the current one and only admins change roles.
func (u User) UpdateUserByIDHandler(w http.ResponseWriter, r *http.Request) {
	uID, ok := u.target(w, r)
	if !ok {
		return
	}
	caller, _ := api.CallerFrom(r)
	form, ok := u.parseForm(w, r)
	if !ok {
		return
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	existing, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
		return
	}
	if form.Email != existing.Email {
		count, err := u.DB.CountDocuments(ctx, bson.M{"email": form.Email, "_id": bson.M{"$ne": uID}})
		if err != nil {
			config.ErrorStatus("failed to check email", http.StatusInternalServerError, w, err)
			return
		}
		if count > 0 {
			config.ErrorStatus("email already in use", http.StatusConflict, w, fmt.Errorf("%s", form.Email))
			return
		}
	}

	set := bson.M{
		"name":      form.Name,
		"email":     form.Email,
		"phone":     form.Phone,
		"address":   form.Address,
		"updatedAt": time.Now().UTC(),
	}
	if form.Role != "" && caller.IsAdmin() {
		set["role"] = models.Role(form.Role)
	}
	if form.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
		if err != nil {
			config.ErrorStatus("failed to hash password", http.StatusInternalServerError, w, err)
			return
		}
		set["password"] = string(hashedPassword)
	}

	doc, err := u.storeDocument(ctx, r)
	if err != nil {
		config.ErrorStatus("failed to store document", http.StatusBadGateway, w, err)
		return
	}
	if doc.ID != "" {
		set["documentUrl"], set["documentId"] = doc.URL, doc.ID
	}

	user, err := u.DB.FindOneAndUpdate(ctx, bson.M{"_id": uID}, bson.M{"$set": set})
	if err != nil {
		config.ErrorStatus("failed to update user", http.StatusInternalServerError, w, err)
		return
	}
	if doc.ID != "" && existing.DocumentID != "" {
		u.dropDocument(ctx, existing.DocumentID)
	}
	writeJSON(w, http.StatusOK, user)
}

// DeleteUserHandler removes a user and their document
func (u User) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	existing, err := u.DB.FindOne(ctx, bson.M{"_id": uID})
	if errors.Is(err, mongo.ErrNoDocuments) {
		config.ErrorStatus("user not found", http.StatusNotFound, w, err)
		return
	}
	if err != nil {
		config.ErrorStatus("failed to get user by ID", http.StatusInternalServerError, w, err)
		return
	}
	if _, err := u.DB.DeleteOne(ctx, bson.M{"_id": uID}); err != nil {
		config.ErrorStatus("failed to delete user", http.StatusInternalServerError, w, err)
		return
	}
	if existing.DocumentID != "" {
		u.dropDocument(ctx, existing.DocumentID)
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"message": "user deleted"}`))
}

// target resolves {user_id} and enforces that residents only touch themselves
func (u User) target(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return primitive.NilObjectID, false
	}
	uID, err := primitive.ObjectIDFromHex(mux.Vars(r)["user_id"])
	if err != nil {
		config.ErrorStatus("failed to get objectID from Hex", http.StatusBadRequest, w, err)
		return primitive.NilObjectID, false
	}
	if !caller.IsAdmin() && caller.ID != uID {
		config.ErrorStatus("forbidden", http.StatusForbidden, w, errors.New("residents may only access their own account"))
		return primitive.NilObjectID, false
	}
	return uID, true
}

func (u User) parseForm(w http.ResponseWriter, r *http.Request) (models.UserForm, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadSize)
	if err := r.ParseMultipartForm(MaxUploadSize); err != nil {
		config.ErrorStatus("failed to parse multipart form", http.StatusBadRequest, w, err)
		return models.UserForm{}, false
	}
	form := models.UserFormFrom(r)
	if err := validate.Struct(form); err != nil {
		config.ErrorStatus("invalid user", http.StatusBadRequest, w, validationFailed(err))
		return models.UserForm{}, false
	}
	return form, true
}

// storeDocument uploads the optional "document" part. No part means a zero result.
func (u User) storeDocument(ctx context.Context, r *http.Request) (StoredDocument, error) {
	file, header, err := r.FormFile("document")
	if errors.Is(err, http.ErrMissingFile) {
		return StoredDocument{}, nil
	}
	if err != nil {
		return StoredDocument{}, err
	}
	defer file.Close()
	if u.Docs == nil {
		return StoredDocument{}, errors.New("document storage is not configured")
	}
	return u.Docs.Upload(ctx, header.Filename, file)
}

func (u User) dropDocument(ctx context.Context, id string) {
	if u.Docs == nil {
		return
	}
	if err := u.Docs.Delete(ctx, id); err != nil {
		zap.S().Warnw("failed to delete old document",
			"document", id,
			"error", err)
	}
}
