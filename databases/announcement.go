package databases

// go generate: mockery --name AnnouncementDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/civicdesk/models"
)

const announcementCollectionName = "announcements"

// AnnouncementDatabase contains the methods to use with the announcement database
type AnnouncementDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Announcement, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Announcement, error)
	InsertOne(ctx context.Context, announcement models.Announcement) (interface{}, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Announcement, error)
	DeleteOne(ctx context.Context, filter interface{}) (int64, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type announcementDatabase struct {
	db DatabaseHelper
}

// NewAnnouncementDatabase initializes a new instance of announcement database with the provided db connection
func NewAnnouncementDatabase(db DatabaseHelper) AnnouncementDatabase {
	return &announcementDatabase{
		db: db,
	}
}

func (a *announcementDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Announcement, error) {
	announcement := &models.Announcement{}
	err := a.db.Collection(announcementCollectionName).FindOne(ctx, filter).Decode(&announcement)
	if err != nil {
		return nil, err
	}
	return announcement, nil
}

// Find lists announcements, pinned ones first unless opts override the sort
func (a *announcementDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Announcement, error) {
	if len(opts) == 0 {
		opts = append(opts, options.Find().SetSort(bson.D{{Key: "isPinned", Value: -1}, {Key: "createdAt", Value: -1}}))
	}
	cursor, err := a.db.Collection(announcementCollectionName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Announcement](ctx, cursor)
}

func (a *announcementDatabase) InsertOne(ctx context.Context, announcement models.Announcement) (interface{}, error) {
	return a.db.Collection(announcementCollectionName).InsertOne(ctx, announcement)
}

func (a *announcementDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Announcement, error) {
	announcement := &models.Announcement{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := a.db.Collection(announcementCollectionName).FindOneAndUpdate(ctx, filter, update, opts).Decode(&announcement)
	if err != nil {
		return nil, err
	}
	return announcement, nil
}

func (a *announcementDatabase) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	return a.db.Collection(announcementCollectionName).DeleteOne(ctx, filter)
}

func (a *announcementDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return a.db.Collection(announcementCollectionName).CountDocuments(ctx, filter)
}
