package databases

// go generate: mockery --name ComplaintDatabase

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/linesmerrill/civicdesk/models"
)

const complaintName = "complaints"

// ComplaintDatabase contains the methods to use with the complaint database
type ComplaintDatabase interface {
	FindOne(ctx context.Context, filter interface{}) (*models.Complaint, error)
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Complaint, error)
	InsertOne(ctx context.Context, complaint models.Complaint) (interface{}, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Complaint, error)
	CountDocuments(ctx context.Context, filter interface{}) (int64, error)
}

type complaintDatabase struct {
	db DatabaseHelper
}

// NewComplaintDatabase initializes a new instance of complaint database with the provided db connection
func NewComplaintDatabase(db DatabaseHelper) ComplaintDatabase {
	return &complaintDatabase{
		db: db,
	}
}

func (c *complaintDatabase) FindOne(ctx context.Context, filter interface{}) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	err := c.db.Collection(complaintName).FindOne(ctx, filter).Decode(&complaint)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (c *complaintDatabase) Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) ([]models.Complaint, error) {
	cursor, err := c.db.Collection(complaintName).Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return decodeAll[models.Complaint](ctx, cursor)
}

func (c *complaintDatabase) InsertOne(ctx context.Context, complaint models.Complaint) (interface{}, error) {
	return c.db.Collection(complaintName).InsertOne(ctx, complaint)
}

// FindOneAndUpdate returns the complaint as it is after the update
func (c *complaintDatabase) FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*models.Complaint, error) {
	complaint := &models.Complaint{}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := c.db.Collection(complaintName).FindOneAndUpdate(ctx, filter, update, opts).Decode(&complaint)
	if err != nil {
		return nil, err
	}
	return complaint, nil
}

func (c *complaintDatabase) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.db.Collection(complaintName).CountDocuments(ctx, filter)
}
