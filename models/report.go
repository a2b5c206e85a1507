package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report represents an admin-authored summary report, e.g. a monthly complaint review
type Report struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Summary     string             `bson:"summary" json:"summary"`
	PeriodStart time.Time          `bson:"periodStart" json:"periodStart"`
	PeriodEnd   time.Time          `bson:"periodEnd" json:"periodEnd"`
	AuthorName  string             `bson:"authorName" json:"authorName"`
	Snapshot    StatisticsSnapshot `bson:"snapshot" json:"snapshot"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// CreateReportRequest holds the structure for creating a report
type CreateReportRequest struct {
	Title       string    `json:"title" validate:"required,min=1,max=200"`
	Summary     string    `json:"summary" validate:"required,min=1"`
	PeriodStart time.Time `json:"periodStart" validate:"required"`
	PeriodEnd   time.Time `json:"periodEnd" validate:"required,gtefield=PeriodStart"`
}
