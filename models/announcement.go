package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Announcement holds the structure for the announcement collection in mongo
type Announcement struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Creator    primitive.ObjectID `json:"creator" bson:"creator"`
	AuthorName string             `json:"authorName" bson:"authorName"`
	Title      string             `json:"title" bson:"title"`
	Content    string             `json:"content" bson:"content"`
	Priority   string             `json:"priority" bson:"priority"` // 'low', 'medium', 'high', 'urgent'
	IsPinned   bool               `json:"isPinned" bson:"isPinned"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateAnnouncementRequest holds the structure for creating a new announcement
type CreateAnnouncementRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,min=1"`
	Priority string `json:"priority" validate:"required,oneof=low medium high urgent"`
	IsPinned bool   `json:"isPinned"`
}

// UpdateAnnouncementRequest holds the structure for updating an announcement
type UpdateAnnouncementRequest struct {
	Title    *string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content  *string `json:"content,omitempty" validate:"omitempty,min=1"`
	Priority *string `json:"priority,omitempty" validate:"omitempty,oneof=low medium high urgent"`
	IsPinned *bool   `json:"isPinned,omitempty"`
}
