package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComplaintStatus is the lifecycle state of a complaint
type ComplaintStatus string

// The four statuses a complaint can be in. Any status may move to any other.
const (
	StatusPending    ComplaintStatus = "Pending"
	StatusInProgress ComplaintStatus = "InProgress"
	StatusResolved   ComplaintStatus = "Resolved"
	StatusRejected   ComplaintStatus = "Rejected"
)

// Statuses lists every valid complaint status in display order
var Statuses = []ComplaintStatus{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

// ErrInvalidStatus is returned when a status string is not one of Statuses
var ErrInvalidStatus = errors.New("invalid complaint status")

// ErrEmptyField is returned when a required text field is blank
var ErrEmptyField = errors.New("required field is empty")

// Complaint holds the structure for the complaints collection in mongo
type Complaint struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	ResidentID primitive.ObjectID `json:"residentId" bson:"residentId"`
	AuthorName string             `json:"authorName" bson:"authorName"`
	Title      string             `json:"title" bson:"title"`
	Content    string             `json:"content" bson:"content"`
	Category   string             `json:"category" bson:"category"`
	Status     ComplaintStatus    `json:"status" bson:"status"`
	CreatedAt  time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CreateComplaintRequest holds the structure for a resident submitting a complaint
type CreateComplaintRequest struct {
	Title    string `json:"title" validate:"required,min=1,max=200"`
	Content  string `json:"content" validate:"required,min=1,max=5000"`
	Category string `json:"category" validate:"required,max=64"`
}

// UpdateComplaintStatusRequest holds the structure for an admin status change
type UpdateComplaintStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// NewComplaint builds a Pending complaint for the given resident. Title and content
// must be non-empty once trimmed.
func NewComplaint(residentID primitive.ObjectID, authorName string, req CreateComplaintRequest, now time.Time) (Complaint, error) {
	title := strings.TrimSpace(req.Title)
	content := strings.TrimSpace(req.Content)
	if title == "" {
		return Complaint{}, fmt.Errorf("title: %w", ErrEmptyField)
	}
	if content == "" {
		return Complaint{}, fmt.Errorf("content: %w", ErrEmptyField)
	}
	return Complaint{
		ID:         primitive.NewObjectID(),
		ResidentID: residentID,
		AuthorName: authorName,
		Title:      title,
		Content:    content,
		Category:   strings.TrimSpace(req.Category),
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// Valid reports whether s is one of the four complaint statuses
func (s ComplaintStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// ParseStatus maps a raw status string to a ComplaintStatus, ignoring case and
// word separators, so "in_progress", "In Progress" and "INPROGRESS" all parse.
func ParseStatus(raw string) (ComplaintStatus, error) {
	for _, s := range Statuses {
		if normalize(string(s)) == normalize(raw) {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// SetStatus moves the complaint to status and bumps UpdatedAt. UpdatedAt never
// goes below CreatedAt even if the supplied clock is behind.
func (c *Complaint) SetStatus(status ComplaintStatus, now time.Time) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	c.Status = status
	c.touch(now)
	return nil
}

// Edit replaces title and content, bumping UpdatedAt
func (c *Complaint) Edit(title, content string, now time.Time) error {
	title = strings.TrimSpace(title)
	content = strings.TrimSpace(content)
	if title == "" || content == "" {
		return ErrEmptyField
	}
	c.Title = title
	c.Content = content
	c.touch(now)
	return nil
}

func (c *Complaint) touch(now time.Time) {
	if now.Before(c.CreatedAt) {
		now = c.CreatedAt
	}
	c.UpdatedAt = now
}

// Validate checks the invariants a complaint read from the remote service must hold
func (c Complaint) Validate() error {
	if c.ID.IsZero() {
		return errors.New("complaint id is empty")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("title: %w", ErrEmptyField)
	}
	if strings.TrimSpace(c.Content) == "" {
		return fmt.Errorf("content: %w", ErrEmptyField)
	}
	if !c.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, c.Status)
	}
	if c.UpdatedAt.Before(c.CreatedAt) {
		return errors.New("updatedAt is before createdAt")
	}
	return nil
}
