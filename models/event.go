package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventComplaintStatusChanged is pushed to stream subscribers after an admin status update
const EventComplaintStatusChanged = "complaint_status_changed"

// StreamEnvelope is the frame written to notification stream subscribers
type StreamEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// ComplaintStatusEvent is the payload of EventComplaintStatusChanged
type ComplaintStatusEvent struct {
	ComplaintID primitive.ObjectID `json:"complaintId"`
	ResidentID  primitive.ObjectID `json:"residentId"`
	Status      ComplaintStatus    `json:"status"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
