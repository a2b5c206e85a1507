// Package lifecycle applies admin status changes to complaints. A change is a
// two-step commit: RequestStatusChange stages it, PendingChange.Confirm sends it.
// Nothing is mutated locally; after the server acknowledges, the list is reloaded
// from the server.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/client"
	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/notify"
)

// ErrSettled is returned when a pending change is confirmed or cancelled twice
var ErrSettled = errors.New("status change already settled")

// StatusUpdater sends a status change to the remote service
type StatusUpdater interface {
	UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error)
}

// Reloader refetches the authoritative list
type Reloader interface {
	Reload(ctx context.Context) bool
}

// Policy stages and commits complaint status changes
type Policy struct {
	remote StatusUpdater
	list   Reloader
	sink   notify.Sink
	log    *zap.SugaredLogger
}

// NewPolicy wires a policy. list may be nil when no list is on screen.
func NewPolicy(remote StatusUpdater, list Reloader, sink notify.Sink, log *zap.SugaredLogger) *Policy {
	if sink == nil {
		sink = notify.Discard
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Policy{remote: remote, list: list, sink: sink, log: log}
}

// RequestStatusChange validates the request and stages it. Nothing is sent until
// the returned change is confirmed.
func (p *Policy) RequestStatusChange(complaintID string, target models.ComplaintStatus) (*PendingChange, error) {
	complaintID = strings.TrimSpace(complaintID)
	if complaintID == "" {
		return nil, &client.ValidationError{Field: "complaintId", Reason: "required"}
	}
	if !target.Valid() {
		return nil, &client.ValidationError{Field: "status", Reason: fmt.Sprintf("%q is not a complaint status", target)}
	}
	return &PendingChange{policy: p, ComplaintID: complaintID, Target: target}, nil
}

// PendingChange is a staged status change awaiting confirmation
type PendingChange struct {
	ComplaintID string
	Target      models.ComplaintStatus

	policy  *Policy
	mu      sync.Mutex
	settled bool
}

// Prompt is the question a surface shows before confirming
func (pc *PendingChange) Prompt() string {
	return fmt.Sprintf("Change status of complaint %s to %s?", pc.ComplaintID, models.ClassifyStatus(string(pc.Target)).Label)
}

// Cancel drops the change without sending anything
func (pc *PendingChange) Cancel() error {
	pc.mu.Lock()
	defer pc.mu.Unlock()
	if pc.settled {
		return ErrSettled
	}
	pc.settled = true
	return nil
}

// Confirm sends the change. On success it notifies and reloads the list once; on
// failure it notifies and returns the error without touching any local state.
// The sink has always been told about the outcome by the time Confirm returns.
func (pc *PendingChange) Confirm(ctx context.Context) error {
	pc.mu.Lock()
	if pc.settled {
		pc.mu.Unlock()
		return ErrSettled
	}
	pc.settled = true
	pc.mu.Unlock()

	p := pc.policy
	label := models.ClassifyStatus(string(pc.Target)).Label

	if _, err := p.remote.UpdateComplaintStatus(ctx, pc.ComplaintID, pc.Target); err != nil {
		p.log.Errorw("failed to update complaint status",
			"complaintId", pc.ComplaintID,
			"status", pc.Target,
			"error", err,
		)
		p.sink.Notify(notify.Error, "Failed to update status", err.Error())
		return err
	}

	p.log.Infow("complaint status updated", "complaintId", pc.ComplaintID, "status", pc.Target)
	p.sink.Notify(notify.Success, "Status updated", fmt.Sprintf("Complaint marked as %s", label))
	if p.list != nil {
		p.list.Reload(ctx)
	}
	return nil
}
