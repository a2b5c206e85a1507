package presenter

import (
	"context"
	"strings"
	"time"

	"github.com/linesmerrill/civicdesk/lifecycle"
	"github.com/linesmerrill/civicdesk/listsync"
	"github.com/linesmerrill/civicdesk/models"
)

// ComplaintRow is one rendered complaint
type ComplaintRow struct {
	ID        string
	Title     string
	Author    string
	Category  models.Presentation
	Status    models.Presentation
	UpdatedAt time.Time
}

// ComplaintFilter narrows the rendered rows. It never changes what is fetched.
type ComplaintFilter struct {
	Status   string
	Category string
	Query    string
}

func (f ComplaintFilter) keep(c models.Complaint) bool {
	if f.Status != "" && models.ClassifyStatus(f.Status).Key != models.ClassifyStatus(string(c.Status)).Key {
		return false
	}
	if f.Category != "" && models.ClassifyCategory(f.Category).Key != models.ClassifyCategory(c.Category).Key {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(c.Title), q) && !strings.Contains(strings.ToLower(c.Content), q) {
			return false
		}
	}
	return true
}

// ComplaintList presents a complaint list and routes status changes through the policy
type ComplaintList struct {
	List   *listsync.Controller[models.Complaint]
	Policy *lifecycle.Policy
	Filter ComplaintFilter
}

// Mount starts the first load
func (p *ComplaintList) Mount(ctx context.Context) { p.List.Mount(ctx) }

// Refresh is the pull-to-refresh action
func (p *ComplaintList) Refresh(ctx context.Context) bool { return p.List.Refresh(ctx) }

// Unmount detaches the list
func (p *ComplaintList) Unmount() { p.List.Close() }

// RequestStatusChange stages a change; the surface must confirm it
func (p *ComplaintList) RequestStatusChange(id string, target models.ComplaintStatus) (*lifecycle.PendingChange, error) {
	return p.Policy.RequestStatusChange(id, target)
}

// View renders the current state
func (p *ComplaintList) View() ListView[ComplaintRow] {
	return buildList("complaints", "No complaints found", p.List.Snapshot(), complaintRow, p.Filter.keep)
}

func complaintRow(c models.Complaint) ComplaintRow {
	return ComplaintRow{
		ID:        c.ID.Hex(),
		Title:     c.Title,
		Author:    c.AuthorName,
		Category:  models.ClassifyCategory(c.Category),
		Status:    models.ClassifyStatus(string(c.Status)),
		UpdatedAt: c.UpdatedAt,
	}
}
