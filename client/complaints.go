package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/linesmerrill/civicdesk/models"
)

// ListComplaints returns every complaint, or only the resident's when residentID is set
func (c *Client) ListComplaints(ctx context.Context, residentID string) ([]models.Complaint, error) {
	var q url.Values
	if residentID != "" {
		q = url.Values{"residentId": {residentID}}
	}
	var out []models.Complaint
	if err := c.doJSON(ctx, "list complaints", http.MethodGet, "/complaints", q, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Complaint{}
	}
	return out, nil
}

// GetComplaint fetches a single complaint
func (c *Client) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Reason: "required"}
	}
	var out models.Complaint
	if err := c.doJSON(ctx, "get complaint", http.MethodGet, "/complaints/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateComplaint submits a new complaint as the logged in resident
func (c *Client) CreateComplaint(ctx context.Context, req models.CreateComplaintRequest) (*models.Complaint, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}
	if strings.TrimSpace(req.Content) == "" {
		return nil, &ValidationError{Field: "content", Reason: "required"}
	}
	var out models.Complaint
	if err := c.doJSON(ctx, "create complaint", http.MethodPost, "/complaints", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateComplaintStatus asks the api to move a complaint to status
func (c *Client) UpdateComplaintStatus(ctx context.Context, id string, status models.ComplaintStatus) (*models.Complaint, error) {
	if strings.TrimSpace(id) == "" {
		return nil, &ValidationError{Field: "id", Reason: "required"}
	}
	if !status.Valid() {
		return nil, &ValidationError{Field: "status", Reason: "must be one of Pending, InProgress, Resolved, Rejected"}
	}
	var out models.Complaint
	body := models.UpdateComplaintStatusRequest{Status: string(status)}
	if err := c.doJSON(ctx, "update complaint status", http.MethodPatch, "/complaints/"+url.PathEscape(id)+"/status", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OverviewStatistics returns the admin dashboard counts
func (c *Client) OverviewStatistics(ctx context.Context) (models.StatisticsSnapshot, error) {
	var out models.StatisticsSnapshot
	err := c.doJSON(ctx, "overview statistics", http.MethodGet, "/dashboard/overview", nil, nil, &out)
	return out, err
}

// ResidentStatistics returns the logged in resident's dashboard counts
func (c *Client) ResidentStatistics(ctx context.Context) (models.StatisticsSnapshot, error) {
	var out models.StatisticsSnapshot
	err := c.doJSON(ctx, "resident statistics", http.MethodGet, "/dashboard/resident", nil, nil, &out)
	return out, err
}

// ListAnnouncements returns every announcement, pinned first
func (c *Client) ListAnnouncements(ctx context.Context) ([]models.Announcement, error) {
	var out []models.Announcement
	if err := c.doJSON(ctx, "list announcements", http.MethodGet, "/announcements", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Announcement{}
	}
	return out, nil
}

// CreateAnnouncement publishes a new announcement
func (c *Client) CreateAnnouncement(ctx context.Context, req models.CreateAnnouncementRequest) (*models.Announcement, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "required"}
	}
	var out models.Announcement
	if err := c.doJSON(ctx, "create announcement", http.MethodPost, "/announcements", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListReports returns every admin report, newest first
func (c *Client) ListReports(ctx context.Context) ([]models.Report, error) {
	var out []models.Report
	if err := c.doJSON(ctx, "list reports", http.MethodGet, "/reports", nil, nil, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Report{}
	}
	return out, nil
}
