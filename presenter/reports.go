package presenter

import (
	"context"
	"time"

	"github.com/linesmerrill/civicdesk/listsync"
	"github.com/linesmerrill/civicdesk/models"
)

// ReportRow is one rendered report
type ReportRow struct {
	ID        string
	Title     string
	Period    string
	Author    string
	Resolved  int64
	Total     int64
	CreatedAt time.Time
}

// ReportList presents the admin report list
type ReportList struct {
	List *listsync.Controller[models.Report]
}

// Mount starts the first load
func (p *ReportList) Mount(ctx context.Context) { p.List.Mount(ctx) }

// Refresh is the pull-to-refresh action
func (p *ReportList) Refresh(ctx context.Context) bool { return p.List.Refresh(ctx) }

// Unmount detaches the list
func (p *ReportList) Unmount() { p.List.Close() }

// View renders the current state
func (p *ReportList) View() ListView[ReportRow] {
	return buildList("reports", "No reports yet", p.List.Snapshot(), reportRow, nil)
}

func reportRow(r models.Report) ReportRow {
	return ReportRow{
		ID:        r.ID.Hex(),
		Title:     r.Title,
		Period:    r.PeriodStart.Format("2006-01-02") + " to " + r.PeriodEnd.Format("2006-01-02"),
		Author:    r.AuthorName,
		Resolved:  r.Snapshot.ResolvedComplaints,
		Total:     r.Snapshot.TotalComplaints,
		CreatedAt: r.CreatedAt,
	}
}

// AnnouncementRow is one rendered announcement
type AnnouncementRow struct {
	ID        string
	Title     string
	Priority  string
	Pinned    bool
	Author    string
	CreatedAt time.Time
}

// AnnouncementList presents the announcement feed
type AnnouncementList struct {
	List *listsync.Controller[models.Announcement]
}

// Mount starts the first load
func (p *AnnouncementList) Mount(ctx context.Context) { p.List.Mount(ctx) }

// Refresh is the pull-to-refresh action
func (p *AnnouncementList) Refresh(ctx context.Context) bool { return p.List.Refresh(ctx) }

// Unmount detaches the list
func (p *AnnouncementList) Unmount() { p.List.Close() }

// View renders the current state
func (p *AnnouncementList) View() ListView[AnnouncementRow] {
	return buildList("announcements", "No announcements", p.List.Snapshot(), func(a models.Announcement) AnnouncementRow {
		return AnnouncementRow{
			ID:        a.ID.Hex(),
			Title:     a.Title,
			Priority:  a.Priority,
			Pinned:    a.IsPinned,
			Author:    a.AuthorName,
			CreatedAt: a.CreatedAt,
		}
	}, nil)
}
