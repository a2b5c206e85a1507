package presenter

import (
	"context"
	"fmt"

	"github.com/linesmerrill/civicdesk/dashboard"
)

// Card is one dashboard tile
type Card struct {
	Label string
	Value string
}

// DashboardView is the rendered dashboard
type DashboardView struct {
	Title string
	Cards []Card
	// Error is set when the latest load failed; Cards then show the previous snapshot
	Error string
}

// Dashboard presents statistics for one scope
type Dashboard struct {
	Stats *dashboard.Stats
	Scope dashboard.Scope
}

// Mount loads the statistics; failures are already reported through the sink
func (p *Dashboard) Mount(ctx context.Context) {
	_ = p.Stats.Load(ctx, p.Scope)
}

// Unmount stops the dashboard from taking statistics still being fetched
func (p *Dashboard) Unmount() {
	p.Stats.Close()
}

// View renders the last good snapshot
func (p *Dashboard) View() DashboardView {
	v := DashboardView{Title: "Overview"}
	if p.Scope == dashboard.Resident {
		v.Title = "My complaints"
	}
	if err := p.Stats.Err(); err != nil {
		v.Error = "Could not load statistics: " + err.Error()
	}

	snap, ok := p.Stats.Snapshot()
	if !ok {
		return v
	}
	v.Cards = []Card{
		{Label: "Total complaints", Value: fmt.Sprint(snap.TotalComplaints)},
		{Label: "Resolved", Value: fmt.Sprint(snap.ResolvedComplaints)},
		{Label: "Pending", Value: fmt.Sprint(snap.PendingComplaints)},
		{Label: "Announcements", Value: fmt.Sprint(snap.Announcements)},
	}
	if p.Scope == dashboard.Overview {
		v.Cards = append(v.Cards, Card{Label: "Users", Value: fmt.Sprint(snap.Users)})
	}
	return v
}
