package handlers

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/civicdesk/api"
	"github.com/linesmerrill/civicdesk/config"
	"github.com/linesmerrill/civicdesk/databases"
	"github.com/linesmerrill/civicdesk/models"
)

// Dashboard computes the statistics snapshots
type Dashboard struct {
	CDB databases.ComplaintDatabase
	ADB databases.AnnouncementDatabase
	UDB databases.UserDatabase
}

// OverviewHandler returns the municipality wide counts
func (d Dashboard) OverviewHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	snap, err := d.snapshot(ctx, bson.M{}, true)
	if err != nil {
		config.ErrorStatus("failed to get statistics", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// ResidentHandler returns the caller's own complaint counts
func (d Dashboard) ResidentHandler(w http.ResponseWriter, r *http.Request) {
	caller, err := api.CallerFrom(r)
	if err != nil {
		config.ErrorStatus("failed to read caller", http.StatusUnauthorized, w, err)
		return
	}
	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()
	snap, err := d.snapshot(ctx, bson.M{"residentId": caller.ID}, false)
	if err != nil {
		config.ErrorStatus("failed to get statistics", http.StatusInternalServerError, w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// snapshot runs the counts concurrently. Users are only counted for the overview.
func (d Dashboard) snapshot(ctx context.Context, scope bson.M, withUsers bool) (models.StatisticsSnapshot, error) {
	var snap models.StatisticsSnapshot
	g, ctx := errgroup.WithContext(ctx)

	count := func(dst *int64, fn func() (int64, error)) {
		g.Go(func() error {
			n, err := fn()
			*dst = n
			return err
		})
	}
	withStatus := func(s models.ComplaintStatus) bson.M {
		f := bson.M{"status": s}
		for k, v := range scope {
			f[k] = v
		}
		return f
	}

	count(&snap.TotalComplaints, func() (int64, error) { return d.CDB.CountDocuments(ctx, scope) })
	count(&snap.ResolvedComplaints, func() (int64, error) { return d.CDB.CountDocuments(ctx, withStatus(models.StatusResolved)) })
	count(&snap.PendingComplaints, func() (int64, error) { return d.CDB.CountDocuments(ctx, withStatus(models.StatusPending)) })
	count(&snap.Announcements, func() (int64, error) { return d.ADB.CountDocuments(ctx, bson.M{}) })
	if withUsers {
		count(&snap.Users, func() (int64, error) { return d.UDB.CountDocuments(ctx, bson.M{}) })
	}

	if err := g.Wait(); err != nil {
		return models.StatisticsSnapshot{}, err
	}
	return snap, nil
}
