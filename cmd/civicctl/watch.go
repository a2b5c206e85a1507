package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/notify"
	"github.com/linesmerrill/civicdesk/presenter"
)

// watchCmd keeps the complaint list on screen and refreshes it on every status change
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Follow complaint status changes live",
	Long: `Print the complaint list, then refresh and reprint it every time an admin
changes the status of a complaint you can see. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	ctx := commandContext(cmd)
	c := newClient()
	sink := sinkFor(cmd)
	list := &presenter.ComplaintList{List: complaintList(c, sink, "")}
	defer list.Unmount()

	out := cmd.OutOrStdout()
	list.Mount(ctx)
	if err := presenter.WriteComplaints(out, list.View()); err != nil {
		return err
	}

	err := c.WatchStatusChanges(ctx, func(ev models.ComplaintStatusEvent) {
		label := models.ClassifyStatus(string(ev.Status)).Label
		sink.Notify(notify.Info, "Complaint updated", fmt.Sprintf("%s is now %s", ev.ComplaintID.Hex(), label))
		if !list.Refresh(ctx) {
			logger.Debugw("refresh skipped, one is already running", "complaintId", ev.ComplaintID.Hex())
			return
		}
		fmt.Fprintln(out)
		if err := presenter.WriteComplaints(out, list.View()); err != nil {
			logger.Warnw("failed to render complaints", "error", err)
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
