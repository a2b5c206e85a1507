package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/civicdesk/listsync"
	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/presenter"
)

// announcementsCmd groups the announcement commands
var announcementsCmd = &cobra.Command{
	Use:   "announcements",
	Short: "Community announcements",
}

var announcementsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List announcements, pinned first",
	Args:  cobra.NoArgs,
	RunE:  runAnnouncementsList,
}

// reportsCmd groups the report commands
var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Generated complaint reports (admin)",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated reports",
	Args:  cobra.NoArgs,
	RunE:  runReportsList,
}

func init() {
	announcementsCmd.AddCommand(announcementsListCmd)
	reportsCmd.AddCommand(reportsListCmd)
}

func runAnnouncementsList(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	c := newClient()
	fetch := func(ctx context.Context) ([]models.Announcement, error) { return c.ListAnnouncements(ctx) }
	p := &presenter.AnnouncementList{
		List: listsync.New("announcements", fetch, listsync.WithSink(sinkFor(cmd)), listsync.WithLogger(logger)),
	}
	defer p.Unmount()

	p.Mount(commandContext(cmd))
	if err := presenter.WriteAnnouncements(cmd.OutOrStdout(), p.View()); err != nil {
		return err
	}
	return shown(p.List.Err())
}

func runReportsList(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	c := newClient()
	fetch := func(ctx context.Context) ([]models.Report, error) { return c.ListReports(ctx) }
	p := &presenter.ReportList{
		List: listsync.New("reports", fetch, listsync.WithSink(sinkFor(cmd)), listsync.WithLogger(logger)),
	}
	defer p.Unmount()

	p.Mount(commandContext(cmd))
	if err := presenter.WriteReports(cmd.OutOrStdout(), p.View()); err != nil {
		return err
	}
	return shown(p.List.Err())
}
