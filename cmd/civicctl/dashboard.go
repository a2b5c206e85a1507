package main

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/linesmerrill/civicdesk/dashboard"
	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/presenter"
)

var dashboardResident bool

// dashboardCmd shows the statistics cards above the complaint list
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show complaint statistics and the latest complaints",
	Long: `Show the dashboard. Admins get the community overview; residents, or anyone
passing --resident, get statistics for their own complaints.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	dashboardCmd.Flags().BoolVar(&dashboardResident, "resident", false, "Show my own statistics instead of the overview")
}

func runDashboard(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	c := newClient()
	sink := sinkFor(cmd)

	scope := dashboard.Overview
	if dashboardResident || conf.Role != models.RoleAdmin {
		scope = dashboard.Resident
	}
	board := &presenter.Dashboard{Stats: dashboard.New(c, sink, logger), Scope: scope}
	list := &presenter.ComplaintList{List: complaintList(c, sink, "")}
	defer board.Unmount()
	defer list.Unmount()

	// both loads report their own failures through the sink
	var g errgroup.Group
	g.Go(func() error {
		board.Mount(commandContext(cmd))
		return nil
	})
	g.Go(func() error {
		list.Mount(commandContext(cmd))
		return nil
	})
	_ = g.Wait()

	out := cmd.OutOrStdout()
	if err := presenter.WriteDashboard(out, board.View()); err != nil {
		return err
	}
	if _, err := out.Write([]byte("\n")); err != nil {
		return err
	}
	return presenter.WriteComplaints(out, list.View())
}
