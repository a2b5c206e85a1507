package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/linesmerrill/civicdesk/client"
	"github.com/linesmerrill/civicdesk/lifecycle"
	"github.com/linesmerrill/civicdesk/listsync"
	"github.com/linesmerrill/civicdesk/models"
	"github.com/linesmerrill/civicdesk/notify"
	"github.com/linesmerrill/civicdesk/presenter"
)

var (
	listResident string
	listFilter   presenter.ComplaintFilter
	statusYes    bool
)

// complaintsCmd groups the complaint commands
var complaintsCmd = &cobra.Command{
	Use:   "complaints",
	Short: "List complaints and change their status",
}

var complaintsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List complaints, newest first",
	Long: `List complaints. Residents always see only their own; admins see every
complaint unless --resident narrows it. --status, --category and --search filter
what is shown without changing what is fetched.`,
	Args: cobra.NoArgs,
	RunE: runComplaintsList,
}

var complaintsStatusCmd = &cobra.Command{
	Use:   "status ID STATUS",
	Short: "Move a complaint to another status (admin)",
	Long: `Move a complaint to Pending, InProgress, Resolved or Rejected.

You are asked to confirm first unless --yes is given. Nothing is sent before you
confirm, and the list shown afterwards is fetched fresh from the server.`,
	Args: cobra.ExactArgs(2),
	RunE: runComplaintStatus,
}

func init() {
	complaintsListCmd.Flags().StringVar(&listResident, "resident", "", "Only complaints of this resident ID (admin)")
	complaintsListCmd.Flags().StringVar(&listFilter.Status, "status", "", "Only show this status")
	complaintsListCmd.Flags().StringVar(&listFilter.Category, "category", "", "Only show this category")
	complaintsListCmd.Flags().StringVar(&listFilter.Query, "search", "", "Only show complaints whose title or content contains this text")
	complaintsStatusCmd.Flags().BoolVarP(&statusYes, "yes", "y", false, "Do not ask for confirmation")

	complaintsCmd.AddCommand(complaintsListCmd)
	complaintsCmd.AddCommand(complaintsStatusCmd)
}

// complaintList wires a list controller to the api for one resident scope
func complaintList(c *client.Client, sink notify.Sink, residentID string) *listsync.Controller[models.Complaint] {
	fetch := func(ctx context.Context) ([]models.Complaint, error) {
		return c.ListComplaints(ctx, residentID)
	}
	return listsync.New("complaints", fetch, listsync.WithSink(sink), listsync.WithLogger(logger))
}

func runComplaintsList(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	list := complaintList(newClient(), sinkFor(cmd), listResident)
	p := &presenter.ComplaintList{List: list, Filter: listFilter}
	defer p.Unmount()

	p.Mount(commandContext(cmd))
	if err := presenter.WriteComplaints(cmd.OutOrStdout(), p.View()); err != nil {
		return err
	}
	return shown(list.Err())
}

func runComplaintStatus(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	target, err := models.ParseStatus(args[1])
	if err != nil {
		return fmt.Errorf("%w (want one of %s)", err, statusNames())
	}

	c := newClient()
	sink := sinkFor(cmd)
	list := complaintList(c, sink, "")
	p := &presenter.ComplaintList{List: list, Policy: lifecycle.NewPolicy(c, list, sink, logger)}
	defer p.Unmount()

	change, err := p.RequestStatusChange(args[0], target)
	if err != nil {
		return err
	}
	if !statusYes {
		ok, err := confirm(cmd.InOrStdin(), cmd.ErrOrStderr(), change.Prompt())
		if err != nil {
			return err
		}
		if !ok {
			_ = change.Cancel()
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelled, nothing was sent")
			return nil
		}
	}

	if err := change.Confirm(commandContext(cmd)); err != nil {
		return shown(err)
	}
	return presenter.WriteComplaints(cmd.OutOrStdout(), p.View())
}

// confirm asks a yes/no question; anything but y or yes is a no
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	answer, err := readLine(in)
	if err != nil {
		if err == io.EOF {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

func statusNames() string {
	names := make([]string, 0, len(models.Statuses))
	for _, s := range models.Statuses {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}
