package presenter

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteComplaints renders a complaint list as a text table
func WriteComplaints(w io.Writer, v ListView[ComplaintRow]) error {
	return writeList(w, v, "ID\tTITLE\tCATEGORY\tSTATUS\tAUTHOR\tUPDATED", func(r ComplaintRow) string {
		return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s", r.ID, r.Title, r.Category.Label, r.Status.Label, r.Author, r.UpdatedAt.Format("2006-01-02 15:04"))
	})
}

// WriteReports renders a report list as a text table
func WriteReports(w io.Writer, v ListView[ReportRow]) error {
	return writeList(w, v, "ID\tTITLE\tPERIOD\tRESOLVED/TOTAL\tAUTHOR", func(r ReportRow) string {
		return fmt.Sprintf("%s\t%s\t%s\t%d/%d\t%s", r.ID, r.Title, r.Period, r.Resolved, r.Total, r.Author)
	})
}

// WriteAnnouncements renders an announcement list as a text table
func WriteAnnouncements(w io.Writer, v ListView[AnnouncementRow]) error {
	return writeList(w, v, "ID\tTITLE\tPRIORITY\tPINNED\tAUTHOR", func(r AnnouncementRow) string {
		return fmt.Sprintf("%s\t%s\t%s\t%t\t%s", r.ID, r.Title, r.Priority, r.Pinned, r.Author)
	})
}

// WriteDashboard renders dashboard cards one per line
func WriteDashboard(w io.Writer, v DashboardView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\n", v.Title)
	if v.Error != "" {
		fmt.Fprintf(tw, "! %s\n", v.Error)
	}
	for _, c := range v.Cards {
		fmt.Fprintf(tw, "%s\t%s\n", c.Label, c.Value)
	}
	return tw.Flush()
}

func writeList[R any](w io.Writer, v ListView[R], header string, line func(R) string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch v.Indicator {
	case IndicatorSpinner:
		fmt.Fprintln(tw, "loading...")
	case IndicatorRefreshing:
		fmt.Fprintln(tw, "refreshing...")
	}
	if v.Error != "" {
		fmt.Fprintf(tw, "! %s\n", v.Error)
	}
	if v.Empty != "" {
		fmt.Fprintln(tw, v.Empty)
		return tw.Flush()
	}
	if len(v.Rows) > 0 {
		fmt.Fprintln(tw, header)
		for _, r := range v.Rows {
			fmt.Fprintln(tw, line(r))
		}
	}
	return tw.Flush()
}
