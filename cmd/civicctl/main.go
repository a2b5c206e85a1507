// Command civicctl is the console surface for CivicDesk. Residents follow their own
// complaints; admins work the full queue, dashboard, announcements and reports.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/linesmerrill/civicdesk/client"
	"github.com/linesmerrill/civicdesk/logging"
	"github.com/linesmerrill/civicdesk/notify"
)

var (
	verbose    bool
	configPath string
	baseURL    string
	timeout    time.Duration

	// filled in by PersistentPreRunE
	conf   cliConfig
	logger *zap.SugaredLogger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "civicctl",
	Short: "Work the CivicDesk complaint queue from a terminal",
	Long: `civicctl talks to a CivicDesk API.

Log in once with "civicctl login"; the token is kept in ~/.civicctl.yaml.
Notifications are printed to stderr so stdout stays pipeable.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = logging.New(verbose)

		loaded, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		conf = loaded
		if baseURL != "" {
			conf.BaseURL = baseURL
		}
		if conf.BaseURL == "" {
			conf.BaseURL = defaultBaseURL
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath(), "Config file")
	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "", "API base URL (overrides the config file)")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", client.DefaultTimeout, "Request timeout")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(complaintsCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(announcementsCmd)
	rootCmd.AddCommand(reportsCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}

// shownError is an error the notification sink has already printed
type shownError struct{ err error }

func (e shownError) Error() string { return e.err.Error() }
func (e shownError) Unwrap() error { return e.err }

// shown marks err as already reported so main only sets the exit code
func shown(err error) error {
	if err == nil {
		return nil
	}
	return shownError{err: err}
}

func reportError(w io.Writer, err error) {
	var s shownError
	if errors.As(err, &s) {
		return
	}
	fmt.Fprintln(w, "Error:", err)
}

// newClient builds an API client from the loaded config
func newClient() *client.Client {
	return client.New(conf.BaseURL,
		client.WithToken(conf.Token),
		client.WithLogger(logger),
		client.WithHTTPClient(newHTTPClient()),
	)
}

// sinkFor prints notifications to the command's stderr and mirrors them to the log
func sinkFor(cmd *cobra.Command) notify.Sink {
	return notify.Fanout{
		&notify.WriterSink{W: cmd.ErrOrStderr()},
		notify.LogSink{Log: logger},
	}
}

func requireLogin() error {
	if conf.Token == "" {
		return fmt.Errorf("not logged in, run \"civicctl login\" first")
	}
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
