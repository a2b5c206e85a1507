package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
)

var (
	loginEmail    string
	loginPassword string
)

// loginCmd exchanges credentials for a token and saves it
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and remember the session token",
	Long: `Log in with email and password. The password is read from stdin when
--password is not given.`,
	RunE: runLogin,
}

// logoutCmd revokes the token and forgets it
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Revoke the session token",
	RunE:  runLogout,
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email (required)")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	loginCmd.MarkFlagRequired("email")
}

func runLogin(cmd *cobra.Command, args []string) error {
	password := loginPassword
	if password == "" {
		fmt.Fprint(cmd.ErrOrStderr(), "Password: ")
		line, err := readLine(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
		password = line
	}

	c := newClient()
	session, err := c.Login(commandContext(cmd), loginEmail, password)
	if err != nil {
		return err
	}

	conf.Token = session.Token
	conf.UserID = session.ID
	conf.Role = session.Role
	if err := saveConfig(configPath, conf); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	logger.Debugw("session saved", "config", configPath)
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s (%s)\n", loginEmail, session.Role)
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	if err := requireLogin(); err != nil {
		return err
	}
	if err := newClient().Logout(commandContext(cmd)); err != nil {
		logger.Warnw("server did not revoke token", "error", err)
	}
	conf.Token, conf.UserID, conf.Role = "", "", ""
	if err := saveConfig(configPath, conf); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
	return nil
}

// readLine reads one line without its newline. EOF after some input is fine.
func readLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
