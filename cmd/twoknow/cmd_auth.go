package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"twoknow/dashboard"
)

var (
	authEmail    string
	authPassword string
	authUsername string
	authFullName string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a 2KNOW account and sign in",
	Example: `  twoknow register --email amina@example.co.ke --username amina --password secret1
  TWOKNOW_PASSWORD=secret1 twoknow register --email amina@example.co.ke --username amina`,
	RunE: runRegister,
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and store the session locally",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the local session",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()
		return rt.app.Logout(ctx)
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in account",
	RunE:  runWhoami,
}

func init() {
	for _, c := range []*cobra.Command{registerCmd, loginCmd} {
		c.Flags().StringVar(&authEmail, "email", "", "Account email (required)")
		c.Flags().StringVar(&authPassword, "password", "", "Account password (or set TWOKNOW_PASSWORD)")
		_ = c.MarkFlagRequired("email")
	}
	registerCmd.Flags().StringVar(&authUsername, "username", "", "Username (required)")
	registerCmd.Flags().StringVar(&authFullName, "full-name", "", "Full name")
	_ = registerCmd.MarkFlagRequired("username")
}

func password() string {
	if authPassword != "" {
		return authPassword
	}
	return os.Getenv("TWOKNOW_PASSWORD")
}

func runRegister(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	sess, err := rt.app.Register(ctx, authEmail, authUsername, password(), authFullName)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", sess.DisplayName, sess.Email)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	sess, err := rt.app.Login(ctx, authEmail, password())
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", sess.DisplayName, sess.Email)
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext(cmd)
	defer cancel()
	out := cmd.OutOrStdout()

	p, err := rt.app.RefreshProfile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s <%s>\n", p.Name, p.Email)
	if p.MemberSince != "" {
		fmt.Fprintf(out, "Member since %s\n", p.MemberSince)
	}
	fmt.Fprintf(out, "Searches: %d  Reports: %d\n", p.SearchCount, p.ReportCount)

	if stats, err := rt.client.Stats(ctx, rt.app.Session.Token()); err == nil {
		fmt.Fprintf(out, "Member for %d days, active: %t\n", stats.MemberForDays, stats.IsActive)
	} else {
		rt.log.Debug("stats unavailable", zap.Error(err))
	}
	return nil
}

// requireLogin fails commands that need an account.
func requireLogin() error {
	if !rt.app.Session.IsAuthenticated() {
		return fmt.Errorf("%w: run \"twoknow login\" first", dashboard.ErrNotLoggedIn)
	}
	return nil
}
