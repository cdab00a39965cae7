package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/session"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate with email and password",
	RunE:  runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	RunE:  runLogout,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-fetch the profile and recompute the lifecycle stage",
	Long: `Re-fetch the profile with the stored token. Use this after an
out-of-band change, such as an administrator deciding your artist request.`,
	RunE: runRefresh,
}

var statusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"whoami"},
	Short:   "Show the current session and lifecycle stage",
	RunE:    runStatus,
}

func init() {
	loginCmd.Flags().String("email", "", "account email")
	loginCmd.Flags().String("password", "", "account password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(statusCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	password, _ := cmd.Flags().GetString("password")
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("--email is required")
	}
	if password == "" {
		fmt.Fprint(cmd.OutOrStdout(), "Password: ")
		raw, err := readPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	snap, err := rt.Controller.Login(cmd.Context(), email, password)
	switch {
	case err == nil:
		printSnapshot(cmd, snap)
		return nil
	case errors.Is(err, domain.ErrInvalidCredentials):
		return fmt.Errorf("invalid email or password")
	case errors.Is(err, domain.ErrProfileUnavailable):
		fmt.Fprintln(cmd.OutOrStdout(), "Signed in, but the profile could not be loaded yet. Run 'marketctl refresh' to retry.")
		return nil
	default:
		return err
	}
}

func runLogout(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	rt.Controller.Logout(cmd.Context())
	fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	snap, err := rt.Controller.Refresh(cmd.Context())
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return fmt.Errorf("session expired, sign in again")
		}
		return err
	}
	printSnapshot(cmd, snap)
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	printSnapshot(cmd, rt.Controller.Snapshot())
	return nil
}

func printSnapshot(cmd *cobra.Command, snap session.Snapshot) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Stage: %s\n", snap.Stage)
	if snap.Account == nil {
		return
	}
	fmt.Fprintf(out, "Account: %s <%s>\n", snap.Account.Name, snap.Account.Email)
	if snap.Account.Role != domain.RoleUnset {
		fmt.Fprintf(out, "Role: %s\n", snap.Account.Role)
	}
	if snap.Stage == domain.StageRejected && snap.Account.RejectionReason != "" {
		fmt.Fprintf(out, "Rejection reason: %s\n", snap.Account.RejectionReason)
	}
	if !snap.Resolved {
		fmt.Fprintln(out, "Note: the profile is stale, run 'marketctl refresh' to reconcile.")
	}
}
