package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/artmarket/marketplace-client/internal/domain"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Administrator review of artist verification requests",
	Long: `Review artist verification requests. Requires an administrator session.

Examples:
  marketctl admin pending
  marketctl admin approve 01HXYZ...
  marketctl admin reject 01HXYZ... --reason "documents unreadable"`,
}

var adminPendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List artist requests awaiting a decision",
	RunE:  runAdminPending,
}

var adminApproveCmd = &cobra.Command{
	Use:   "approve <request-id>",
	Short: "Approve an artist request",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminApprove,
}

var adminRejectCmd = &cobra.Command{
	Use:   "reject <request-id>",
	Short: "Reject an artist request with a reason",
	Args:  cobra.ExactArgs(1),
	RunE:  runAdminReject,
}

func init() {
	adminRejectCmd.Flags().String("reason", "", "reason shown to the rejected applicant")

	adminCmd.AddCommand(adminPendingCmd)
	adminCmd.AddCommand(adminApproveCmd)
	adminCmd.AddCommand(adminRejectCmd)
	rootCmd.AddCommand(adminCmd)
}

func runAdminPending(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	requests, err := rt.Console.Pending(cmd.Context())
	if err != nil {
		return adminError(err)
	}
	if len(requests) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No pending artist requests.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "REQUEST ID\tNAME\tEMAIL\tSUBMITTED")
	for _, req := range requests {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", req.RequestID, req.Name, req.Email, req.SubmittedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func runAdminApprove(cmd *cobra.Command, args []string) error {
	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if err := rt.Console.Approve(cmd.Context(), args[0]); err != nil {
		return adminError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Request approved.")
	return nil
}

func runAdminReject(cmd *cobra.Command, args []string) error {
	reason, _ := cmd.Flags().GetString("reason")

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if err := rt.Console.Reject(cmd.Context(), args[0], reason); err != nil {
		return adminError(err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Request rejected.")
	return nil
}

func adminError(err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidState):
		return fmt.Errorf("administrator session required")
	case errors.Is(err, domain.ErrAlreadyReviewed):
		return fmt.Errorf("this request was already decided; the first decision stands")
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("no such artist request")
	default:
		return err
	}
}
