package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/artmarket/marketplace-client/internal/domain"
	"github.com/artmarket/marketplace-client/internal/ports"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Pre-register a new account",
	Long: `Pre-register a new account. No session is created: confirm the emailed
verification code with 'marketctl verify-email', then sign in.`,
	RunE: runRegister,
}

var verifyEmailCmd = &cobra.Command{
	Use:   "verify-email",
	Short: "Confirm the emailed verification code",
	RunE:  runVerifyEmail,
}

var selectRoleCmd = &cobra.Command{
	Use:   "select-role <buyer|artist>",
	Short: "Commit to the buyer or artist role",
	Args:  cobra.ExactArgs(1),
	RunE:  runSelectRole,
}

var submitDocsCmd = &cobra.Command{
	Use:   "submit-docs",
	Short: "Submit artist verification documents",
	Long: `Submit the identity document and proof of work required for artist
verification. An administrator reviews the submission; check the outcome
with 'marketctl refresh'.`,
	RunE: runSubmitDocs,
}

func init() {
	registerCmd.Flags().String("email", "", "account email")
	registerCmd.Flags().String("name", "", "display name")
	registerCmd.Flags().String("password", "", "account password (prompted when omitted)")
	registerCmd.Flags().String("captcha-token", "", "captcha token when the backend requires one")

	verifyEmailCmd.Flags().String("email", "", "account email")
	verifyEmailCmd.Flags().String("code", "", "verification code from the email")

	submitDocsCmd.Flags().String("id-document", "", "path to the identity document")
	submitDocsCmd.Flags().String("proof-of-work", "", "path to the proof of work")
	submitDocsCmd.Flags().String("selfie", "", "path to an optional selfie")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(verifyEmailCmd)
	rootCmd.AddCommand(selectRoleCmd)
	rootCmd.AddCommand(submitDocsCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	name, _ := cmd.Flags().GetString("name")
	password, _ := cmd.Flags().GetString("password")
	captcha, _ := cmd.Flags().GetString("captcha-token")

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

	ack, err := rt.Controller.Register(cmd.Context(), ports.PreRegistration{
		Email:        email,
		Name:         name,
		Password:     password,
		CaptchaToken: captcha,
	})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), ack.Message)
	fmt.Fprintln(cmd.OutOrStdout(), "Next: marketctl verify-email --email", email, "--code <code>")
	return nil
}

func runVerifyEmail(cmd *cobra.Command, args []string) error {
	email, _ := cmd.Flags().GetString("email")
	code, _ := cmd.Flags().GetString("code")

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}
	if err := rt.Controller.VerifyEmail(cmd.Context(), email, code); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Email verified. Sign in with 'marketctl login'.")
	return nil
}

func runSelectRole(cmd *cobra.Command, args []string) error {
	role := domain.Role(strings.ToLower(strings.TrimSpace(args[0])))

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	snap, err := rt.Controller.SelectRole(cmd.Context(), role)
	switch {
	case err == nil:
		printSnapshot(cmd, snap)
		return nil
	case errors.Is(err, domain.ErrInvalidState):
		return fmt.Errorf("role selection is only available right after email verification (current stage: %s)", snap.Stage)
	default:
		return err
	}
}

func runSubmitDocs(cmd *cobra.Command, args []string) error {
	idPath, _ := cmd.Flags().GetString("id-document")
	proofPath, _ := cmd.Flags().GetString("proof-of-work")
	selfiePath, _ := cmd.Flags().GetString("selfie")

	if idPath == "" || proofPath == "" {
		return fmt.Errorf("--id-document and --proof-of-work are required")
	}

	docs := ports.ArtistDocs{}
	var err error
	if docs.IDDocument, err = readDocument(idPath); err != nil {
		return err
	}
	if docs.ProofOfWork, err = readDocument(proofPath); err != nil {
		return err
	}
	if selfiePath != "" {
		selfie, err := readDocument(selfiePath)
		if err != nil {
			return err
		}
		docs.Selfie = &selfie
	}

	rt, err := loadRuntime(cmd)
	if err != nil {
		return err
	}

	snap, err := rt.Controller.SubmitArtistDocs(cmd.Context(), docs)
	switch {
	case err == nil:
		fmt.Fprintln(cmd.OutOrStdout(), "Documents submitted for review.")
		printSnapshot(cmd, snap)
		return nil
	case errors.Is(err, domain.ErrInvalidState):
		return fmt.Errorf("document submission requires the artist role with review still open (current stage: %s)", snap.Stage)
	default:
		return err
	}
}

func readDocument(path string) (ports.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return ports.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	return ports.Document{Filename: filepath.Base(path), Content: content}, nil
}
