package adminctl

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/bytonbyte/internal/server/services"
	"github.com/spf13/cobra"
)

var errDatabaseURL = errors.New("database URL is required (DATABASE_URL or --database-url)")

func newMigrateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := newRepos().RunMigrations(ctx, db); err != nil {
				return fmt.Errorf("migrations: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations applied")
			return nil
		},
	}
}

func newSeedAdminCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed-admin",
		Short: "Create an active admin account",
		Long: `Creates an admin account with the given email. The password is read
from the terminal twice, or once from stdin with --password-stdin.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			password, confirm, err := readNewPassword(cmd, opts.passwordStdin)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			db, err := opts.open(ctx)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := services.NewAdminService(db, newRepos(), newHasher(), opts.logger(cmd), nil)
			v, err := svc.ProvisionAdmin(ctx, opts.email, password, confirm)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "admin %s created (id %s)\n", v.Email, v.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.email, "email", "e", "", "admin email (required)")
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newHashPasswordCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hash-password",
		Short: "Print the bcrypt digest of a password",
		RunE: func(cmd *cobra.Command, args []string) error {
			password, confirm, err := readNewPassword(cmd, opts.passwordStdin)
			if err != nil {
				return err
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}
			digest, err := newHasher().Hash(password)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), digest)
			return nil
		},
	}
	cmd.Flags().BoolVar(&opts.passwordStdin, "password-stdin", false, "read the password from stdin")
	return cmd
}

// readNewPassword returns the password and its confirmation. With fromStdin
// the first line of stdin serves as both.
func readNewPassword(cmd *cobra.Command, fromStdin bool) (string, string, error) {
	if fromStdin {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		pw := strings.TrimRight(line, "\r\n")
		return pw, pw, nil
	}

	pw, err := promptPassword(cmd.ErrOrStderr(), "Enter password: ")
	if err != nil {
		return "", "", err
	}
	confirm, err := promptPassword(cmd.ErrOrStderr(), "Confirm password: ")
	if err != nil {
		return "", "", err
	}
	return pw, confirm, nil
}
