package commands

import (
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/hubworks/ledger/internal/config"
	"github.com/hubworks/ledger/internal/ledger"
	"github.com/hubworks/ledger/internal/models"
	"github.com/spf13/cobra"
)

var ErrVerificationFailed = errors.New("ledger verification failed")

func newVerifyCommand() *cobra.Command {
	var companyID string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify the ledger balances",
		Long:  "Verifies that the account balances of every company sum to zero and match their posted transactions. Exits with a non-zero status if any check fails.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadDatabase()
			if err != nil {
				return err
			}

			setupLogging(cfg, cmd.ErrOrStderr())
			if err := openDatabase(cfg); err != nil {
				return err
			}

			return runVerify(cmd, companyID)
		},
	}

	cmd.Flags().StringVar(&companyID, "company", "", "only verify the company with this ID")

	return cmd
}

func runVerify(cmd *cobra.Command, companyID string) error {
	var companies []models.Company

	query := models.DB.WithContext(cmd.Context()).Order("name ASC")
	if companyID != "" {
		id, err := uuid.Parse(companyID)
		if err != nil {
			return fmt.Errorf("invalid company ID %q: %w", companyID, err)
		}
		query = query.Where("id = ?", id)
	}

	if err := query.Find(&companies).Error; err != nil {
		return err
	}

	if companyID != "" && len(companies) == 0 {
		return fmt.Errorf("%w company with ID %s", models.ErrResourceNotFound, companyID)
	}

	engine := ledger.New(models.DB)
	failed := 0
	for _, company := range companies {
		report, err := engine.Transactions.Verify(cmd.Context(), company.ID)
		if err != nil {
			failed++
		}
		printReport(cmd.OutOrStdout(), company, report, err)
	}

	if failed > 0 {
		return fmt.Errorf("%w for %d of %d companies", ErrVerificationFailed, failed, len(companies))
	}

	return nil
}

func printReport(w io.Writer, company models.Company, report ledger.IntegrityReport, err error) {
	if err == nil {
		fmt.Fprintf(w, "%s\t%s\tok\t%d accounts\n", company.ID, company.Name, report.Accounts)
		return
	}

	fmt.Fprintf(w, "%s\t%s\tFAILED\t%s\n", company.ID, company.Name, err)
	for _, drift := range report.Drifts {
		fmt.Fprintf(w, "\taccount %s: stored %d, replayed %d\n", drift.Code, drift.Stored, drift.Replayed)
	}
}
