package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"compliance-workers/internal/common/database"
	"compliance-workers/migrations"
)

var (
	asOfFlag string
	allFlag  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx, false)
		if err != nil {
			return err
		}
		defer e.close()

		if err := database.Migrate(ctx, e.pg.DB, migrations.FS); err != nil {
			return err
		}
		version, err := database.MigrationVersion(ctx, e.pg.DB)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]int64{"version": version})
	},
}

var matchAllCmd = &cobra.Command{
	Use:   "match-all",
	Short: "Score every company against every open grant",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		asOf, err := parseAsOf(asOfFlag)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		if asOf.IsZero() {
			summary, err := e.services.Runner.MatchAll(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		}
		summary, err := e.services.Runner.MatchAllAsOf(ctx, asOf)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), summary)
	},
}

var matchCompanyCmd = &cobra.Command{
	Use:   "match-company <company-id>",
	Short: "Match one company against compliance requirements and active grants",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		result, err := e.services.Runner.MatchCompany(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), result)
	},
}

var syncAlertsCmd = &cobra.Command{
	Use:   "sync-alerts [company-id]",
	Short: "Rebuild the alert set for one company, or all with --all",
	Args: func(cmd *cobra.Command, args []string) error {
		if allFlag && len(args) > 0 {
			return fmt.Errorf("--all does not take a company id")
		}
		if !allFlag && len(args) != 1 {
			return fmt.Errorf("expected a company id or --all")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		if allFlag {
			summary, err := e.services.Runner.SyncAllAlerts(ctx)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		}

		active, err := e.services.Syncer.Sync(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"companyId":    args[0],
			"alertsActive": active,
		})
	},
}

var recalculateScoreCmd = &cobra.Command{
	Use:   "recalculate-score <company-id>",
	Short: "Recompute and store a company's compliance score",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := openEnv(ctx, true)
		if err != nil {
			return err
		}
		defer e.close()

		score, err := e.services.Aggregator.Recalculate(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), map[string]interface{}{
			"companyId":       args[0],
			"complianceScore": score,
		})
	},
}

func init() {
	matchAllCmd.Flags().StringVar(&asOfFlag, "as-of", "", "reference date for open grants (YYYY-MM-DD or RFC3339)")
	syncAlertsCmd.Flags().BoolVar(&allFlag, "all", false, "sync every company and send critical digests")
}

// parseAsOf accepts a date or an RFC3339 timestamp. Empty means now.
func parseAsOf(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --as-of %q: want YYYY-MM-DD or RFC3339", value)
	}
	return t.UTC(), nil
}
