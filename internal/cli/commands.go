package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"fintrack/internal/auth"
	"fintrack/internal/cache"
	"fintrack/internal/config"
	"fintrack/internal/core"
	"fintrack/internal/export"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/store"
)

// ctlOptions holds the flags shared by every fintrackctl subcommand.
type ctlOptions struct {
	dbPath   string
	logLevel string
	now      func() time.Time
	logger   *log.Logger
}

// NewRootCommand builds the fintrackctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &ctlOptions{now: time.Now}

	root := &cobra.Command{
		Use:           "fintrackctl",
		Short:         "Administer a fintrack SQLite database",
		Long:          "fintrackctl inspects and maintains the SQLite database used by the fintrack API and worker.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := log.DefaultConfig()
			cfg.Level = log.ParseLevel(opts.logLevel)
			cfg.Output = cmd.ErrOrStderr()
			opts.logger = log.New(cfg)

			if opts.dbPath != "" {
				return nil
			}
			appCfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.dbPath = appCfg.SQLiteDBPath
			return nil
		},
	}

	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (default $SQLITE_DB_PATH)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	root.AddCommand(
		newMigrateCommand(opts),
		newSeedCommand(opts),
		newSummaryCommand(opts),
		newExportCommand(opts),
	)
	return root
}

// Execute runs fintrackctl with os.Args and exits non-zero on failure.
func Execute() {
	root := NewRootCommand()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		os.Exit(1)
	}
}

func (o *ctlOptions) openRepo() (*storage.SQLiteRepository, error) {
	return InitSQLite(o.logger, o.dbPath)
}

func newMigrateCommand(opts *ctlOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()
			return printVersion(cmd, opts.dbPath)
		},
	}, &cobra.Command{
		Use:   "version",
		Short: "Print the applied schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(cmd, opts.dbPath)
		},
	})
	return cmd
}

func printVersion(cmd *cobra.Command, dbPath string) error {
	version, dirty, err := storage.MigrationVersion(dbPath)
	if err != nil {
		return err
	}
	suffix := ""
	if dirty {
		suffix = " (dirty)"
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema version %d%s\n", version, suffix)
	return nil
}

func newSeedCommand(opts *ctlOptions) *cobra.Command {
	var cost int
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the demo account with sample transactions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			hash, err := auth.NewHasher(cost).Hash(store.DemoPassword)
			if err != nil {
				return err
			}
			u, err := store.SeedDemo(cmd.Context(), repo, hash)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "demo account %s (%s) ready, password %q\n", u.Email, u.ID, store.DemoPassword)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "bcrypt-cost", bcrypt.DefaultCost, "bcrypt cost for the demo password")
	return cmd
}

// userFlags resolves --email to a stored user.
type userFlags struct {
	email string
}

func (f *userFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.email, "email", "", "email of the account to report on")
	_ = cmd.MarkFlagRequired("email")
}

func (f *userFlags) resolve(ctx context.Context, repo *storage.SQLiteRepository) (core.User, error) {
	u, err := repo.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(f.email)))
	if err != nil {
		return core.User{}, fmt.Errorf("look up %s: %w", f.email, err)
	}
	return u, nil
}

func (o *ctlOptions) summaryService(repo *storage.SQLiteRepository) *services.SummaryService {
	return services.NewSummaryService(repo, repo, cache.NewLRUCache[services.Summary](4, time.Minute), o.logger)
}

func newSummaryCommand(opts *ctlOptions) *cobra.Command {
	var (
		user userFlags
		asOf string
		year int
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the derived statistics of an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day := core.DateOf(opts.now())
			if asOf != "" {
				d, err := core.ParseDate(asOf)
				if err != nil {
					return fmt.Errorf("--as-of %q: %w", asOf, err)
				}
				day = d
			}

			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			u, err := user.resolve(cmd.Context(), repo)
			if err != nil {
				return err
			}
			sum, err := opts.summaryService(repo).Summary(cmd.Context(), u.ID, day.Time, year)
			if err != nil {
				return err
			}
			return printSummary(cmd, u, sum)
		},
	}
	user.register(cmd)
	cmd.Flags().StringVar(&asOf, "as-of", "", "reference day as YYYY-MM-DD (default today)")
	cmd.Flags().IntVar(&year, "year", 0, "year of the monthly breakdown (default the as-of year)")
	return cmd
}

func printSummary(cmd *cobra.Command, u core.User, sum services.Summary) error {
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Account\t%s <%s>\n", u.Name, u.Email)
	fmt.Fprintf(tw, "As of\t%s\n", sum.AsOf.Format("2006-01-02"))
	fmt.Fprintf(tw, "Total income\t%s\n", sum.Stats.TotalIncome)
	fmt.Fprintf(tw, "Total expenses\t%s\n", sum.Stats.TotalExpenses)
	fmt.Fprintf(tw, "Balance\t%s\n", sum.Stats.Balance)
	fmt.Fprintf(tw, "Monthly income\t%s\n", sum.Stats.MonthlyIncome)
	fmt.Fprintf(tw, "Monthly expenses\t%s\n", sum.Stats.MonthlyExpenses)
	fmt.Fprintf(tw, "Monthly savings rate\t%.1f%%\n", sum.Insights.MonthlySavingsRate)
	fmt.Fprintf(tw, "Average monthly expense\t%s\n", sum.Insights.AverageMonthlyExpense)
	if rate := sum.Insights.SavingsRate; rate.Valid {
		fmt.Fprintf(tw, "Savings rate\t%.0f%%\n", rate.Value)
	} else {
		fmt.Fprintln(tw, "Savings rate\tN/A")
	}

	fmt.Fprintln(tw, "\nCategory\tSpent")
	for _, c := range sum.Categories.Ranked() {
		fmt.Fprintf(tw, "%s\t%s\n", c.Name, c.Amount)
	}

	fmt.Fprintf(tw, "\n%d\tIncome\tExpenses\n", sum.Monthly.Year)
	for m := range 12 {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", time.Month(m+1).String()[:3], sum.Monthly.Income[m], sum.Monthly.Expense[m])
	}
	return tw.Flush()
}

func newExportCommand(opts *ctlOptions) *cobra.Command {
	var (
		user   userFlags
		format string
		out    string
		year   int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write an account's transactions to a CSV or XLSX file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format = strings.ToLower(format)
			if format != "csv" && format != "xlsx" {
				return fmt.Errorf("unsupported format %q (want csv or xlsx)", format)
			}
			now := opts.now()
			if out == "" {
				out = export.Filename(format, now)
			}

			repo, err := opts.openRepo()
			if err != nil {
				return err
			}
			defer repo.Close()

			ctx := cmd.Context()
			u, err := user.resolve(ctx, repo)
			if err != nil {
				return err
			}
			txs, err := services.NewTransactionService(repo, opts.logger).List(ctx, u.ID, core.DefaultFilter(), now)
			if err != nil {
				return err
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()

			if format == "csv" {
				err = export.WriteCSV(f, txs)
			} else {
				var sum services.Summary
				sum, err = opts.summaryService(repo).Summary(ctx, u.ID, now, year)
				if err == nil {
					err = export.WriteXLSX(f, export.Workbook{Transactions: txs, Series: sum.Monthly, Categories: sum.Categories.Ranked()})
				}
			}
			if err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d transactions to %s\n", len(txs), out)
			return nil
		},
	}
	user.register(cmd)
	cmd.Flags().StringVar(&format, "format", "csv", "output format: csv or xlsx")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default transactions_<yyyymmdd>.<format>)")
	cmd.Flags().IntVar(&year, "year", 0, "year of the XLSX summary sheet (default current year)")
	return cmd
}
