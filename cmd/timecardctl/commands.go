package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"github.com/timecard/timecard-backend/internal/timecard/client"
	"github.com/timecard/timecard-backend/internal/timecard/compute"
	"github.com/timecard/timecard-backend/internal/timecard/domain"
	"github.com/timecard/timecard-backend/pkg/actor"
	"github.com/timecard/timecard-backend/pkg/auth"
	"github.com/timecard/timecard-backend/pkg/config"
	"github.com/timecard/timecard-backend/pkg/logger"
)

var headerStyle = lipgloss.NewStyle().Bold(true)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "timecardctl",
		Short:         "Attendance summaries and timecard administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("config", "", "Config file (default ~/.timecard/config.toml)")

	remote := &cobra.Command{
		Use:   "remote",
		Short: "Query a running timecard service",
	}
	remote.AddCommand(newRemoteSummaryCmd())

	root.AddCommand(newSummarizeCmd(), newIssuesCmd(), remote, newTokenCmd())
	return root
}

func configPath(cmd *cobra.Command) (string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path, nil
	}
	return defaultConfigPath()
}

// rangeFlags holds the --start/--end/--month flags shared by summary commands.
type rangeFlags struct {
	start, end, month string
}

func (f *rangeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "Range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.end, "end", "", "Range end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&f.month, "month", "", "Month for the monthly totals (YYYY-MM)")
}

func (f *rangeFlags) options() (compute.SummaryOptions, error) {
	var opts compute.SummaryOptions
	var err error
	if opts.RangeStart, err = optionalDate("start", f.start); err != nil {
		return opts, err
	}
	if opts.RangeEnd, err = optionalDate("end", f.end); err != nil {
		return opts, err
	}
	if f.month != "" {
		m, err := domain.ParseMonth(f.month)
		if err != nil {
			return opts, fmt.Errorf("--month: %w", err)
		}
		end := m.EndOfMonth()
		opts.Monthly = compute.MonthlyWindow{Start: &m, End: &end}
	}
	return opts, nil
}

func optionalDate(flag, raw string) (*domain.Date, error) {
	if raw == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return &d, nil
}

func newSummarizeCmd() *cobra.Command {
	var (
		file  string
		flags rangeFlags
	)
	cmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize a local JSON export of employees and records",
		Example: `  timecardctl summarize --file export.json --month 2024-05
  timecardctl summarize --file export.json --start 2024-05-01 --end 2024-05-15`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}

			summaries := compute.SummarizeEmployees(ds.Employees, ds.Records, opts)
			writeSummaries(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with employees and records")
	_ = cmd.MarkFlagRequired("file")
	flags.register(cmd)
	return cmd
}

func newIssuesCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "issues",
		Short: "List records with compliance issues in a local JSON export",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := loadDataset(file)
			if err != nil {
				return err
			}

			records := append([]domain.Record(nil), ds.Records...)
			compute.SortNewestFirst(records)

			t := newTable("Date", "Employee", "Issues")
			flagged := 0
			for _, r := range records {
				issues := compute.DetectIssues(r)
				if len(issues) == 0 {
					continue
				}
				flagged++
				t.Row(r.Date.String(), ds.employeeName(r.EmployeeID), joinIssues(issues))
			}

			out := cmd.OutOrStdout()
			if flagged == 0 {
				fmt.Fprintln(out, "No issues found.")
				return nil
			}
			fmt.Fprintln(out, t.String())
			fmt.Fprintf(out, "%d of %d records flagged\n", flagged, len(records))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "JSON file with employees and records")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRemoteSummaryCmd() *cobra.Command {
	var (
		flags  rangeFlags
		server string
		token  string
	)
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Fetch attendance summaries from the service",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := flags.options(); err != nil {
				return err
			}
			path, err := configPath(cmd)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(path)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if server != "" {
				cfg.Server = server
			}
			if token != "" {
				cfg.Token = token
			}

			c := client.NewTimecardClient(
				cfg.Server,
				client.NewHTTPClient(client.StaticToken(cfg.Token), client.DefaultTimeout),
				logger.Nop(),
			)
			summaries, err := c.Summaries(cmd.Context(), client.SummaryParams{
				Start: flags.start,
				End:   flags.end,
				Month: flags.month,
			})
			if err != nil {
				return err
			}

			writeSummaries(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&server, "server", "", "Service base URL (overrides config)")
	cmd.Flags().StringVar(&token, "token", "", "Bearer token (overrides config)")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		user, role, employee, secret string
		expiry                       time.Duration
		save                         bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a development bearer token",
		RunE: func(cmd *cobra.Command, args []string) error {
			r := actor.Role(strings.ToUpper(role))
			if !r.Valid() {
				return fmt.Errorf("--role must be ADMIN or EMPLOYEE, got %q", role)
			}

			m := auth.NewManager(&config.JWTConfig{Secret: secret, AccessExpiry: expiry, Issuer: "timecard"})
			token, expiresAt, err := m.Issue(&actor.Actor{UserID: user, Role: r, EmployeeID: employee})
			if err != nil {
				return err
			}

			if save {
				path, err := configPath(cmd)
				if err != nil {
					return err
				}
				cfg, err := loadConfig(path)
				if err != nil {
					return err
				}
				cfg.Token = token
				if err := saveConfig(path, cfg); err != nil {
					return fmt.Errorf("failed to save config: %w", err)
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expiresAt.Format(time.RFC3339))
			return nil
		},
	}
	cmd.Flags().StringVar(&user, "user", "dev", "User ID (token subject)")
	cmd.Flags().StringVar(&role, "role", string(actor.RoleEmployee), "ADMIN or EMPLOYEE")
	cmd.Flags().StringVar(&employee, "employee", "", "Linked employee ID")
	cmd.Flags().StringVar(&secret, "secret", config.DevJWTSecret, "HMAC signing secret")
	cmd.Flags().DurationVar(&expiry, "expiry", 12*time.Hour, "Token lifetime")
	cmd.Flags().BoolVar(&save, "save", false, "Store the token in the config file")
	return cmd
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers(headers...)
}

func writeSummaries(out io.Writer, summaries []domain.EmployeeSummary) {
	if len(summaries) == 0 {
		fmt.Fprintln(out, "No employees.")
		return
	}

	month := summaries[0].Monthly
	t := newTable("Employee", "Hours", "Pay", "Missing", "Overwork", "Issues", "Month hours", "Month pay")
	for _, s := range summaries {
		t.Row(
			s.Employee.Name,
			strconv.FormatFloat(s.TotalHours, 'f', 1, 64),
			strconv.FormatInt(s.EstimatedPay, 10),
			strconv.Itoa(s.MissingCount),
			strconv.Itoa(s.OverworkCount),
			joinIssues(s.Issues),
			strconv.FormatFloat(s.Monthly.TotalHours, 'f', 1, 64),
			strconv.FormatInt(s.Monthly.EstimatedPay, 10),
		)
	}
	fmt.Fprintln(out, t.String())
	fmt.Fprintf(out, "Month: %s to %s\n", month.StartDate, month.EndDate)
}

func joinIssues(issues []domain.Issue) string {
	if len(issues) == 0 {
		return "-"
	}
	parts := make([]string, len(issues))
	for i, issue := range issues {
		parts[i] = string(issue)
	}
	return strings.Join(parts, ", ")
}
