package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/attendance-report/internal/api"
	"github.com/username/attendance-report/internal/approval"
	"github.com/username/attendance-report/internal/entry"
	"github.com/username/attendance-report/internal/model"
	"github.com/username/attendance-report/internal/report"
	"github.com/username/attendance-report/pkg/dateutil"
)

const separator = "═══════════════════════════════════════════════════════"

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			server := api.NewServer(api.Deps{
				Reports:   a.reports,
				Calendar:  a.calendar,
				Entries:   a.entries,
				Approvals: a.approvals,
				Authority: a.authority,
			}, logger)
			return server.Run(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

func reportCmd() *cobra.Command {
	var mainTitles []string
	var xlsxPath string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <employee> <YYYY-MM>",
		Short: "Build the monthly report for an employee",
		Long: "Build the monthly report for the period from the 16th of the previous month " +
			"to the 15th of the given month. --main overrides the configured main task titles.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			var titles []string
			if cmd.Flags().Changed("main") {
				titles = make([]string, 0, len(mainTitles))
				for _, t := range mainTitles {
					if t = strings.TrimSpace(t); t != "" {
						titles = append(titles, t)
					}
				}
			}

			rep, err := a.reports.AggregateMonth(cmd.Context(), args[0], args[1], titles)
			if err != nil {
				return err
			}
			if rep == nil {
				fmt.Printf("Nothing to report for %s in %s\n", args[0], args[1])
				return nil
			}

			if xlsxPath != "" {
				if err := writeXLSXFile(xlsxPath, rep); err != nil {
					return err
				}
			}

			if asJSON {
				return printJSON(rep)
			}
			printReport(rep)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&mainTitles, "main", nil, "Main task titles (repeatable, empty puts every task under other)")
	cmd.Flags().StringVar(&xlsxPath, "xlsx", "", "Also write the report as xlsx (a directory gets the default file name)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the report as JSON")

	return cmd
}

func writeXLSXFile(path string, rep *report.MonthlyReport) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, report.XLSXFilename(rep))
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create xlsx file: %w", err)
	}
	defer f.Close()

	if err := report.WriteXLSX(f, rep); err != nil {
		return err
	}
	logger.Info("Monthly report exported", zap.String("path", path))
	fmt.Printf("📄 Report written to %s\n", path)
	return nil
}

func printReport(rep *report.MonthlyReport) {
	fmt.Printf("\n📊 %s  %s (%s)\n", rep.Employee, rep.YearMonth, rep.Period)
	fmt.Println(separator)
	fmt.Printf("  Basic time days: %d  (expected %sh)\n", rep.BasicTimeDays, rep.ExpectedHours.StringFixed(2))
	fmt.Println()
	fmt.Println("  Title                          | Hours   | Description")
	fmt.Println("  -------------------------------+---------+-----------------------")
	for _, line := range rep.MainTasks {
		fmt.Printf("  %-30s | %7s | %s\n", line.Title, line.Hours.StringFixed(2), line.Description)
	}
	if len(rep.OtherTasks) > 0 {
		fmt.Printf("  %-30s | %7s |\n", "Other", rep.OtherTotalHours.StringFixed(2))
		fmt.Printf("    %s\n", rep.OtherSummary.Title)
	}
	fmt.Println("  -------------------------------+---------+-----------------------")
	fmt.Printf("  %-30s | %7s |\n", "Total", rep.TotalHours.StringFixed(2))
	fmt.Println()
	fmt.Printf("  Overtime A:     %sh\n", rep.OvertimeA.StringFixed(2))
	fmt.Printf("  Overtime B:     %sh\n", rep.OvertimeB.StringFixed(2))
	fmt.Printf("  Holiday work:   %sh\n", rep.HolidayWork.StringFixed(2))
	fmt.Printf("  Paid leave:     %sh\n", rep.PaidLeave.StringFixed(2))
	fmt.Printf("  Late / early:   %sh\n", rep.LateEarly.StringFixed(2))
	fmt.Printf("  Time diff:      %sh\n", rep.TimeDiff.StringFixed(2))
}

func dailyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "daily <YYYY-MM-DD>",
		Short: "Show every employee's entries for a day",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			summary, err := a.reports.DailySummary(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n📅 %s  %s\n", summary.Date, summary.Classification.Kind)
			fmt.Println(separator)
			if len(summary.Employees) == 0 {
				fmt.Println("  No entries")
				return nil
			}
			for _, emp := range summary.Employees {
				fmt.Printf("  %s  %sh  (%d task(s))\n", emp.Name, emp.Hours.StringFixed(2), len(emp.Entries))
				for _, e := range emp.Entries {
					fmt.Printf("    • %-28s %4d min  %s\n", e.Title, e.TotalMinutes, approvalMarks(e))
				}
			}
			return nil
		},
	}
}

func approvalMarks(e model.DailyEntry) string {
	marks := make([]string, 0, len(model.Roles))
	for _, role := range model.Roles {
		mark := "·"
		if e.Approved(role) {
			mark = "✓"
		}
		marks = append(marks, string(role)+":"+mark)
	}
	return strings.Join(marks, " ")
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <YYYY-MM-DD>",
		Short: "Classify a date against the company calendar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			c, err := a.calendar.ClassifyDate(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s: %s (rule %s)", c.Date, c.Kind, c.Rule)
			if c.Note != "" {
				fmt.Printf(" %s", c.Note)
			}
			fmt.Println()
			return nil
		},
	}
}

func calendarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calendar",
		Short: "Maintain company calendar overrides",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every override",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			overrides, err := a.calendar.ListOverrides(cmd.Context())
			if err != nil {
				return err
			}
			if len(overrides) == 0 {
				fmt.Println("No calendar overrides")
				return nil
			}
			for _, o := range overrides {
				fmt.Printf("  %-10s  %-10s  %s\n", o.Date, o.Type, o.Description)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <YYYY-MM-DD|MM-DD> <holiday|workday|paidleave> [description]",
		Short: "Create or replace an override",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			description := ""
			if len(args) == 3 {
				description = args[2]
			}
			o, err := a.calendar.SetOverride(cmd.Context(), args[0], description, args[1])
			if err != nil {
				return err
			}
			fmt.Printf("✅ %s set to %s\n", o.Date, o.Type)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <YYYY-MM-DD|MM-DD>",
		Short: "Delete an override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.calendar.DeleteOverride(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Printf("✅ %s deleted\n", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "import <file.csv>",
		Short: "Import overrides from a date,description,type CSV",
		Long:  "Import overrides from CSV. Dates that already have an override are skipped.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open CSV: %w", err)
			}
			defer f.Close()

			result, err := a.calendar.ImportCSV(cmd.Context(), f)
			if result != nil {
				fmt.Printf("Imported %d, skipped %d existing\n", result.Imported, result.Skipped)
			}
			return err
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "holidays <year>",
		Short: "List the public holidays of a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("year must be a number: %s", args[0])
			}

			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			holidays, err := a.calendar.Holidays().HolidaysInYear(year)
			if err != nil {
				return err
			}
			for _, h := range holidays {
				fmt.Printf("  %s  %s  %s\n", dateutil.FormatISO(h.Date), h.Date.Weekday().String()[:3], h.Name)
			}
			return nil
		},
	})

	return cmd
}

func entryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Submit, delete and approve daily entries",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "submit <file.json|->",
		Short: "Submit a day's reports from JSON ({name, date, reports:[...]})",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open submission: %w", err)
				}
				defer f.Close()
				r = f
			}

			var sub entry.Submission
			if err := json.NewDecoder(r).Decode(&sub); err != nil {
				return fmt.Errorf("failed to decode submission: %w", err)
			}

			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			saved, err := a.entries.Submit(cmd.Context(), sub)
			if err != nil {
				return err
			}
			for _, e := range saved {
				fmt.Printf("✅ %s  %d min\n", e.Key(), e.TotalMinutes)
			}
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name> <YYYY-MM-DD> <title>",
		Short: "Delete one entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			key := model.EntryKey{Name: args[0], Date: args[1], Title: args[2]}
			if err := a.entries.Delete(cmd.Context(), key); err != nil {
				return err
			}
			fmt.Printf("✅ %s deleted\n", key)
			return nil
		},
	})

	cmd.AddCommand(approveCmd())

	return cmd
}

func approveCmd() *cobra.Command {
	var roleName string
	var password string
	var revoke bool

	cmd := &cobra.Command{
		Use:   "approve <name> <YYYY-MM-DD> <title>",
		Short: "Set the approval flag of one role on an entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			role, err := model.ParseRole(roleName)
			if err != nil {
				return err
			}
			if password == "" {
				password = os.Getenv("ATTENDANCE_APPROVAL_PASSWORD")
			}

			a, err := initializeApp()
			if err != nil {
				return err
			}
			defer a.Close()

			capability, err := a.authority.Unlock(role, password)
			if err != nil {
				return err
			}

			key := model.EntryKey{Name: args[0], Date: args[1], Title: args[2]}
			if err := a.approvals.SetApproval(cmd.Context(), capability, key, role, !revoke); err != nil {
				return err
			}
			fmt.Printf("✅ %s %s approval set to %v\n", key, role, !revoke)
			return nil
		},
	}

	cmd.Flags().StringVar(&roleName, "role", "", "Approving role: manager, director or president")
	cmd.Flags().StringVar(&password, "password", "", "Role password (default $ATTENDANCE_APPROVAL_PASSWORD)")
	cmd.Flags().BoolVar(&revoke, "revoke", false, "Clear the approval instead of setting it")
	cmd.MarkFlagRequired("role")

	return cmd
}

func hashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to put in the approvals config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := approval.HashPassword(args[0])
			if err != nil {
				return err
			}
			fmt.Println(hash)
			return nil
		},
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
