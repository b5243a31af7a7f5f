package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pontaj/internal/analyzer"
	"github.com/pontaj/internal/attendance"
	"github.com/pontaj/internal/config"
	"github.com/pontaj/internal/export"
	"github.com/pontaj/internal/parser"
	"github.com/pontaj/internal/render"
	"github.com/pontaj/internal/visualization"
	"github.com/pontaj/internal/work"
)

func printEmptyReport() {
	fmt.Printf("could not process the report: %v\n", analyzer.ErrEmptyReport)
}

func printResult(result *attendance.Result, view string) error {
	fmt.Println(render.Title("Period: " + result.Header.DateRangeText))

	switch view {
	case "daily":
		fmt.Println(render.Daily(result.Daily, analyzerService.Calendar()))
	case "weekly":
		fmt.Println(render.Weekly(result.Weekly))
	case "monthly":
		fmt.Println(render.Monthly(result.Monthly))
	case "all":
		fmt.Println(render.Title("Daily"))
		fmt.Println(render.Daily(result.Daily, analyzerService.Calendar()))
		fmt.Println(render.Title("Weekly"))
		fmt.Println(render.Weekly(result.Weekly))
		fmt.Println(render.Title("Monthly"))
		fmt.Println(render.Monthly(result.Monthly))
	default:
		return fmt.Errorf("unknown view %q (use daily, weekly, monthly or all)", view)
	}

	if w := render.Warnings(result.Warnings); w != "" {
		fmt.Print(w)
	}
	return nil
}

var processCmd = &cobra.Command{
	Use:     "process <file>",
	Aliases: []string{"p"},
	Short:   "Show worked hours from a report",
	Long: `Parse an attendance report (.csv, .txt, .xlsx or .xls) and show the daily,
weekly or monthly worked hours against the standard schedule.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")
		employee, _ := cmd.Flags().GetString("employee")
		view, _ := cmd.Flags().GetString("view")

		result, err := analyzerService.ProcessFile(args[0], sheet, employee)
		if err != nil {
			return err
		}
		if result.Empty() {
			printEmptyReport()
			return nil
		}
		return printResult(result, view)
	},
}

var importCmd = &cobra.Command{
	Use:         "import <file>",
	Aliases:     []string{"i"},
	Short:       "Add a report to the history",
	Long:        `Process a report and merge its records into the history. A report already imported is skipped unless --force is given.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{needsDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")
		force, _ := cmd.Flags().GetBool("force")

		res, err := analyzerService.Import(cmd.Context(), args[0], sheet, force)
		if errors.Is(err, analyzer.ErrEmptyReport) {
			printEmptyReport()
			return nil
		}
		if err != nil {
			return err
		}

		if res.Skipped {
			fmt.Printf("Already imported on %s (import %s). Use --force to import again.\n",
				res.Previous.ImportedAt.Local().Format("2006-01-02 15:04"), res.Previous.ID)
			return nil
		}

		fmt.Printf("Imported %d records from %s | New: %d | Replaced: %d | History: %d\n",
			len(res.Result.Daily), res.Import.FileName, res.Merge.Added, res.Merge.Replaced, res.Merge.Table.Len())
		if res.Merge.PersistErr != nil {
			fmt.Printf("History kept in memory only: %v\n", res.Merge.PersistErr)
		}
		return printResult(res.Result, "weekly")
	},
}

func parseDateFlag(cmd *cobra.Command, name string) (*time.Time, error) {
	value, _ := cmd.Flags().GetString(name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s date %q (use YYYY-MM-DD)", name, value)
	}
	return &t, nil
}

var historyCmd = &cobra.Command{
	Use:         "history",
	Aliases:     []string{"h"},
	Short:       "Show stored attendance records",
	Annotations: map[string]string{needsDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		employee, _ := cmd.Flags().GetString("employee")
		view, _ := cmd.Flags().GetString("view")
		from, err := parseDateFlag(cmd, "from")
		if err != nil {
			return err
		}
		to, err := parseDateFlag(cmd, "to")
		if err != nil {
			return err
		}

		records, err := analyzerService.History(cmd.Context(), analyzer.HistoryFilter{Employee: employee, From: from, To: to})
		if err != nil {
			fmt.Printf("History could not be read, showing cached records: %v\n", err)
		}
		if len(records) == 0 {
			fmt.Println("No records found")
			return nil
		}

		result := attendance.Summarize(attendance.ReportHeader{DateRangeText: historyRange(from, to)}, records, nil)
		return printResult(result, view)
	},
}

func historyRange(from, to *time.Time) string {
	bound := func(t *time.Time) string {
		if t == nil {
			return "..."
		}
		return t.Format("2 January 2006")
	}
	if from == nil && to == nil {
		return "all records"
	}
	return bound(from) + " - " + bound(to)
}

var importsCmd = &cobra.Command{
	Use:         "imports",
	Short:       "List imported reports",
	Annotations: map[string]string{needsDB: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		imports, err := db.ListImports(cmd.Context())
		if err != nil {
			return err
		}
		if len(imports) == 0 {
			fmt.Println("No reports imported yet")
			return nil
		}
		fmt.Println(render.Imports(imports))
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Export attendance tables",
	Long: `Export the daily, weekly or monthly table of a report as CSV, Excel or JSON.
With --history the stored records are exported instead of a report file.
Kind "all" writes every table: one worksheet each for Excel, one document for JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		kind, _ := cmd.Flags().GetString("kind")
		formatStr, _ := cmd.Flags().GetString("format")
		outputPath, _ := cmd.Flags().GetString("output")
		sheet, _ := cmd.Flags().GetString("sheet")
		employee, _ := cmd.Flags().GetString("employee")
		fromHistory, _ := cmd.Flags().GetBool("history")

		format, err := export.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		if err := validateExport(format, kind); err != nil {
			return err
		}

		var result *attendance.Result
		switch {
		case fromHistory:
			if err := openHistory(); err != nil {
				return err
			}
			records, err := analyzerService.History(cmd.Context(), analyzer.HistoryFilter{Employee: employee})
			if err != nil {
				return err
			}
			result = attendance.Summarize(attendance.ReportHeader{DateRangeText: "all records"}, records, nil)
		case len(args) == 1:
			result, err = analyzerService.ProcessFile(args[0], sheet, employee)
			if err != nil {
				return err
			}
			if result.Empty() {
				printEmptyReport()
				return nil
			}
		default:
			return fmt.Errorf("give a report file or --history")
		}

		if outputPath == "" || outputPath == "-" {
			return writeExport(os.Stdout, format, kind, result)
		}
		if err := exportToFile(outputPath, format, kind, result); err != nil {
			return err
		}
		fmt.Printf("Exported %s %s to %s\n", kind, format, outputPath)
		return nil
	},
}

// exportToFile writes the export to path. A failed close is reported since
// the tail of the file may be lost.
func exportToFile(path string, format export.Format, kind string, result *attendance.Result) error {
	if err := validateExport(format, kind); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeExport(f, format, kind, result); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// validateExport rejects kind and format pairs writeExport cannot produce
func validateExport(format export.Format, kind string) error {
	switch kind {
	case "daily", "weekly", "monthly":
		return nil
	case "all":
		if format == export.FormatCSV {
			return fmt.Errorf("kind all needs the xlsx or json format")
		}
		return nil
	}
	return fmt.Errorf("unknown kind %q (use daily, weekly, monthly or all)", kind)
}

func writeExport(w io.Writer, format export.Format, kind string, result *attendance.Result) error {
	if err := validateExport(format, kind); err != nil {
		return err
	}

	if format == export.FormatJSON {
		switch kind {
		case "daily":
			return export.WriteJSON(w, result.Daily)
		case "weekly":
			return export.WriteJSON(w, result.Weekly)
		case "monthly":
			return export.WriteJSON(w, result.Monthly)
		default:
			return export.WriteJSON(w, result)
		}
	}

	sheets := map[string]export.Sheet{
		"daily":   export.DailySheet(result.Daily),
		"weekly":  export.WeeklySheet(result.Weekly),
		"monthly": export.MonthlySheet(result.Monthly),
	}
	if kind == "all" {
		return export.WriteExcel(w, sheets["daily"], sheets["weekly"], sheets["monthly"])
	}
	if format == export.FormatExcel {
		return export.WriteExcel(w, sheets[kind])
	}
	return export.WriteCSV(w, sheets[kind])
}

// chartEmployee picks the employee of the daily chart
func chartEmployee(daily []attendance.DailyRecord, requested string) string {
	if requested != "" {
		return requested
	}
	if names := attendance.Employees(daily); len(names) > 0 {
		return names[0]
	}
	return ""
}

var visualizeCmd = &cobra.Command{
	Use:     "visualize <file> <weekly|difference|daily|arrival|departure|html>",
	Aliases: []string{"viz"},
	Short:   "Generate charts from a report",
	Long: `Generate an SVG chart or a full HTML report from an attendance report.
The daily chart shows one employee: the one given with --employee, else the first by name.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sheet, _ := cmd.Flags().GetString("sheet")
		employee, _ := cmd.Flags().GetString("employee")
		output, _ := cmd.Flags().GetString("output")

		result, err := analyzerService.ProcessFile(args[0], sheet, employee)
		if err != nil {
			return err
		}
		if result.Empty() {
			printEmptyReport()
			return nil
		}

		visualizer := visualization.New()
		var content string
		switch args[1] {
		case "weekly":
			content = visualizer.GenerateWeeklySVG(result.Weekly)
		case "difference":
			content = visualizer.GenerateDifferenceSVG(result.Weekly)
		case "daily":
			daily := attendance.FilterEmployee(result.Daily, chartEmployee(result.Daily, employee))
			content = visualizer.GenerateDailySVG(daily)
		case "arrival":
			content = visualizer.GenerateArrivalSVG(result.Daily)
		case "departure":
			content = visualizer.GenerateDepartureSVG(result.Daily)
		case "html":
			content = visualizer.GenerateHTMLReport(result)
		default:
			return fmt.Errorf("unknown visualization type: %s (use weekly, difference, daily, arrival, departure or html)", args[1])
		}

		if output != "" {
			if err := os.WriteFile(output, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Printf("Wrote %s\n", output)
			return nil
		}

		fmt.Println(content)
		return nil
	},
}

var sheetsCmd = &cobra.Command{
	Use:   "sheets <file>",
	Short: "List the worksheets of a workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := parser.SheetNames(args[0])
		if err != nil {
			return err
		}
		if len(names) == 0 {
			fmt.Printf("%s is a text report and has no sheets\n", filepath.Base(args[0]))
			return nil
		}
		for i, name := range names {
			fmt.Printf("  %d. %s\n", i+1, name)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings and the standard schedule.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Config: DB=%s | Archive=%s\n", cfg.DatabasePath, cfg.HistoryPath)
		holidays := cfg.HolidaysFile
		if holidays == "" {
			holidays = "built-in"
		}
		fmt.Printf("Policies: Overnight=%s | Holiday standard hours=%s | Holidays=%s\n",
			cfg.OvernightShifts, cfg.HolidayStandardHours, holidays)
		fmt.Printf("Log: %s (%s)\n", cfg.Log.Level, cfg.Log.Format)
		fmt.Printf("Schedule: Mon-Thu %s-%s (%.2fh) | Fri %s-%s (%.2fh) | Weekly: %.2fh over %d days\n",
			work.ShiftStart, work.ShiftEnd, work.MonThuStandardHours,
			work.ShiftStart, work.FridayShiftEnd, work.FridayStandardHours,
			work.WeeklyStandardHours, work.WorkDaysPerWeek)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a configuration value",
	Long:  fmt.Sprintf("Change one configuration value and save the config file.\nKeys: %s", strings.Join(config.Keys(), ", ")),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		if err := config.Save(cfg, path); err != nil {
			return fmt.Errorf("failed to save config: %w", err)
		}
		fmt.Printf("Set %s = %s in %s\n", args[0], args[1], path)
		return nil
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for pontaj.

Bash:
  $ source <(pontaj completion bash)

Zsh:
  $ pontaj completion zsh > "${fpath[1]}/_pontaj"

Fish:
  $ pontaj completion fish > ~/.config/fish/completions/pontaj.fish

PowerShell:
  PS> pontaj completion powershell > pontaj.ps1
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(os.Stdout)
		}
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{processCmd, importCmd, exportCmd, visualizeCmd} {
		c.Flags().StringP("sheet", "s", "", "Worksheet name for Excel reports (default first sheet)")
	}
	for _, c := range []*cobra.Command{processCmd, historyCmd, exportCmd, visualizeCmd} {
		c.Flags().StringP("employee", "e", "", "Only this employee (as printed in the report)")
	}

	processCmd.Flags().StringP("view", "v", "weekly", "Table to show: daily, weekly, monthly or all")

	importCmd.Flags().BoolP("force", "f", false, "Import even if this content was imported before")

	historyCmd.Flags().String("from", "", "First date (YYYY-MM-DD)")
	historyCmd.Flags().String("to", "", "Last date (YYYY-MM-DD)")
	historyCmd.Flags().StringP("view", "v", "daily", "Table to show: daily, weekly, monthly or all")

	exportCmd.Flags().StringP("kind", "k", "daily", "Table: daily, weekly, monthly or all")
	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv, xlsx or json")
	exportCmd.Flags().StringP("output", "o", "", "Output file (default stdout)")
	exportCmd.Flags().Bool("history", false, "Export the stored history instead of a report")

	visualizeCmd.Flags().StringP("output", "o", "", "Output file path")

	configCmd.AddCommand(configSetCmd)
}
