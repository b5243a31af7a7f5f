package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pontaj/internal/export"
	"github.com/pontaj/internal/render"
)

var calendarCmd = &cobra.Command{
	Use:     "calendar",
	Aliases: []string{"cal"},
	Short:   "Legal holidays and working days",
}

var calendarHolidaysCmd = &cobra.Command{
	Use:   "holidays [year]",
	Short: "List the legal holidays of a year",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year := time.Now().Year()
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year: %s", args[0])
			}
			year = n
		}

		holidays := analyzerService.Calendar().Holidays(year)
		if len(holidays) == 0 {
			fmt.Printf("No holidays known for %d. Add them with a holiday file (holidays_file).\n", year)
			return nil
		}

		sheet := export.Sheet{Headers: []string{"Date", "Day", "Holiday"}}
		for _, h := range holidays {
			sheet.Rows = append(sheet.Rows, []string{h.Date.Format("2006-01-02"), h.Date.Format("Mon"), h.Name})
		}
		fmt.Println(render.Title(fmt.Sprintf("Holidays %d", year)))
		fmt.Println(render.Table(sheet))
		return nil
	},
}

var calendarWorkdaysCmd = &cobra.Command{
	Use:   "workdays <YYYY-MM>",
	Short: "Count the working days of a month",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid format, use YYYY-MM (e.g., 2025-03)")
		}

		cal := analyzerService.Calendar()
		last := t.AddDate(0, 1, -1)
		fmt.Printf("%s: %d working days | Standard: %.2fh\n",
			t.Format("January 2006"), cal.WorkingDayCount(t.Year(), t.Month()), cal.StandardHoursForRange(t, last))
		return nil
	},
}

var calendarHoursCmd = &cobra.Command{
	Use:   "hours <from> <to>",
	Short: "Standard hours between two dates",
	Long:  `Sum the standard hours of every working day between two dates (YYYY-MM-DD), both included.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		from, err := time.Parse("2006-01-02", args[0])
		if err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", args[0])
		}
		to, err := time.Parse("2006-01-02", args[1])
		if err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", args[1])
		}
		if to.Before(from) {
			return fmt.Errorf("end date %s is before start date %s", args[1], args[0])
		}

		cal := analyzerService.Calendar()
		fmt.Printf("%s - %s: %d working days | Standard: %.2fh\n",
			args[0], args[1], len(cal.WorkingDays(from, to)), cal.StandardHoursForRange(from, to))
		return nil
	},
}

func init() {
	calendarCmd.AddCommand(calendarHolidaysCmd)
	calendarCmd.AddCommand(calendarWorkdaysCmd)
	calendarCmd.AddCommand(calendarHoursCmd)
}
