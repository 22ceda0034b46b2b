package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohance/tracker/internal/config"
	"github.com/prohance/tracker/internal/db"
	"github.com/prohance/tracker/internal/parser"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show tracked time from local history",
	Long: `Show tracked time from the local history rows written at clock-out.

Examples:
  tracker report           # today
  tracker report --week    # last 7 days
  tracker report --month   # last 30 days`,
	Run: withApp(func(cmd *cobra.Command, args []string, cfg config.Config) {
		end := time.Now()
		start := end
		label := "Today"
		if week, _ := cmd.Flags().GetBool("week"); week {
			start = end.AddDate(0, 0, -6)
			label = "Last 7 days"
		}
		if month, _ := cmd.Flags().GetBool("month"); month {
			start = end.AddDate(0, 0, -29)
			label = "Last 30 days"
		}

		records, err := db.GetHistoryInRange(start, end)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		if len(records) == 0 {
			fmt.Printf("No tracked days between %s and %s\n",
				start.Format("2006-01-02"), end.Format("2006-01-02"))
			return
		}

		fmt.Printf("📊 %s\n\n", label)
		fmt.Printf("%-12s %-10s %-10s %-10s %s\n", "Date", "Active", "Break", "Idle", "Activity")

		var activeSum, breakSum, idleSum int
		for _, record := range records {
			fmt.Printf("%-12s %-10s %-10s %-10s %.1f%%\n",
				record.Date, record.Active, record.Break, record.Idle, record.ActivityPercent)
			activeSum += parser.ParseHMS(record.Active)
			breakSum += parser.ParseHMS(record.Break)
			idleSum += parser.ParseHMS(record.Idle)
		}

		if len(records) > 1 {
			fmt.Printf("\n%-12s %-10s %-10s %-10s\n", "Total",
				parser.FormatHMS(activeSum), parser.FormatHMS(breakSum), parser.FormatHMS(idleSum))
		}

		if sleeps, _ := cmd.Flags().GetBool("sleep"); sleeps {
			events, err := db.GetSleepEventsForDate(end)
			if err == nil && len(events) > 0 {
				fmt.Println("\n💤 Sleep gaps today")
				for _, event := range events {
					fmt.Printf("  %s → %s (%s)\n",
						event.SleepStart.Local().Format("15:04:05"),
						event.WakeTime.Local().Format("15:04:05"),
						parser.FormatHMS(event.DurationSeconds))
				}
			}
		}
	}),
}

func init() {
	reportCmd.Flags().Bool("week", false, "Report the last 7 days")
	reportCmd.Flags().Bool("month", false, "Report the last 30 days")
	reportCmd.Flags().Bool("sleep", false, "Include today's detected sleep gaps")
}
