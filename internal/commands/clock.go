package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohance/tracker/internal/activity"
	"github.com/prohance/tracker/internal/capture"
	"github.com/prohance/tracker/internal/config"
	"github.com/prohance/tracker/internal/db"
	"github.com/prohance/tracker/internal/erp"
	"github.com/prohance/tracker/internal/models"
	"github.com/prohance/tracker/internal/session"
	"github.com/prohance/tracker/internal/tui"
)

var inCmd = &cobra.Command{
	Use:   "in",
	Short: "Clock in and start tracking the shift",
	Long: `Clock in on the ERP and start the local tracking session: activity
sampling, suspend detection and periodic reconciliation against the server.

Examples:
  tracker in          # clock in with the interactive dashboard
  tracker in --no-ui  # clock in headless (Ctrl+C clocks out)`,
	Run: withApp(runClockIn),
}

var outCmd = &cobra.Command{
	Use:   "out",
	Short: "Punch out on the ERP",
	Long:  "Send a punch-out for today. Used when the agent died before it could clock out itself.",
	Run: withApp(func(cmd *cobra.Command, args []string, cfg config.Config) {
		client, cred, err := loadClient(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer persistTokens(client, cred)

		now := time.Now().UTC()
		if err := client.PunchOut(context.Background(), now.Format("2006-01-02"), now); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏹️  Punched out at %s\n", now.Local().Format("15:04:05"))
	}),
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's attendance as the server sees it",
	Run: withApp(func(cmd *cobra.Command, args []string, cfg config.Config) {
		client, cred, err := loadClient(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer persistTokens(client, cred)

		today := time.Now().UTC().Format("2006-01-02")
		records, err := client.FetchAttendance(context.Background(), today, 0, 0)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}

		record := erp.TodayRecord(records, today)
		if record == nil || record.InTime == nil {
			fmt.Println("No punch-in recorded for today")
			return
		}

		fmt.Printf("⏱️  Clocked in at %s\n", record.InTime.Local().Format("15:04:05"))
		if record.OutTime != nil {
			fmt.Printf("⏹️  Clocked out at %s\n", record.OutTime.Local().Format("15:04:05"))
		} else if record.OnBreak != nil && *record.OnBreak {
			fmt.Println("☕ Currently on break")
		} else {
			fmt.Println("💼 Currently working")
		}
		summary := summarizeRecord(record)
		fmt.Printf("Active: %s · Break: %s\n", summary.TotalActiveTime, summary.TotalBreakTime)
	}),
}

// summarizeRecord projects a server attendance record into daily totals using
// a throwaway reconciler, so the CLI and the dashboard agree on the numbers.
func summarizeRecord(record *erp.Record) session.Summary {
	m := session.New(nil, nil, capture.NopSuite(), session.Config{})
	totals := session.ServerTotals{
		InTime:        record.InTime,
		OutTime:       record.OutTime,
		BreakSeconds:  record.BreakSeconds,
		ActiveSeconds: record.ActiveSeconds,
	}
	m.ApplyServerTotals(totals)
	return m.DailySummary()
}

func runClockIn(cmd *cobra.Command, args []string, cfg config.Config) {
	client, cred, err := loadClient(cfg)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer persistTokens(client, cred)

	manager := session.New(client, dbStore{}, capture.NopSuite(), session.Config{
		IdleTimeout:        cfg.Tracking.IdleTimeout,
		ActivityWindow:     cfg.Tracking.ActivityWindow,
		MonitorInterval:    cfg.Tracking.MonitorInterval,
		GapThreshold:       cfg.Tracking.GapThreshold,
		CaptureInterval:    cfg.Tracking.CaptureInterval,
		WindowPollInterval: cfg.Tracking.WindowPollInterval,
		CaptureDir:         filepath.Join(cfg.DataDir, "captures"),
		MaxBrowserTabs:     cfg.ERP.MaxBrowserTabs,
	})

	// If the server already holds an open punch for today (crashed agent,
	// punch from another device), resume it instead of punching twice.
	today := time.Now().UTC().Format("2006-01-02")
	var resumed *erp.Record
	if records, err := client.FetchAttendance(context.Background(), today, 0, 0); err == nil {
		if record := erp.TodayRecord(records, today); record != nil &&
			record.InTime != nil && record.OutTime == nil {
			resumed = record
		}
	}

	if resumed != nil {
		if err := manager.ClockInLocal(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		manager.ApplyServerTotals(session.ServerTotals{
			InTime:       resumed.InTime,
			BreakSeconds: resumed.BreakSeconds,
			OnBreak:      resumed.OnBreak,
		})
		fmt.Printf("🔄 Resumed shift clocked in at %s\n", resumed.InTime.Local().Format("15:04:05"))
	} else {
		if err := manager.ClockIn(); err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		fmt.Printf("⏱️  Clocked in at %s\n", time.Now().Format("15:04:05"))
	}

	// Activity sampling feeds the reconciler; TUI keys count as input too
	tracker := activity.NewTracker()
	watcher := activity.NewWatcher(tracker, cfg.Tracking.ActivityInterval, cfg.Tracking.IdleTimeout)
	watcher.OnSample = manager.UpdateActivity

	syncer := &session.Syncer{
		Manager:  manager,
		Interval: cfg.Tracking.SyncInterval,
		Fetch: func(ctx context.Context) (*session.ServerTotals, error) {
			records, err := client.FetchAttendance(ctx, today, 0, 0)
			if err != nil {
				return nil, err
			}
			record := erp.TodayRecord(records, today)
			if record == nil {
				return nil, nil
			}
			return &session.ServerTotals{
				InTime:        record.InTime,
				OutTime:       record.OutTime,
				BreakSeconds:  record.BreakSeconds,
				ActiveSeconds: record.ActiveSeconds,
				OnBreak:       record.OnBreak,
			}, nil
		},
	}

	stop := make(chan struct{})
	go watcher.Run(stop)
	go syncer.Run(stop)
	defer close(stop)

	noUI, _ := cmd.Flags().GetBool("no-ui")
	if noUI {
		waitForShutdown(manager)
		return
	}

	clockOut, err := tui.RunStatusTUI(manager, tracker)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		waitForShutdown(manager)
		return
	}
	if !clockOut {
		// Dashboard closed but the session keeps running headless
		waitForShutdown(manager)
		return
	}
	finishClockOut(manager, "manual")
}

// waitForShutdown blocks until SIGINT/SIGTERM, then clocks out
func waitForShutdown(manager *session.Manager) {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	<-signals
	fmt.Println()
	finishClockOut(manager, "shutdown")
}

func finishClockOut(manager *session.Manager, reason string) {
	summary := manager.DailySummary()
	if err := manager.ClockOut(reason); err != nil && err != session.ErrNotClockedIn {
		fmt.Printf("⚠️  Punch-out not confirmed by the server: %v\n", err)
	}
	fmt.Println("⏹️  Clocked out")
	fmt.Printf("📊 Active: %s · Break: %s · Idle: %s\n",
		summary.TotalActiveTime, summary.TotalBreakTime, summary.TotalIdleTime)
}

// dbStore adapts the database package to the session persistence interface
type dbStore struct{}

func (dbStore) AppendHistory(record models.HistoryRecord) error {
	return db.AppendHistory(record)
}

func (dbStore) RecordSleepEvent(event models.SleepEvent) error {
	return db.RecordSleepEvent(event)
}

func init() {
	inCmd.Flags().Bool("no-ui", false, "Clock in without the interactive dashboard")
}
