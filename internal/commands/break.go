package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/prohance/tracker/internal/config"
)

var breakCmd = &cobra.Command{
	Use:   "break <start|end>",
	Short: "Start or end a break on the ERP",
	Long: `Start or end a break on the server directly, without a running agent.

Examples:
  tracker break start
  tracker break end`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"start", "end"},
	Run: withApp(func(cmd *cobra.Command, args []string, cfg config.Config) {
		client, cred, err := loadClient(cfg)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			return
		}
		defer persistTokens(client, cred)

		now := time.Now().UTC()
		date := now.Format("2006-01-02")

		switch args[0] {
		case "start":
			if err := client.StartBreak(context.Background(), date, now); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("☕ Break started at %s\n", now.Local().Format("15:04:05"))
		case "end":
			if err := client.EndBreak(context.Background(), date, now); err != nil {
				fmt.Printf("Error: %v\n", err)
				return
			}
			fmt.Printf("💼 Break ended at %s\n", now.Local().Format("15:04:05"))
		default:
			fmt.Printf("Error: unknown action '%s' (want start or end)\n", args[0])
		}
	}),
}
