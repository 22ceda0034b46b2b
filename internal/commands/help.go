package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var helpCmd = &cobra.Command{
	Use:   "help",
	Short: "Show comprehensive help for tracker",
	Long:  `Display detailed help for all tracker commands and flags.`,
	Run: func(cmd *cobra.Command, args []string) {
		showCustomHelp()
	},
}

func showCustomHelp() {
	fmt.Print(`
████████╗██████╗  █████╗  ██████╗██╗  ██╗
╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██║ ██╔╝
   ██║   ██████╔╝███████║██║     █████╔╝
   ██║   ██╔══██╗██╔══██║██║     ██╔═██╗
   ██║   ██║  ██║██║  ██║╚██████╗██║  ██╗
   ╚═╝   ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝╚═╝  ╚═╝

tracker - ProHance attendance agent

COMMANDS:

  login <email>           Log in to the ERP
    --password            Use password login instead of an OTP

  logout                  Forget the stored credentials

  in                      Clock in and start the tracking session
    --no-ui               Run headless (Ctrl+C clocks out)

    While the dashboard is open:
      b                   Start or end a break
      o                   Clock out
      esc/q               Close the dashboard, keep tracking

  out                     Punch out directly on the server

  status                  Show today's attendance as the server sees it

  break <start|end>       Start or end a break on the server

  report                  Show tracked time from local history
    --week                Last 7 days
    --month               Last 30 days
    --sleep               Include today's detected sleep gaps

  version                 Show version information

ENVIRONMENT:

  TRACKER_ENV             ERP environment: prod (default) or qa
  TRACKER_BASE_URL        Override the ERP base URL
  TRACKER_DATA_DIR        Data directory (default ~/.prohance)
  TRACKER_LOG_LEVEL       debug, info (default), warn, error
  TRACKER_IDLE_TIMEOUT    Idle threshold before time counts as break (default 5m0s)

EXAMPLES:

  tracker login user@corp.com
  tracker in
  tracker report --week

`)
}
