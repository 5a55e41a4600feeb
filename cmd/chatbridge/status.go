package main

import (
	"fmt"
	"os"
	"time"

	"github.com/chatbridge/chatbridge/pkg/procguard"
	"github.com/chatbridge/chatbridge/pkg/stats"
	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	var pidPath, statsPath string

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "Report whether the bot is running and show its counters",
		RunE: func(_ *cobra.Command, _ []string) error {
			return printStatus(pidPath, statsPath)
		},
	}

	statusCmd.Flags().StringVar(&pidPath, "pid", procguard.DefaultPIDPath, "path to the PID file")
	statusCmd.Flags().StringVar(&statsPath, "stats", stats.DefaultPath, "path to the stats file")

	return statusCmd
}

func printStatus(pidPath, statsPath string) error {
	pid, err := procguard.ReadPID(pidPath)
	switch {
	case err == nil:
		fmt.Printf("PID file: %d\n", pid)
	case os.IsNotExist(err):
		fmt.Println("PID file: none (not running)")
	default:
		fmt.Printf("PID file: unreadable (%v)\n", err)
	}

	record, err := stats.Read(statsPath)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Println("Stats: none recorded yet")
			return nil
		}
		return fmt.Errorf("failed to read stats file: %w", err)
	}

	fmt.Printf("Run id:             %s\n", record.RunID)
	fmt.Printf("Started:            %s\n", record.StartTime.Format(time.RFC3339))
	fmt.Printf("Uptime:             %s\n", time.Duration(record.UptimeSeconds*float64(time.Second)).Round(time.Second))
	fmt.Printf("Messages processed: %d\n", record.MessagesProcessed)
	fmt.Printf("Responses sent:     %d\n", record.ResponsesSent)
	fmt.Printf("Errors:             %d\n", record.Errors)
	if record.LastActivity != nil {
		fmt.Printf("Last activity:      %s\n", record.LastActivity.Format(time.RFC3339))
	}

	return nil
}
