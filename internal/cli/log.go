package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pablasso/vigil/internal/audit"
	"github.com/pablasso/vigil/internal/display"
)

var (
	logSince   time.Duration
	logTaskID  string
	logVerbose bool
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show recorded verdicts",
	RunE:  runLog,
}

func init() {
	logCmd.Flags().DurationVar(&logSince, "since", 24*time.Hour, "Show verdicts recorded within this window")
	logCmd.Flags().StringVar(&logTaskID, "task", "", "Only show verdicts for this task")
	logCmd.Flags().BoolVar(&logVerbose, "verbose", false, "Show the findings behind each verdict")
}

func runLog(cmd *cobra.Command, args []string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	sink, err := audit.Open(filepath.Join(vigilDir, "audit.db"), cfg.Audit.MaxEntries)
	if err != nil {
		return err
	}
	defer sink.Close()

	entries, err := sink.ScanSince(time.Now().Add(-logSince))
	if err != nil {
		return err
	}

	shown := 0
	for _, e := range entries {
		if logTaskID != "" && e.TaskID != logTaskID {
			continue
		}
		if logVerbose {
			fmt.Println(display.AuditDetail(e))
		} else {
			fmt.Println(display.AuditEntry(e))
		}
		shown++
	}
	if shown == 0 {
		fmt.Println("No verdicts recorded in the last", logSince)
	}
	return nil
}
