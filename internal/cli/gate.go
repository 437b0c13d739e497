package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pablasso/vigil/internal/check"
	"github.com/pablasso/vigil/internal/config"
	"github.com/pablasso/vigil/internal/display"
	"github.com/pablasso/vigil/internal/gate"
)

var (
	gateTask    string
	gateTrigger string
	gateChecks  string
	gatePolicy  []string
	gateBaseRef string
)

var gateCmd = &cobra.Command{
	Use:   "gate",
	Short: "Run quality checks and classify the result",
}

var gateRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Evaluate checks and record a verdict",
	Long:  `Collects build, lint, git, and plan signals, evaluates the selected checks, classifies the aggregated severity into continue, alert, or block, and appends the verdict to the audit log. Exits nonzero when the verdict is block.`,
	RunE:  runGate,
}

var gateChecksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the registered checks",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		registry := check.NewRegistry()
		if err := check.RegisterBuiltins(registry, thresholdsFrom(cfg)); err != nil {
			return err
		}
		for _, name := range registry.List() {
			fmt.Println(name)
		}
		return nil
	},
}

func init() {
	gateRunCmd.Flags().StringVar(&gateTask, "task", "", "Task ID to gate (defaults to the active task)")
	gateRunCmd.Flags().StringVar(&gateTrigger, "trigger", "manual", "Operation that triggered this gate")
	gateRunCmd.Flags().StringVar(&gateChecks, "checks", "", "Comma-separated check names (defaults to all)")
	gateRunCmd.Flags().StringArrayVar(&gatePolicy, "policy", nil, "Policy override as severity=action (repeatable)")
	gateRunCmd.Flags().StringVar(&gateBaseRef, "base", "", "Git ref to diff against (overrides config)")

	gateCmd.AddCommand(gateRunCmd)
	gateCmd.AddCommand(gateChecksCmd)
}

func runGate(cmd *cobra.Command, args []string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(gatePolicy) > 0 {
		if cfg.Policy == nil {
			cfg.Policy = map[string]string{}
		}
		for _, p := range gatePolicy {
			sev, action, ok := strings.Cut(p, "=")
			if !ok {
				return fmt.Errorf("invalid --policy %q, expected severity=action", p)
			}
			cfg.Policy[sev] = action
		}
	}

	ev, sink, err := buildEvaluator(cfg)
	if err != nil {
		return err
	}
	defer sink.Close()

	names := splitList(gateChecks)
	if len(names) == 0 {
		names = allCheckNames(cfg)
	}

	sc := signalContext(cfg, gateTask)
	if gateBaseRef != "" {
		sc.BaseRef = gateBaseRef
	}

	verdict, runErr := ev.Run(context.Background(), names, gate.Context{
		Trigger: gateTrigger,
		Signal:  sc,
	})
	fmt.Print(display.Verdict(verdict))
	if runErr != nil {
		fmt.Fprintf(os.Stderr, "warning: verdict not recorded: %v\n", runErr)
	}

	if verdict.Action == gate.ActionBlock {
		return fmt.Errorf("gate blocked: %s", verdict.Message())
	}
	return nil
}

func allCheckNames(cfg *config.Config) []string {
	checks := check.Builtins(thresholdsFrom(cfg))
	names := make([]string, len(checks))
	for i, c := range checks {
		names[i] = c.Name()
	}
	return names
}
