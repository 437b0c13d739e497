package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pablasso/vigil/internal/plan"
	"github.com/pablasso/vigil/internal/task"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Inspect and update per-task plan documents",
}

var planShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the parsed plan for a task",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlanShow,
}

var planSyncCmd = &cobra.Command{
	Use:   "sync [id]",
	Short: "Recompute progress and rewrite the plan's tracking section",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlanSync,
}

func init() {
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planSyncCmd)
	rootCmd.AddCommand(planCmd)
}

// resolveTaskID picks the explicit argument or falls back to the
// active task.
func resolveTaskID(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	doc, err := task.NewStore(vigilDir).Load()
	if err != nil {
		return "", err
	}
	current := doc.Current()
	if current == nil {
		return "", fmt.Errorf("no active task; pass a task ID")
	}
	return current.ID, nil
}

func runPlanShow(cmd *cobra.Command, args []string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	taskID, err := resolveTaskID(args)
	if err != nil {
		return err
	}

	store := plan.NewStore(filepath.Join(vigilDir, "plans"))
	if !store.Exists(taskID) {
		return fmt.Errorf("no plan document for task %s (expected %s)", taskID, store.Path(taskID))
	}
	p, content, err := store.Load(taskID)
	if err != nil {
		return err
	}

	pr := plan.ComputeProgress(p, content)
	fmt.Printf("Plan for %s (%d words)\n", taskID, p.WordCount)
	fmt.Printf("Sections: %d  Files declared: %d\n", len(p.Sections), len(p.Files))
	fmt.Printf("Steps: %d/%d done (%d%%, %s)\n", pr.Completed, pr.Total, pr.Percentage, pr.Status)
	for _, s := range p.Steps {
		marker := " "
		if s.Done {
			marker = "✓"
		}
		fmt.Printf("  %s %d. %s\n", marker, s.Index+1, s.Description)
	}
	return nil
}

func runPlanSync(cmd *cobra.Command, args []string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	taskID, err := resolveTaskID(args)
	if err != nil {
		return err
	}

	plansDir := filepath.Join(vigilDir, "plans")
	store := plan.NewStore(plansDir)
	if !store.Exists(taskID) {
		return fmt.Errorf("no plan document for task %s (expected %s)", taskID, store.Path(taskID))
	}
	p, content, err := store.Load(taskID)
	if err != nil {
		return err
	}

	pr := plan.ComputeProgress(p, content)
	updated := plan.UpdateProgressSection(content, pr)
	if err := store.Save(taskID, updated); err != nil {
		return err
	}

	logger := plan.NewProgressLogger(plansDir)
	if p.Complete() {
		if err := logger.PlanCompleted(taskID, pr); err != nil {
			return err
		}
	} else if err := logger.Log(plan.EventPlanUpdated, taskID, map[string]any{
		"completed":  pr.Completed,
		"total":      pr.Total,
		"percentage": pr.Percentage,
	}); err != nil {
		return err
	}

	fmt.Printf("Progress for %s: %d/%d steps (%d%%, %s)\n", taskID, pr.Completed, pr.Total, pr.Percentage, pr.Status)
	return nil
}
