package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pablasso/vigil/internal/check"
	"github.com/pablasso/vigil/internal/display"
	"github.com/pablasso/vigil/internal/gate"
	"github.com/pablasso/vigil/internal/task"
)

var (
	taskAddDescription string
	taskAddPriority    string
	taskAddDependsOn   string
	taskAddParent      string
	taskStartSkipGate  bool
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the task store",
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all tasks",
	RunE:  runTaskList,
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a new task",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskAdd,
}

var taskStartCmd = &cobra.Command{
	Use:   "start <id>",
	Short: "Move a task to in-progress, gating on its dependencies",
	Args:  cobra.ExactArgs(1),
	RunE:  runTaskStart,
}

var taskDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Mark a task completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transitionTask(args[0], task.StatusCompleted)
	},
}

var taskCancelCmd = &cobra.Command{
	Use:   "cancel <id>",
	Short: "Cancel a task",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return transitionTask(args[0], task.StatusCancelled)
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskAddDescription, "description", "", "Task description")
	taskAddCmd.Flags().StringVar(&taskAddPriority, "priority", "", "Task priority")
	taskAddCmd.Flags().StringVar(&taskAddDependsOn, "depends-on", "", "Comma-separated dependency IDs")
	taskAddCmd.Flags().StringVar(&taskAddParent, "parent", "", "Parent task ID")
	taskStartCmd.Flags().BoolVar(&taskStartSkipGate, "skip-gate", false, "Skip the dependency gate")

	taskCmd.AddCommand(taskListCmd)
	taskCmd.AddCommand(taskAddCmd)
	taskCmd.AddCommand(taskStartCmd)
	taskCmd.AddCommand(taskDoneCmd)
	taskCmd.AddCommand(taskCancelCmd)
}

func runTaskList(cmd *cobra.Command, args []string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	store := task.NewStore(vigilDir)
	doc, err := store.Load()
	if err != nil {
		return err
	}
	if len(doc.Tasks) == 0 {
		fmt.Println("No tasks. Add one with 'vigil task add <title>'.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tDEPENDS\tTITLE")
	for _, t := range doc.Tasks {
		deps := "-"
		if len(t.DependsOn) > 0 {
			deps = strings.Join(t.DependsOn, ",")
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", t.ID, t.Status, deps, t.Title)
	}
	return w.Flush()
}

func runTaskAdd(cmd *cobra.Command, args []string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	store := task.NewStore(vigilDir)

	var id string
	err := store.Update(func(doc *task.Document) error {
		for _, depID := range splitList(taskAddDependsOn) {
			if doc.Find(depID) == nil {
				return fmt.Errorf("dependency %q does not exist", depID)
			}
		}
		if taskAddParent != "" && doc.Find(taskAddParent) == nil {
			return fmt.Errorf("parent %q does not exist", taskAddParent)
		}
		now := time.Now().UTC()
		id = doc.NextID()
		doc.Tasks = append(doc.Tasks, task.Task{
			ID:          id,
			Title:       args[0],
			Description: taskAddDescription,
			Status:      task.StatusPending,
			Priority:    taskAddPriority,
			DependsOn:   splitList(taskAddDependsOn),
			ParentID:    taskAddParent,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		return nil
	})
	if err != nil {
		return err
	}
	fmt.Printf("Added task %s: %s\n", id, args[0])
	return nil
}

// runTaskStart gates the transition on the dependency-satisfied check
// before moving the task to in-progress. A block verdict stops the
// transition unless --skip-gate is set.
func runTaskStart(cmd *cobra.Command, args []string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if !taskStartSkipGate {
		ev, sink, err := buildEvaluator(cfg)
		if err != nil {
			return err
		}
		verdict, runErr := ev.Run(context.Background(),
			[]string{check.NameDependencySatisfied},
			gate.Context{Trigger: "task-start", Signal: signalContext(cfg, args[0])})
		sink.Close()
		fmt.Print(display.Verdict(verdict))
		if runErr != nil {
			fmt.Fprintf(os.Stderr, "warning: verdict not recorded: %v\n", runErr)
		}
		if verdict.Action == gate.ActionBlock {
			return fmt.Errorf("cannot start %s: %s", args[0], verdict.Message())
		}
	}

	return transitionTask(args[0], task.StatusInProgress)
}

func transitionTask(id, to string) error {
	if err := RequireInitialized(); err != nil {
		return err
	}
	store := task.NewStore(vigilDir)
	err := store.Update(func(doc *task.Document) error {
		return doc.Transition(id, to)
	})
	if err != nil {
		return err
	}
	fmt.Printf("Task %s is now %s\n", id, to)
	return nil
}
