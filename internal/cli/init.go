package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pablasso/vigil/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize vigil in the current repository",
	Long:  "Creates a .vigil/ folder with a default configuration, an empty task store, and a plan directory.",
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	if IsInitialized() {
		return fmt.Errorf("vigil is already initialized in this repository")
	}

	dirs := []string{
		vigilDir,
		filepath.Join(vigilDir, "plans"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	if err := config.WriteDefault(vigilDir); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	fmt.Println("Initialized vigil in", vigilDir)
	fmt.Println("\nNext steps:")
	fmt.Println("  1. Edit .vigil/config.yaml with your build and lint commands")
	fmt.Println("  2. Run: vigil task add <title>")
	fmt.Println("  3. Run: vigil gate run")
	return nil
}
