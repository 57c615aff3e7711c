package cmd

import (
	"fmt"
	"strings"

	"github.com/solverde/aegis/internal/history"
	"github.com/solverde/aegis/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show only the most recent N submissions")
}

// resetHistoryCommandState resets the history command's global state for testing.
func resetHistoryCommandState() {
	historyLimit = 0
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Lists past protection submissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting protect history command")

		entries, err := history.ReadEntries()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to read history: %v", err)
		}
		if len(entries) == 0 {
			fmt.Println(ui.Muted.Sprint("No protection submissions recorded yet."))
			fmt.Println(color.CyanString("→") + " Run " + color.YellowString("aegis protect image <path>") + " to protect your first image")
			return nil
		}

		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[len(entries)-historyLimit:]
		}

		// Newest last in the file, newest first on screen.
		for i := len(entries) - 1; i >= 0; i-- {
			entry := entries[i]
			fmt.Printf("%s  %s\n", ui.Muted.Sprint(entry.Timestamp), ui.Highlight.Sprint(entry.FileName))
			fmt.Printf("    content id: %s\n", ui.Code.Sprint(entry.ContentID))
			fmt.Printf("    hash:       %s\n", ui.Code.Sprint(entry.ProtectedHash))
			fmt.Printf("    score:      %.1f\n", entry.ProtectionScore)
			if len(entry.Layers) > 0 {
				fmt.Printf("    layers:     %s\n", strings.Join(entry.Layers, ", "))
			}
		}
		return nil
	},
}
