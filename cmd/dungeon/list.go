package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List adversary policies",
	Long:  `Shows the adversary policies a server can spawn or a client can join with.`,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	policies := registry.List()

	if len(policies) == 0 {
		fmt.Println("No adversary policies available.")
		return
	}

	fmt.Println("Adversary policies:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, p := range policies {
		if len(p.ID) > maxIDLen {
			maxIDLen = len(p.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, p := range policies {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Title)
	}

	fmt.Println()
	fmt.Println("Run 'dungeon join --as <id>' to play one against a server.")
}
