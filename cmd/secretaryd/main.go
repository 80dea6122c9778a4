package main

import (
	"fmt"
	"os"

	"github.com/abdullah-khaled0/voice-secretary/internal/cli/admin"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "secretaryd",
		Short: "Voice secretary daemon",
		Long:  "AI secretary server answering questions about GitHub projects over HTTP and WebSocket voice sessions",
	}

	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.IndexCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
