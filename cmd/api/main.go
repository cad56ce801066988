package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/taskmaster/planner/cmd/api/commands"
)

// @title Planner
// @version 1.0
// @description Personal task calendar with a monthly view and an hourly day agenda

// @host localhost:8080
// @BasePath /

func main() {
	rootCmd := &cobra.Command{
		Use:   "planner",
		Short: "Planner server",
		Long:  `Planner is a personal task calendar: dated and timed tasks on a monthly calendar with an hourly agenda per day.`,
	}

	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewUserCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
