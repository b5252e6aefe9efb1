package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mealtrack/internal/app"
)

var closeDayCmd = &cobra.Command{
	Use:   "close-day",
	Short: "Record today's totals in history and clear the meal lists",
	Long: `close-day closes the open day immediately. It refuses to close a day
unless calories, protein, carbs and fats are all nonzero.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), nil, func(svc *app.Services) error {
			entry, err := svc.DayCloser.CloseNow(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			return printJSON(entry)
		})
	},
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print the open day's totals and progress against goals",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), nil, func(svc *app.Services) error {
			today, err := svc.Totals.Today(cmd.Context())
			if err != nil {
				return err
			}
			progress, err := svc.Goals.Progress(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(map[string]any{"today": today, "progress": progress})
		})
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Add sample data",
}

var seedMealsCmd = &cobra.Command{
	Use:   "meals",
	Short: "Append the sample meals to the catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), nil, func(svc *app.Services) error {
			added, err := svc.Dev.SeedMeals(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("added %d meals\n", len(added))
			return nil
		})
	},
}

var seedHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Prepend seven days of sample history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), nil, func(svc *app.Services) error {
			entries, err := svc.Dev.SeedHistory(cmd.Context(), time.Now())
			if err != nil {
				return err
			}
			fmt.Printf("added %d history entries\n", len(entries))
			return nil
		})
	},
}

var storageSizeCmd = &cobra.Command{
	Use:   "storage-size",
	Short: "Print the total size of stored values in bytes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withServices(cmd.Context(), nil, func(svc *app.Services) error {
			size, err := svc.Dev.StorageSize(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("%d bytes\n", size)
			return nil
		})
	},
}

var resetForce bool

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete all stored data",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetForce {
			return errors.New("reset deletes all stored data; pass --force to confirm")
		}
		return withServices(cmd.Context(), nil, func(svc *app.Services) error {
			if err := svc.Dev.ResetAll(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("all data removed")
			return nil
		})
	},
}

func init() {
	resetCmd.Flags().BoolVar(&resetForce, "force", false, "Confirm deletion of all data")
}
