package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/good-yellow-bee/hwportal/internal/models"
)

var (
	poolDBPath   string
	poolName     string
	poolCapacity int
	poolLimit    int
)

// poolCmd represents the pool command group
var poolCmd = &cobra.Command{
	Use:   "pool",
	Short: "Hardware pool management commands",
	Long: `Commands for managing hardware pools.

These commands operate directly on the database file. Pools created
here become immediately available for checkout through the API.

Examples:
  # List all pools
  hwctl pool list

  # Add a pool with 100 units
  hwctl pool create --name HWSET3 --capacity 100

  # Show recent checkout activity for a pool
  hwctl pool activity --name HWSET1`,
}

// poolListCmd lists all hardware pools
var poolListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all hardware pools",
	Long: `List all hardware pools with capacity and usage.

Example:
  hwctl pool list`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openDatabase(poolDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()
		pools, err := store.Pools().List(ctx)
		if err != nil {
			return fmt.Errorf("list pools: %w", err)
		}

		if len(pools) == 0 {
			fmt.Println("No pools found.")
			return nil
		}

		fmt.Printf("\n%-20s  %10s  %12s  %10s\n", "NAME", "CAPACITY", "CHECKED OUT", "AVAILABLE")
		fmt.Println(strings.Repeat("-", 60))

		for _, p := range pools {
			fmt.Printf("%-20s  %10d  %12d  %10d\n",
				p.Name, p.Capacity, p.CheckedOut, p.Available())
		}
		fmt.Printf("\nTotal: %d pool(s)\n", len(pools))

		return nil
	},
}

// poolCreateCmd adds a hardware pool
var poolCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new hardware pool",
	Long: `Create a new hardware pool with the given capacity.

All units start available. Capacity cannot be changed afterwards
except by direct database edits.

Example:
  hwctl pool create --name HWSET3 --capacity 100`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if poolName == "" {
			return fmt.Errorf("--name is required")
		}
		if poolCapacity < 0 {
			return fmt.Errorf("--capacity must not be negative")
		}

		store, err := openDatabase(poolDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		existing, err := store.Pools().GetByName(ctx, poolName)
		if err != nil {
			return fmt.Errorf("check pool: %w", err)
		}
		if existing != nil {
			return fmt.Errorf("pool '%s' already exists", poolName)
		}

		pool := models.NewHardwarePool(poolName, poolCapacity)
		if err := store.Pools().Create(ctx, pool); err != nil {
			return fmt.Errorf("create pool: %w", err)
		}

		fmt.Printf("\nPool created successfully:\n")
		fmt.Printf("  Name:     %s\n", pool.Name)
		fmt.Printf("  Capacity: %d\n", pool.Capacity)

		return nil
	},
}

// poolActivityCmd shows recent checkout activity for a pool
var poolActivityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent checkout activity for a pool",
	Long: `Show the most recent checkout and checkin events for a pool,
newest first.

Example:
  hwctl pool activity --name HWSET1 --limit 20`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if poolName == "" {
			return fmt.Errorf("--name is required")
		}
		if poolLimit < 1 {
			return fmt.Errorf("--limit must be at least 1")
		}

		store, err := openDatabase(poolDBPath)
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := context.Background()

		pool, err := store.Pools().GetByName(ctx, poolName)
		if err != nil {
			return fmt.Errorf("get pool: %w", err)
		}
		if pool == nil {
			return fmt.Errorf("pool '%s' not found", poolName)
		}

		events, err := store.Events().ListByPool(ctx, poolName, poolLimit)
		if err != nil {
			return fmt.Errorf("list events: %w", err)
		}

		if len(events) == 0 {
			fmt.Printf("No activity for pool '%s'.\n", poolName)
			return nil
		}

		fmt.Printf("\n%-19s  %-8s  %8s  %s\n", "TIME", "ACTION", "QUANTITY", "USER")
		fmt.Println(strings.Repeat("-", 80))

		for _, e := range events {
			fmt.Printf("%-19s  %-8s  %8d  %s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.Action,
				e.Quantity,
				e.UserID,
			)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(poolCmd)
	poolCmd.AddCommand(poolListCmd)
	poolCmd.AddCommand(poolCreateCmd)
	poolCmd.AddCommand(poolActivityCmd)

	for _, cmd := range []*cobra.Command{poolListCmd, poolCreateCmd, poolActivityCmd} {
		cmd.Flags().StringVar(&poolDBPath, "db", defaultDBPath, "path to SQLite database file")
	}

	poolCreateCmd.Flags().StringVar(&poolName, "name", "", "pool name (required)")
	poolCreateCmd.Flags().IntVar(&poolCapacity, "capacity", 0, "total units in the pool")
	poolCreateCmd.MarkFlagRequired("name")

	poolActivityCmd.Flags().StringVar(&poolName, "name", "", "pool name (required)")
	poolActivityCmd.Flags().IntVar(&poolLimit, "limit", 20, "number of events to show")
	poolActivityCmd.MarkFlagRequired("name")
}
