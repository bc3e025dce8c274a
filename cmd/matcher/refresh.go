// cmd/matcher/refresh.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	batchrefresh "subsidy-matcher/internal/pipeline/batch-refresh"
)

var refreshPartition string

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Run one batch refresh pass over stale profiles",
	RunE: func(_ *cobra.Command, _ []string) error {
		return refresh(refreshPartition)
	},
}

func init() {
	refreshCmd.Flags().StringVar(&refreshPartition, "partition", "",
		`partition to process: 0..6, "auto" for today's, empty for all`)
	rootCmd.AddCommand(refreshCmd)
}

func refresh(partition string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer cancel()

	output, err := a.batch.Execute(ctx, &batchrefresh.Input{Partition: partition})
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
