// cmd/matcher/recalculate.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	refreshprofile "subsidy-matcher/internal/pipeline/refresh-profile"
)

var recalculateMode string

var recalculateCmd = &cobra.Command{
	Use:   "recalculate <profile-id>",
	Short: "Recalculate subsidy matches for a single profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		return recalculate(args[0], recalculateMode)
	},
}

func init() {
	recalculateCmd.Flags().StringVar(&recalculateMode, "mode", refreshprofile.ModeFull,
		`refresh mode: "full" rescans the whole catalog, "incremental" only programs added since the last refresh`)
	rootCmd.AddCommand(recalculateCmd)
}

func recalculate(profileID, mode string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	output, err := a.refresher.Execute(ctx, &refreshprofile.Input{
		ProfileID: profileID,
		Mode:      mode,
	})
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
