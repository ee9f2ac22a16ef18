package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newHealthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check backend liveness and readiness",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			live, err := apiClient.Healthz(ctx)
			if err != nil {
				return fmt.Errorf("liveness check failed: %w", err)
			}

			ready, err := apiClient.Readyz(ctx)
			if err != nil {
				fmt.Printf("Live:  %s (version %s)\n", live.Status, orDash(live.Version))
				return fmt.Errorf("readiness check failed: %w", err)
			}

			fmt.Printf("Live:  %s (version %s)\n", live.Status, orDash(live.Version))
			fmt.Printf("Ready: %s\n", ready.Status)
			return nil
		},
	}
}
