package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newResultsCmd() *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show assessment results for the signed-in profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = viper.GetString("auth.email")
			}

			results, err := apiClient.Results(context.Background(), email)
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(results)
			}

			fmt.Printf("Email:       %s\n", results.Email)
			fmt.Printf("Type:        %s\n", orDash(results.MBTIType))
			fmt.Printf("Completed:   %v\n", results.AssessmentCompleted)
			if results.CompletedAt != nil {
				fmt.Printf("Finished at: %s\n", results.CompletedAt.Format("2006-01-02 15:04"))
			}

			if len(results.SkillRatings) > 0 {
				fmt.Println()
				table := NewTable("SKILL", "RATING")
				for skill, rating := range results.SkillRatings {
					table.AddRow(skill, fmt.Sprintf("%.1f", rating))
				}
				table.Render()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "profile email (defaults to the signed-in account)")

	return cmd
}

func newGuidanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "guidance",
		Short: "Show generated career guidance",
		RunE: func(cmd *cobra.Command, args []string) error {
			guidance, err := apiClient.Guidance(context.Background(), viper.GetString("auth.email"))
			if err != nil {
				return err
			}

			if getOutputFormat() != "table" {
				return printOutput(guidance)
			}

			if guidance.Status == "processing" {
				fmt.Println("Guidance is still being generated; try again shortly.")
				return nil
			}

			fmt.Println(guidance.CareerGuidance)
			if len(guidance.LearningResources) > 0 {
				fmt.Println()
				table := NewTable("RESOURCE", "PLATFORM", "DIFFICULTY")
				for _, res := range guidance.LearningResources {
					table.AddRow(res.Title, orDash(res.Platform), orDash(res.Difficulty))
				}
				table.Render()
			}
			return nil
		},
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
