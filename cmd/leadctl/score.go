package main

import (
	"encoding/json"
	"fmt"

	"nasu-match/internal/app"
	"nasu-match/internal/config"
	"nasu-match/internal/domain/matching"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type candidateFile struct {
	DesiredSalary     int      `mapstructure:"desiredSalary"`
	DesiredCategories []string `mapstructure:"desiredCategories"`
	Skills            []string `mapstructure:"skills"`
	Location          string   `mapstructure:"location"`
}

type jobFile struct {
	MaxSalary      int      `mapstructure:"maxSalary"`
	Category       string   `mapstructure:"category"`
	RequiredSkills []string `mapstructure:"requiredSkills"`
	Location       string   `mapstructure:"location"`
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a candidate against a job (JSON or YAML files) with the SCORE_* weights",
	RunE: func(cmd *cobra.Command, _ []string) error {
		candPath, _ := cmd.Flags().GetString("candidate")
		jobPath, _ := cmd.Flags().GetString("job")

		var cand candidateFile
		if err := readInto(candPath, &cand); err != nil {
			return fmt.Errorf("reading candidate: %w", err)
		}
		var job jobFile
		if err := readInto(jobPath, &job); err != nil {
			return fmt.Errorf("reading job: %w", err)
		}

		sc, err := config.LoadScoring()
		if err != nil {
			return fmt.Errorf("loading scoring config: %w", err)
		}

		res := matching.NewScorer(app.ScorerWeights(sc)).Score(
			matching.Candidate{
				DesiredSalary:     cand.DesiredSalary,
				DesiredCategories: cand.DesiredCategories,
				Skills:            cand.Skills,
				Location:          cand.Location,
			},
			matching.Job{
				MaxSalary:      job.MaxSalary,
				Category:       job.Category,
				RequiredSkills: job.RequiredSkills,
				Location:       job.Location,
			},
		)

		out, err := json.MarshalIndent(struct {
			Score   int      `json:"score"`
			Reasons []string `json:"reasons"`
		}{res.Score, res.Reasons}, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

// readInto decodes a JSON or YAML file chosen by its extension.
func readInto(path string, dst any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	return v.Unmarshal(dst)
}

func init() {
	scoreCmd.Flags().String("candidate", "", "candidate profile file")
	scoreCmd.Flags().String("job", "", "job posting file")
	_ = scoreCmd.MarkFlagRequired("candidate")
	_ = scoreCmd.MarkFlagRequired("job")

	rootCmd.AddCommand(scoreCmd)
}
