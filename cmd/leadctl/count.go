package main

import (
	"fmt"

	"nasu-match/internal/usecase"

	"github.com/spf13/cobra"
)

var countCmd = &cobra.Command{
	Use:   "count",
	Short: "Print the potential lead count of a store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, _ := cmd.Flags().GetString("store")

		c, _, err := openContainer()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", store, c.Leads.GetCount(cmd.Context(), store))
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record matched users for a store",
	RunE: func(cmd *cobra.Command, _ []string) error {
		store, _ := cmd.Flags().GetString("store")
		user, _ := cmd.Flags().GetString("user")
		actual, _ := cmd.Flags().GetInt("count")
		score, _ := cmd.Flags().GetInt("score")

		c, _, err := openContainer()
		if err != nil {
			return err
		}
		defer func() { _ = c.Close() }()

		potential, err := c.Leads.Record(cmd.Context(), usecase.RecordLeadInput{
			StoreID:       store,
			ActualCount:   actual,
			MatchedUserID: user,
			MatchScore:    score,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t+%d\n", store, potential)
		return nil
	},
}

func init() {
	countCmd.Flags().StringP("store", "s", "", "store id")
	_ = countCmd.MarkFlagRequired("store")

	recordCmd.Flags().StringP("store", "s", "", "store id")
	recordCmd.Flags().StringP("user", "u", "", "matched user id")
	recordCmd.Flags().IntP("count", "n", 1, "number of actual matches")
	recordCmd.Flags().Int("score", 0, "match score of the user")
	_ = recordCmd.MarkFlagRequired("store")
	_ = recordCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(countCmd, recordCmd)
}
