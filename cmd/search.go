package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/hh-matcher/internal/matching"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Find matches for one record described by a JSON request",
	Example: `  hh-matcher search --request seeker.json --reasons`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("request")

		var req matching.SearchRequest
		if err := readRequest(path, cmd.InOrStdin(), &req); err != nil {
			return err
		}

		if cmd.Flags().Changed("top-k") {
			req.TopK, _ = cmd.Flags().GetInt("top-k")
		}
		if cmd.Flags().Changed("reasons") {
			req.GenerateReasons, _ = cmd.Flags().GetBool("reasons")
		}

		_, c, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		resp, err := c.service.Search(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("request", "r", "-", "path to the JSON request, - for stdin")
	searchCmd.Flags().IntP("top-k", "k", 0, "number of matches (overrides top_k of the request)")
	searchCmd.Flags().Bool("reasons", false, "generate reasons for the top matches (overrides generate_reasons)")
}
