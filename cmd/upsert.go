package cmd

import (
	"github.com/spf13/cobra"

	"github.com/spigell/hh-matcher/internal/matching"
)

var upsertCmd = &cobra.Command{
	Use:   "upsert",
	Short: "Index one record described by a JSON request",
	Example: `  hh-matcher upsert --request job.json
  echo '{"record_id":"J1","record_type":"JOB","record":{"title":"Go developer"}}' | hh-matcher upsert -r -`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, _ := cmd.Flags().GetString("request")

		var req matching.UpsertRequest
		if err := readRequest(path, cmd.InOrStdin(), &req); err != nil {
			return err
		}

		_, c, err := setup(cmd.Context())
		if err != nil {
			return err
		}
		defer c.Close()

		resp, err := c.service.Upsert(cmd.Context(), req)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	},
}

func init() {
	rootCmd.AddCommand(upsertCmd)

	upsertCmd.Flags().StringP("request", "r", "-", "path to the JSON request, - for stdin")
}
