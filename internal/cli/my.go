package cli

import (
	"github.com/spf13/cobra"

	"github.com/kurusugawa-computer/annowork-cli/internal/reportio"
)

func newMyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "my",
		Short: "Subcommands about the logged-in account",
	}
	cmd.AddCommand(newMyGetCmd())
	return cmd
}

func newMyGetCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get",
		Short: "Output the logged-in account as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			cl, err := buildClient()
			if err != nil {
				return err
			}
			account, err := cl.GetMyAccount(cmd.Context())
			if err != nil {
				return err
			}

			w, err := reportio.Open(output)
			if err != nil {
				return err
			}
			defer func() { _ = w.Close() }()
			return reportio.WriteJSON(w, account)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default: stdout)")
	return cmd
}
