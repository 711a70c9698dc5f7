package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jangbu-dev/jangbu/internal/cli"
	"github.com/jangbu-dev/jangbu/internal/party"
)

func partiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parties",
		Short: "Browse and search the party book",
	}

	cmd.AddCommand(partiesListCmd())
	cmd.AddCommand(partiesSearchCmd())

	return cmd
}

func partiesListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List parties by usage frequency",
		RunE: func(cmd *cobra.Command, _ []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return renderPartySearch(cmd, "", limit)
		},
	}

	cmd.Flags().Int("limit", 20, "maximum number of parties to show")
	return cmd
}

func partiesSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search parties by name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			limit, _ := cmd.Flags().GetInt("limit")
			return renderPartySearch(cmd, args[0], limit)
		},
	}

	cmd.Flags().Int("limit", 8, "maximum number of matches to show")
	return cmd
}

func renderPartySearch(cmd *cobra.Command, query string, limit int) error {
	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	resolver := party.NewResolver(store)
	parties, err := resolver.Suggest(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("failed to search parties: %w", err)
	}
	if len(parties) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("일치하는 거래처가 없습니다"))
		return nil
	}

	cli.RenderPartiesTable(cmd.OutOrStdout(), parties)
	return nil
}
