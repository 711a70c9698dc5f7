package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/jangbu-dev/jangbu/internal/cli"
	"github.com/jangbu-dev/jangbu/internal/common"
	"github.com/jangbu-dev/jangbu/internal/config"
	"github.com/jangbu-dev/jangbu/internal/engine"
	"github.com/jangbu-dev/jangbu/internal/events"
	"github.com/jangbu-dev/jangbu/internal/grid"
	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/party"
	"github.com/jangbu-dev/jangbu/internal/tui"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import transactions from a bank or card spreadsheet",
		Long: `Parse a downloaded transaction spreadsheet, preview the rows with their
classification and extracted counterparties, and commit the selection to
the ledger.

By default an interactive preview opens. With --yes the selection given
via --rows or --all is committed directly.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Int("start-row", 0, "1-based row where transaction data begins (header is the row above; default from config)")
	cmd.Flags().String("account", "", "account label for this batch (default: first configured account)")
	cmd.Flags().String("rows", "", "comma-separated absolute row numbers to import (non-interactive)")
	cmd.Flags().Bool("all", false, "import every data row (non-interactive)")
	cmd.Flags().BoolP("yes", "y", false, "commit without the interactive preview")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	startRow, _ := cmd.Flags().GetInt("start-row")
	if startRow <= 0 {
		startRow = config.DefaultStartRow()
	}
	account, _ := cmd.Flags().GetString("account")
	if account == "" {
		account = config.Accounts()[0]
	}

	g, err := grid.ParseFile(args[0])
	if err != nil {
		return common.NewUserError(fmt.Sprintf("failed to parse %s", args[0]), err)
	}
	if len(g) == 0 {
		return fmt.Errorf("spreadsheet %s has no rows", args[0])
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	resolver := party.NewResolver(store)
	eng := engine.NewEngine(store, resolver, events.NewBus(), nil)
	preview := engine.NewPreview(g, startRow)

	nonInteractive, _ := cmd.Flags().GetBool("yes")
	if !nonInteractive {
		count, err := tui.Run(ctx, tui.Config{
			Preview:  preview,
			Engine:   eng,
			Resolver: resolver,
			Account:  account,
			Accounts: config.Accounts(),
		})
		if err != nil {
			return err
		}
		if count > 0 {
			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d건 저장 완료", count)))
		}
		return nil
	}

	if err := selectRows(cmd, preview); err != nil {
		return err
	}

	bar := progressbar.NewOptions(preview.SelectedCount(),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Classifying rows..."),
	)
	var expenses, incomes, reviews int
	for abs := preview.BodyFrom(); abs < len(preview.Grid); abs++ {
		if !preview.Selected[abs] {
			continue
		}
		switch preview.RowKind(abs) {
		case model.KindExpense:
			expenses++
		case model.KindIncome:
			incomes++
		case model.KindReview:
			reviews++
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(cmd.ErrOrStderr())
	if reviews > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(fmt.Sprintf("확인요망 %d건 포함", reviews)))
	}
	fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatInfo(fmt.Sprintf("비용 %d건, 매출 %d건", expenses, incomes)))

	count, err := eng.Commit(ctx, preview, account)
	if err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d건 저장 완료 (계좌: %s)", count, account)))
	return nil
}

// selectRows applies the --rows / --all selection to the preview.
func selectRows(cmd *cobra.Command, preview *engine.Preview) error {
	all, _ := cmd.Flags().GetBool("all")
	if all {
		preview.SelectAll(true)
		return nil
	}

	rowsFlag, _ := cmd.Flags().GetString("rows")
	if rowsFlag == "" {
		return fmt.Errorf("--yes requires --rows or --all")
	}

	for _, part := range strings.Split(rowsFlag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return fmt.Errorf("invalid row number %q", part)
		}
		abs := n - 1
		if abs < preview.BodyFrom() || abs >= len(preview.Grid) {
			return fmt.Errorf("row %d is outside the data range", n)
		}
		preview.Selected[abs] = true
	}

	if preview.SelectedCount() == 0 {
		return fmt.Errorf("no rows selected")
	}
	return nil
}
