package main

import (
	"bufio"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/jangbu-dev/jangbu/internal/cli"
	"github.com/jangbu-dev/jangbu/internal/engine"
	"github.com/jangbu-dev/jangbu/internal/model"
	"github.com/jangbu-dev/jangbu/internal/service"
)

func recordsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "records",
		Short: "List, inspect, and maintain ledger records",
	}

	cmd.AddCommand(recordsListCmd())
	cmd.AddCommand(recordsShowCmd())
	cmd.AddCommand(recordsEditCmd())
	cmd.AddCommand(recordsByPartyCmd())
	cmd.AddCommand(recordsSummaryCmd())
	cmd.AddCommand(recordsClearCmd())
	cmd.AddCommand(recordsExportCmd())

	return cmd
}

func recordsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all ledger records",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.GetAllRecords(ctx)
			if err != nil {
				return fmt.Errorf("failed to load records: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("저장된 거래가 없습니다"))
				return nil
			}

			cli.RenderRecordsTable(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func recordsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one record in detail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid record id %q", args[0])
			}

			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			rec, err := store.GetRecordByID(ctx, id)
			if err != nil {
				return err
			}

			content := fmt.Sprintf("일시: %s\n내용: %s\n지급: %s\n입금: %s\n구분: %s\n거래처: %s\n계좌: %s",
				rec.TransactionTime,
				rec.Description,
				cli.FormatAmount(rec.DebitAmount),
				cli.FormatAmount(rec.CreditAmount),
				rec.Kind.Label(),
				rec.PartyName,
				rec.Account)
			if rec.Memo != "" {
				content += fmt.Sprintf("\n메모: %s", rec.Memo)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(fmt.Sprintf("거래 #%d", rec.ID), content))
			return nil
		},
	}
}

func recordsEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a record's party, memo, or kind",
		Args:  cobra.ExactArgs(1),
		RunE:  runRecordsEdit,
	}

	cmd.Flags().String("party", "", "new party name (resolved against the party book)")
	cmd.Flags().String("memo", "", "new memo text")
	cmd.Flags().String("kind", "", "new kind (expense, income, review)")

	return cmd
}

func runRecordsEdit(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid record id %q", args[0])
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var patch service.RecordPatch

	if cmd.Flags().Changed("party") {
		name, _ := cmd.Flags().GetString("party")
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("party name cannot be empty")
		}
		pty, err := store.CreateParty(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to resolve party: %w", err)
		}
		patch.PartyID = &pty.ID
		patch.PartyName = &pty.Name
	}

	if cmd.Flags().Changed("memo") {
		memo, _ := cmd.Flags().GetString("memo")
		patch.Memo = &memo
	}

	if cmd.Flags().Changed("kind") {
		raw, _ := cmd.Flags().GetString("kind")
		kind := model.Kind(strings.ToUpper(strings.TrimSpace(raw)))
		if !kind.Valid() {
			return fmt.Errorf("invalid kind %q (expense, income, review)", raw)
		}
		patch.Kind = &kind
	}

	if patch.IsEmpty() {
		return fmt.Errorf("nothing to change: pass --party, --memo, or --kind")
	}

	if err := store.UpdateRecord(ctx, id, patch); err != nil {
		return fmt.Errorf("failed to update record %d: %w", id, err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("거래 #%d 수정 완료", id)))
	return nil
}

func recordsByPartyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "by-party <name>",
		Short: "List records linked to one party",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			pty, err := store.GetPartyByNameNorm(ctx, model.NormalizePartyName(args[0]))
			if err != nil {
				return fmt.Errorf("failed to look up party: %w", err)
			}
			if pty == nil {
				return fmt.Errorf("no party matches %q", args[0])
			}

			records, err := engine.RecordsForParty(ctx, store, pty.ID)
			if err != nil {
				return fmt.Errorf("failed to load records: %w", err)
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo(fmt.Sprintf("'%s' 거래 없음", pty.Name)))
				return nil
			}

			cli.RenderRecordsTable(cmd.OutOrStdout(), records)
			return nil
		},
	}
}

func recordsSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Aggregate records by party",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			summaries, err := engine.SummarizeByParty(ctx, store)
			if err != nil {
				return fmt.Errorf("failed to summarize: %w", err)
			}
			if len(summaries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("저장된 거래가 없습니다"))
				return nil
			}

			cli.RenderSummaryTable(cmd.OutOrStdout(), summaries)
			return nil
		},
	}
}

func recordsClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete every ledger record",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			yes, _ := cmd.Flags().GetBool("yes")
			if !yes {
				fmt.Fprint(cmd.OutOrStdout(), cli.FormatPrompt("모든 거래를 삭제할까요? (y/N)"))
				reader := bufio.NewReader(cmd.InOrStdin())
				line, _ := reader.ReadString('\n')
				if strings.ToLower(strings.TrimSpace(line)) != "y" {
					fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("취소되었습니다"))
					return nil
				}
			}

			count, err := store.DeleteAllRecords(ctx)
			if err != nil {
				return fmt.Errorf("failed to clear records: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d건 삭제 완료", count)))
			return nil
		},
	}

	cmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")
	return cmd
}

func recordsExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file.xlsx>",
		Short: "Export all records to a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			records, err := store.GetAllRecords(ctx)
			if err != nil {
				return fmt.Errorf("failed to load records: %w", err)
			}

			if err := writeRecordsWorkbook(args[0], records); err != nil {
				return fmt.Errorf("failed to write %s: %w", args[0], err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("%d건을 %s로 내보냈습니다", len(records), args[0])))
			return nil
		},
	}
}

func writeRecordsWorkbook(path string, records []model.Record) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const sheet = "거래내역"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	header := []any{"ID", "거래일시", "기재내용", "지급(원)", "입금(원)", "구분", "거래처", "계좌", "메모"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []any{
			rec.ID,
			rec.TransactionTime,
			rec.Description,
			rec.DebitAmount,
			rec.CreditAmount,
			rec.Kind.Label(),
			rec.PartyName,
			rec.Account,
			rec.Memo,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
