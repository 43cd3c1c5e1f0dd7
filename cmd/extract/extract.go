// Package extract contains the CLI command that converts statement files.
package extract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finwise/statement-extractor/cmd/root"
	"github.com/finwise/statement-extractor/internal/extract"
	"github.com/finwise/statement-extractor/internal/models"
	"github.com/finwise/statement-extractor/internal/textsource"
	"github.com/finwise/statement-extractor/internal/writer"
)

var (
	outputFlag string
	jsonFlag   bool
	textFlag   bool
	headerFlag bool

	// Cmd is the extract command.
	Cmd = &cobra.Command{
		Use:   "extract <input.pdf|input.txt> [more inputs...]",
		Short: "Extract transactions from statement PDFs or text files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
)

func init() {
	Cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output file path (defaults to input name with .csv/.json extension)")
	Cmd.Flags().BoolVar(&jsonFlag, "json", false, "Write JSON instead of CSV")
	Cmd.Flags().BoolVar(&textFlag, "text", false, "Treat inputs as plain statement text, skipping PDF extraction")
	Cmd.Flags().BoolVar(&headerFlag, "header", true, "Include statement metadata header rows in CSV")
}

func run(cmd *cobra.Command, args []string) error {
	svc := newService()
	for _, input := range args {
		if err := processFile(svc, input); err != nil {
			return fmt.Errorf("processing %s: %w", input, err)
		}
	}
	return nil
}

func newService() *extract.Service {
	ts := &textsource.Service{
		Layer:      &textsource.PDFReader{Log: root.Log},
		Log:        root.Log,
		MinTextLen: root.Cfg.Extract.MinTextLen,
		OCRPages:   root.Cfg.OCR.PageCap,
	}
	if root.Cfg.OCR.Enabled {
		ts.OCR = &textsource.TesseractOCR{Log: root.Log, DPI: root.Cfg.OCR.DPI}
	}
	return extract.NewService(ts, root.Log)
}

func processFile(svc *extract.Service, input string) error {
	if _, err := os.Stat(input); os.IsNotExist(err) {
		return fmt.Errorf("input file not found: %s", input)
	}

	var res *models.ExtractionResult
	if textFlag || strings.EqualFold(filepath.Ext(input), ".txt") {
		data, err := os.ReadFile(input)
		if err != nil {
			return err
		}
		res = svc.ExtractText(string(data))
	} else {
		res = svc.ExtractFile(input)
	}

	if !res.Success {
		color.Red("%s: %s", input, res.Error)
		return fmt.Errorf("%s", res.Error)
	}

	outPath := outputFlag
	if outPath == "" {
		ext := ".csv"
		if jsonFlag {
			ext = ".json"
		}
		outPath = strings.TrimSuffix(input, filepath.Ext(input)) + ext
	}

	if jsonFlag {
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			return err
		}
	} else {
		w := &writer.CSVWriter{IncludeStatementHeader: headerFlag}
		if err := w.WriteToFile(outPath, res); err != nil {
			return err
		}
	}

	printSummary(input, outPath, res)
	return nil
}

func printSummary(input, outPath string, res *models.ExtractionResult) {
	color.Green("%s: %d transaction(s) -> %s", input, len(res.Transactions), outPath)
	if res.Statement != nil {
		st := res.Statement
		if st.AccountNumber != "" {
			fmt.Printf("  Account: %s\n", st.AccountNumber)
		}
		if st.Period != "" {
			fmt.Printf("  Period:  %s\n", st.Period)
		}
		report := extract.Reconcile(st)
		if report.Balanced {
			color.Green("  Declared totals reconcile with parsed rows")
		} else {
			color.Yellow("  Declared totals differ from parsed rows (withdrawals %s, deposits %s)",
				report.WithdrawalDelta, report.DepositDelta)
		}
	}
	if len(res.Transactions) == 0 {
		color.Yellow("  No transactions found. The document may not match expected patterns.")
	}
}
