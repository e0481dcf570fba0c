// Package cli implements the degview command-line interface for inspecting
// differential-expression tables without starting a server.
package cli

import (
	"fmt"
	"os"
	"strings"

	"degview/domain/contrast"
	"degview/domain/deg"
	"degview/internal/summary"
	"degview/internal/table"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	header  = color.New(color.FgCyan, color.Bold)
	upText  = color.New(color.FgRed)
	downTxt = color.New(color.FgBlue)
	dimText = color.New(color.Faint)
)

// NewRootCmd builds the degview-cli command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "degview-cli",
		Short: "Inspect differential-expression tables from the terminal",
		Long: `degview-cli loads a limma/edgeR/DESeq2-style result table and reports
its contrasts, gene column, derived DEG tables, and per-contrast summaries.

Thresholds and the separator can also be set via DEGVIEW_* environment
variables (e.g. DEGVIEW_SEP, DEGVIEW_THR_LOGFC, DEGVIEW_THR_PADJ).`,
	}

	rootCmd.PersistentFlags().String("sep", table.SepAuto, `Separator: auto, a literal character, or \t`)
	rootCmd.PersistentFlags().Float64("thr-logfc", deg.DefaultThresholds().LogFC, "Minimum |logFC| for significance")
	rootCmd.PersistentFlags().Float64("thr-padj", deg.DefaultThresholds().Padj, "Maximum adjusted p-value for significance")

	viper.SetEnvPrefix("DEGVIEW")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	_ = viper.BindPFlag("sep", rootCmd.PersistentFlags().Lookup("sep"))
	_ = viper.BindPFlag("thr-logfc", rootCmd.PersistentFlags().Lookup("thr-logfc"))
	_ = viper.BindPFlag("thr-padj", rootCmd.PersistentFlags().Lookup("thr-padj"))

	rootCmd.AddCommand(
		newDetectCmd(),
		newGenesCmd(),
		newDegCmd(),
		newSummaryCmd(),
	)
	return rootCmd
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newDetectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect [file]",
		Short: "List the contrasts detected in a result table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadFile(args[0])
			if err != nil {
				return err
			}

			info := contrast.Detect(tbl.ColumnNames())
			if info.Empty() {
				dimText.Println("no contrasts detected")
				return nil
			}

			header.Printf("%-40s %-30s %s\n", "CONTRAST", "LOGFC COLUMN", "P COLUMN")
			for _, id := range info.IDs {
				roles := info.Roles[id]
				fmt.Printf("%-40s %-30s %s\n", contrast.DisplayName(id), roles.LogFC, roles.PadjColumn())
			}
			return nil
		},
	}
}

func newGenesCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "genes [file]",
		Short: "Show the resolved gene column and its distinct values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadFile(args[0])
			if err != nil {
				return err
			}

			geneCol, ok := contrast.ResolveGeneColumn(tbl.ColumnNames())
			if !ok {
				return fmt.Errorf("no gene column found among: %s", strings.Join(tbl.ColumnNames(), ", "))
			}

			genes := tbl.DistinctValues(geneCol)
			header.Printf("gene column %q (%d distinct)\n", geneCol, len(genes))
			for i, g := range genes {
				if limit > 0 && i >= limit {
					dimText.Printf("... and %d more\n", len(genes)-limit)
					break
				}
				fmt.Println(g)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum genes to print (0 for all)")
	return cmd
}

func newDegCmd() *cobra.Command {
	var filtered bool
	var csvOut bool

	cmd := &cobra.Command{
		Use:   "deg [file] [contrast]",
		Short: "Print the derived DEG table for one contrast",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadFile(args[0])
			if err != nil {
				return err
			}

			info := contrast.Detect(tbl.ColumnNames())
			geneCol, ok := contrast.ResolveGeneColumn(tbl.ColumnNames())
			if !ok {
				return fmt.Errorf("no gene column found")
			}

			built, err := deg.Build(tbl, geneCol, args[1], info)
			if err != nil {
				return err
			}

			thr := thresholds()
			if csvOut {
				if filtered {
					return deg.WriteClassifiedCSV(os.Stdout, deg.FilterClassified(built, thr))
				}
				return deg.WriteCSV(os.Stdout, built)
			}

			rows := deg.ClassifyAll(built, thr)
			if filtered {
				rows = deg.FilterClassified(built, thr)
			}

			header.Printf("%-20s %10s %10s %12s %8s\n", "GENE", "LOGFC", "AVEEXPR", "ADJ.P.VAL", "CAT")
			for _, r := range rows {
				line := fmt.Sprintf("%-20s %10s %10s %12s %8s",
					r.Gene, fmtNum(r.LogFC), fmtNum(r.AveExpr), fmtNum(r.Padj), r.Category)
				switch r.Category {
				case deg.CategoryUp:
					upText.Println(line)
				case deg.CategoryDown:
					downTxt.Println(line)
				default:
					fmt.Println(line)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&filtered, "filtered", false, "Only significant genes, sorted by adj.P.Val")
	cmd.Flags().BoolVar(&csvOut, "csv", false, "Emit CSV instead of the formatted table")
	return cmd
}

func newSummaryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "summary [file]",
		Short: "Summarize every contrast under the active thresholds",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := loadFile(args[0])
			if err != nil {
				return err
			}

			info := contrast.Detect(tbl.ColumnNames())
			if info.Empty() {
				dimText.Println("no contrasts detected")
				return nil
			}
			geneCol, ok := contrast.ResolveGeneColumn(tbl.ColumnNames())
			if !ok {
				return fmt.Errorf("no gene column found")
			}

			thr := thresholds()
			summaries := summary.SummarizeAll(info, thr, func(id string) (deg.Table, error) {
				return deg.Build(tbl, geneCol, id, info)
			})

			header.Printf("%-40s %7s %5s %5s %7s %8s\n", "CONTRAST", "GENES", "UP", "DOWN", "NO SIG", "NO EVAL")
			for _, s := range summaries {
				fmt.Printf("%-40s %7d ", s.DisplayName, s.Genes)
				upText.Printf("%5d ", s.Up)
				downTxt.Printf("%5d ", s.Down)
				fmt.Printf("%7d %8d\n", s.NoSig, s.NoEval)
			}
			return nil
		},
	}
}

func loadFile(path string) (*table.Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	full, _, err := table.Load(content, path, viper.GetString("sep"), 0)
	if err != nil {
		return nil, err
	}
	return full, nil
}

func thresholds() deg.Thresholds {
	thr := deg.Thresholds{
		LogFC: viper.GetFloat64("thr-logfc"),
		Padj:  viper.GetFloat64("thr-padj"),
	}
	if !thr.Valid() {
		return deg.DefaultThresholds()
	}
	return thr
}

func fmtNum(v float64) string {
	if v != v {
		return "NA"
	}
	return fmt.Sprintf("%.4g", v)
}
