package cmd

import (
	"fmt"

	"github.com/k0kubun/pp/v3"
	"github.com/rvkit/rv32asm/asm"
	"github.com/urfave/cli/v2"
)

func CreateSymbolsCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "symbols",
		Usage:       "Runs the first pass only and dumps the symbol table",
		Description: "Runs the first pass only and dumps the symbol table",
		Action:      action,
		Flags: []cli.Flag{
			TargetProfileFlag,
			FormatFlag,
			ReportOutputPathFlag,
		},
	}
}

var SymbolsCommand = CreateSymbolsCommand(DumpSymbols)

func DumpSymbols(ctx *cli.Context) error {
	prof, err := loadProfile(ctx)
	if err != nil {
		return fmt.Errorf("error loading profile: %w", err)
	}

	source := ctx.Args().First()
	if source == "" {
		return fmt.Errorf("missing source file argument")
	}
	lines, err := readLines(source)
	if err != nil {
		return fmt.Errorf("error reading source: %w", err)
	}

	symbols, diags := asm.New(prof).BuildSymbols(lines)
	if len(diags) > 0 {
		format := ctx.String(FormatFlag.Name)
		reportOutputPath := ctx.Path(ReportOutputPathFlag.Name)
		if err := writeReport(diags, format, reportOutputPath, prof); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
		return fmt.Errorf("first pass failed with %d error(s)", len(diags))
	}

	pp.Println(symbols)
	return nil
}
