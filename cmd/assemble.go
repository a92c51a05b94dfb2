// Package cmd defines all the commands for the cli
package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rvkit/rv32asm/asm"
	"github.com/rvkit/rv32asm/diag"
	"github.com/rvkit/rv32asm/profile"
	"github.com/rvkit/rv32asm/renderer"
	"github.com/rvkit/rv32asm/writer"
	"github.com/urfave/cli/v2"
)

var (
	TargetProfileFlag = &cli.PathFlag{
		Name:     "target-profile",
		Usage:    "Path to the target profile config file",
		Required: false,
	}
	HexOutputFlag = &cli.PathFlag{
		Name:     "hex-output-path",
		Usage:    "File path for the hex word listing. Default: source name with .hex",
		Required: false,
	}
	BinOutputFlag = &cli.PathFlag{
		Name:     "bin-output-path",
		Usage:    "File path for the binary word listing. Default: source name with .bin",
		Required: false,
	}
	FormatFlag = &cli.StringFlag{
		Name:        "format",
		Usage:       "format of the diagnostic report. Options: json, text",
		Required:    false,
		DefaultText: "text",
	}
	ReportOutputPathFlag = &cli.PathFlag{
		Name:     "report-output-path",
		Usage:    "output file path for the diagnostic report. Default: stdout",
		Required: false,
	}
)

func CreateAssembleCommand(action cli.ActionFunc) *cli.Command {
	return &cli.Command{
		Name:        "assemble",
		Usage:       "Assembles an RV32I source file into hex and binary word listings",
		Description: "Assembles an RV32I source file into hex and binary word listings",
		Action:      action,
		Flags: []cli.Flag{
			TargetProfileFlag,
			HexOutputFlag,
			BinOutputFlag,
			FormatFlag,
			ReportOutputPathFlag,
		},
	}
}

var AssembleCommand = CreateAssembleCommand(AssembleSource)

func AssembleSource(ctx *cli.Context) error {
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

	code, diags := asm.New(prof).Assemble(lines)
	if len(diags) > 0 {
		format := ctx.String(FormatFlag.Name)
		reportOutputPath := ctx.Path(ReportOutputPathFlag.Name)
		if err := writeReport(diags, format, reportOutputPath, prof); err != nil {
			return fmt.Errorf("unable to write report: %w", err)
		}
		return fmt.Errorf("assembly failed with %d error(s)", len(diags))
	}

	hexPath := ctx.Path(HexOutputFlag.Name)
	if hexPath == "" {
		hexPath = replaceExt(source, ".hex")
	}
	binPath := ctx.Path(BinOutputFlag.Name)
	if binPath == "" {
		binPath = replaceExt(source, ".bin")
	}
	if err := writer.WriteFiles(hexPath, binPath, code); err != nil {
		return fmt.Errorf("error writing output files: %w", err)
	}
	return nil
}

func loadProfile(ctx *cli.Context) (*profile.TargetProfile, error) {
	path := ctx.Path(TargetProfileFlag.Name)
	if path == "" {
		return profile.Default(), nil
	}
	return profile.Load(path)
}

// readLines loads the source file as raw lines; all further parsing
// belongs to the core.
func readLines(path string) ([]string, error) {
	fpath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("error resolving absolute filepath: %w", err)
	}

	codefile, err := os.Open(fpath)
	if err != nil {
		return nil, fmt.Errorf("error opening file: %w", err)
	}
	defer func() {
		_ = codefile.Close()
	}()

	var lines []string
	scanner := bufio.NewScanner(codefile)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	return lines, nil
}

func replaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// writeReport outputs the diagnostics in the specified format.
func writeReport(diags []*diag.Diagnostic, format, outputPath string, prof *profile.TargetProfile) error {
	var output *os.File
	if outputPath == "" {
		output = os.Stdout
	} else {
		absPath, err := filepath.Abs(outputPath)
		if err != nil {
			return fmt.Errorf("unable to determine absolute path: %w", err)
		}
		output, err = os.OpenFile(absPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("unable to open output file: %w", err)
		}
		defer func() {
			_ = output.Close()
		}()
	}

	var rendererInstance renderer.Renderer
	switch format {
	case "", "text":
		rendererInstance = renderer.NewTextRenderer(prof)
	case "json":
		rendererInstance = renderer.NewJSONRenderer()
	default:
		return fmt.Errorf("invalid format: %s", format)
	}

	return rendererInstance.Render(diags, output)
}
