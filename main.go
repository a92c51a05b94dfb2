package main

import (
	"context"
	"log"
	"os"

	"github.com/rvkit/rv32asm/cmd"
	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()
	app.Name = os.Args[0]
	app.Usage = "RV32I Assembler"
	app.Description = "Two-pass assembler for the RISC-V RV32I base instruction set"
	app.Commands = []*cli.Command{
		cmd.AssembleCommand,
		cmd.SymbolsCommand,
	}
	err := app.RunContext(context.Background(), os.Args)
	if err != nil {
		log.Fatal(err)
	}
}
