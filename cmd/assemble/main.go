// Command assemble turns an ARM64-subset source file into a raw word
// stream, optionally alongside a disassembly listing. Grounded on
// cmd/asm68/main.go's read-source/assemble/write-output shape, with
// argument handling moved onto urfave/cli and diagnostics onto logrus the
// way chriskillpack-bbcdisasm and weiyilai-calico wire those libraries.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/Urethramancer/arm64sim/assembler"
	"github.com/Urethramancer/arm64sim/disassembler"
)

var log = logrus.New()

func main() {
	app := cli.NewApp()
	app.Name = "assemble"
	app.Usage = "assemble an ARM64-subset source file into a raw word binary"
	app.UsageText = "assemble [-v] <source> <binary> [<listing>]"
	app.ArgsUsage = "<source> <binary> [<listing>]"
	app.Flags = []cli.Flag{
		cli.BoolFlag{Name: "v", Usage: "enable verbose logging"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	log.SetLevel(logrus.WarnLevel)
	if c.Bool("v") {
		log.SetLevel(logrus.DebugLevel)
	}

	if c.NArg() < 2 || c.NArg() > 3 {
		cli.ShowAppHelp(c)
		return cli.NewExitError("expected <source> <binary> [<listing>]", 1)
	}

	sourcePath := c.Args().Get(0)
	binaryPath := c.Args().Get(1)
	listingPath := c.Args().Get(2)

	log.Debugf("reading source from %s", sourcePath)
	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("reading source: %v", err), 1)
	}

	asm := assembler.New(assembler.WithLogger(log))
	result, err := asm.Assemble(string(src))
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("assembly failed: %v", err), 1)
	}
	log.Debugf("assembled %d words", len(result.Words))

	if err := os.WriteFile(binaryPath, result.Bytes(), 0644); err != nil {
		return cli.NewExitError(fmt.Sprintf("writing binary: %v", err), 1)
	}
	log.Debugf("wrote binary to %s", binaryPath)

	if listingPath != "" {
		listing := disassembler.Listing(result.Words, result.Instrs)
		if err := os.WriteFile(listingPath, []byte(listing), 0644); err != nil {
			return cli.NewExitError(fmt.Sprintf("writing listing: %v", err), 1)
		}
		log.Debugf("wrote listing to %s", listingPath)
	}

	return nil
}
