// Command emulate runs a raw word binary on the virtual CPU and dumps its
// final architectural state. Grounded on cmd/run68/main.go's
// load-run-dump shape, with argument handling on urfave/cli and
// diagnostics on logrus as in cmd/assemble.
package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"github.com/Urethramancer/arm64sim/cpu"
)

var log = logrus.New()

// maxSteps bounds the fetch-decode-execute loop so a program that never
// reaches the halt sentinel can't run forever. Grounded on run68's
// maxCycles flag default.
const maxSteps = 1000000

func main() {
	app := cli.NewApp()
	app.Name = "emulate"
	app.Usage = "run an ARM64-subset raw word binary and dump CPU state"
	app.UsageText = "emulate [-v] <binary> [<output>]"
	app.ArgsUsage = "<binary> [<output>]"
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

	if c.NArg() < 1 || c.NArg() > 2 {
		cli.ShowAppHelp(c)
		return cli.NewExitError("expected <binary> [<output>]", 1)
	}

	binaryPath := c.Args().Get(0)
	outputPath := c.Args().Get(1)

	f, err := os.Open(binaryPath)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("opening binary: %v", err), 1)
	}
	defer f.Close()

	vcpu := cpu.New(cpu.WithLogger(log))
	n, err := cpu.LoadBinary(vcpu.Mem, f)
	if err != nil {
		return cli.NewExitError(fmt.Sprintf("loading binary: %v", err), 1)
	}
	log.Debugf("loaded %d words", n)

	runErr := vcpu.Emulate(maxSteps)
	if runErr != nil && !vcpu.Fail {
		return cli.NewExitError(fmt.Sprintf("emulation aborted: %v", runErr), 1)
	}
	if vcpu.Fail {
		log.Debugf("execution failed at pc 0x%x: %v", vcpu.PC, runErr)
	}

	out := os.Stdout
	if outputPath != "" {
		out, err = os.Create(outputPath)
		if err != nil {
			return cli.NewExitError(fmt.Sprintf("creating output: %v", err), 1)
		}
		defer out.Close()
	}

	if err := vcpu.Dump(out); err != nil {
		return cli.NewExitError(fmt.Sprintf("writing dump: %v", err), 1)
	}

	if vcpu.Fail {
		return cli.NewExitError("execution failed", 1)
	}
	return nil
}
