package main

import (
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

//go:embed scenarios/*.yaml
var builtins embed.FS

const (
	jsonKey    = "json"
	verboseKey = "verbose"
)

func main() {
	cmd := &cli.Command{
		Name:      "fiberdemo",
		Usage:     "Play render scenarios through a noop host and show every host mutation",
		ArgsUsage: "[scenario.yaml...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  jsonKey,
				Usage: "Print the tree as JSON after each step",
			},
			&cli.BoolFlag{
				Name:    verboseKey,
				Aliases: []string{"v"},
				Usage:   "Log render passes",
			},
		},
		Action: play,
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func play(ctx context.Context, cmd *cli.Command) error {
	level := zerolog.WarnLevel
	if cmd.Bool(verboseKey) {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()

	scenarios, err := loadAll(cmd.Args().Slice())
	if err != nil {
		return err
	}
	for _, s := range scenarios {
		results, err := Run(s, logger)
		printResults(os.Stdout, s, results, cmd.Bool(jsonKey))
		if err != nil {
			return err
		}
	}
	return nil
}

func loadAll(paths []string) ([]*Scenario, error) {
	var scenarios []*Scenario
	if len(paths) == 0 {
		entries, err := fs.ReadDir(builtins, "scenarios")
		if err != nil {
			return nil, err
		}
		for _, e := range entries {
			data, err := builtins.ReadFile(path.Join("scenarios", e.Name()))
			if err != nil {
				return nil, err
			}
			s, err := ParseScenario(data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", e.Name(), err)
			}
			scenarios = append(scenarios, s)
		}
		return scenarios, nil
	}
	for _, p := range paths {
		s, err := LoadScenario(p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

func printResults(w io.Writer, s *Scenario, results []StepResult, withJSON bool) {
	tbl := table.NewWriter()
	tbl.SetTitle(s.Name)
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"step", "action", "op", "node", "parent", "before"})
	for _, res := range results {
		if len(res.Ops) == 0 {
			tbl.AppendRow(table.Row{res.Step, res.Action, "-", "", "", ""})
		}
		for i, op := range res.Ops {
			step, action := any(res.Step), res.Action
			if i > 0 {
				step, action = "", ""
			}
			tbl.AppendRow(table.Row{step, action, op.Kind, op.Node, op.Parent, op.Before})
		}
		tbl.AppendRow(table.Row{"", "markup", res.Markup})
		if withJSON {
			tbl.AppendRow(table.Row{"", "json", string(res.JSON)})
		}
		tbl.AppendSeparator()
	}
	tbl.Render()
}
