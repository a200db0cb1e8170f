package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/zoobzio/replica"
)

var strategyNotes = []struct {
	Strategy replica.Strategy
	Note     string
}{
	{replica.StrategyShallow, "bitwise copy, referents stay shared"},
	{replica.StrategyClone, "the type's own Clone method"},
	{replica.StrategyFunc, "a function registered with RegisterFunc"},
	{replica.StrategyDeep, "reflective deep copy of exported and unexported state"},
	{replica.StrategyDeepSlowly, "deep copy that preserves pointer cycles"},
	{replica.StrategyStructure, "reflective copy of exported fields"},
	{replica.StrategyCodec, "marshal and unmarshal through a registered codec"},
}

type strategyRow struct {
	Name      string `json:"name" yaml:"name"`
	Isolating bool   `json:"isolating" yaml:"isolating"`
	Note      string `json:"note" yaml:"note"`
}

type strategiesReport []strategyRow

func (r strategiesReport) writeText(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "STRATEGY\tISOLATING\tNOTE")
	for _, row := range r {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", row.Name, yesNo(row.Isolating), row.Note)
	}
	return tw.Flush()
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List the duplication strategies",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report := make(strategiesReport, 0, len(strategyNotes))
		for _, s := range strategyNotes {
			report = append(report, strategyRow{
				Name:      string(s.Strategy),
				Isolating: s.Strategy.Isolating(),
				Note:      s.Note,
			})
		}
		return render(cmd.OutOrStdout(), cfg.Format, report)
	},
}
