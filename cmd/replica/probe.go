package main

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zoobzio/replica"
	"github.com/zoobzio/replica/internal/tracking"
	"github.com/zoobzio/replica/json"
)

// record is the sample whose strategy is chosen by --strategy.
type record struct {
	Name  string            `json:"name"`
	Tags  []string          `json:"tags"`
	Attrs map[string]string `json:"attrs"`
}

// tally duplicates itself through its Clone method.
type tally struct {
	n    int
	seen []int
}

func (t *tally) Clone() *tally {
	return &tally{n: t.n, seen: slices.Clone(t.seen)}
}

// greeting stands in for a closure capturing a string.
type greeting struct {
	salutation string
}

func newRecord() record {
	return record{Name: "sample", Tags: []string{"a", "b"}, Attrs: map[string]string{"k": "v"}}
}

// samples covers each interface representation: boxed values, pointer-shaped
// values stored in the data word, and zero-sized values.
func samples() []any {
	n := 42
	return []any{
		newRecord(),
		"a captured string",
		int64(7),
		[3]float64{1, 2, 3},
		&n,
		map[string]int{"a": 1},
		func() string { return "hi" },
		make(chan int, 1),
		struct{ p *int }{&n},
		[1]*int{&n},
		struct{}{},
		&tally{n: 3, seen: []int{0, 1, 2}},
		greeting{salutation: "Hello,"},
	}
}

type probeRow struct {
	Type     string   `json:"type" yaml:"type"`
	Size     uintptr  `json:"size" yaml:"size"`
	Align    uintptr  `json:"align" yaml:"align"`
	Direct   bool     `json:"direct" yaml:"direct"`
	Strategy string   `json:"strategy" yaml:"strategy"`
	Shared   []string `json:"shared,omitempty" yaml:"shared,omitempty"`
	Error    string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type probeReport struct {
	Isolation bool       `json:"isolation" yaml:"isolation"`
	Rows      []probeRow `json:"rows" yaml:"rows"`
	Allocs    int        `json:"allocs" yaml:"allocs"`
	Live      int        `json:"live" yaml:"live"`
}

func (r probeReport) writeText(w io.Writer) error {
	tw := newTable(w)
	fmt.Fprintln(tw, "TYPE\tSIZE\tALIGN\tDIRECT\tSTRATEGY\tSHARED\tERROR")
	for _, row := range r.Rows {
		fmt.Fprintf(tw, "%s\t%d\t%d\t%s\t%s\t%s\t%s\n",
			row.Type, row.Size, row.Align, yesNo(row.Direct), row.Strategy,
			orDash(strings.Join(row.Shared, ",")), orDash(row.Error))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "\nisolation: %s, blocks allocated: %d, still live: %d\n",
		yesNo(r.Isolation), r.Allocs, r.Live)
	return err
}

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Clone a set of sample values and report their layouts",
	Long: `Clone one value of each interface representation through a tracking
allocator and report the descriptor chosen for it. The sample record is
registered with --strategy; the codec strategy uses JSON.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		defer replica.Reset()

		opt := replica.WithStrategy(cfg.Strategy)
		if cfg.Strategy == replica.StrategyCodec {
			opt = replica.WithCodec(json.New())
		}
		switch cfg.Strategy {
		case replica.StrategyFunc:
			err := replica.RegisterFunc(func(src *record) (record, error) {
				out := newRecord()
				out.Name = src.Name
				return out, nil
			})
			if err != nil {
				return err
			}
		default:
			if err := replica.Register[record](opt); err != nil {
				return err
			}
		}

		report, err := probe(cfg.Isolation)
		if err != nil {
			return err
		}
		return render(cmd.OutOrStdout(), cfg.Format, report)
	},
}

func probe(isolation bool) (probeReport, error) {
	alloc := tracking.New()
	engine := replica.New(replica.WithAllocator(alloc), replica.WithIsolation(isolation))

	report := probeReport{Isolation: isolation}
	for _, v := range samples() {
		d, err := replica.Describe(v)
		if err != nil {
			return report, err
		}
		row := probeRow{
			Type:     d.Name,
			Size:     d.Layout.Size,
			Align:    d.Layout.Align,
			Direct:   d.Direct,
			Strategy: string(d.Strategy),
			Shared:   d.Shared,
		}

		owned, err := replica.CloneWith(engine, v)
		if err != nil {
			if !errors.Is(err, replica.ErrSharedReferences) && !errors.Is(err, replica.ErrDuplicate) {
				return report, err
			}
			row.Error = err.Error()
		} else if err := owned.Release(); err != nil {
			row.Error = err.Error()
		}
		report.Rows = append(report.Rows, row)
	}

	report.Allocs = alloc.Allocs()
	report.Live = alloc.Live()
	return report, alloc.Err()
}
