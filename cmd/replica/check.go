package main

import (
	"fmt"
	"io"
	"runtime"
	"unsafe"

	"github.com/spf13/cobra"

	"github.com/zoobzio/replica"
)

type checkReport struct {
	OK        bool    `json:"ok" yaml:"ok"`
	GOOS      string  `json:"goos" yaml:"goos"`
	GOARCH    string  `json:"goarch" yaml:"goarch"`
	Compiler  string  `json:"compiler" yaml:"compiler"`
	WordSize  uintptr `json:"word_size" yaml:"word_size"`
	IfaceSize uintptr `json:"iface_size" yaml:"iface_size"`
	Error     string  `json:"error,omitempty" yaml:"error,omitempty"`
}

func (r checkReport) writeText(w io.Writer) error {
	status := "supported"
	if !r.OK {
		status = "UNSUPPORTED"
	}
	_, err := fmt.Fprintf(w, "%s/%s (%s): %s\n  word size: %d\n  interface size: %d\n",
		r.GOOS, r.GOARCH, r.Compiler, status, r.WordSize, r.IfaceSize)
	if err == nil && r.Error != "" {
		_, err = fmt.Fprintf(w, "  error: %s\n", r.Error)
	}
	return err
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify the interface layout self-test",
	Long: `Run the interface layout self-test the engine performs before its first
clone. Exits non-zero when the platform is not supported.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		report := checkReport{
			OK:        true,
			GOOS:      runtime.GOOS,
			GOARCH:    runtime.GOARCH,
			Compiler:  runtime.Compiler,
			WordSize:  unsafe.Sizeof(uintptr(0)),
			IfaceSize: unsafe.Sizeof(any(nil)),
		}
		layoutErr := replica.CheckLayout()
		if layoutErr != nil {
			report.OK = false
			report.Error = layoutErr.Error()
		}
		if err := render(cmd.OutOrStdout(), cfg.Format, report); err != nil {
			return err
		}
		return layoutErr
	},
}
