package viz

import (
	"fmt"
	"io"
	"strings"

	"github.com/san-kum/decay/internal/dynamo"
	"github.com/san-kum/decay/internal/experiment"
)

const (
	bannerRule = "------"
	sweepRule  = "-----"
)

// FormatPoint renders one mesh point. u uses six significant digits with
// trailing zeros removed.
func FormatPoint(t, u float64) string {
	return fmt.Sprintf("t=%6.3f u=%.6g", t, u)
}

// FormatTheta renders the header printed above each block of a sweep.
func FormatTheta(theta float64) string {
	return fmt.Sprintf("theta = %.6g", theta)
}

// WriteTable writes one FormatPoint line per mesh point.
func WriteTable(w io.Writer, mesh dynamo.MeshFunction) error {
	var sb strings.Builder
	for i, t := range mesh.T {
		sb.WriteString(FormatPoint(t, mesh.U[i]))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// TableSink prints every run as a table. Sweep runs get a theta header and
// a separator line.
type TableSink struct {
	w io.Writer
}

func NewTableSink(w io.Writer) *TableSink {
	return &TableSink{w: w}
}

func (s *TableSink) Consume(run experiment.Run) error {
	if run.Demo.Sweep {
		if _, err := fmt.Fprintln(s.w, FormatTheta(run.Mesh.Spec.Theta)); err != nil {
			return err
		}
	}
	if err := WriteTable(s.w, run.Mesh); err != nil {
		return err
	}
	if run.Demo.Sweep {
		_, err := fmt.Fprintln(s.w, sweepRule)
		return err
	}
	return nil
}

// Banner is printed before a demo runs.
func Banner(w io.Writer, name string) error {
	_, err := fmt.Fprintf(w, "%s \nRunning %q\n", bannerRule, name)
	return err
}

// Footer is printed after a demo finishes.
func Footer(w io.Writer) error {
	_, err := fmt.Fprintln(w, bannerRule)
	return err
}
