package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/fystack/mab-simulator/internal/experiment"
)

type CurveOptions struct {
	// Points caps the number of rows; zero writes every trial.
	Points int
	// LogScale spaces the sampled trials geometrically, which matches a
	// log x-axis on the plotting side.
	LogScale bool
}

// CurveIndices returns the zero-based trial indices to export, ascending
// and always ending at the last trial.
func CurveIndices(trials int, opts CurveOptions) []int {
	if trials <= 0 {
		return nil
	}
	if opts.Points <= 0 || opts.Points >= trials {
		out := make([]int, trials)
		for i := range out {
			out[i] = i
		}
		return out
	}

	out := make([]int, 0, opts.Points)
	last := -1
	for k := 0; k < opts.Points; k++ {
		var idx int
		frac := 1.0
		if opts.Points > 1 {
			frac = float64(k) / float64(opts.Points-1)
		}
		if opts.LogScale {
			// trial numbers 1..trials, spaced evenly in log space
			idx = int(math.Round(math.Pow(float64(trials), frac))) - 1
		} else {
			idx = int(math.Round(frac * float64(trials-1)))
		}
		if idx > last {
			out = append(out, idx)
			last = idx
		}
	}
	if last != trials-1 {
		out = append(out, trials-1)
	}
	return out
}

// WriteCurveCSV writes the cumulative win rate against the best arm's
// true probability as trial,win_rate,max_probability rows.
func WriteCurveCSV(w io.Writer, res *experiment.Result, opts CurveOptions) error {
	curve := res.CumulativeWinRate()
	maxP := strconv.FormatFloat(res.MaxTrueProbability(), 'f', -1, 64)

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"trial", "win_rate", "max_probability"}); err != nil {
		return err
	}
	for _, i := range CurveIndices(len(curve), opts) {
		row := []string{
			strconv.Itoa(i + 1),
			strconv.FormatFloat(curve[i], 'f', 6, 64),
			maxP,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write curve row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
