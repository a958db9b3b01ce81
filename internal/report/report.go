package report

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fystack/mab-simulator/internal/compare"
	"github.com/fystack/mab-simulator/internal/experiment"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/shopspring/decimal"
)

// Places is the number of decimals kept for rates and estimates.
const Places = 4

type ArmSummary struct {
	Index           int             `json:"index"`
	TrueProbability decimal.Decimal `json:"true_probability"`
	Estimate        decimal.Decimal `json:"estimate"`
	Pulls           int             `json:"pulls"`
	Optimal         bool            `json:"optimal"`
}

type DecaySummary struct {
	Strategy enum.DecayStrategy `json:"strategy"`
	Minimum  decimal.Decimal    `json:"minimum"`
	Rate     decimal.Decimal    `json:"rate"`
	Steps    int                `json:"steps"`
}

type Summary struct {
	Label           string           `json:"label"`
	Algorithm       enum.Algorithm   `json:"algorithm"`
	Seed            uint64           `json:"seed"`
	Trials          int              `json:"trials"`
	TotalReward     int              `json:"total_reward"`
	WinRate         decimal.Decimal  `json:"win_rate"`
	MaxProbability  decimal.Decimal  `json:"max_probability"`
	Regret          decimal.Decimal  `json:"regret"`
	Explored        int              `json:"explored"`
	Exploited       int              `json:"exploited"`
	OptimalSelected int              `json:"optimal_selected"`
	OptimalRate     decimal.Decimal  `json:"optimal_rate"`
	Converged       bool             `json:"converged"`
	FinalEpsilon    *decimal.Decimal `json:"final_epsilon,omitempty"`
	Decay           *DecaySummary    `json:"decay,omitempty"`
	Arms            []ArmSummary     `json:"arms"`
}

func round(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(Places)
}

func Summarize(res *experiment.Result) Summary {
	s := Summary{
		Label:           res.Label,
		Algorithm:       res.Algorithm,
		Seed:            res.Seed,
		Trials:          res.Trials,
		TotalReward:     res.TotalReward(),
		WinRate:         round(res.WinRate()),
		MaxProbability:  round(res.MaxTrueProbability()),
		Regret:          round(res.Regret()),
		Explored:        res.Explored,
		Exploited:       res.Exploited,
		OptimalSelected: res.OptimalSelected,
		OptimalRate:     round(res.OptimalRate()),
		Converged:       res.Converged(),
		Arms:            make([]ArmSummary, len(res.Arms)),
	}
	if res.Algorithm == enum.AlgorithmEpsilonGreedy {
		eps := round(res.FinalEpsilon)
		s.FinalEpsilon = &eps
	}
	if d := res.Decay; d != nil {
		s.Decay = &DecaySummary{
			Strategy: d.Strategy,
			Minimum:  round(d.Params.Minimum),
			Rate:     round(d.Params.Rate),
			Steps:    d.Steps,
		}
	}
	for i, a := range res.Arms {
		s.Arms[i] = ArmSummary{
			Index:           i,
			TrueProbability: round(a.TrueProbability),
			Estimate:        round(a.Estimate),
			Pulls:           a.Pulls,
			Optimal:         i == res.OptimalIndex,
		}
	}
	return s
}

// WriteText prints the human-readable summary of one run.
func WriteText(w io.Writer, res *experiment.Result) error {
	s := Summarize(res)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	fmt.Fprintf(tw, "Experiment:\t%s (%s, seed %d)\n", s.Label, s.Algorithm, s.Seed)
	fmt.Fprintf(tw, "Trials:\t%d\n", s.Trials)
	fmt.Fprintf(tw, "Total reward:\t%d\n", s.TotalReward)
	fmt.Fprintf(tw, "Win rate:\t%s (best arm %s)\n", s.WinRate.StringFixed(Places), s.MaxProbability.StringFixed(Places))
	fmt.Fprintf(tw, "Regret:\t%s\n", s.Regret.StringFixed(2))
	fmt.Fprintf(tw, "Times explored:\t%d\n", s.Explored)
	fmt.Fprintf(tw, "Times exploited:\t%d\n", s.Exploited)
	fmt.Fprintf(tw, "Times optimal:\t%d (%s)\n", s.OptimalSelected, s.OptimalRate.StringFixed(Places))
	if s.FinalEpsilon != nil {
		fmt.Fprintf(tw, "Final epsilon:\t%s\n", s.FinalEpsilon.StringFixed(Places))
	}
	if d := s.Decay; d != nil {
		fmt.Fprintf(tw, "Decay:\t%s (minimum %s, rate %s, %d steps)\n",
			d.Strategy, d.Minimum.StringFixed(Places), d.Rate.StringFixed(Places), d.Steps)
	}
	fmt.Fprintf(tw, "Converged:\t%t\n", s.Converged)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "ARM\tTRUE P\tESTIMATE\tPULLS\t")
	for _, a := range s.Arms {
		marker := ""
		if a.Optimal {
			marker = "*"
		}
		fmt.Fprintf(tw, "%d%s\t%s\t%s\t%d\t\n",
			a.Index, marker, a.TrueProbability.StringFixed(Places), a.Estimate.StringFixed(Places), a.Pulls)
	}
	return tw.Flush()
}

// WriteComparison prints a leaderboard for several runs.
func WriteComparison(w io.Writer, standings []compare.Standing) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tEXPERIMENT\tREWARD\tWIN RATE\tOPTIMAL\tREGRET\tCONVERGED\t")
	for _, s := range standings {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%t\t\n",
			s.Rank,
			s.Label,
			s.TotalReward,
			round(s.WinRate).StringFixed(Places),
			round(s.OptimalRate).StringFixed(Places),
			round(s.Regret).StringFixed(2),
			s.Converged,
		)
	}
	return tw.Flush()
}

func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
