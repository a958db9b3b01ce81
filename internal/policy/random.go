package policy

import (
	"github.com/fystack/mab-simulator/internal/arm"
	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/randsrc"
)

var _ Policy = (*Random)(nil)

// Random is the uninformed baseline: a uniform pick every round.
type Random struct {
	rng randsrc.Source
}

func NewRandom(r randsrc.Source) *Random {
	return &Random{rng: r}
}

func (p *Random) Name() enum.Algorithm { return enum.AlgorithmRandom }

func (p *Random) Init(arms []*arm.Arm, _ int) error {
	return validateArms(arms)
}

func (p *Random) Choose(view []arm.Snapshot) Choice {
	return Choice{Index: p.rng.IntN(len(view)), Explored: true}
}

func (p *Random) OnRoundComplete(int, bool) {}
