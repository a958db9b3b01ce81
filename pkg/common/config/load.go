package config

import (
	"fmt"
	"os"

	"github.com/fystack/mab-simulator/pkg/common/enum"
	"github.com/fystack/mab-simulator/pkg/common/types"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// apply defaults
	cfg.ApplyDefaults()

	// validate
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate runs the struct tags and the cross-field checks, reporting
// every failure together.
func (c *Config) Validate() error {
	var errs types.MultiError

	if err := validate.Struct(c); err != nil {
		errs.Add(fmt.Errorf("%w: %v", types.ErrInvalidParameter, err))
	}

	exp := c.Experiment
	if exp.Arms > 0 && len(exp.Probabilities) > 0 && exp.Arms != len(exp.Probabilities) {
		errs.Add(fmt.Errorf("%w: experiment.arms is %d but %d probabilities are listed",
			types.ErrInvalidParameter, exp.Arms, len(exp.Probabilities)))
	}
	if exp.ArmCount() == 0 {
		errs.Add(fmt.Errorf("%w: experiment needs arms or probabilities", types.ErrInvalidParameter))
	}

	names := make(map[string]bool, len(c.Algorithms))
	for i, a := range c.Algorithms {
		if !a.Type.Valid() {
			errs.Add(fmt.Errorf("%w: algorithms[%d].type %q", types.ErrUnknownStrategy, i, a.Type))
		}
		if a.Decay.Strategy != "" && !a.Decay.Strategy.Valid() {
			errs.Add(fmt.Errorf("%w: algorithms[%d].decay.strategy %q", types.ErrUnknownStrategy, i, a.Decay.Strategy))
		}
		if a.Name != "" && names[a.Name] {
			errs.Add(fmt.Errorf("%w: duplicate algorithm name %q", types.ErrInvalidParameter, a.Name))
		}
		names[a.Name] = true
		if a.Type == enum.AlgorithmUCB1 && exp.Trials > 0 && exp.ArmCount() > exp.Trials {
			errs.Add(fmt.Errorf("%w: algorithms[%d] ucb1 needs %d trials to seed every arm, got %d",
				types.ErrPrecursorViolation, i, exp.ArmCount(), exp.Trials))
		}
	}

	return errs.ErrOrNil()
}
