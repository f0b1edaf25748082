package main

import (
	"fmt"
	"os"

	json "github.com/KevinWang15/go-json5"

	"github.com/mwscatter/invert2d/inversion"
	"github.com/mwscatter/invert2d/regularize"
)

// RunConfig is the JSON5 run description the driver consumes.
type RunConfig struct {
	Grid struct {
		I  int     `json:"i"`
		J  int     `json:"j"`
		Dx float64 `json:"dx"`
		Dy float64 `json:"dy"`
	} `json:"grid"`

	Background struct {
		EpsR  float64 `json:"eps_r"`
		Sigma float64 `json:"sigma"`
		Freq  float64 `json:"freq_hz"`
	} `json:"background"`

	Data struct {
		Es string `json:"es"`
		Ei string `json:"ei"`
		Gd string `json:"gd"`
		Gs string `json:"gs"`
	} `json:"data"`

	MaxIter int     `json:"maxit"`
	LambdaR float64 `json:"lambda_r"`
	LambdaI float64 `json:"lambda_i"`
	DeltaR  float64 `json:"delta_r"`
	DeltaI  float64 `json:"delta_i"`

	Init      string `json:"init"`      // background | backpropagation | exact
	Step      string `json:"step"`      // closed-form | golden-section
	Potential string `json:"potential"` // geman-mcclure | quadratic

	// Ground-truth grids, required only by the exact start.
	Exact struct {
		EpsR  string `json:"eps_r"`
		Sigma string `json:"sigma"`
	} `json:"exact"`

	OutputDir string `json:"output_dir"`
}

// loadConfig reads a JSON5 run configuration and fills in the defaults for
// missing fields.
func loadConfig(path string) (*RunConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run configuration: %w", err)
	}
	cfg := &RunConfig{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parsing run configuration %s: %w", path, err)
	}

	if cfg.MaxIter == 0 {
		cfg.MaxIter = 100
	}
	if cfg.DeltaR == 0 {
		cfg.DeltaR = 0.1
	}
	if cfg.DeltaI == 0 {
		cfg.DeltaI = 0.1
	}
	if cfg.Init == "" {
		cfg.Init = "backpropagation"
	}
	if cfg.Step == "" {
		cfg.Step = "closed-form"
	}
	if cfg.Potential == "" {
		cfg.Potential = "geman-mcclure"
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	return cfg, nil
}

func (cfg *RunConfig) stepStrategy() (inversion.StepStrategy, error) {
	switch cfg.Step {
	case "closed-form":
		return inversion.ClosedForm, nil
	case "golden-section":
		return inversion.GoldenSection, nil
	}
	return 0, fmt.Errorf("unknown step strategy %q", cfg.Step)
}

func (cfg *RunConfig) potential() (regularize.Potential, error) {
	switch cfg.Potential {
	case "geman-mcclure":
		return regularize.GemanMcClure{}, nil
	case "quadratic":
		return regularize.Quadratic{}, nil
	}
	return nil, fmt.Errorf("unknown potential %q", cfg.Potential)
}
