// Command invert2d runs one batch 2-D microwave inversion: it loads the
// measured and precomputed tensors named by a JSON5 run configuration,
// reconstructs the complex contrast, and writes the retrieved permittivity
// and conductivity maps, the convergence log and their plots.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/mwscatter/invert2d/grid"
	"github.com/mwscatter/invert2d/inversion"
	"github.com/mwscatter/invert2d/scatter"
)

func main() {
	cfgPath := flag.String("config", "run.json5", "path to the run configuration")
	quiet := flag.Bool("quiet", false, "suppress per-iteration diagnostics")
	flag.Parse()

	if err := run(*cfgPath, *quiet); err != nil {
		log.Fatal(err)
	}
}

func run(cfgPath string, quiet bool) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		return err
	}

	g, err := grid.New(cfg.Grid.I, cfg.Grid.J, cfg.Grid.Dx, cfg.Grid.Dy)
	if err != nil {
		return err
	}
	bg := grid.Background{EpsR: cfg.Background.EpsR, Sigma: cfg.Background.Sigma, Freq: cfg.Background.Freq}

	ds := &scatter.DataSet{}
	if ds.Es, err = loadComplexMatrix(cfg.Data.Es); err != nil {
		return err
	}
	if ds.Ei, err = loadComplexMatrix(cfg.Data.Ei); err != nil {
		return err
	}
	if ds.Gd, err = loadComplexMatrix(cfg.Data.Gd); err != nil {
		return err
	}
	if ds.Gs, err = loadComplexMatrix(cfg.Data.Gs); err != nil {
		return err
	}

	opts := inversion.DefaultOptions()
	opts.MaxIter = cfg.MaxIter
	opts.LambdaR, opts.LambdaI = cfg.LambdaR, cfg.LambdaI
	opts.DeltaR, opts.DeltaI = cfg.DeltaR, cfg.DeltaI
	if opts.Step, err = cfg.stepStrategy(); err != nil {
		return err
	}
	if opts.Potential, err = cfg.potential(); err != nil {
		return err
	}
	if opts.Init, err = initStrategy(cfg, g); err != nil {
		return err
	}
	if !quiet {
		opts.Log = log.New(os.Stderr, "invert2d: ", log.LstdFlags)
	}

	solver, err := inversion.New(g, bg, ds, opts)
	if err != nil {
		return err
	}
	res, err := solver.Run()
	if err != nil {
		return err
	}
	log.Printf("finished %d iterations in %v, final cost %.6e",
		cfg.MaxIter, res.Elapsed, res.Log[len(res.Log)-1].Cost)

	return writeOutputs(cfg.OutputDir, g, res)
}

func initStrategy(cfg *RunConfig, g grid.Grid) (inversion.InitStrategy, error) {
	switch cfg.Init {
	case "background":
		return inversion.BackgroundStart{}, nil
	case "backpropagation":
		return inversion.BackpropagationStart{}, nil
	case "exact":
		epsR, err := loadRealGrid(cfg.Exact.EpsR, g.N())
		if err != nil {
			return nil, err
		}
		sigma, err := loadRealGrid(cfg.Exact.Sigma, g.N())
		if err != nil {
			return nil, err
		}
		return inversion.ExactStart{EpsR: epsR, Sigma: sigma}, nil
	}
	return nil, fmt.Errorf("unknown init strategy %q", cfg.Init)
}

// runOutput is the persisted batch result.
type runOutput struct {
	EpsR      []float64          `json:"eps_r"`
	Sigma     []float64          `json:"sigma"`
	Log       []inversion.Record `json:"convergence"`
	ElapsedMS int64              `json:"elapsed_ms"`
}

func writeOutputs(dir string, g grid.Grid, res *inversion.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	out := runOutput{
		EpsR:      res.EpsR,
		Sigma:     res.Sigma,
		Log:       res.Log,
		ElapsedMS: res.Elapsed.Milliseconds(),
	}
	raw, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, "result.json"), raw, 0o644); err != nil {
		return err
	}

	if err := saveHeatMap(filepath.Join(dir, "eps_r.png"), "Relative permittivity", g, res.EpsR); err != nil {
		return err
	}
	if err := saveHeatMap(filepath.Join(dir, "sigma.png"), "Conductivity (S/m)", g, res.Sigma); err != nil {
		return err
	}
	return saveConvergence(filepath.Join(dir, "convergence.png"), res.Log)
}
