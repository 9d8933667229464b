package cli

import (
	"errors"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/piwi3910/FleetPack/internal/importer"
	"github.com/piwi3910/FleetPack/internal/model"
	"github.com/piwi3910/FleetPack/internal/project"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// problemFlags selects the problem to solve: an input file or a random instance.
type problemFlags struct {
	input    string
	random   int
	vehicles int
	capacity float64
}

func (f *problemFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.input, "input", "i", "", "Problem file: .txt, .csv, .xlsx or .json")
	fs.IntVar(&f.random, "random", 0, "Generate N random packages instead of reading a file")
	fs.IntVar(&f.vehicles, "vehicles", 0, "Fleet size for table inputs and random problems")
	fs.Float64Var(&f.capacity, "capacity", 0, "Vehicle capacity for table inputs and random problems")
}

// problem is a loaded instance plus any settings stored alongside it.
type problem struct {
	packages []model.Package
	fleet    []model.Vehicle
	settings *model.Settings
}

var errNoInput = errors.New("no input: pass --input or --random")

// load reads the problem. Random problems draw from seed (or the clock when
// seed is 0) so a given seed always regenerates the same instance.
func (f *problemFlags) load(seed int64, log zerolog.Logger) (problem, error) {
	if f.random > 0 {
		if f.vehicles <= 0 || f.capacity <= 0 {
			return problem{}, fmt.Errorf("--random needs --vehicles and --capacity")
		}
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		pkgs, fleet := importer.Generate(rand.New(rand.NewSource(seed)), f.random, f.vehicles, f.capacity)
		log.Info().Int("packages", len(pkgs)).Int64("seed", seed).Msg("generated random problem")
		return problem{packages: pkgs, fleet: fleet}, nil
	}
	if f.input == "" {
		return problem{}, errNoInput
	}

	switch strings.ToLower(filepath.Ext(f.input)) {
	case ".json":
		p, err := project.LoadProblem(f.input)
		if err != nil {
			return problem{}, err
		}
		return problem{packages: p.Packages, fleet: p.Vehicles, settings: &p.Settings}, nil
	case ".csv", ".xlsx":
		return f.loadTable(log)
	default:
		pkgs, fleet, err := importer.LoadTextFile(f.input)
		if err != nil {
			return problem{}, err
		}
		return problem{packages: pkgs, fleet: fleet}, nil
	}
}

// loadTable imports a package table; tables carry no fleet, so the fleet
// flags are required.
func (f *problemFlags) loadTable(log zerolog.Logger) (problem, error) {
	if f.vehicles <= 0 || f.capacity <= 0 {
		return problem{}, fmt.Errorf("%s: table inputs need --vehicles and --capacity", f.input)
	}

	var result importer.ImportResult
	if strings.EqualFold(filepath.Ext(f.input), ".xlsx") {
		result = importer.ImportExcel(f.input)
	} else {
		result = importer.ImportCSV(f.input)
	}
	for _, w := range result.Warnings {
		log.Warn().Str("file", f.input).Msg(w)
	}
	if len(result.Errors) > 0 {
		return problem{}, fmt.Errorf("import %s: %w: %s", f.input, importer.ErrMalformedInput, strings.Join(result.Errors, "; "))
	}
	return problem{packages: result.Packages, fleet: model.UniformFleet(f.vehicles, f.capacity)}, nil
}

// settingsFlags overrides hyperparameters from the command line.
type settingsFlags struct {
	algorithm string
	seed      int64
	preset    string
	annealing model.AnnealingSettings
	genetic   model.GeneticSettings
}

func (f *settingsFlags) register(fs *pflag.FlagSet) {
	defaults := model.DefaultSettings()
	fs.StringVarP(&f.algorithm, "algorithm", "a", string(defaults.Algorithm), "Algorithm: annealing|genetic (or sa|ga)")
	fs.Int64Var(&f.seed, "seed", 0, "Random seed, 0 = from the clock")
	fs.StringVar(&f.preset, "preset", "", "Hyperparameter preset (see 'fleetpack presets')")

	fs.Float64Var(&f.annealing.InitialTemperature, "temperature", defaults.Annealing.InitialTemperature, "SA initial temperature")
	fs.Float64Var(&f.annealing.CoolingRate, "cooling", defaults.Annealing.CoolingRate, "SA cooling rate, in (0, 1)")
	fs.Float64Var(&f.annealing.StoppingTemperature, "stop-temperature", defaults.Annealing.StoppingTemperature, "SA stopping temperature")
	fs.IntVar(&f.annealing.IterationsPerTemperature, "iterations", defaults.Annealing.IterationsPerTemperature, "SA iterations per temperature step")

	fs.IntVar(&f.genetic.PopulationSize, "population", defaults.Genetic.PopulationSize, "GA population size")
	fs.Float64Var(&f.genetic.MutationRate, "mutation", defaults.Genetic.MutationRate, "GA mutation rate, in [0, 1]")
	fs.IntVar(&f.genetic.Generations, "generations", defaults.Genetic.Generations, "GA generations")
	fs.IntVar(&f.genetic.MaxConstructionAttempts, "attempts", defaults.Genetic.MaxConstructionAttempts, "GA attempts per initial individual")
	fs.IntVar(&f.genetic.Workers, "workers", defaults.Genetic.Workers, "GA offspring workers per generation")
}

// resolve layers settings: app config, then the problem file, then the
// preset, then explicitly set flags.
func (f *settingsFlags) resolve(fs *pflag.FlagSet, g *globals, fromFile *model.Settings) (model.Settings, error) {
	s := model.DefaultSettings()
	g.app.ApplyToSettings(&s)
	if fromFile != nil {
		s = *fromFile
	}

	presetName := g.app.DefaultPreset
	if fs.Changed("preset") {
		presetName = f.preset
	}
	if presetName != "" {
		p, err := project.GetPreset(g.presetsPath, presetName)
		if err != nil {
			return s, err
		}
		p.Apply(&s)
	}

	if fs.Changed("algorithm") {
		alg, err := model.ParseAlgorithm(f.algorithm)
		if err != nil {
			return s, err
		}
		s.Algorithm = alg
	}
	if fs.Changed("seed") {
		s.Seed = f.seed
	}

	set := func(name string, apply func()) {
		if fs.Changed(name) {
			apply()
		}
	}
	set("temperature", func() { s.Annealing.InitialTemperature = f.annealing.InitialTemperature })
	set("cooling", func() { s.Annealing.CoolingRate = f.annealing.CoolingRate })
	set("stop-temperature", func() { s.Annealing.StoppingTemperature = f.annealing.StoppingTemperature })
	set("iterations", func() { s.Annealing.IterationsPerTemperature = f.annealing.IterationsPerTemperature })
	set("population", func() { s.Genetic.PopulationSize = f.genetic.PopulationSize })
	set("mutation", func() { s.Genetic.MutationRate = f.genetic.MutationRate })
	set("generations", func() { s.Genetic.Generations = f.genetic.Generations })
	set("attempts", func() { s.Genetic.MaxConstructionAttempts = f.genetic.MaxConstructionAttempts })
	set("workers", func() { s.Genetic.Workers = f.genetic.Workers })

	return s, s.Validate()
}

// loadRun is the shared front half of solve, compare and ensemble.
func loadRun(cmd *cobra.Command, g *globals, pf *problemFlags, sf *settingsFlags) (problem, model.Settings, error) {
	fs := cmd.Flags()
	seed := int64(0)
	if fs.Changed("seed") {
		seed = sf.seed
	}
	p, err := pf.load(seed, g.log)
	if err != nil {
		return problem{}, model.Settings{}, err
	}
	settings, err := sf.resolve(fs, g, p.settings)
	if err != nil {
		return problem{}, model.Settings{}, err
	}
	g.log.Debug().
		Int("packages", len(p.packages)).
		Int("vehicles", len(p.fleet)).
		Str("algorithm", string(settings.Algorithm)).
		Msg("problem loaded")
	return p, settings, nil
}
