package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/IrdiZ/kaiju/internal/logging"
	"github.com/IrdiZ/kaiju/internal/server"
	"github.com/IrdiZ/kaiju/internal/tui"
	"github.com/IrdiZ/kaiju/pkg/analytics"
	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/citydata"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/game"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/layout"
	"github.com/IrdiZ/kaiju/pkg/random"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// Tour pacing used when run is given no script.
const (
	tourSpeed       = 25.0
	tourStrikeEvery = 0.3
	tourStompEvery  = 2.0
)

func newLogger(g *globalFlags, component string, w io.Writer) (*logrus.Entry, error) {
	lvl, err := logging.ParseLevel(g.logLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewTo(w, component, lvl), nil
}

// loadConfig reads the config file and applies flag overrides.
func loadConfig(g *globalFlags) (config.Config, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return cfg, fmt.Errorf("loading config: %w", err)
	}
	if g.seed != 0 {
		cfg.Seed = g.seed
	}
	return cfg, nil
}

// loadWorld reads the city and builds a world from it.
func loadWorld(g *globalFlags, cityPath string, log logrus.FieldLogger) (*game.World, error) {
	cfg, err := loadConfig(g)
	if err != nil {
		return nil, err
	}
	city, err := citydata.Load(cityPath)
	if err != nil {
		return nil, fmt.Errorf("loading city: %w", err)
	}
	if city.Skipped > 0 {
		log.WithField("features", city.Skipped).Warn("skipped GeoJSON features without polygons")
	}
	world, err := game.NewWorld(cfg, city.Buildings, game.Options{Log: log})
	if err != nil {
		return nil, fmt.Errorf("building world: %w", err)
	}
	if !world.Report.Empty() {
		log.WithField("report", world.Report.Summary).Warn("city built with findings")
	}
	return world, nil
}

func runGenerate(g *globalFlags, out string) error {
	cfg, err := loadConfig(g)
	if err != nil {
		return err
	}
	city, report := layout.Generate(layout.DefaultParams(), random.New(cfg.Seed))
	if !report.Valid {
		printValidationReport(report)
		return fmt.Errorf("layout parameters are invalid")
	}
	if err := citydata.Save(out, &citydata.File{
		Name:      fmt.Sprintf("ring city %d", cfg.Seed),
		Buildings: city.Buildings,
	}); err != nil {
		return err
	}
	printValidationReport(report)
	fmt.Printf("wrote %d buildings to %s\n", len(city.Buildings), out)
	return nil
}

func runValidate(g *globalFlags, cityPath string) error {
	report := validation.NewReport()
	if _, err := loadConfig(g); err != nil {
		report.AddError(validation.Result{
			Level:   validation.LevelSchema,
			Message: err.Error(),
			Path:    "config",
		})
	}

	city, err := citydata.Load(cityPath)
	if err != nil {
		return fmt.Errorf("loading city: %w", err)
	}
	if city.Skipped > 0 {
		report.AddInfo(validation.Result{
			Level:   validation.LevelSchema,
			Message: fmt.Sprintf("%d features without polygons were skipped", city.Skipped),
		})
	}
	report.Merge(building.ValidateInputs(city.Buildings, 0))

	printValidationReport(report)

	if !report.Valid {
		os.Exit(1)
	}
	return nil
}

func runBudget(g *globalFlags, cityPath string, asJSON bool) error {
	log, err := newLogger(g, "budget", os.Stderr)
	if err != nil {
		return err
	}
	world, err := loadWorld(g, cityPath, log)
	if err != nil {
		return err
	}

	budget, report := analytics.Analyze(world.Batches, world.Registry.All(), world.Config.Render)
	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"budget":     budget,
			"validation": report,
		})
	}

	printBudget(budget)
	if !report.Empty() {
		fmt.Println()
		printValidationReport(report)
	}
	return nil
}

func runRampage(g *globalFlags, cityPath, scriptPath string, ticks int, dt float64) error {
	log, err := newLogger(g, "run", os.Stderr)
	if err != nil {
		return err
	}
	world, err := loadWorld(g, cityPath, log)
	if err != nil {
		return err
	}

	script := tour(world.Registry.All())
	if scriptPath != "" {
		if script, err = loadScript(scriptPath); err != nil {
			return err
		}
	}

	hits, err := world.RunScript(script, dt, ticks)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"ticks":        world.Driver.Ticks(),
		"impact_ticks": len(hits),
	}).Info("rampage finished")

	summary := world.Summary()
	printDamageReport(os.Stderr, summary.Damage)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}

func runServe(g *globalFlags, cityPath string, port int) error {
	log, err := newLogger(g, "server", os.Stderr)
	if err != nil {
		return err
	}
	world, err := loadWorld(g, cityPath, log)
	if err != nil {
		return err
	}
	if port != 0 {
		world.Config.Server.Port = port
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.New(world, log).Run(ctx)
}

func runWatch(g *globalFlags, cityPath string) error {
	// The screen owns the terminal, so the viewer logs nowhere.
	log, err := newLogger(g, "watch", io.Discard)
	if err != nil {
		return err
	}
	world, err := loadWorld(g, cityPath, log)
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("initializing screen: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err = tui.New(screen, world, log).Run(ctx)
	screen.Fini()
	if err != nil {
		return err
	}
	printDamageReport(os.Stdout, world.Summary().Damage)
	return nil
}

func loadScript(path string) (game.Script, error) {
	var s game.Script
	data, err := os.ReadFile(path)
	if err != nil {
		return s, fmt.Errorf("reading script: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("parsing script YAML: %w", err)
	}
	if len(s.Waypoints) == 0 {
		return s, fmt.Errorf("script %s has no waypoints", path)
	}
	return s, nil
}

// tour walks from building to building in registration order, striking and
// stomping as it goes.
func tour(records []*building.Record) game.Script {
	s := game.Script{
		Waypoints:   make([]geo.Point2D, 0, len(records)+1),
		Speed:       tourSpeed,
		StrikeEvery: tourStrikeEvery,
		StompEvery:  tourStompEvery,
	}
	s.Waypoints = append(s.Waypoints, geo.Point2D{})
	for _, rec := range records {
		s.Waypoints = append(s.Waypoints, rec.Centroid)
	}
	return s
}
