package game

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/IrdiZ/kaiju/internal/logging"
	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/config"
	"github.com/IrdiZ/kaiju/pkg/cost"
	"github.com/IrdiZ/kaiju/pkg/destruction"
	"github.com/IrdiZ/kaiju/pkg/geometry"
	"github.com/IrdiZ/kaiju/pkg/interaction"
	"github.com/IrdiZ/kaiju/pkg/physics"
	"github.com/IrdiZ/kaiju/pkg/random"
	"github.com/IrdiZ/kaiju/pkg/sim"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// Options adjust how a World is assembled.
type Options struct {
	Log      logrus.FieldLogger
	Notifier destruction.Notifier // receives events after the built-in tally
	RoofMode geometry.RoofMode
	Physics  physics.World // defaults to physics.NewBasic
}

// World owns every component of one running city.
type World struct {
	ID       uuid.UUID
	Config   config.Config
	Registry *building.Registry
	Batches  *geometry.Batches
	Physics  physics.World
	Sim      *sim.Simulator
	Engine   *destruction.Engine
	Detector *interaction.Detector
	Camera   *ChaseCamera
	Driver   *Driver
	Tally    *Tally
	Stats    geometry.CityStats
	Report   *validation.Report
}

// NewWorld registers inputs, builds the city geometry and wires the frame
// driver. Geometry detail and debris draw from separate streams seeded from
// cfg.Seed so lighting never depends on what was destroyed.
func NewWorld(cfg config.Config, inputs []building.Input, opts Options) (*World, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logging.OrDiscard(opts.Log)

	w := &World{ID: uuid.New(), Config: cfg}
	w.Registry = building.NewRegistry(cfg.Geometry.BoundingMargin)
	recs, report := w.Registry.Register(inputs)
	w.Report = report

	builder := geometry.NewBuilder(cfg.Geometry, random.New(cfg.Seed),
		geometry.WithRoofMode(opts.RoofMode), geometry.WithLogger(log))
	batches, stats, buildReport := geometry.BuildCity(builder, recs)
	w.Batches, w.Stats = batches, stats
	w.Report.Merge(buildReport)

	w.Physics = opts.Physics
	if w.Physics == nil {
		w.Physics = physics.NewBasic(cfg.Physics)
	}
	w.Sim = sim.New(cfg.Simulation, w.Physics, log)

	w.Tally = NewTally(w.Registry.Get)
	var notifier destruction.Notifier = w.Tally
	if opts.Notifier != nil {
		notifier = destruction.Multi{w.Tally, opts.Notifier}
	}
	w.Engine = destruction.New(cfg.Destruction, destruction.Deps{
		Buildings: w.Registry,
		Scene:     w.Batches,
		World:     w.Physics,
		Spawner:   w.Sim,
		Random:    random.New(cfg.Seed + 1),
		Notifier:  notifier,
		Log:       log,
	})
	w.Detector = interaction.NewDetector(cfg.Interaction, w.Registry)
	w.Camera = NewChaseCamera(cfg.Camera)
	w.Driver = NewDriver(cfg, w.Detector, w.Engine, w.Sim, w.Camera)

	log.WithFields(logrus.Fields{
		"session":    w.ID,
		"buildings":  stats.Buildings,
		"landmarks":  stats.Landmarks,
		"fallbacks":  stats.Fallbacks,
		"draw_calls": batches.DrawCalls(),
	}).Info("city built")
	return w, nil
}

// Summary is the end-of-run report.
type Summary struct {
	Session    string             `json:"session"`
	Ticks      uint64             `json:"ticks"`
	Time       float64            `json:"time"`
	Buildings  int                `json:"buildings"`
	Destroyed  int                `json:"destroyed"`
	Landmarks  []string           `json:"landmarks_destroyed"`
	Standing   int                `json:"standing"`
	DrawCalls  int                `json:"draw_calls"`
	Simulation sim.Stats          `json:"simulation"`
	Damage     *cost.Report       `json:"damage"`
	City       geometry.CityStats `json:"city"`
}

// Summary collects the current state of the run.
func (w *World) Summary() Summary {
	return Summary{
		Session:    w.ID.String(),
		Ticks:      w.Driver.Ticks(),
		Time:       w.Driver.Clock(),
		Buildings:  w.Registry.Len(),
		Destroyed:  w.Registry.DestroyedCount(),
		Landmarks:  w.Tally.Landmarks(),
		Standing:   w.Batches.StandingCount(),
		DrawCalls:  w.Batches.DrawCalls(),
		Simulation: w.Sim.Stats(),
		Damage:     w.Tally.Damage(),
		City:       w.Stats,
	}
}

// RunScript drives the world with a script for at most maxTicks ticks of dt
// seconds and returns the frames that destroyed something.
func (w *World) RunScript(s Script, dt float64, maxTicks int) ([]Frame, error) {
	if dt <= 0 {
		return nil, fmt.Errorf("tick length must be positive, got %v", dt)
	}
	runner := s.Runner()
	var hits []Frame
	for i := 0; i < maxTicks; i++ {
		in, ok := runner.Next(dt)
		if !ok {
			break
		}
		f := w.Driver.Tick(in, dt)
		if len(f.Hits) > 0 {
			hits = append(hits, f)
		}
	}
	return hits, nil
}
