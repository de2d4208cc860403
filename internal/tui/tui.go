// Package tui is a top-down terminal viewer for a running world.
package tui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"

	"github.com/IrdiZ/kaiju/internal/logging"
	"github.com/IrdiZ/kaiju/pkg/game"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/scene2d"
)

const (
	moveStep     = 3.0         // meters per keypress
	turnStep     = math.Pi / 8 // radians per keypress
	metersPerCol = 2.0
	frameRate    = 16 * time.Millisecond
)

var cellStyles = map[scene2d.CellKind]tcell.Style{
	scene2d.CellBuilding:  tcell.StyleDefault.Foreground(tcell.ColorSilver),
	scene2d.CellLandmark:  tcell.StyleDefault.Foreground(tcell.ColorYellow),
	scene2d.CellRubble:    tcell.StyleDefault.Foreground(tcell.ColorGray),
	scene2d.CellDust:      tcell.StyleDefault.Foreground(tcell.ColorTan),
	scene2d.CellChunk:     tcell.StyleDefault.Foreground(tcell.ColorOrange),
	scene2d.CellCharacter: tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
}

// Viewer draws the world around the character and turns keys into input.
//
//	w / Up      forward        x / Down   back
//	a / Left    turn left      d / Right  turn right
//	space       melee          s / Enter  stomp
//	q / Esc     quit
type Viewer struct {
	screen  tcell.Screen
	world   *game.World
	log     logrus.FieldLogger
	pending game.Input
	last    game.Frame
	status  string
}

// New creates a viewer. The caller owns screen initialization and Fini.
func New(screen tcell.Screen, world *game.World, log logrus.FieldLogger) *Viewer {
	pos, yaw := world.Driver.Character()
	return &Viewer{
		screen:  screen,
		world:   world,
		log:     logging.OrDiscard(log),
		pending: game.Input{Position: pos, Yaw: yaw},
	}
}

// Run ticks and redraws at a fixed rate until quit or ctx is done.
func (v *Viewer) Run(ctx context.Context) error {
	ticker := time.NewTicker(frameRate)
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				close(events)
				return
			}
			events <- ev
		}
	}()

	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok || !v.HandleEvent(ev) {
				return nil
			}
		case now := <-ticker.C:
			v.Tick(now.Sub(prev).Seconds())
			prev = now
		}
	}
}

// HandleEvent applies one terminal event. It returns false to quit.
func (v *Viewer) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.HandleKey(ev.Key(), ev.Rune())
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

// HandleKey applies one key press. It returns false to quit.
func (v *Viewer) HandleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyUp:
		v.move(moveStep)
	case tcell.KeyDown:
		v.move(-moveStep)
	case tcell.KeyLeft:
		v.pending.Yaw -= turnStep
	case tcell.KeyRight:
		v.pending.Yaw += turnStep
	case tcell.KeyEnter:
		v.pending.Stomp = true
	case tcell.KeyRune:
		switch r {
		case 'q', 'Q':
			return false
		case 'w', 'W':
			v.move(moveStep)
		case 'x', 'X':
			v.move(-moveStep)
		case 'a', 'A':
			v.pending.Yaw -= turnStep
		case 'd', 'D':
			v.pending.Yaw += turnStep
		case ' ':
			v.pending.Melee = true
		case 's', 'S':
			v.pending.Stomp = true
		}
	}
	return true
}

func (v *Viewer) move(dist float64) {
	v.pending.Position = v.pending.Position.Add(geo.Forward(v.pending.Yaw).Scale(dist))
}

// Tick advances the world with the pending input and redraws.
func (v *Viewer) Tick(dt float64) game.Frame {
	f := v.world.Driver.Tick(v.pending, dt)
	v.pending.Melee, v.pending.Stomp = false, false
	v.last = f

	for _, h := range f.Hits {
		name := h.Event.Name
		if name == "" {
			name = fmt.Sprintf("building %d", h.Event.Building)
		}
		v.status = fmt.Sprintf("%s: %s", h.Action, name)
		v.log.WithFields(logrus.Fields{"building": h.Event.Building, "action": h.Action}).Debug("destroyed")
	}
	v.Draw()
	return f
}

// Draw renders the map and status line.
func (v *Viewer) Draw() {
	v.screen.Clear()
	w, h := v.screen.Size()
	if w <= 0 || h <= 1 {
		v.screen.Show()
		return
	}

	pos, yaw := v.world.Driver.Character()
	snap := scene2d.Snapshot(v.world.Registry, v.world.Sim, scene2d.View{
		Tick:      v.world.Driver.Ticks(),
		Time:      v.world.Driver.Clock(),
		Character: pos,
		Yaw:       yaw,
		Radius:    v.world.Config.Interaction.CharacterRadius,
	})
	vp := scene2d.Viewport{Center: pos, MetersPerCol: metersPerCol, Cols: w, Rows: h - 1}
	grid := vp.Rasterize(snap)
	for row, cells := range grid {
		for col, k := range cells {
			if k == scene2d.CellEmpty {
				continue
			}
			r := k.Rune()
			if k == scene2d.CellCharacter {
				r = facingRune(yaw)
			}
			v.screen.SetContent(col, row, r, nil, cellStyles[k])
		}
	}
	v.drawStatus(h-1, w, snap.Summary)
	v.screen.Show()
}

func (v *Viewer) drawStatus(row, width int, sum scene2d.Summary) {
	line := fmt.Sprintf(" t=%.1fs  destroyed %d/%d  chunks %d  damage $%d  %s",
		v.last.Time, sum.Destroyed, sum.Destroyed+sum.Standing, sum.Chunks, v.world.Tally.Score(), v.status)
	style := tcell.StyleDefault.Reverse(true)
	runes := []rune(line)
	for col := 0; col < width; col++ {
		r := ' '
		if col < len(runes) {
			r = runes[col]
		}
		v.screen.SetContent(col, row, r, nil, style)
	}
}

// facingRune picks an arrow for the yaw, with +Z up the screen.
func facingRune(yaw float64) rune {
	quadrant := int(math.Round(math.Mod(yaw, 2*math.Pi)/(math.Pi/2))+4) % 4
	return [4]rune{'^', '>', 'v', '<'}[quadrant]
}
