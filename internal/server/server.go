// Package server exposes a running world over HTTP: JSON endpoints for the
// scene, buildings and budget, input and destroy commands, and a websocket
// stream of top-down snapshots.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/IrdiZ/kaiju/internal/logging"
	"github.com/IrdiZ/kaiju/pkg/analytics"
	"github.com/IrdiZ/kaiju/pkg/building"
	"github.com/IrdiZ/kaiju/pkg/destruction"
	"github.com/IrdiZ/kaiju/pkg/game"
	"github.com/IrdiZ/kaiju/pkg/geo"
	"github.com/IrdiZ/kaiju/pkg/scene"
	"github.com/IrdiZ/kaiju/pkg/scene2d"
	"github.com/IrdiZ/kaiju/pkg/validation"
)

// Server owns a world and drives it from a ticker. Every access to the world
// goes through mu.
type Server struct {
	mu      sync.Mutex
	world   *game.World
	pending game.Input
	last    game.Frame

	log      logrus.FieldLogger
	hub      *hub
	router   *mux.Router
	upgrader websocket.Upgrader
}

// New creates a server for the given world.
func New(world *game.World, log logrus.FieldLogger) *Server {
	log = logging.OrDiscard(log)
	s := &Server{
		world: world,
		log:   log,
		hub:   newHub(log),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
	pos, yaw := world.Driver.Character()
	s.pending = game.Input{Position: pos, Yaw: yaw}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/scene", s.handleScene).Methods(http.MethodGet)
	api.HandleFunc("/snapshot", s.handleSnapshot).Methods(http.MethodGet)
	api.HandleFunc("/buildings", s.handleBuildings).Methods(http.MethodGet)
	api.HandleFunc("/buildings/{index:[0-9]+}", s.handleBuilding).Methods(http.MethodGet)
	api.HandleFunc("/buildings/{index:[0-9]+}/destroy", s.handleDestroy).Methods(http.MethodPost)
	api.HandleFunc("/input", s.handleInput).Methods(http.MethodPost)
	api.HandleFunc("/budget", s.handleBudget).Methods(http.MethodGet)
	api.HandleFunc("/summary", s.handleSummary).Methods(http.MethodGet)
	api.HandleFunc("/stream", s.handleStream).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	return r
}

// Handler returns the HTTP handler without starting the ticker.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves on the configured port and ticks the world until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	cfg := s.world.Config.Server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	go s.loop(ctx, cfg.TickRate)

	s.log.WithFields(logrus.Fields{
		"addr":      "http://localhost" + srv.Addr,
		"tick_rate": cfg.TickRate,
		"session":   s.world.ID,
	}).Info("kaiju server started")

	select {
	case <-ctx.Done():
		s.hub.closeAll()
		shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdown); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
		return nil
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) loop(ctx context.Context, rate time.Duration) {
	ticker := time.NewTicker(rate)
	defer ticker.Stop()
	prev := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.Step(now.Sub(prev).Seconds())
			prev = now
		}
	}
}

// Step advances the world one tick with the pending input and broadcasts the
// resulting snapshot. Melee and stomp requests are consumed by the tick.
func (s *Server) Step(dt float64) game.Frame {
	s.mu.Lock()
	in := s.pending
	s.pending.Melee, s.pending.Stomp = false, false
	f := s.world.Driver.Tick(in, dt)
	s.last = f
	snap := s.snapshotLocked()
	s.mu.Unlock()

	for _, h := range f.Hits {
		s.log.WithFields(logrus.Fields{
			"building": h.Event.Building,
			"action":   h.Action,
			"chunks":   h.Event.Chunks,
		}).Info("building destroyed")
	}

	if s.hub.count() == 0 {
		return f
	}
	msg, err := json.Marshal(streamFrame{Frame: f, Snapshot: snap})
	if err != nil {
		s.log.WithError(err).Error("encoding stream frame")
		return f
	}
	s.hub.broadcast(msg)
	return f
}

// streamFrame is one websocket message.
type streamFrame struct {
	Frame    game.Frame       `json:"frame"`
	Snapshot *scene2d.Scene2D `json:"snapshot"`
}

// inputRequest is a partial game.Input. Omitted position or yaw keep their
// pending values.
type inputRequest struct {
	Position *geo.Point2D `json:"position"`
	Yaw      *float64     `json:"yaw"`
	Melee    bool         `json:"melee"`
	Stomp    bool         `json:"stomp"`
}

// applyInput merges a client input into the pending one. Position and yaw
// replace; melee and stomp latch until the next tick.
func (s *Server) applyInput(in inputRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if in.Position != nil {
		s.pending.Position = *in.Position
	}
	if in.Yaw != nil {
		s.pending.Yaw = *in.Yaw
	}
	s.pending.Melee = s.pending.Melee || in.Melee
	s.pending.Stomp = s.pending.Stomp || in.Stomp
}

func (s *Server) snapshotLocked() *scene2d.Scene2D {
	pos, yaw := s.world.Driver.Character()
	return scene2d.Snapshot(s.world.Registry, s.world.Sim, scene2d.View{
		Tick:      s.world.Driver.Ticks(),
		Time:      s.world.Driver.Clock(),
		Character: pos,
		Yaw:       yaw,
		Radius:    s.world.Config.Interaction.CharacterRadius,
	})
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html><head><title>kaiju</title></head>
<body style="margin:0;background:#111;color:#fff;font-family:system-ui;display:flex;align-items:center;justify-content:center;height:100vh">
<div style="text-align:center">
<h1>kaiju</h1>
<p>Scene at <code>/api/scene</code>, live snapshots on <code>/api/stream</code>.</p>
</div>
</body></html>`)
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	g := scene.Assemble(s.world.Registry, s.world.Batches, s.world.Sim)
	pos, yaw := s.world.Driver.Character()
	scene.AddCharacter(g, mgl64.Vec3{pos.X, 0, pos.Z}, yaw, s.world.Config.Interaction.CharacterRadius)
	g.Metadata.Tick = s.world.Driver.Ticks()
	g.Metadata.SceneID = s.world.ID.String()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, g)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, snap)
}

// buildingView adds the destroyed flag to a record.
type buildingView struct {
	*building.Record
	Destroyed bool `json:"destroyed"`
}

func (s *Server) handleBuildings(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	recs := s.world.Registry.All()
	out := make([]buildingView, len(recs))
	for i, rec := range recs {
		out[i] = buildingView{Record: rec, Destroyed: rec.Destroyed()}
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleBuilding(w http.ResponseWriter, r *http.Request) {
	idx, _ := strconv.Atoi(mux.Vars(r)["index"])
	s.mu.Lock()
	rec, err := s.world.Registry.Get(idx)
	var view buildingView
	if err == nil {
		view = buildingView{Record: rec, Destroyed: rec.Destroyed()}
	}
	s.mu.Unlock()
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleDestroy(w http.ResponseWriter, r *http.Request) {
	idx, _ := strconv.Atoi(mux.Vars(r)["index"])
	s.mu.Lock()
	_, err := s.world.Registry.Get(idx)
	var (
		ev destruction.Event
		ok bool
	)
	if err == nil {
		ev, ok = s.world.Driver.Destroy(idx)
	}
	s.mu.Unlock()

	switch {
	case err != nil:
		writeError(w, http.StatusNotFound, err)
	case !ok:
		writeError(w, http.StatusConflict, fmt.Errorf("building %d is already destroyed", idx))
	default:
		s.log.WithFields(logrus.Fields{"building": idx, "chunks": ev.Chunks}).Info("building destroyed on request")
		writeJSON(w, http.StatusOK, ev)
	}
}

func (s *Server) handleInput(w http.ResponseWriter, r *http.Request) {
	var in inputRequest
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding input: %w", err))
		return
	}
	s.applyInput(in)
	w.WriteHeader(http.StatusNoContent)
}

// budgetResponse pairs the render budget with its findings.
type budgetResponse struct {
	Budget *analytics.Budget  `json:"budget"`
	Report *validation.Report `json:"report"`
}

func (s *Server) handleBudget(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	b, report := analytics.Analyze(s.world.Batches, s.world.Registry.All(), s.world.Config.Render)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, budgetResponse{Budget: b, Report: report})
}

func (s *Server) handleSummary(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	sum := s.world.Summary()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, sum)
}

// handleStream upgrades to a websocket. The server pushes one streamFrame per
// tick; anything the client sends is read as an input request.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	c := &client{conn: conn, sending: make(chan []byte, sendBuffer)}
	s.hub.register(c)
	go c.write()

	defer s.hub.unregister(c)
	for {
		var in inputRequest
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.log.WithError(err).Debug("stream read")
			}
			return
		}
		s.applyInput(in)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":  r.Method,
			"path":    r.URL.Path,
			"elapsed": time.Since(start),
		}).Debug("request")
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	data, err := json.Marshal(body)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
