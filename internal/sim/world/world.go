// Package world is the authoritative simulation orchestrator: it owns the
// tile grid, the player, and the environment, and advances them on a fixed
// ticker from a single goroutine. All state must be accessed only from the
// world loop goroutine; external collaborators talk to it over channels
// and read-only frame snapshots.
package world

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"gridfall/internal/persistence/snapshot"
	"gridfall/internal/protocol"
	"gridfall/internal/sim/actor"
	"gridfall/internal/sim/env"
	"gridfall/internal/sim/grid"
	"gridfall/internal/sim/tile"
	"gridfall/internal/sim/tuning"
	"gridfall/internal/sim/worldgen"
)

type Config struct {
	Seed int64
	Tune tuning.Tuning
	Gen  worldgen.Config

	// SnapshotEveryTicks gates how often a snapshot is pushed to the sink.
	SnapshotEveryTicks int

	// EnvRand drives weather and hazards. Defaults to a time-seeded
	// stream; tests inject a fixed one.
	EnvRand *rand.Rand
}

func (c *Config) applyDefaults() {
	if c.Tune.TickRateHz <= 0 {
		c.Tune = tuning.Defaults()
	}
	if c.Gen.Width <= 0 {
		c.Gen = worldgen.DefaultConfig()
	}
	if c.SnapshotEveryTicks <= 0 {
		c.SnapshotEveryTicks = 3600
	}
	if c.EnvRand == nil {
		c.EnvRand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
}

// Hotbar is the fixed placement palette; INTENT's hotbar index selects
// into it.
var Hotbar = []tile.Tile{
	tile.Dirt, tile.Grass, tile.Stone, tile.Wood,
	tile.Sand, tile.Glass, tile.Torch, tile.Brick,
}

// Intent is the sampled per-tick input record. Held booleans are
// level-triggered: they stay in effect until the next envelope replaces
// them.
type Intent struct {
	MoveLeft  bool
	MoveRight bool
	Jump      bool

	PointerX int
	PointerY int

	MineHeld    bool
	PlaceHeld   bool
	HotbarIndex int
}

type IntentEnvelope struct {
	SessionID string
	Intent    Intent
}

type AttachRequest struct {
	ClientName string
	Out        chan []byte
	Resp       chan AttachResponse
}

type AttachResponse struct {
	Welcome protocol.WelcomeMsg
}

type clientState struct {
	Out chan []byte
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type TickLogEntry struct {
	Tick   uint64 `json:"tick"`
	Intent Intent `json:"intent"`
	Digest string `json:"digest"`
}

type notice struct {
	Text     string
	TimeLeft float64
}

type World struct {
	cfg  Config
	tune tuning.Tuning

	tick atomic.Uint64
	time float64

	grid *grid.Grid
	ctrl *actor.Controller
	env  *env.Environment

	intent      Intent
	notice      notice
	lastWeather env.Weather

	clients map[string]*clientState

	inbox  chan IntentEnvelope
	attach chan AttachRequest
	leave  chan string
	stop   chan struct{}

	// Optional collaborators (may be nil). Implemented under
	// internal/persistence.
	tickLogger   TickLogger
	snapshotSink chan<- snapshot.SnapshotV1
}

func New(cfg Config) *World {
	cfg.applyDefaults()

	g := worldgen.New(cfg.Gen).Generate(cfg.Seed)
	a := actor.NewActor(actor.SpawnPosition(g), cfg.Tune.Survival.MaxHealth)
	ctrl := actor.NewController(a, actor.NewInventory(), cfg.Tune.Physics, cfg.Tune.Survival)

	return &World{
		cfg:     cfg,
		tune:    cfg.Tune,
		grid:    g,
		ctrl:    ctrl,
		env:     env.New(cfg.Tune.Environment, cfg.Tune.Survival, cfg.EnvRand),
		clients: map[string]*clientState{},
		inbox:   make(chan IntentEnvelope, 256),
		attach:  make(chan AttachRequest, 16),
		leave:   make(chan string, 16),
		stop:    make(chan struct{}),
	}
}

func (w *World) SetTickLogger(l TickLogger)                    { w.tickLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }

func (w *World) Inbox() chan<- IntentEnvelope { return w.inbox }
func (w *World) Attach() chan<- AttachRequest { return w.attach }
func (w *World) Leave() chan<- string         { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

// Run drives the fixed-rate tick loop until the context is cancelled or
// Stop is called. Pending intents are coalesced between ticks; only the
// newest one is in effect when the tick fires.
func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.tune.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	dt := interval.Seconds()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.attach:
			w.handleAttach(req)
		case id := <-w.leave:
			delete(w.clients, id)
		case envl := <-w.inbox:
			w.intent = envl.Intent
		case <-ticker.C:
			w.Step(w.intent, dt)
			w.publish()
		}
	}
}

func (w *World) Stop() { close(w.stop) }

func (w *World) handleAttach(req AttachRequest) {
	sessionID := uuid.NewString()
	w.clients[sessionID] = &clientState{Out: req.Out}

	req.Resp <- AttachResponse{
		Welcome: protocol.WelcomeMsg{
			Type:            protocol.TypeWelcome,
			ProtocolVersion: protocol.Version,
			SessionID:       sessionID,
			ResumeToken:     fmt.Sprintf("resume_%d_%s", w.cfg.Seed, sessionID),
			WorldParams: protocol.WorldParams{
				TickRateHz:       float64(w.tune.TickRateHz),
				Width:            w.grid.Width(),
				Height:           w.grid.Height(),
				Seed:             w.cfg.Seed,
				DayLengthSeconds: w.tune.Environment.DayLengthSeconds,
				ViewWidth:        w.tune.View.Width,
				ViewHeight:       w.tune.View.Height,
			},
			Hotbar: hotbarNames(),
		},
	}
}

func hotbarNames() []string {
	out := make([]string, len(Hotbar))
	for i, t := range Hotbar {
		out[i] = t.Name()
	}
	return out
}

// publish serializes the frame once and fans it out with drop-oldest
// backpressure; a stalled client only ever loses frames, never stalls the
// loop.
func (w *World) publish() {
	if len(w.clients) == 0 && w.tickLogger == nil && w.snapshotSink == nil {
		return
	}
	if len(w.clients) > 0 {
		b := w.frameJSON()
		for _, cl := range w.clients {
			sendLatest(cl.Out, b)
		}
	}
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{
			Tick:   w.tick.Load(),
			Intent: w.intent,
			Digest: w.Digest(),
		})
	}
	if w.snapshotSink != nil && w.tick.Load()%uint64(w.cfg.SnapshotEveryTicks) == 0 {
		select {
		case w.snapshotSink <- w.ExportSnapshot():
		default:
		}
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
