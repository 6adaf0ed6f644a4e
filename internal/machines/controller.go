package machines

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"

	"whackarcade/internal/arcade"
	"whackarcade/internal/broadcast"
	"whackarcade/internal/events"
	"whackarcade/internal/gamedata"
	"whackarcade/internal/metrics"
	"whackarcade/internal/players"
	"whackarcade/internal/wshub"
)

var (
	ErrMachineNotFound   = errors.New("machine not found")
	ErrControllerStopped = errors.New("controller stopped")
	ErrMachineUnpowered  = errors.New("machine has no power")
)

type Action string

const (
	ActionStart   Action = "start"
	ActionWhack   Action = "whack"
	ActionRequest Action = "request"
)

// ActionMessage is a player input aimed at one machine.
type ActionMessage struct {
	Action Action
	Slot   *int
	Player string
}

// Controller runs every machine on a single goroutine. Ticks and player
// actions are serialized through Run, so games need no locking.
type Controller struct {
	Machines *Store
	Players  *players.Store
	Metrics  *metrics.Metrics
	Events   *events.Bus

	rng      *rand.Rand
	interval time.Duration
	exec     chan func()
	done     chan struct{}
}

// NewController ticks machines tickRate times per second. A nil rng is
// replaced by a time-seeded one.
func NewController(store *Store, tickRate int, rng *rand.Rand) *Controller {
	if tickRate <= 0 {
		tickRate = 30
	}
	if rng == nil {
		rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &Controller{
		Machines: store,
		rng:      rng,
		interval: time.Second / time.Duration(tickRate),
		exec:     make(chan func()),
		done:     make(chan struct{}),
	}
}

// Run owns the machines until ctx is cancelled. It must be called once.
func (c *Controller) Run(ctx context.Context) {
	defer close(c.done)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	last := time.Now()

	log.Printf("[Machine] Controller running at %v per tick\n", c.interval)
	for {
		select {
		case <-ctx.Done():
			log.Println("[Machine] Controller stopped")
			return
		case now := <-ticker.C:
			c.Update(now.Sub(last))
			last = now
		case fn := <-c.exec:
			fn()
		}
	}
}

// Exec runs fn on the controller goroutine and waits for it to finish.
func (c *Controller) Exec(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	job := func() {
		defer close(finished)
		fn()
	}
	select {
	case c.exec <- job:
	case <-c.done:
		return ErrControllerStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	<-finished
	return nil
}

// Update advances every machine by dt.
func (c *Controller) Update(dt time.Duration) {
	start := time.Now()
	for _, m := range c.Machines.List() {
		c.tick(m, dt)
	}
	c.Metrics.ObserveTick(time.Since(start).Seconds())
}

func (c *Controller) tick(m *Machine, dt time.Duration) {
	if m.Game == nil {
		return
	}
	if !m.Game.Tick(dt) {
		c.endGame(m, false)
		return
	}
	c.flush(m)
}

func (c *Controller) flush(m *Machine) {
	if s, ok := m.Game.TakeSnapshot(); ok {
		m.publishState(s)
	}
}

// HandleAction applies a player input. Unpowered machines ignore everything.
func (c *Controller) HandleAction(m *Machine, msg ActionMessage) {
	if !m.Powered {
		return
	}
	switch msg.Action {
	case ActionStart:
		c.startGame(m, msg.Player)
	case ActionWhack:
		c.whack(m, msg)
	case ActionRequest:
		if m.Game != nil {
			m.publishState(m.Game.Snapshot(false))
		}
	default:
		log.Printf("[Machine] %s: unknown action %q\n", m.Code, msg.Action)
	}
}

func (c *Controller) startGame(m *Machine, player string) {
	if m.Game != nil {
		return
	}
	m.Game = gamedata.NewGame(&m.Config.Game, c.rng)
	m.SessionID = uuid.NewString()
	m.Player = player
	m.StartedAt = time.Now()
	c.Metrics.SessionStarted()
	log.Printf("[Machine] %s: session %s started (player %q)\n", m.Code, m.SessionID, player)

	m.publishSound(m.Config.Game.Sounds.NewGame)
	m.publishState(m.Game.Snapshot(false))
}

func (c *Controller) whack(m *Machine, msg ActionMessage) {
	if m.Game == nil || msg.Slot == nil {
		return
	}
	slot := *msg.Slot
	if slot < 0 || slot >= m.Config.Game.TargetCount {
		return
	}
	def, ok := m.Game.Hit(slot)
	if !ok {
		return
	}

	c.Metrics.Hit(def.Friendly)
	c.Events.PublishHit(events.HitEvent{
		SessionID: m.SessionID,
		Machine:   m.Code,
		Player:    m.Player,
		TargetID:  def.ID,
		Slot:      slot,
		Points:    def.Score,
		Friendly:  def.Friendly,
		HitAt:     time.Now(),
	})

	m.publishSound(m.Config.Game.Sounds.Bonk)
	m.publishSound(def.BonkSound)
	c.flush(m)
}

// endGame finishes the running session. A forfeited game never pays out.
func (c *Controller) endGame(m *Machine, forfeit bool) {
	g := m.Game
	if g == nil {
		return
	}
	g.End()

	perf := g.Performance()
	threshold := m.Config.Game.WinThreshold
	result := arcade.ResultFor(perf, threshold)
	if forfeit {
		result = arcade.Forfeit
	}

	m.publishState(g.Snapshot(true))
	if perf > threshold && !forfeit {
		m.publishSound(m.Config.Game.Sounds.Win)
	} else {
		m.publishSound(m.Config.Game.Sounds.GameOver)
	}

	log.Printf("[Machine] %s: session %s ended: %s, score %d/%d (%.2f)\n",
		m.Code, m.SessionID, result, g.Score(), g.TotalPossibleScore(), perf)

	if result == arcade.Win {
		c.dispense(m)
	}

	now := time.Now()
	c.Events.PublishGameEnded(events.GameEndedEvent{
		SessionID:   m.SessionID,
		Machine:     m.Code,
		Player:      m.Player,
		Result:      result.String(),
		Score:       g.Score(),
		MaxScore:    g.TotalPossibleScore(),
		Performance: perf,
		StartedAt:   m.StartedAt,
		EndedAt:     now,
	})
	c.Metrics.SessionEnded(result.String())
	if m.Player != "" && c.Players != nil {
		c.Players.RecordGame(m.Player, g.Score())
	}

	m.Game = nil
	m.SessionID = ""
	m.Player = ""
}

func (c *Controller) dispense(m *Machine) {
	if m.Rewards == nil {
		return
	}
	items := m.Rewards.Dispense(c.rng, floorSpawner{machine: m.Code}, m.Config.Location)
	if items == nil {
		log.Printf("[Rewards] %s: out of prizes\n", m.Code)
		return
	}

	m.publishReward(items)
	c.Metrics.RewardDispensed()
	c.Events.PublishReward(events.RewardEvent{
		SessionID: m.SessionID,
		Machine:   m.Code,
		Player:    m.Player,
		Items:     items,
		Remaining: m.Rewards.Remaining,
		At:        time.Now(),
	})
}

// floorSpawner drops prizes on the arcade floor next to the machine. The
// reward message sent to clients is what makes them visible.
type floorSpawner struct {
	machine string
}

func (s floorSpawner) Spawn(id string, at arcade.Location) {
	log.Printf("[Rewards] %s: spawned %s at %s (%.1f, %.1f)\n", s.machine, id, at.Zone, at.X, at.Y)
}

// SetPower switches a machine on or off. Switching off closes every open UI;
// a running game keeps its clock.
func (c *Controller) SetPower(m *Machine, powered bool) {
	if m.Powered == powered {
		return
	}
	m.Powered = powered
	if !powered {
		m.closeSurfaces()
	}
	log.Printf("[Machine] %s: powered=%v\n", m.Code, powered)
}

func (c *Controller) addMachine(cfg *MachineConfig) (*Machine, error) {
	m, err := c.Machines.Create(cfg, arcade.NewRewards(cfg.Rewards, c.rng))
	if err != nil {
		return nil, err
	}
	log.Printf("[Machine] %s: created with %d prizes\n", m.Code, m.Rewards.Remaining)
	return m, nil
}

func (c *Controller) removeMachine(m *Machine) {
	c.endGame(m, true)
	m.closeSurfaces()
	c.Machines.Delete(m.Code)
}

// The methods below are safe to call from any goroutine.

func (c *Controller) CreateMachine(ctx context.Context, cfg *MachineConfig) (*Machine, error) {
	var m *Machine
	var err error
	if execErr := c.Exec(ctx, func() { m, err = c.addMachine(cfg) }); execErr != nil {
		return nil, execErr
	}
	return m, err
}

// withMachine runs fn on the controller goroutine with the machine named by
// code. The lookup happens there too, so a concurrent removal is never missed.
func (c *Controller) withMachine(ctx context.Context, code string, fn func(m *Machine) error) error {
	var err error
	execErr := c.Exec(ctx, func() {
		m := c.Machines.Get(code)
		if m == nil {
			err = ErrMachineNotFound
			return
		}
		err = fn(m)
	})
	if execErr != nil {
		return execErr
	}
	return err
}

func (c *Controller) RemoveMachine(ctx context.Context, code string) error {
	return c.withMachine(ctx, code, func(m *Machine) error {
		c.removeMachine(m)
		return nil
	})
}

// Act applies msg to the machine and returns the resulting game state, or nil
// when no game is running.
func (c *Controller) Act(ctx context.Context, code string, msg ActionMessage) (*gamedata.Snapshot, error) {
	var snap *gamedata.Snapshot
	err := c.withMachine(ctx, code, func(m *Machine) error {
		c.HandleAction(m, msg)
		if m.Game != nil {
			s := m.Game.Snapshot(false)
			snap = &s
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("applying %s to %s: %w", msg.Action, code, err)
	}
	return snap, nil
}

func (c *Controller) Power(ctx context.Context, code string, powered bool) error {
	return c.withMachine(ctx, code, func(m *Machine) error {
		c.SetPower(m, powered)
		return nil
	})
}

func (c *Controller) Info(ctx context.Context, code string) (Info, error) {
	var in Info
	err := c.withMachine(ctx, code, func(m *Machine) error {
		in = m.info()
		return nil
	})
	return in, err
}

// Subscribe opens an event stream on a powered machine. Power loss or
// removal closes the returned channel.
func (c *Controller) Subscribe(ctx context.Context, code string) (*Machine, chan broadcast.Event, error) {
	var (
		machine *Machine
		ch      chan broadcast.Event
	)
	err := c.withMachine(ctx, code, func(m *Machine) error {
		if !m.Powered {
			return ErrMachineUnpowered
		}
		machine, ch = m, m.Broadcaster.Subscribe()
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return machine, ch, nil
}

// Connect registers a WebSocket client on a powered machine. Power loss or
// removal closes the client's Send channel.
func (c *Controller) Connect(ctx context.Context, code string, client *wshub.Client) (*Machine, error) {
	var machine *Machine
	err := c.withMachine(ctx, code, func(m *Machine) error {
		if !m.Powered {
			return ErrMachineUnpowered
		}
		m.Hub.Register(client)
		machine = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return machine, nil
}

func (c *Controller) List(ctx context.Context) ([]Info, error) {
	list := make([]Info, 0)
	err := c.Exec(ctx, func() {
		for _, m := range c.Machines.List() {
			list = append(list, m.info())
		}
	})
	return list, err
}
