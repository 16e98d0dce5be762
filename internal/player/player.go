// Package player hosts an orchestrator in a single goroutine, feeding it
// wall-clock ticks and commands from HTTP and MQTT.
package player

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/AaronLay10/SentientCutscene/internal/cutscene"
	"github.com/AaronLay10/SentientCutscene/internal/events"
	"github.com/AaronLay10/SentientCutscene/internal/orchestrator"
)

// DefaultQueueSize is the command buffer used when Options.QueueSize is zero.
const DefaultQueueSize = 64

// Options configures a Player.
type Options struct {
	TickInterval time.Duration
	QueueSize    int
	Orchestrator []orchestrator.Option
}

// Player owns an Orchestrator. Only the goroutine running Run (or the
// caller of Step when Run is not used) touches it; everything else goes
// through Submit and State.
type Player struct {
	orch     *orchestrator.Orchestrator
	interval time.Duration
	commands chan Command

	mu    sync.RWMutex
	state orchestrator.Snapshot

	carry time.Duration
}

// New creates a player with nothing loaded.
func New(opts Options) *Player {
	if opts.TickInterval <= 0 {
		opts.TickInterval = 16 * time.Millisecond
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = DefaultQueueSize
	}
	p := &Player{
		orch:     orchestrator.New(opts.Orchestrator...),
		interval: opts.TickInterval,
		commands: make(chan Command, opts.QueueSize),
	}
	p.publish()
	return p
}

// Load prepares the document at path and starts it with a fresh session id.
// It must not be called while Run is active; submit a CmdLoad instead.
func (p *Player) Load(path string) error {
	script, err := Prepare(path)
	if err != nil {
		return err
	}
	return p.LoadScript(script)
}

// LoadScript starts an already compiled script. The same restriction as
// Load applies.
func (p *Player) LoadScript(script *cutscene.Script) error {
	events.StartSession()
	if err := p.orch.Load(script); err != nil {
		return err
	}
	p.carry = 0
	p.publish()
	return nil
}

// Submit queues cmd without blocking.
func (p *Player) Submit(cmd Command) error {
	if err := cmd.Check(); err != nil {
		return err
	}
	select {
	case p.commands <- cmd:
		return nil
	default:
		events.Emit("warn", "operator.rejected", ErrQueueFull.Error(), map[string]interface{}{
			"kind":   string(cmd.Kind),
			"source": cmd.Source,
		})
		return ErrQueueFull
	}
}

// Do queues cmd and waits until it has been applied, returning its result.
func (p *Player) Do(ctx context.Context, cmd Command) error {
	cmd.reply = make(chan error, 1)
	if err := p.Submit(cmd); err != nil {
		return err
	}
	select {
	case err := <-cmd.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SoundFinished queues a completion report from an audio backend.
func (p *Player) SoundFinished(bus cutscene.Bus) error {
	return p.Submit(Command{Kind: CmdSoundFinished, Key: string(bus), Source: "audio"})
}

// State returns the snapshot published after the last tick.
func (p *Player) State() orchestrator.Snapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Run ticks the orchestrator every TickInterval until ctx is cancelled.
func (p *Player) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			p.Step(now.Sub(last))
			last = now
		}
	}
}

// Step applies every queued command, then advances the orchestrator by dt
// and publishes the new snapshot. Sub-millisecond remainders carry over to
// the next step.
func (p *Player) Step(dt time.Duration) {
	p.drain()

	dt += p.carry
	whole := dt.Truncate(time.Millisecond)
	p.carry = dt - whole
	p.orch.Update(whole)

	p.publish()
}

func (p *Player) drain() {
	for {
		select {
		case cmd := <-p.commands:
			err := p.apply(cmd)
			if err != nil {
				events.Emit("error", "system.error", err.Error(), map[string]interface{}{
					"kind":   string(cmd.Kind),
					"key":    cmd.Key,
					"source": cmd.Source,
				})
			}
			if cmd.reply != nil {
				p.publish()
				cmd.reply <- err
			}
		default:
			return
		}
	}
}

func (p *Player) apply(cmd Command) error {
	events.Emit("info", "operator.command", "", map[string]interface{}{
		"kind":   string(cmd.Kind),
		"key":    cmd.Key,
		"source": cmd.Source,
	})

	switch cmd.Kind {
	case CmdAdvance:
		p.orch.Advance()
	case CmdSignal:
		p.orch.Signal(cmd.Key)
	case CmdSoundFinished:
		bus, ok := cutscene.ParseBus(cmd.Key)
		if !ok {
			return fmt.Errorf("unknown audio bus: %s", cmd.Key)
		}
		p.orch.SoundFinished(bus)
	case CmdChoose:
		return p.orch.Choose(cmd.Key)
	case CmdGoto:
		return p.orch.GotoBeat(cmd.Key)
	case CmdSkip:
		p.orch.SkipBeat()
	case CmdPause:
		p.orch.SetPause(true)
	case CmdResume:
		p.orch.SetPause(false)
	case CmdStop:
		p.orch.Stop()
	case CmdLoad:
		return p.Load(cmd.Key)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownCommand, cmd.Kind)
	}
	return nil
}

func (p *Player) publish() {
	s := p.orch.State()
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// IsRejection reports whether err is a refusal the operator caused, as
// opposed to an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, orchestrator.ErrNotRunning) ||
		errors.Is(err, orchestrator.ErrNoActiveChoice) ||
		errors.Is(err, orchestrator.ErrUnknownChoice) ||
		errors.Is(err, orchestrator.ErrUnknownBeat) ||
		errors.Is(err, ErrMissingKey) ||
		errors.Is(err, ErrUnknownCommand)
}
