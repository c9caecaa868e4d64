// package player hands stream URLs to a media player and reports when playback ends.
package player

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"slices"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/soundx/internal/shared"
)

// Player is the platform media primitive: it accepts a URL and signals natural completion.
type Player interface {
	// Play starts url, replacing whatever is playing without waiting for it to finish.
	Play(ctx context.Context, url string) error
	// Stop silences the player. A stopped stream does not signal completion.
	Stop() error
	// OnEnded registers fn to run when the current stream finishes on its own.
	OnEnded(fn func())
}

// listeners is the OnEnded bookkeeping shared by the implementations.
type listeners struct {
	mu  sync.Mutex
	fns []func()
}

func (l *listeners) add(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fns = append(l.fns, fn)
}

func (l *listeners) notify() {
	l.mu.Lock()
	fns := slices.Clone(l.fns)
	l.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

// ExecPlayer plays URLs by running an external program (mpv, ffplay, vlc) with the URL as its
// last argument. The process exiting is the completion signal.
type ExecPlayer struct {
	command string
	args    []string
	logger  *log.Logger
	ended   listeners

	mu         sync.Mutex
	current    *exec.Cmd
	generation uint64
}

var _ Player = (*ExecPlayer)(nil)

// NewExecPlayer creates a player running command with args. A nil logger discards output.
func NewExecPlayer(command string, args []string, logger *log.Logger) *ExecPlayer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &ExecPlayer{
		command: command,
		args:    slices.Clone(args),
		logger:  shared.WithLogger(logger, "component", "player"),
	}
}

// FromConfig builds the configured player, or a [NopPlayer] when no command is set.
func FromConfig(cfg shared.PlayerConfig, logger *log.Logger) Player {
	if cfg.Command == "" {
		return NewNopPlayer()
	}
	return NewExecPlayer(cfg.Command, cfg.Args, logger)
}

func (p *ExecPlayer) Play(ctx context.Context, url string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.killLocked()
	p.generation++
	gen := p.generation

	args := append(slices.Clone(p.args), url)
	cmd := exec.CommandContext(ctx, p.command, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", p.command, err)
	}
	p.current = cmd
	p.logger.Debug("started", "pid", cmd.Process.Pid)

	go p.wait(cmd, gen)
	return nil
}

func (p *ExecPlayer) wait(cmd *exec.Cmd, gen uint64) {
	err := cmd.Wait()

	p.mu.Lock()
	current := p.generation == gen
	if current {
		p.current = nil
	}
	p.mu.Unlock()

	if !current {
		return
	}
	if err != nil {
		p.logger.Debug("player exited", "error", err)
	}
	p.ended.notify()
}

func (p *ExecPlayer) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.generation++
	p.killLocked()
	return nil
}

func (p *ExecPlayer) OnEnded(fn func()) {
	p.ended.add(fn)
}

func (p *ExecPlayer) killLocked() {
	if p.current == nil || p.current.Process == nil {
		return
	}
	if err := p.current.Process.Kill(); err != nil {
		p.logger.Debug("failed to kill previous player", "error", err)
	}
	p.current = nil
}

// NopPlayer records URLs without producing audio. [NopPlayer.Finish] simulates the end of
// the current stream.
type NopPlayer struct {
	ended listeners

	mu   sync.Mutex
	urls []string
	live bool
}

var _ Player = (*NopPlayer)(nil)

func NewNopPlayer() *NopPlayer {
	return &NopPlayer{}
}

func (n *NopPlayer) Play(_ context.Context, url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.urls = append(n.urls, url)
	n.live = true
	return nil
}

func (n *NopPlayer) Stop() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.live = false
	return nil
}

func (n *NopPlayer) OnEnded(fn func()) {
	n.ended.add(fn)
}

// URLs returns every URL passed to Play, in order.
func (n *NopPlayer) URLs() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.urls)
}

// Finish ends the current stream as if it had played to completion.
func (n *NopPlayer) Finish() {
	n.mu.Lock()
	live := n.live
	n.live = false
	n.mu.Unlock()

	if live {
		n.ended.notify()
	}
}
