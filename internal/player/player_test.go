package player

import (
	"context"
	"os/exec"
	"sync/atomic"
	"testing"
	"time"

	"github.com/desertthunder/soundx/internal/shared"
)

func requireShell(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
}

func waitFor(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for playback to end")
	}
}

func TestExecPlayer(t *testing.T) {
	t.Run("Process Exit Signals Ended", func(t *testing.T) {
		requireShell(t)

		p := NewExecPlayer("sh", []string{"-c", "exit 0", "sh"}, nil)
		done := make(chan struct{}, 1)
		p.OnEnded(func() { done <- struct{}{} })

		if err := p.Play(context.Background(), "http://stream.test/1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		waitFor(t, done)
	})

	t.Run("Replacing Does Not Signal Previous", func(t *testing.T) {
		requireShell(t)

		p := NewExecPlayer("sh", []string{"-c", `[ "$1" = "last" ] || sleep 30`, "sh"}, nil)
		var ended atomic.Int32
		done := make(chan struct{}, 4)
		p.OnEnded(func() {
			ended.Add(1)
			done <- struct{}{}
		})

		if err := p.Play(context.Background(), "first"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := p.Play(context.Background(), "last"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		waitFor(t, done)

		time.Sleep(100 * time.Millisecond)
		if got := ended.Load(); got != 1 {
			t.Errorf("expected 1 ended signal, got %d", got)
		}
	})

	t.Run("Stop Does Not Signal", func(t *testing.T) {
		requireShell(t)

		p := NewExecPlayer("sh", []string{"-c", "sleep 30", "sh"}, nil)
		var ended atomic.Int32
		p.OnEnded(func() { ended.Add(1) })

		if err := p.Play(context.Background(), "x"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := p.Stop(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		time.Sleep(200 * time.Millisecond)
		if ended.Load() != 0 {
			t.Error("expected no ended signal after Stop")
		}
	})

	t.Run("Missing Command", func(t *testing.T) {
		p := NewExecPlayer("soundx-no-such-player", nil, nil)
		if err := p.Play(context.Background(), "x"); err == nil {
			t.Error("expected error for missing command")
		}
	})
}

func TestNopPlayer(t *testing.T) {
	t.Run("Records URLs", func(t *testing.T) {
		p := NewNopPlayer()
		_ = p.Play(context.Background(), "a")
		_ = p.Play(context.Background(), "b")

		urls := p.URLs()
		if len(urls) != 2 || urls[1] != "b" {
			t.Errorf("unexpected urls %v", urls)
		}
	})

	t.Run("Finish Signals Once", func(t *testing.T) {
		p := NewNopPlayer()
		var ended int
		p.OnEnded(func() { ended++ })

		p.Finish()
		if ended != 0 {
			t.Error("expected no signal when nothing is playing")
		}

		_ = p.Play(context.Background(), "a")
		p.Finish()
		p.Finish()
		if ended != 1 {
			t.Errorf("expected 1 ended signal, got %d", ended)
		}
	})

	t.Run("FromConfig", func(t *testing.T) {
		if _, ok := FromConfig(shared.PlayerConfig{}, nil).(*NopPlayer); !ok {
			t.Error("expected NopPlayer without a command")
		}
		if _, ok := FromConfig(shared.PlayerConfig{Command: "mpv"}, nil).(*ExecPlayer); !ok {
			t.Error("expected ExecPlayer with a command")
		}
	})
}
