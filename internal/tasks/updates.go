package tasks

import (
	"fmt"

	"github.com/desertthunder/soundx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	RestoreSession Phase = iota
	FetchPlaylists
	FetchHistory
	AppendTracks
)

func (p Phase) String() string {
	switch p {
	case RestoreSession:
		return "restore_session"
	case FetchPlaylists:
		return "fetch_playlists"
	case FetchHistory:
		return "fetch_history"
	case AppendTracks:
		return "append_tracks"
	default:
		return ""
	}
}

// sendProgress sends a progress update through the channel without blocking.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func appendStartedUpdate(total int, playlistID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Total:   total,
		Message: fmt.Sprintf("Adding %d tracks to playlist %s...", total, playlistID),
	}
}

func appendTrackUpdate(step, total int, tr models.Track) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, tr.Artist, tr.Title),
		Data:    tr,
	}
}

func appendFailedUpdate(step, total int, tr models.Track, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AppendTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s - %s: %v", step, total, tr.Artist, tr.Title, err),
		Data:    tr,
	}
}

func refreshFailedUpdate(phase Phase, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("%s failed: %v", phase, err),
	}
}
