package board

import (
	"context"

	"github.com/rileyhilliard/zbxboard/internal/problems"
)

// Fetcher produces problem snapshots. *problems.Repository satisfies it.
type Fetcher interface {
	FetchAll(ctx context.Context) (problems.Snapshot, error)
}

// Display shows frames. Render is called only when the frame changes.
type Display interface {
	Render(frame Frame) error
}

// Audio plays the new-problem alert. With nonBlocking set it must return
// without waiting for playback to finish.
type Audio interface {
	PlayAlert(nonBlocking bool) error
}
