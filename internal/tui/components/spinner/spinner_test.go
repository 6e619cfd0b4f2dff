package spinner

import (
	"testing"
	"time"
)

func TestSpinnerStartStop(t *testing.T) {
	t.Parallel()

	s := NewSpinner("syncing notes")
	s.Start()

	// Let a few frames render before shutting down.
	time.Sleep(100 * time.Millisecond)

	s.Stop()
}
