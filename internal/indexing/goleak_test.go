package indexing

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain ensures the file watcher's background event-processing
// goroutine (Watcher.processEvents) and the pipeline's background
// embedding job (Pipeline.scheduleEmbeddings) don't outlive their tests.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
		goleak.IgnoreTopFunction("sync.runtime_Semacquire"),
	)
}
