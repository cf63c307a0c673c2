package executor

import (
	"github.com/iotaledger/hive.go/runtime/event"
)

// Events are triggered after an execution finishes, success or not. The
// audit layer hooks them to build its log entries.
type Events struct {
	Executed *event.Event1[*Result]
}

func newEvents() *Events {
	return &Events{
		Executed: event.New1[*Result](),
	}
}
