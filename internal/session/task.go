package session

import "context"

// Task is an in-flight bootstrap verification.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Cancel abandons the verification. Its result, whenever it arrives, is
// discarded without touching session state.
func (t *Task) Cancel() {
	t.cancel()
}

// Wait blocks until the verification has resolved or been discarded.
func (t *Task) Wait() {
	<-t.done
}

// Done is closed once the task has finished.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
