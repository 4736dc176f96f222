package tui

import "github.com/thenoetrevino/tablero/internal/services/boardsync"

const notifierBuffer = 32

// Notifier carries sync notifications from the controller's goroutines into
// the program. Notify never blocks; notifications beyond the buffer are dropped.
type Notifier struct {
	ch chan boardsync.Notification
}

func NewNotifier() *Notifier {
	return &Notifier{ch: make(chan boardsync.Notification, notifierBuffer)}
}

// Notify implements boardsync.Notifier
func (n *Notifier) Notify(note boardsync.Notification) {
	select {
	case n.ch <- note:
	default:
	}
}

// C returns the channel the program reads from
func (n *Notifier) C() <-chan boardsync.Notification {
	return n.ch
}
