package live

import "time"

// Observer receives session activity, typically to record metrics.
type Observer interface {
	SessionOpened()
	SessionClosed()
	EventReceived(kind string)
	FrameRendered(d time.Duration)
	Exported(ok bool)
}

type nopObserver struct{}

func (nopObserver) SessionOpened()              {}
func (nopObserver) SessionClosed()              {}
func (nopObserver) EventReceived(string)        {}
func (nopObserver) FrameRendered(time.Duration) {}
func (nopObserver) Exported(bool)               {}
