package value

import (
	"container/list"
	"sync"
)

// Channel is one of the three magic kinds: an unbounded FIFO of
// send/recv waiters that can be closed. It maintains two queues — pending
// sends and pending receives — of which at most one is ever non-empty.
// Send, Recv, and Close are safe to call concurrently from multiple
// evaluator fibers; mu serializes all access to the queues and closed flag.
type Channel struct {
	mu     sync.Mutex
	sends  *list.List // of *pendingSend
	recvs  *list.List // of func(Value, bool)
	closed bool
}

type pendingSend struct {
	value Value
	done  func(ok bool)
	elem  *list.Element
}

var _ Magic = (*Channel)(nil)

// NewChannel returns a fresh, open channel.
func NewChannel() *Channel {
	return &Channel{sends: list.New(), recvs: list.New()}
}

func (c *Channel) MagicKind() MagicKind { return MagicChannel }

// CancelSend is returned by Send when the value was enqueued rather than
// delivered immediately; calling it removes the pending send, as if it had
// never been offered. Calling it after the send has already been delivered
// or the channel closed is a silent no-op.
type CancelSend func()

// Send offers v on the channel. If a receiver is already waiting, v is
// delivered to it immediately and done(true) is called synchronously. If the
// channel is closed, done(false) is called synchronously. Otherwise the send
// is enqueued and a cancellation handle is returned; done will be called
// exactly once, whenever a receiver eventually takes it (ok=true) or the
// channel is closed first (ok=false).
func (c *Channel) Send(v Value, done func(ok bool)) CancelSend {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		done(false)
		return func() {}
	}
	if front := c.recvs.Front(); front != nil {
		c.recvs.Remove(front)
		recv := front.Value.(func(Value, *Object))
		c.mu.Unlock()
		done(true)
		recv(v, nil)
		return func() {}
	}

	ps := &pendingSend{value: v, done: done}
	ps.elem = c.sends.PushBack(ps)
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		if ps.elem != nil {
			c.sends.Remove(ps.elem)
			ps.elem = nil
		}
		c.mu.Unlock()
	}
}

// Recv requests the next value from the channel. If a sender is already
// waiting, its value is delivered immediately and its own done callback is
// invoked with true. If the channel is closed (now or before any value
// arrives), recv is called with (nil, ChanClosed()). Otherwise recv is
// enqueued and will be called exactly once.
func (c *Channel) Recv(recv func(v Value, err *Object)) {
	c.mu.Lock()
	if front := c.sends.Front(); front != nil {
		c.sends.Remove(front)
		ps := front.Value.(*pendingSend)
		ps.elem = nil
		c.mu.Unlock()
		ps.done(true)
		recv(ps.value, nil)
		return
	}
	if c.closed {
		c.mu.Unlock()
		recv(nil, ChanClosed())
		return
	}
	c.recvs.PushBack(func(v Value, err *Object) { recv(v, err) })
	c.mu.Unlock()
}

// Close marks the channel closed: every pending send's done callback fires
// with false, every pending receive's callback fires with a ChanClosed
// error, and all future Send/Recv calls are treated as operating on a
// closed channel. Close is idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	sends, recvs := c.sends, c.recvs
	c.sends, c.recvs = list.New(), list.New()
	c.mu.Unlock()

	for e := sends.Front(); e != nil; e = e.Next() {
		ps := e.Value.(*pendingSend)
		ps.elem = nil
		ps.done(false)
	}
	for e := recvs.Front(); e != nil; e = e.Next() {
		recv := e.Value.(func(Value, *Object))
		recv(nil, ChanClosed())
	}
}
