// Package dispatch pairs pending devhub calls with the responses that
// answer them.
//
// The devhub envelope carries no sequence number: the daemon answers every
// request with exactly one response, in request order. Pairing is therefore
// first-in-first-out — the oldest expectation owns the next response:
//
//	caller-1 ──Expect(List)─────┐
//	caller-2 ──Expect(Invoke)───┼─→ pending FIFO ←── Run ←── Source (transport)
//	caller-3 ──Expect(Methods)──┘        │
//	                                     └─→ decode → each caller's own channel
//
// Run owns the receive side: it pulls raw buffers from a Source, decodes
// each against the head expectation and delivers the outcome on that call's
// buffered channel, so a slow caller never blocks the loop. A malformed
// response is terminal for its own call and invisible to every other
// in-flight call.
package dispatch

import (
	"context"
	"errors"
	"io"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"devhub-rpc/codec"
	"devhub-rpc/response"
)

var (
	// ErrDispatcherClosed settles calls still pending when the dispatcher
	// shuts down, and rejects registrations made after.
	ErrDispatcherClosed = errors.New("devhub: dispatcher is closed")

	// ErrUnexpectedResponse reports a response for which no call is pending.
	ErrUnexpectedResponse = errors.New("devhub: response arrived with no pending call")
)

// Source yields raw response buffers, one complete response per call.
// protocol.FrameReader and protocol.LineReader both satisfy it; anything
// that can hand over one response at a time will do. The dispatcher never
// manages the underlying stream — whoever dialed it closes it.
type Source interface {
	Next() ([]byte, error)
}

// pendingCall is the type-erased queue entry. Exactly one of complete or
// fail settles the call: Dispatch pops the entry before completing it, so
// failAll can never see it again.
type pendingCall struct {
	op       string
	complete func(raw []byte) error
	fail     func(err error)
}

// Dispatcher matches inbound responses to expectations in FIFO order.
type Dispatcher struct {
	codec   codec.Codec
	logger  *zap.Logger
	limiter *rate.Limiter // optional ingest pacing, see Limit

	mu      sync.Mutex
	pending []*pendingCall
	closed  bool
}

// NewDispatcher creates a dispatcher decoding with the given wire format.
// A nil logger disables logging.
func NewDispatcher(codecType codec.CodecType, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{
		codec:  codec.GetCodec(codecType),
		logger: logger,
	}
}

// Limit paces response ingestion with a token bucket: r responses per
// second, bursts up to burst. A misbehaving daemon flooding the stream then
// costs bounded decode work instead of a runaway loop. Call before Run.
func (d *Dispatcher) Limit(r float64, burst int) {
	d.limiter = rate.NewLimiter(rate.Limit(r), burst)
}

// PendingCount returns the number of calls awaiting a response.
func (d *Dispatcher) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// outcome is what settles a Pending: payload or error, never both.
type outcome[P any] struct {
	payload P
	err     error
}

// Pending is one in-flight call, created by Expect and settled exactly once
// with the call's final outcome.
type Pending[P any] struct {
	ch chan outcome[P]
}

// Wait blocks until the call settles or ctx ends. The error is the decode
// failure, the daemon's *response.ServerError, the dispatcher's shutdown
// error, or ctx's — whichever settled the call first.
func (p *Pending[P]) Wait(ctx context.Context) (P, error) {
	select {
	case out := <-p.ch:
		return out.payload, out.err
	case <-ctx.Done():
		var zero P
		return zero, ctx.Err()
	}
}

// Expect registers the next expected response: a call of the given
// operation kind, queued behind every expectation registered before it.
// Register in send order — the daemon answers in that order.
//
// A package-level function rather than a method because the payload type
// travels with the operation kind, and Go methods cannot add type
// parameters.
func Expect[P any](d *Dispatcher, op response.PayloadDecoder[P]) (*Pending[P], error) {
	p := &Pending[P]{
		// Buffered so settling a call never blocks the receive loop.
		ch: make(chan outcome[P], 1),
	}

	entry := &pendingCall{
		op: op.Name(),
		complete: func(raw []byte) error {
			resp, err := response.Decode(d.codec, raw, op)
			if err != nil {
				p.ch <- outcome[P]{err: err}
				return err
			}
			payload, err := resp.Result()
			p.ch <- outcome[P]{payload: payload, err: err}
			return nil
		},
		fail: func(err error) {
			p.ch <- outcome[P]{err: err}
		},
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil, ErrDispatcherClosed
	}
	d.pending = append(d.pending, entry)
	return p, nil
}

// Dispatch decodes one raw response buffer against the oldest pending call
// and settles that call with the outcome. The returned error reports decode
// failures (already delivered to the owning call) and responses nobody is
// waiting for; a well-formed error response from the daemon is not a
// dispatch error.
func (d *Dispatcher) Dispatch(raw []byte) error {
	d.mu.Lock()
	var entry *pendingCall
	if len(d.pending) > 0 {
		entry = d.pending[0]
		d.pending = d.pending[1:]
	}
	d.mu.Unlock()

	if entry == nil {
		d.logger.Warn("response with no pending call", zap.Int("bytes", len(raw)))
		return ErrUnexpectedResponse
	}

	if err := entry.complete(raw); err != nil {
		d.logger.Error("response decode failed",
			zap.String("op", entry.op), zap.Error(err))
		return err
	}

	d.logger.Debug("call completed", zap.String("op", entry.op))
	return nil
}

// Run is the receive loop: read one response from src, dispatch, repeat.
// It returns when src is exhausted (nil on a clean EOF) or ctx ends, and on
// every exit path fails whatever is still pending — a registered call is
// never left waiting on a response that cannot arrive anymore.
//
// Cancellation is observed between responses; a Next blocked on a quiet
// stream is released by closing the underlying reader, which the caller
// owns.
func (d *Dispatcher) Run(ctx context.Context, src Source) error {
	for {
		if d.limiter != nil {
			if err := d.limiter.Wait(ctx); err != nil {
				d.failAll(err)
				return err
			}
		} else if err := ctx.Err(); err != nil {
			d.failAll(err)
			return err
		}

		raw, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				// Clean end of stream. Anything still pending was sent but
				// will never be answered.
				d.failAll(io.ErrUnexpectedEOF)
				return nil
			}
			d.failAll(err)
			return err
		}

		// Errors are per-response and already logged; the loop keeps
		// serving the remaining calls.
		_ = d.Dispatch(raw)
	}
}

// Close fails every pending call with ErrDispatcherClosed and rejects
// registrations from then on. It does not touch the transport: closing the
// underlying reader, which also unblocks Run, stays with its owner.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.failAll(ErrDispatcherClosed)
}

// failAll settles every pending call with err.
func (d *Dispatcher) failAll(err error) {
	d.mu.Lock()
	pending := d.pending
	d.pending = nil
	d.mu.Unlock()

	for _, entry := range pending {
		entry.fail(err)
	}
	if len(pending) > 0 {
		d.logger.Warn("failed pending calls",
			zap.Int("count", len(pending)), zap.Error(err))
	}
}
