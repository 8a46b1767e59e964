// Package stream converts an incremental text-provider response into a
// server-push event stream. Wire format: one line per event, shaped
// "data: <json>\n\n", where the JSON is {"chunk": "..."}, {"done": true}
// or {"error": "..."}. The stream always ends with a done event unless the
// client disconnected first.
package stream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TokenStream is the incremental output of a generative-text provider.
// Recv returns io.EOF when the provider is finished.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

type chunkEvent struct {
	Chunk string `json:"chunk"`
}

type doneEvent struct {
	Done bool `json:"done"`
}

type errorEvent struct {
	Error string `json:"error"`
}

// Relay buffers provider deltas and flushes them as coalesced chunk events.
// A buffered chunk is flushed when it reaches FlushLen characters, contains
// a sentence-terminal character or newline, or when FlushInterval has
// elapsed since the last flush. The mock path paces one sentence per
// MockDelay instead.
type Relay struct {
	FlushLen      int
	FlushInterval time.Duration
	MockDelay     time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration)
}

func NewRelay() *Relay {
	return &Relay{
		FlushLen:      10,
		FlushInterval: 200 * time.Millisecond,
		MockDelay:     80 * time.Millisecond,
		now:           time.Now,
		sleep:         sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Pipe relays src into w until the provider finishes or fails. Provider
// errors become one apology chunk followed by the done event; the stream is
// never dropped without a terminal signal. A canceled ctx (client
// disconnect) stops production immediately.
func (r *Relay) Pipe(ctx context.Context, w io.Writer, src TokenStream) {
	defer src.Close()

	var buf strings.Builder
	lastFlush := r.now()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		delta, err := src.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			r.writeEvent(w, chunkEvent{Chunk: apologyReply(err)})
			r.writeEvent(w, doneEvent{Done: true})
			return
		}
		if delta == "" {
			continue
		}

		buf.WriteString(delta)
		if r.shouldFlush(buf.String(), lastFlush) {
			r.writeEvent(w, chunkEvent{Chunk: buf.String()})
			buf.Reset()
			lastFlush = r.now()
		}
	}

	if buf.Len() > 0 {
		r.writeEvent(w, chunkEvent{Chunk: buf.String()})
	}
	r.writeEvent(w, doneEvent{Done: true})
}

// PipeMock streams a fixed reply sentence by sentence with a constant
// pacing delay, ending with the same done event as the live path. Used when
// no provider is configured so downstream code can be exercised without
// credentials.
func (r *Relay) PipeMock(ctx context.Context, w io.Writer, reply string) {
	for _, block := range strings.Split(reply, ". ") {
		select {
		case <-ctx.Done():
			return
		default:
		}

		r.writeEvent(w, chunkEvent{Chunk: block + ". "})
		r.sleep(ctx, r.MockDelay)
	}
	r.writeEvent(w, doneEvent{Done: true})
}

// WriteError emits a standalone error event for failures that happen before
// streaming starts (bad request, provider setup).
func (r *Relay) WriteError(w io.Writer, err error) {
	r.writeEvent(w, errorEvent{Error: err.Error()})
}

func (r *Relay) shouldFlush(buf string, lastFlush time.Time) bool {
	if buf == "" {
		return false
	}
	if len(buf) >= r.FlushLen {
		return true
	}
	if strings.ContainsAny(buf, ".!?") {
		return true
	}
	if strings.Contains(buf, "\n") {
		return true
	}
	return r.now().Sub(lastFlush) > r.FlushInterval
}

func (r *Relay) writeEvent(w io.Writer, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func apologyReply(err error) string {
	return fmt.Sprintf("I'm having trouble processing your question. Could you try asking in a different way? (Error: %s)", err)
}
