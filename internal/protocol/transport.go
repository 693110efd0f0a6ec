package protocol

import (
	"context"
	"sync"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
)

// Transport moves framed messages over one connection. ReadMessage is only
// ever called from one goroutine; WriteMessage may be called from several.
type Transport interface {
	ReadMessage(ctx context.Context) ([]byte, error)
	WriteMessage(data []byte) error
	Close() error
}

// Send encodes msg and writes it.
func Send(t Transport, msg Message) error {
	data, err := Encode(msg)
	if err != nil {
		return err
	}
	return t.WriteMessage(data)
}

// Receive reads and decodes the next message.
func Receive(ctx context.Context, t Transport) (Message, error) {
	data, err := t.ReadMessage(ctx)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

// pipeEnd is one side of an in-memory connection.
type pipeEnd struct {
	in  <-chan []byte
	out chan<- []byte

	done      chan struct{} // shared by both ends
	closeOnce *sync.Once
}

// PipeBuffer is how many messages each direction of a Pipe holds.
const PipeBuffer = 256

// Pipe returns the two ends of an in-memory connection. Closing either end
// closes both.
func Pipe() (Transport, Transport) {
	ab := make(chan []byte, PipeBuffer)
	ba := make(chan []byte, PipeBuffer)
	done := make(chan struct{})
	once := &sync.Once{}
	return &pipeEnd{in: ba, out: ab, done: done, closeOnce: once},
		&pipeEnd{in: ab, out: ba, done: done, closeOnce: once}
}

func (p *pipeEnd) ReadMessage(ctx context.Context) ([]byte, error) {
	select {
	case data := <-p.in:
		return data, nil
	default:
	}
	select {
	case data := <-p.in:
		return data, nil
	case <-p.done:
		return nil, errors.Disconnect("pipe closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// WriteMessage never blocks. A peer that stops reading until the buffer
// fills is cut off, like a slow websocket peer.
func (p *pipeEnd) WriteMessage(data []byte) error {
	select {
	case <-p.done:
		return errors.Disconnect("pipe closed")
	default:
	}
	select {
	case p.out <- data:
		return nil
	default:
		p.Close()
		return errors.Disconnect("pipe buffer full")
	}
}

func (p *pipeEnd) Close() error {
	p.closeOnce.Do(func() { close(p.done) })
	return nil
}
