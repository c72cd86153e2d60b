// Package connecttest provides an in-memory Transport that records calls.
package connecttest

import (
	"context"
	"fmt"
	"sync"

	"github.com/DanielPopoola/connect-fulfillment/internal/infrastructure/connect"
)

// Call is one recorded platform call.
type Call struct {
	Method string
	Path   string
	Body   string
}

func (c Call) String() string {
	return c.Method + " " + c.Path
}

// Transport answers calls from a route table keyed by "METHOD path".
// Unrouted calls succeed with an empty JSON object.
type Transport struct {
	mu     sync.Mutex
	calls  []Call
	routes map[string]func() (*connect.Response, error)
}

func NewTransport() *Transport {
	return &Transport{routes: make(map[string]func() (*connect.Response, error))}
}

// Respond makes method+path answer with status 200 and body.
func (t *Transport) Respond(method, path, body string) *Transport {
	return t.Handle(method, path, func() (*connect.Response, error) {
		return &connect.Response{StatusCode: 200, Body: []byte(body)}, nil
	})
}

// Fail makes method+path return err.
func (t *Transport) Fail(method, path string, err error) *Transport {
	return t.Handle(method, path, func() (*connect.Response, error) {
		return nil, err
	})
}

func (t *Transport) Handle(method, path string, fn func() (*connect.Response, error)) *Transport {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.routes[method+" "+path] = fn
	return t
}

func (t *Transport) Send(ctx context.Context, method, path string, body []byte) (*connect.Response, error) {
	t.mu.Lock()
	t.calls = append(t.calls, Call{Method: method, Path: path, Body: string(body)})
	fn, ok := t.routes[method+" "+path]
	t.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}
	if !ok {
		return &connect.Response{StatusCode: 200, Body: []byte("{}")}, nil
	}
	return fn()
}

func (t *Transport) Calls() []Call {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Call(nil), t.calls...)
}

// Mutations returns the recorded calls other than GET.
func (t *Transport) Mutations() []Call {
	var out []Call
	for _, c := range t.Calls() {
		if c.Method != "GET" {
			out = append(out, c)
		}
	}
	return out
}

func (t *Transport) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.calls = nil
}
