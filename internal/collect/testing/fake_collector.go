// Package testing provides test doubles for the collect package.
package testing

import (
	"context"
	"sync"

	"github.com/rileyhilliard/clusterwatch/internal/collect"
)

// CollectCall records a call to Collect.
type CollectCall struct {
	Category string
}

// Response is what FakeCollector returns for a category.
type Response struct {
	Output collect.Output
	Err    error
	Panic  interface{} // If non-nil, Collect panics with this value
}

// FakeCollector returns canned responses per category.
type FakeCollector struct {
	mu sync.Mutex

	Responses map[string]Response
	Default   Response

	// During runs inside Collect before the response is returned. Tests use
	// it to act while the execution lock is held.
	During func(category string)

	Calls []CollectCall
}

// NewFakeCollector creates a collector that succeeds with empty output by default.
func NewFakeCollector() *FakeCollector {
	return &FakeCollector{Responses: make(map[string]Response)}
}

// Respond sets the response for category.
func (f *FakeCollector) Respond(category string, r Response) *FakeCollector {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Responses[category] = r
	return f
}

// Succeed makes category exit zero with stdout.
func (f *FakeCollector) Succeed(category, stdout string) *FakeCollector {
	return f.Respond(category, Response{Output: collect.Output{Stdout: []byte(stdout)}})
}

// Collect records the call and returns the configured response.
func (f *FakeCollector) Collect(ctx context.Context, category string) (collect.Output, error) {
	f.mu.Lock()
	f.Calls = append(f.Calls, CollectCall{Category: category})
	resp, ok := f.Responses[category]
	if !ok {
		resp = f.Default
	}
	during := f.During
	f.mu.Unlock()

	if during != nil {
		during(category)
	}
	if resp.Panic != nil {
		panic(resp.Panic)
	}
	return resp.Output, resp.Err
}

// CallCount returns how many times Collect ran.
func (f *FakeCollector) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}
