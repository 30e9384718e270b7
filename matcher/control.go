// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package matcher

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// passState is shared between a Control and its coordinator goroutine.
type passState struct {
	stopped   atomic.Bool
	processed atomic.Int64
	matched   atomic.Int64

	mu      sync.Mutex
	results []MatchedItem

	done chan struct{}
}

// Control is the handle of one running or finished match pass.
// Counters may be read at any time. Call Close (or Kill) when done with it.
type Control struct {
	state *passState
}

// Processed returns how many items the pass has visited so far.
func (c *Control) Processed() int {
	return int(c.state.processed.Load())
}

// Matched returns how many visited items matched so far.
// Disabled passes accept everything without counting.
func (c *Control) Matched() int {
	return int(c.state.matched.Load())
}

// Stopped reports whether the pass has finished or been killed.
func (c *Control) Stopped() bool {
	return c.state.stopped.Load()
}

// Done is closed once the coordinator goroutine has exited.
func (c *Control) Done() <-chan struct{} {
	return c.state.done
}

// Kill cancels the pass and waits for it to wind down.
// Kill is idempotent.
func (c *Control) Kill() {
	c.state.mu.Lock()
	c.state.stopped.Store(true)
	c.state.mu.Unlock()
	<-c.state.done
}

// Take removes and returns the current result buffer, leaving it empty.
func (c *Control) Take() []MatchedItem {
	c.state.mu.Lock()
	defer c.state.mu.Unlock()
	results := c.state.results
	c.state.results = nil
	return results
}

// IntoItems spins until the pass is stopped and then takes its results.
func (c *Control) IntoItems() []MatchedItem {
	for !c.state.stopped.Load() {
		runtime.Gosched()
	}
	return c.Take()
}

// Close kills the pass and discards its results.
func (c *Control) Close() {
	c.Kill()
	c.Take()
}
