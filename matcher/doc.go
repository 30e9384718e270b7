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

// Package matcher runs cancellable match passes over an item pool.
//
// Each call to Matcher.Run starts one pass in a coordinator goroutine and
// returns a Control handle. The coordinator takes the pool's unconsumed
// snapshot, fans the items out in chunks to an ants worker pool, and
// publishes the matches into a mutex-guarded buffer in one step. A pass is
// never reused: a new query means a new Run.
//
// # Cancellation
//
// Control.Kill sets a shared flag and waits for the coordinator. Workers
// check the flag before every item. A cancelled pass publishes nothing, so
// readers keep seeing the previous complete result set.
//
// # Dependencies
//
// The worker pool and the item pool are passed as weak pointers. If either
// is gone (or the worker pool is closed) when the pass starts, the pass
// does nothing and still signals completion.
package matcher
