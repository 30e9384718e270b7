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


// Package storage provides the persistence layer for sift.
//
// Only query history is persisted. Items and match results live in memory
// for the lifetime of a session and are never written here.
//
// # Architecture
//
// The package defines the repository interface and the mus codecs used to
// encode records. Backends live in subpackages:
//
//   - HistoryRepository: recently run queries, most recent first
//   - badger: BadgerDB implementation
//
// # Usage
//
// Open a repository on disk:
//
//	history, err := badger.OpenHistory("/path/to/db", logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer history.Close()
//
// Use in tests with in-memory storage:
//
//	history, err := badger.NewMemoryHistory()
//
// # Thread Safety
//
// All repository implementations must be thread-safe and support
// concurrent access from multiple goroutines.
package storage
