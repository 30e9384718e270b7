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

// Package core defines the domain model shared by every sift package.
//
// The model is deliberately small:
//   - Item: the capability set a searchable line must expose
//   - MatchRange and MatchResult: what one engine evaluation produces
//   - Rank and RankBuilder: the 4-slot ordering key and how it is built
//   - CaseMatching: the case sensitivity policy handed to engine factories
//   - HistoryEntry: a persisted query
//
// Ranks compare lexicographically and ascending order means "better", so a
// plain sort puts the best match first.
package core
