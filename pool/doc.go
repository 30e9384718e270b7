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

// Package pool provides the growing item store match passes draw from.
//
// ItemPool is append-only until Clear. A "taken" watermark separates items
// already handed to a match pass from newly appended ones, so an incremental
// pass only sees new items. Reset rewinds the watermark for a full re-scan.
//
// The first N appended items can be reserved as a header. Reserved items are
// held through weak pointers: they stay visible as long as the pool holds
// them, without the header keeping them alive after Clear.
//
// # Thread Safety
//
// One mutex guards the item and reserved vectors together and is held only
// for the duration of Append, Take, Reset and Clear. Len and NumTaken are
// lock-free snapshots intended for progress display.
package pool
