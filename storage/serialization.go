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

package storage

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
	"github.com/poiesic/sift/core"
)

// HistoryEntryMUS is the mus serializer for core.HistoryEntry.
// Timestamps are stored as microseconds since the Unix epoch, in UTC.
var HistoryEntryMUS = historyEntryMUS{}

type historyEntryMUS struct{}

func (s historyEntryMUS) Marshal(v core.HistoryEntry, bs []byte) (n int) {
	n = varint.Uint64.Marshal(uint64(v.Id), bs)
	n += ord.String.Marshal(v.Query, bs[n:])
	return n + varint.Int64.Marshal(v.Timestamp.UnixMicro(), bs[n:])
}

func (s historyEntryMUS) Unmarshal(bs []byte) (v core.HistoryEntry, n int, err error) {
	id, n, err := varint.Uint64.Unmarshal(bs)
	if err != nil {
		return
	}
	v.Id = core.ID(id)
	var n1 int
	v.Query, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Timestamp = time.UnixMicro(micros).UTC()
	return
}

func (s historyEntryMUS) Size(v core.HistoryEntry) (size int) {
	size = varint.Uint64.Size(uint64(v.Id))
	size += ord.String.Size(v.Query)
	return size + varint.Int64.Size(v.Timestamp.UnixMicro())
}

// MarshalHistoryEntry serializes a HistoryEntry to bytes.
func MarshalHistoryEntry(entry *core.HistoryEntry) []byte {
	buf := make([]byte, HistoryEntryMUS.Size(*entry))
	HistoryEntryMUS.Marshal(*entry, buf)
	return buf
}

// UnmarshalHistoryEntry deserializes a HistoryEntry from bytes.
func UnmarshalHistoryEntry(data []byte) (*core.HistoryEntry, error) {
	entry, _, err := HistoryEntryMUS.Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerializationFailed, err)
	}
	return &entry, nil
}

// MarshalSequence encodes a sequence number so that byte order matches
// numeric order.
func MarshalSequence(seq uint64) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, seq)
	return buf
}

// UnmarshalSequence decodes a value written by MarshalSequence.
func UnmarshalSequence(data []byte) (uint64, error) {
	if len(data) < 8 {
		return 0, ErrTruncatedData
	}
	return binary.BigEndian.Uint64(data), nil
}
