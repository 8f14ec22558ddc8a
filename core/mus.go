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


package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// DocumentMUS serializes Document values in the MUS format. The field order
// below is the on-disk wire format: append new fields at the end only, never
// reorder or remove.
var DocumentMUS = documentMUS{}

type documentMUS struct{}

func (documentMUS) Marshal(d Document, bs []byte) (n int) {
	n = ord.String.Marshal(d.Provider, bs)
	n += ord.String.Marshal(d.Path, bs[n:])
	n += ord.String.Marshal(d.URL, bs[n:])
	n += ord.String.Marshal(d.Content, bs[n:])
	// Microsecond resolution is enough for fetch timestamps.
	n += varint.Int64.Marshal(d.FetchedAt.UnixMicro(), bs[n:])
	return n + varint.Int64.Marshal(d.Size, bs[n:])
}

func (documentMUS) Unmarshal(bs []byte) (d Document, n int, err error) {
	d.Provider, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	d.Path, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	d.Content, n1, err = ord.String.Unmarshal(bs[n:])
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
	d.FetchedAt = time.UnixMicro(micros).UTC()
	d.Size, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	return
}

func (documentMUS) Size(d Document) (size int) {
	size = ord.String.Size(d.Provider)
	size += ord.String.Size(d.Path)
	size += ord.String.Size(d.URL)
	size += ord.String.Size(d.Content)
	size += varint.Int64.Size(d.FetchedAt.UnixMicro())
	return size + varint.Int64.Size(d.Size)
}

func (documentMUS) Skip(bs []byte) (n int, err error) {
	n, err = ord.String.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	for range 3 {
		n1, err = ord.String.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	for range 2 {
		n1, err = varint.Int64.Skip(bs[n:])
		n += n1
		if err != nil {
			return
		}
	}
	return
}
