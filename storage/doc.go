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


// Package storage provides the documentation cache abstraction for finmcp.
//
// This package defines the DocumentStore interface that decouples cache
// implementation from the rest of the system. It allows different storage
// backends (BadgerDB on disk, BadgerDB in-memory for tests) to be used
// interchangeably.
//
// # Cache Semantics
//
// Entries are content-addressed: the key is derived from the provider id and
// documentation path via core.DocumentID, so writing the same page twice
// replaces the previous entry. Entries carry a TTL owned by the concrete
// store; an expired entry is indistinguishable from an absent one and both
// surface as ErrNotFound.
//
// # Serialization
//
// Documents are serialized with the MUS format (see serialization.go). The
// field order in the serializer is the wire format: append new fields at the
// end only, never reorder.
//
// # Usage
//
// Create a store instance:
//
//	store, err := badger.OpenStore("/path/to/cache", false, time.Hour)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// Use in tests with in-memory storage:
//
//	store, err := badger.NewMemoryStore(time.Hour)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer store.Close()
//
// # Thread Safety
//
// All store implementations must be thread-safe and support concurrent
// access from multiple goroutines.
//
// # Context Support
//
// All store methods accept context.Context for cancellation and timeout
// support. Pass context.Background() for operations without specific
// timeout requirements.
package storage
