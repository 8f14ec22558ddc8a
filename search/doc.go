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


// Package search provides full-text search over cached documentation.
//
// The Index type wraps an in-memory Bleve index keyed by the same
// provider/path identity the document cache uses. Queries match document
// content, with boosted matches on the provider id and path so that
// provider-directed queries ("fred observations") surface the right pages
// first.
//
// The index is rebuilt from the cache at startup and updated after each
// fetch; it is never persisted.
package search
