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


// Package registry holds the static provider catalog.
//
// The catalog is configuration, not live capability data: it is loaded once
// at startup (from the embedded default or an override file), validated, and
// never mutated afterwards. Declaration order is meaningful — ranking ties
// in the matcher preserve it — so the catalog is kept as an ordered sequence,
// not a map.
package registry
