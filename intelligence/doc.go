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


// Package intelligence implements query classification and provider matching.
//
// Classification turns a free-text data query into structured requirements
// by scanning fixed keyword tables with plain substring containment. The
// tables are ordered and the looseness of substring matching (short triggers
// can hit inside longer words) is a compatibility contract, not an accident:
// downstream consumers depend on the exact trigger behavior.
//
// Matching scores every catalog provider against a classification with a
// deterministic additive formula, drops providers whose data types are
// disjoint from the query's, and returns the top-N ranked by descending
// score. Ties preserve catalog declaration order.
//
// Everything in this package is pure computation over immutable inputs: no
// I/O, no hidden state, safe to call concurrently without locking.
package intelligence
