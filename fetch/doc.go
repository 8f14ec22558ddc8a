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


// Package fetch downloads provider documentation pages and turns them into
// plain-text documents ready for caching.
//
// A Fetcher resolves a provider id and documentation path against the
// catalog, downloads the page, extracts readable text with the provider's
// content selectors, and wraps the result in a Markdown banner that records
// the source URL and fetch time.
//
// FRED's documentation site lays subpages out as flat files, so for
// providers flagged with SpecialParsing the path "series/observations" is
// rewritten to "series-observations.html" before the request.
//
// Extracted text is capped at 100 KB; capped documents carry a truncation
// marker so readers know content is missing.
package fetch
