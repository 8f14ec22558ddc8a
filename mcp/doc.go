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


// Package mcp exposes the service over the Model Context Protocol:
// newline-delimited JSON-RPC 2.0 on stdio.
//
// Each catalog provider is published as a finmcp:// resource whose content
// is its live documentation, and recommendation, search, and fetching are
// published as tools. Logs go to stderr; stdout carries only protocol
// frames.
package mcp
