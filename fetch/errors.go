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


package fetch

import "errors"

var (
	// ErrRegistryRequired indicates a Fetcher was constructed without a catalog.
	ErrRegistryRequired = errors.New("registry is required")

	// ErrStatus indicates the documentation site answered with a non-2xx code.
	ErrStatus = errors.New("unexpected status")

	// ErrInvalidTimeout indicates a non-positive fetch timeout.
	ErrInvalidTimeout = errors.New("timeout must be positive")
)
