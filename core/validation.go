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
	"fmt"
	"time"
)

// ValidateProvider validates a catalog Provider record.
//
// Validation rules:
//   - ID must not be empty
//   - Name must not be empty
//   - DocsURL must not be empty
//
// NOT validated (free-form display strings):
//   - ResponseTime, RateLimit
//   - ContentSelectors (empty means body-text fallback during extraction)
//   - DataTypes and GeographicCoverage (empty sets are legal; scoring handles them)
func ValidateProvider(p *Provider) error {
	if p == nil {
		return fmt.Errorf("%w: provider is nil", ErrInvalidProvider)
	}

	if p.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProvider, ErrEmptyProviderID)
	}

	if p.Name == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProvider, ErrEmptyProviderName)
	}

	if p.DocsURL == "" {
		return fmt.Errorf("%w: %w", ErrInvalidProvider, ErrEmptyDocsURL)
	}

	return nil
}

// ValidateDocument validates a Document before it enters the cache.
//
// Validation rules:
//   - Provider must not be empty
//   - FetchedAt must not be in the future
//
// NOT validated:
//   - Content (pages can legitimately extract to nothing)
//   - Path ("" is the provider's index page)
func ValidateDocument(d *Document) error {
	if d == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if d.Provider == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptyDocumentProvider)
	}

	if !IsValidFetchTime(d.FetchedAt) {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrInvalidFetchTime)
	}

	return nil
}

// IsValidFetchTime checks if a fetch timestamp is valid (not in the future).
func IsValidFetchTime(ts time.Time) bool {
	return !ts.After(time.Now())
}
