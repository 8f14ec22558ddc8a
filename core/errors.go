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

import "errors"

// Domain validation errors
var (
	// ErrInvalidProvider indicates a Provider record failed validation.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrUnknownProvider indicates a provider id is not present in the catalog.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrDuplicateProvider indicates two catalog records share an id.
	ErrDuplicateProvider = errors.New("duplicate provider id")

	// ErrEmptyProviderID indicates the provider ID field is empty.
	ErrEmptyProviderID = errors.New("provider id cannot be empty")

	// ErrEmptyProviderName indicates the provider Name field is empty.
	ErrEmptyProviderName = errors.New("provider name cannot be empty")

	// ErrEmptyDocsURL indicates the provider DocsURL field is empty.
	ErrEmptyDocsURL = errors.New("provider docs url cannot be empty")

	// ErrInvalidDocument indicates a Document failed validation.
	ErrInvalidDocument = errors.New("invalid document")

	// ErrEmptyDocumentProvider indicates the document Provider field is empty.
	ErrEmptyDocumentProvider = errors.New("document provider cannot be empty")

	// ErrInvalidFetchTime indicates a document fetch time is in the future.
	ErrInvalidFetchTime = errors.New("fetch time cannot be in the future")
)
