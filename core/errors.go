// Copyright 2025 Brightpool Labs
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
	// ErrInvalidAsset indicates an Asset failed validation.
	ErrInvalidAsset = errors.New("invalid asset")

	// ErrInvalidFilename indicates a filename failed the safety predicate.
	ErrInvalidFilename = errors.New("invalid filename")

	// ErrEmptyFilename indicates the filename is empty or whitespace.
	ErrEmptyFilename = errors.New("filename cannot be empty")

	// ErrFilenameTooLong indicates the filename exceeds the length limit.
	ErrFilenameTooLong = errors.New("filename too long")

	// ErrInvalidFileType indicates an invalid FileType value.
	ErrInvalidFileType = errors.New("invalid file type")

	// ErrUnsupportedMimeType indicates a MIME type outside the allowed set.
	ErrUnsupportedMimeType = errors.New("unsupported mime type")

	// ErrInvalidStatus indicates an invalid ProcessingStatus value.
	ErrInvalidStatus = errors.New("invalid processing status")
)
