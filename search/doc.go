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


// Package search provides hybrid keyword and semantic search over the asset
// catalog.
//
// The Searcher type fans out two independent match paths per query:
//   - Keyword matching on filename substrings and exact tag tokens
//   - Semantic matching using vector embeddings and cosine similarity
//
// The Rank function fuses both candidate lists into one deduplicated list
// with a deterministic total order. The semantic path degrades to an empty
// result set when the embedding provider is unavailable or slow; keyword
// search always works.
package search
