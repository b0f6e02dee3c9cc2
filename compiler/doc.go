// Copyright 2025 The Rivaas Authors
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

// Package compiler turns route templates into an immutable lookup structure.
//
// # Templates
//
// A template is a "/"-separated list of segments:
//
//	/users/me            literal segments
//	/users/{id}          whole-segment parameter
//	/orders/{id:int}     parameter with constraint expressions
//	/files/{path?}       optional parameter
//	/v{version}/status   mixed segment: literal prefix plus parameter
//	/docs/{name}.pdf     mixed segment: parameter plus literal suffix
//
// The tokenizer tracks brace depth, so "/", "?", ":" and nested braces inside
// "{...}" never split a segment. Malformed templates fail [ParseTemplate]
// with a [*TemplateError].
//
// # Structure
//
// Templates without parameters go to an [ExactIndex], a map fronted by a
// [BloomFilter] for large sets. Everything else is inserted into a prefix
// tree by a [Builder], then frozen into a [Tree] whose children are sorted
// slices instead of maps.
//
// # Matching
//
// [Tree.Match] walks the path one segment at a time over borrowed
// substrings. At each vertex it tries, in order:
//
//  1. the literal child equal to the segment
//  2. mixed-segment prefixes of the segment, binding the remainder
//  3. whole-segment parameter children
//
// Bindings pushed for a failed branch are truncated before the next sibling
// is tried. The first terminal vertex reached is handed to the Accept hook
// (constraint validation); when it rejects, the match fails unless the tree
// was frozen with Backtrack.
//
// # Thread Safety
//
// Builder and ExactIndex are single-threaded until frozen. A frozen Tree and
// ExactIndex are read-only and safe for concurrent use; per-call state lives
// in [Bindings], which are pooled.
package compiler
