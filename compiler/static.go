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

package compiler

// FNV-1a constants. Hashing is inlined so a string is hashed without a
// []byte conversion or hash.Hash interface calls.
const (
	fnvOffsetBasis = 14695981039346656037
	fnvPrime       = 1099511628211
)

func hashString(s string) uint64 {
	hash := uint64(fnvOffsetBasis)
	for i := range len(s) {
		hash ^= uint64(s[i])
		hash *= fnvPrime
	}
	return hash
}

// bloomThreshold is the index size below which the bloom filter is skipped;
// a direct map lookup is cheaper for small sets.
const bloomThreshold = 10

// ExactIndex maps fully literal paths to endpoints. It is mutable until
// Freeze and read-only afterwards.
type ExactIndex[E comparable] struct {
	routes map[string]E
	bloom  *BloomFilter
	frozen bool
}

// NewExactIndex returns an empty index.
func NewExactIndex[E comparable]() *ExactIndex[E] {
	return &ExactIndex[E]{routes: make(map[string]E, 16)}
}

// Add stores ep under path. If path already held a different endpoint, the
// previous one is returned with replaced set. Add panics after Freeze.
func (x *ExactIndex[E]) Add(path string, ep E) (prev E, replaced bool) {
	if x.frozen {
		panic("compiler: Add on frozen ExactIndex")
	}
	prev, exists := x.routes[path]
	x.routes[path] = ep
	return prev, exists && prev != ep
}

// Freeze builds the bloom filter. bloomSize of zero sizes it from the
// number of entries; hashFuncs below one defaults to three.
func (x *ExactIndex[E]) Freeze(bloomSize uint64, hashFuncs int) {
	if x.frozen {
		return
	}
	x.frozen = true
	if len(x.routes) < bloomThreshold {
		return
	}
	if bloomSize == 0 {
		bloomSize = OptimalBloomSize(len(x.routes))
	}
	if hashFuncs < 1 {
		hashFuncs = 3
	}
	x.bloom = NewBloomFilter(bloomSize, hashFuncs)
	for path := range x.routes {
		x.bloom.Add(path)
	}
}

// Lookup returns the endpoint registered for exactly path.
func (x *ExactIndex[E]) Lookup(path string) (E, bool) {
	if len(x.routes) == 0 {
		var zero E
		return zero, false
	}
	if x.bloom != nil && !x.bloom.TestHash(hashString(path)) {
		var zero E
		return zero, false
	}
	ep, ok := x.routes[path]
	return ep, ok
}

// Len returns the number of indexed paths.
func (x *ExactIndex[E]) Len() int {
	return len(x.routes)
}

// Paths calls fn for every indexed path until fn returns false.
func (x *ExactIndex[E]) Paths(fn func(path string, ep E) bool) {
	for path, ep := range x.routes {
		if !fn(path, ep) {
			return
		}
	}
}
