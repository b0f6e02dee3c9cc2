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

// BloomFilter answers "definitely absent" or "possibly present" for a set of
// paths. It fronts the exact-match index so that misses on large static route
// sets skip the map lookup.
//
// Positions are derived from one FNV-1a base hash XORed with per-function
// seeds. The filter is read-only once the index is frozen.
type BloomFilter struct {
	bits  []uint64 // Bit array (each uint64 holds 64 bits)
	size  uint64   // Total number of bits
	seeds []uint64 // One seed per hash function
}

// NewBloomFilter creates a filter of size bits using numHashFuncs hash functions.
func NewBloomFilter(size uint64, numHashFuncs int) *BloomFilter {
	size = max(size, 64)
	numHashFuncs = max(numHashFuncs, 1)

	bf := &BloomFilter{
		bits:  make([]uint64, (size+63)/64),
		size:  size,
		seeds: make([]uint64, numHashFuncs),
	}
	for i := range numHashFuncs {
		//nolint:gosec // G115: numHashFuncs is small, overflow impossible
		bf.seeds[i] = uint64(i + 1)
	}
	return bf
}

// OptimalBloomSize returns the filter size for n entries at roughly 1% false
// positives (10 bits per entry), clamped to [100, 1_000_000].
func OptimalBloomSize(n int) uint64 {
	if n <= 0 {
		return 100
	}
	//nolint:gosec // G115: n is positive
	size := uint64(n) * 10
	return min(max(size, 100), 1_000_000)
}

func (bf *BloomFilter) position(baseHash, seed uint64) uint64 {
	return (baseHash ^ seed) % bf.size
}

// Add inserts s.
func (bf *BloomFilter) Add(s string) {
	bf.AddHash(hashString(s))
}

// AddHash inserts an element by its precomputed FNV-1a hash.
func (bf *BloomFilter) AddHash(baseHash uint64) {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		bf.bits[pos/64] |= 1 << (pos % 64)
	}
}

// Test reports whether s may be in the set.
func (bf *BloomFilter) Test(s string) bool {
	return bf.TestHash(hashString(s))
}

// TestHash reports whether an element with the given FNV-1a hash may be in the set.
func (bf *BloomFilter) TestHash(baseHash uint64) bool {
	for _, seed := range bf.seeds {
		pos := bf.position(baseHash, seed)
		if bf.bits[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}
