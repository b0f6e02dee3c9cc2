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

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBloomFilter(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(1000, 3)
	paths := []string{"/health", "/api/users", "/api/posts"}
	for _, p := range paths {
		bf.Add(p)
	}

	for _, p := range paths {
		assert.True(t, bf.Test(p), "no false negatives for %q", p)
		assert.True(t, bf.TestHash(hashString(p)))
	}

	falsePositives := 0
	for i := range 1000 {
		if bf.Test(fmt.Sprintf("/missing/%d", i)) {
			falsePositives++
		}
	}
	assert.Less(t, falsePositives, 100, "false positive rate should stay low")
}

func TestBloomFilter_DegenerateSizes(t *testing.T) {
	t.Parallel()

	bf := NewBloomFilter(0, 0)
	bf.Add("/x")
	assert.True(t, bf.Test("/x"))
}

func TestOptimalBloomSize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, uint64(100), OptimalBloomSize(0))
	assert.Equal(t, uint64(100), OptimalBloomSize(5))
	assert.Equal(t, uint64(5000), OptimalBloomSize(500))
	assert.Equal(t, uint64(1_000_000), OptimalBloomSize(10_000_000))
}

func TestHashStringMatchesFNV1a(t *testing.T) {
	t.Parallel()

	// Reference value of FNV-1a 64 for "a".
	assert.Equal(t, uint64(0xaf63dc4c8601ec8c), hashString("a"))
	assert.Equal(t, uint64(fnvOffsetBasis), hashString(""))
}

func TestExactIndex(t *testing.T) {
	t.Parallel()

	t.Run("small set skips bloom", func(t *testing.T) {
		t.Parallel()

		x := NewExactIndex[string]()
		_, replaced := x.Add("/health", "health")
		assert.False(t, replaced)
		x.Freeze(0, 0)
		assert.Nil(t, x.bloom)

		ep, ok := x.Lookup("/health")
		require.True(t, ok)
		assert.Equal(t, "health", ep)

		_, ok = x.Lookup("/healthz")
		assert.False(t, ok)
	})

	t.Run("large set uses bloom", func(t *testing.T) {
		t.Parallel()

		x := NewExactIndex[string]()
		for i := range 50 {
			x.Add(fmt.Sprintf("/r/%d", i), fmt.Sprintf("ep%d", i))
		}
		x.Freeze(0, 3)
		require.NotNil(t, x.bloom)
		assert.Equal(t, 50, x.Len())

		for i := range 50 {
			ep, ok := x.Lookup(fmt.Sprintf("/r/%d", i))
			require.True(t, ok)
			assert.Equal(t, fmt.Sprintf("ep%d", i), ep)
		}
		_, ok := x.Lookup("/r/50")
		assert.False(t, ok)

		seen := 0
		x.Paths(func(string, string) bool { seen++; return seen < 10 })
		assert.Equal(t, 10, seen)
	})

	t.Run("replace reports previous", func(t *testing.T) {
		t.Parallel()

		x := NewExactIndex[string]()
		x.Add("/a", "one")
		prev, replaced := x.Add("/a", "two")
		assert.True(t, replaced)
		assert.Equal(t, "one", prev)

		_, replaced = x.Add("/a", "two")
		assert.False(t, replaced, "same endpoint is not a replacement")
	})

	t.Run("empty index", func(t *testing.T) {
		t.Parallel()

		x := NewExactIndex[string]()
		x.Freeze(0, 0)
		_, ok := x.Lookup("/")
		assert.False(t, ok)
	})

	t.Run("add after freeze panics", func(t *testing.T) {
		t.Parallel()

		x := NewExactIndex[string]()
		x.Freeze(0, 0)
		assert.Panics(t, func() { x.Add("/a", "a") })
	})
}
