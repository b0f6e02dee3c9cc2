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
)

func benchTree(b *testing.B) *Tree[string] {
	b.Helper()

	bld := NewBuilder[string]()
	for i := range 50 {
		for _, tpl := range []string{
			"/api/r%d/{id}",
			"/api/r%d/{id}/items/{item}",
			"/api/r%d/v{version}/status",
		} {
			tpl = fmt.Sprintf(tpl, i)
			if _, err := bld.Insert(tpl, tpl); err != nil {
				b.Fatal(err)
			}
		}
	}
	return bld.Freeze(FreezeOptions[string]{})
}

func BenchmarkTreeMatch(b *testing.B) {
	tree := benchTree(b)
	paths := []string{
		"/api/r25/123",
		"/api/r40/123/items/9",
		"/api/r7/v2/status",
		"/api/r7/missing/a/b",
	}

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; b.Loop(); i++ {
		bindings := AcquireBindings()
		tree.Match(paths[i%len(paths)], bindings)
		ReleaseBindings(bindings)
	}
}

func BenchmarkExactIndexLookup(b *testing.B) {
	x := NewExactIndex[int]()
	for i := range 500 {
		x.Add(fmt.Sprintf("/static/route/%d", i), i)
	}
	x.Freeze(0, 3)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; b.Loop(); i++ {
		if i%2 == 0 {
			x.Lookup("/static/route/250")
		} else {
			x.Lookup("/static/route/missing")
		}
	}
}
