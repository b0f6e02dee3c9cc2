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

import "sync"

// Param is one captured parameter binding.
type Param struct {
	Key   string
	Value string
}

// Bindings is the per-call scratch stack of parameter captures. Speculative
// bindings are pushed while descending and truncated when a branch fails, so
// a successful match only ever holds the bindings of its own path.
//
// Bindings is not safe for concurrent use; each match call owns one.
type Bindings struct {
	params []Param
}

var bindingsPool = sync.Pool{
	New: func() any {
		return &Bindings{params: make([]Param, 0, 8)}
	},
}

// AcquireBindings returns an empty Bindings from the pool.
func AcquireBindings() *Bindings {
	b, ok := bindingsPool.Get().(*Bindings)
	if !ok {
		return &Bindings{params: make([]Param, 0, 8)}
	}
	return b
}

// ReleaseBindings resets b and returns it to the pool. Slices previously
// obtained from b.All must not be used afterwards.
func ReleaseBindings(b *Bindings) {
	if b == nil {
		return
	}
	b.Reset()
	bindingsPool.Put(b)
}

func (b *Bindings) push(key, value string) {
	b.params = append(b.params, Param{Key: key, Value: value})
}

func (b *Bindings) mark() int {
	return len(b.params)
}

func (b *Bindings) truncate(mark int) {
	clear(b.params[mark:])
	b.params = b.params[:mark]
}

// Get returns the value bound to key.
func (b *Bindings) Get(key string) (string, bool) {
	for i := len(b.params) - 1; i >= 0; i-- {
		if b.params[i].Key == key {
			return b.params[i].Value, true
		}
	}
	return "", false
}

// Len returns the number of bindings.
func (b *Bindings) Len() int {
	return len(b.params)
}

// All returns the bindings in capture order. The slice is borrowed.
func (b *Bindings) All() []Param {
	return b.params
}

// Reset removes all bindings.
func (b *Bindings) Reset() {
	b.truncate(0)
}
