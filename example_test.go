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

package routematch_test

import (
	"fmt"

	"rivaas.dev/routematch"
)

func ExampleBuild() {
	t, err := routematch.Build([]routematch.Endpoint{
		{Template: "/users/me", Handler: "current user"},
		{Template: "/users/{id:int}", Handler: "user by id"},
		{Template: "/api/v{version}/status", Handler: "status"},
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, path := range []string{"/users/me", "/users/42", "/api/v2/status", "/users/alice"} {
		r, ok := t.Match(path)
		if !ok {
			fmt.Println(path, "-> no match")
			continue
		}
		fmt.Println(path, "->", r.Handler(), r.Params())
	}
	// Output:
	// /users/me -> current user map[]
	// /users/42 -> user by id map[id:42]
	// /api/v2/status -> status map[version:2]
	// /users/alice -> no match
}

func ExampleEngine_Reload() {
	e, err := routematch.NewEngine([]routematch.Endpoint{{Template: "/v1/{id}"}})
	if err != nil {
		fmt.Println(err)
		return
	}

	if err := e.Reload([]routematch.Endpoint{{Template: "/v2/{id}"}}); err != nil {
		fmt.Println(err)
		return
	}

	_, v1 := e.Match("/v1/7")
	_, v2 := e.Match("/v2/7")
	fmt.Println(e.Generation(), v1, v2)
	// Output: 2 false true
}
