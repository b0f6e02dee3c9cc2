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

// Package routefile loads route tables from YAML, TOML, or JSON files and
// keeps a [routematch.Engine] in sync with a file on disk.
//
// A route file lists endpoints:
//
//	routes:
//	  - template: "/users/{id:int}"
//	    method: GET
//	    handler: getUser
//	    constraints:
//	      id: ["range(1,100000)"]
//	    metadata:
//	      owner: accounts
//
// Handler names are resolved to values through a [HandlerResolver]. Without
// one, the handler name itself becomes the endpoint's handler.
//
// Files are validated with go-playground/validator before any route is
// compiled, so structural mistakes are reported by field path.
package routefile
