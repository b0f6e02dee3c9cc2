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

package routematch

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rivaas.dev/routematch/compiler"
	"rivaas.dev/routematch/constraint"
)

// endpoints returns one endpoint per template with the template as handler.
func endpoints(templates ...string) []Endpoint {
	out := make([]Endpoint, len(templates))
	for i, tpl := range templates {
		out[i] = Endpoint{Template: tpl, Handler: tpl}
	}
	return out
}

func TestTableMatch(t *testing.T) {
	t.Parallel()

	table := MustBuild(endpoints(
		"/",
		"/users/me",
		"/users/{id}",
		"/orders/{id:numeric}",
		"/v{version}/status",
		"/files/{path?}",
		"/docs/{name}.pdf",
		"/a/{x}/c",
		"/a/b/{y}",
		"/archive/{year:range(1990,2100)}/{month?}",
	))

	tests := []struct {
		name    string
		path    string
		want    string
		params  map[string]string
		noMatch bool
	}{
		{name: "root", path: "/", want: "/", params: map[string]string{}},
		{name: "empty path is root", path: "", want: "/", params: map[string]string{}},
		{name: "literal precedence", path: "/users/me", want: "/users/me", params: map[string]string{}},
		{name: "parameter", path: "/users/42", want: "/users/{id}", params: map[string]string{"id": "42"}},
		{name: "constraint accepts", path: "/orders/123", want: "/orders/{id:numeric}", params: map[string]string{"id": "123"}},
		{name: "constraint rejects", path: "/orders/abc", noMatch: true},
		{name: "mixed segment", path: "/v2/status", want: "/v{version}/status", params: map[string]string{"version": "2"}},
		{name: "mixed segment needs a value", path: "/v/status", noMatch: true},
		{name: "optional omitted", path: "/files", want: "/files/{path?}", params: map[string]string{}},
		{name: "optional present", path: "/files/report.pdf", want: "/files/{path?}", params: map[string]string{"path": "report.pdf"}},
		{name: "literal suffix", path: "/docs/guide.pdf", want: "/docs/{name}.pdf", params: map[string]string{"name": "guide"}},
		{name: "literal suffix mismatch", path: "/docs/guide.txt", noMatch: true},
		{name: "overlap takes literal branch", path: "/a/b/c", want: "/a/b/{y}", params: map[string]string{"y": "c"}},
		{name: "overlap takes param branch", path: "/a/z/c", want: "/a/{x}/c", params: map[string]string{"x": "z"}},
		{name: "range and optional", path: "/archive/2024/05", want: "/archive/{year:range(1990,2100)}/{month?}",
			params: map[string]string{"year": "2024", "month": "05"}},
		{name: "range and optional omitted", path: "/archive/2024", want: "/archive/{year:range(1990,2100)}/{month?}",
			params: map[string]string{"year": "2024"}},
		{name: "range out of bounds", path: "/archive/1800", noMatch: true},
		{name: "too many segments", path: "/users/42/extra", noMatch: true},
		{name: "unknown literal", path: "/nothing", noMatch: true},
		{name: "trailing slash", path: "/users/42/", noMatch: true},
		{name: "double slash", path: "/users//42", noMatch: true},
		{name: "literal without leading slash", path: "users/me", want: "/users/me", params: map[string]string{}},
		{name: "parameter without leading slash", path: "users/42", want: "/users/{id}", params: map[string]string{"id": "42"}},
		{name: "mixed segment without leading slash", path: "v2/status", want: "/v{version}/status", params: map[string]string{"version": "2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r, ok := table.Match(tt.path)
			if tt.noMatch {
				assert.False(t, ok)
				assert.Nil(t, r)
				return
			}
			require.True(t, ok, "path %q", tt.path)
			assert.Equal(t, tt.want, r.Handler())
			if diff := cmp.Diff(tt.params, r.Params()); diff != "" {
				t.Errorf("params mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableMatch_Idempotent(t *testing.T) {
	t.Parallel()

	templates := []string{"/users/me", "/users/{id:int}", "/v{version}/status", "/files/{path?}"}
	cached := MustBuild(endpoints(templates...))
	fresh := MustBuild(endpoints(templates...), WithoutCache())

	paths := []string{"/users/me", "/users/7", "/users/x", "/v3/status", "/files", "/files/a", "/missing"}
	for range 3 {
		for _, p := range paths {
			got, gotOK := cached.Match(p)
			want, wantOK := fresh.Match(p)
			require.Equal(t, wantOK, gotOK, "path %q", p)
			if !wantOK {
				continue
			}
			assert.Equal(t, want.Template(), got.Template())
			assert.Equal(t, want.Params(), got.Params())
		}
		cached.ClearCache()
	}
}

func TestTableMatch_ExactFastPath(t *testing.T) {
	t.Parallel()

	var templates []string
	for i := range 20 {
		templates = append(templates, fmt.Sprintf("/static/%d", i))
	}
	templates = append(templates, "/static/{id}")
	table := MustBuild(endpoints(templates...), WithoutCache())

	for i := range 20 {
		path := fmt.Sprintf("/static/%d", i)
		r, ok := table.Match(path)
		require.True(t, ok)
		assert.Equal(t, path, r.Handler())
		assert.Zero(t, r.Len())
		assert.Empty(t, r.Params())
	}

	st := table.Stats()
	assert.Equal(t, 20, st.StaticRoutes)
	assert.Equal(t, 1, st.TreeRoutes)
	assert.Equal(t, uint64(20), st.ExactHits)
	assert.Zero(t, st.TreeLookups, "exact paths must not walk the tree")

	_, ok := table.Match("/static/x")
	require.True(t, ok)
	assert.Equal(t, uint64(1), table.Stats().TreeLookups)
}

func TestTableMatch_BacktrackingDoesNotLeak(t *testing.T) {
	t.Parallel()

	table := MustBuild(endpoints("/a/{x}/c", "/a/b/{y}/d"))

	r, ok := table.Match("/a/b/c")
	require.True(t, ok)
	assert.Equal(t, "/a/{x}/c", r.Template())
	assert.Equal(t, map[string]string{"x": "b"}, r.Params())
	_, leaked := r.Param("y")
	assert.False(t, leaked)
}

func TestTableMatch_ConstraintPolicy(t *testing.T) {
	t.Parallel()

	templates := endpoints("/users/{id:int}", "/users/{name}")

	t.Run("first terminal decides", func(t *testing.T) {
		t.Parallel()

		table := MustBuild(templates)
		r, ok := table.Match("/users/42")
		require.True(t, ok)
		assert.Equal(t, "/users/{id:int}", r.Template())

		_, ok = table.Match("/users/alice")
		assert.False(t, ok)
		assert.Equal(t, uint64(1), table.Stats().Rejections)
	})

	t.Run("backtracking", func(t *testing.T) {
		t.Parallel()

		table := MustBuild(templates, WithConstraintBacktracking(true))
		r, ok := table.Match("/users/alice")
		require.True(t, ok)
		assert.Equal(t, "/users/{name}", r.Template())
		assert.Equal(t, map[string]string{"name": "alice"}, r.Params())
	})
}

func TestTableMatch_ExplicitConstraints(t *testing.T) {
	t.Parallel()

	even := constraint.Func("must be even", func(v string) bool {
		return v != "" && strings.ContainsAny(v[len(v)-1:], "02468")
	})
	table := MustBuild([]Endpoint{{
		Template:    "/items/{id:int}",
		Constraints: map[string]constraint.Validator{"id": even},
	}})

	_, ok := table.Match("/items/42")
	assert.True(t, ok)
	_, ok = table.Match("/items/43")
	assert.False(t, ok, "explicit constraint")
	_, ok = table.Match("/items/4x")
	assert.False(t, ok, "inline constraint")
}

func TestTableMatch_CustomRegistry(t *testing.T) {
	t.Parallel()

	reg := constraint.NewRegistry()
	require.NoError(t, reg.Register("hex", func(string) (constraint.Validator, error) {
		return constraint.Func("must be hexadecimal", func(v string) bool {
			return strings.Trim(v, "0123456789abcdef") == ""
		}), nil
	}))

	table := MustBuild(endpoints("/commits/{sha:hex}"), WithConstraintRegistry(reg))
	_, ok := table.Match("/commits/deadbeef")
	assert.True(t, ok)
	_, ok = table.Match("/commits/xyz")
	assert.False(t, ok)

	_, err := Build(endpoints("/commits/{sha:hex}"))
	require.ErrorIs(t, err, constraint.ErrUnknownConstraint)
}

func TestTableMatch_CachesMisses(t *testing.T) {
	t.Parallel()

	table := MustBuild(endpoints("/users/{id:int}"))

	for range 3 {
		_, ok := table.Match("/users/abc")
		assert.False(t, ok)
	}
	st := table.Stats()
	assert.Equal(t, uint64(1), st.Misses)
	assert.Equal(t, uint64(2), st.Cache.Hits)
	assert.Equal(t, 1, table.CacheLen())

	ClearCache(table)
	assert.Zero(t, table.CacheLen())
	_, ok := Match(table, "/users/abc")
	assert.False(t, ok)
	assert.Equal(t, uint64(2), table.Stats().Misses)
}

func TestTableMatch_LeadingSlashOptional(t *testing.T) {
	t.Parallel()

	table := MustBuild(endpoints("/users/me", "/users/{id}"))

	for _, p := range []string{"users/me", "/users/me"} {
		r, ok := table.Match(p)
		require.True(t, ok, "path %q", p)
		assert.Equal(t, "/users/me", r.Handler())
	}

	st := table.Stats()
	assert.Equal(t, 1, table.CacheLen(), "both spellings share one cache entry")
	assert.Equal(t, uint64(1), st.ExactHits)
	assert.Zero(t, st.TreeLookups)
}

func TestTableMatch_DefaultCacheCapacity(t *testing.T) {
	t.Parallel()

	cfg, err := newConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, defaultCacheCapacity, cfg.cacheCapacity)

	table := MustBuild(endpoints("/users/{id}"), WithCacheShards(1), WithCacheCapacity(0))
	for i := range 50 {
		_, ok := table.Match(fmt.Sprintf("/users/%d", i))
		require.True(t, ok)
	}
	assert.Equal(t, 50, table.CacheLen(), "zero capacity is unbounded")
}

func TestTableMatch_CacheCapacity(t *testing.T) {
	t.Parallel()

	table := MustBuild(endpoints("/users/{id}"), WithCacheShards(1), WithCacheCapacity(2))
	for i := range 5 {
		r, ok := table.Match(fmt.Sprintf("/users/%d", i))
		require.True(t, ok)
		assert.Equal(t, fmt.Sprint(i), r.Params()["id"])
	}
	assert.Equal(t, 2, table.CacheLen())
}

func TestResult_ParamsIsACopy(t *testing.T) {
	t.Parallel()

	table := MustBuild(endpoints("/users/{id}"))
	r, ok := table.Match("/users/1")
	require.True(t, ok)

	p := r.Params()
	p["id"] = "changed"
	p["extra"] = "x"

	again, ok := table.Match("/users/1")
	require.True(t, ok)
	assert.Same(t, r, again, "second match is served from the cache")
	assert.Equal(t, map[string]string{"id": "1"}, again.Params())

	var visited []string
	again.Each(func(name, value string) bool {
		visited = append(visited, name+"="+value)
		return true
	})
	assert.Equal(t, []string{"id=1"}, visited)
}

func TestBuild_CopiesEndpoints(t *testing.T) {
	t.Parallel()

	eps := []Endpoint{{
		Template: "/users/{id}",
		Method:   "GET",
		Handler:  "users",
		Metadata: map[string]string{"owner": "team-a"},
	}}
	table := MustBuild(eps)

	eps[0].Template = "/other"
	eps[0].Metadata["owner"] = "team-b"

	r, ok := table.Match("/users/1")
	require.True(t, ok)
	assert.Equal(t, "/users/{id}", r.Endpoint().Template)
	assert.Equal(t, "team-a", r.Endpoint().Metadata["owner"])

	got := table.Endpoints()
	require.Len(t, got, 1)
	got[0].Metadata["owner"] = "team-c"
	assert.Equal(t, "team-a", table.Endpoints()[0].Metadata["owner"])
	assert.Equal(t, 1, table.Len())
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		endpoints []Endpoint
		wantErr   error
	}{
		{name: "unbalanced braces", endpoints: endpoints("/users/{id"), wantErr: compiler.ErrUnbalancedBraces},
		{name: "empty parameter name", endpoints: endpoints("/users/{}"), wantErr: compiler.ErrEmptyParamName},
		{name: "empty template", endpoints: endpoints(""), wantErr: compiler.ErrEmptyTemplate},
		{name: "duplicate parameter", endpoints: endpoints("/{id}/{id}"), wantErr: compiler.ErrDuplicateParam},
		{name: "unknown constraint", endpoints: endpoints("/users/{id:nope}"), wantErr: constraint.ErrUnknownConstraint},
		{name: "bad constraint args", endpoints: endpoints("/users/{id:range(9)}"), wantErr: constraint.ErrConstraintArgs},
		{name: "duplicate static", endpoints: endpoints("/users", "/users"), wantErr: ErrDuplicateRoute},
		{name: "duplicate template", endpoints: endpoints("/users/{id}", "/users/{id:int}"), wantErr: ErrDuplicateRoute},
		{name: "static equals optional prefix", endpoints: endpoints("/files", "/files/{path?}"), wantErr: ErrDuplicateRoute},
		{name: "two optionals share a terminal", endpoints: endpoints("/f/{a?}", "/f/{b?}"), wantErr: ErrDuplicateRoute},
		{
			name: "constraint for undeclared parameter",
			endpoints: []Endpoint{{
				Template:    "/users/{id}",
				Constraints: map[string]constraint.Validator{"name": constraint.Alpha()},
			}},
			wantErr: ErrUnknownConstraintParam,
		},
		{
			name: "nil constraint",
			endpoints: []Endpoint{{
				Template:    "/users/{id}",
				Constraints: map[string]constraint.Validator{"id": nil},
			}},
			wantErr: ErrNilConstraint,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			table, err := Build(tt.endpoints)
			require.Error(t, err)
			assert.Nil(t, table)
			assert.ErrorIs(t, err, tt.wantErr)

			var re *RouteError
			assert.ErrorAs(t, err, &re)
		})
	}
}

func TestBuild_CollectsAllErrors(t *testing.T) {
	t.Parallel()

	_, err := Build(endpoints("/ok/{id}", "/bad/{", "/also/{}", "/ok/{id}"))
	require.Error(t, err)

	assert.ErrorIs(t, err, compiler.ErrUnbalancedBraces)
	assert.ErrorIs(t, err, compiler.ErrEmptyParamName)
	assert.ErrorIs(t, err, ErrDuplicateRoute)

	joined, ok := err.(interface{ Unwrap() []error })
	require.True(t, ok)
	errs := joined.Unwrap()
	require.Len(t, errs, 3)

	var re *RouteError
	require.True(t, errors.As(errs[0], &re))
	assert.Equal(t, 1, re.Index)
	assert.Equal(t, "/bad/{", re.Template)

	var te *TemplateError
	require.True(t, errors.As(errs[0], &te))
	assert.Equal(t, "/bad/{", te.Template)
}

func TestBuild_InvalidOptions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		opt     Option
		wantErr error
	}{
		{name: "nil registry", opt: WithConstraintRegistry(nil), wantErr: ErrNilRegistry},
		{name: "zero hash functions", opt: WithBloomFilterHashFunctions(0), wantErr: ErrBloomHashFunctionsInvalid},
		{name: "zero shards", opt: WithCacheShards(0), wantErr: ErrCacheConfigInvalid},
		{name: "negative capacity", opt: WithCacheCapacity(-1), wantErr: ErrCacheConfigInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Build(endpoints("/"), tt.opt)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestMustBuild_Panics(t *testing.T) {
	t.Parallel()

	assert.PanicsWithValue(t,
		"routematch.MustBuild: endpoint 0 (\"/{\"): route template \"/{\" (offset 2): unbalanced braces",
		func() { MustBuild(endpoints("/{")) })
}

func TestBuild_EmptyTable(t *testing.T) {
	t.Parallel()

	table := MustBuild(nil)
	_, ok := table.Match("/")
	assert.False(t, ok)
	_, ok = table.Match("/anything")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
}

func TestTableMatch_Concurrent(t *testing.T) {
	t.Parallel()

	table := MustBuild(endpoints("/users/me", "/users/{id:int}", "/a/{x}/c", "/a/b/{y}"))
	paths := map[string]string{
		"/users/me": "/users/me",
		"/users/1":  "/users/{id:int}",
		"/a/b/c":    "/a/b/{y}",
		"/a/q/c":    "/a/{x}/c",
		"/users/x":  "",
	}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				for p, want := range paths {
					r, ok := table.Match(p)
					if want == "" {
						assert.False(t, ok)
						continue
					}
					if assert.True(t, ok) {
						assert.Equal(t, want, r.Template())
					}
				}
			}
		}()
	}
	wg.Wait()
}

func FuzzTableMatch(f *testing.F) {
	table := MustBuild(endpoints(
		"/users/me", "/users/{id:int}", "/v{version}/status", "/files/{path?}",
		"/docs/{name}.pdf", "/archive/{year:range(1990,2100)}/{month?}",
	))
	for _, seed := range []string{"/", "", "/users/1", "/v2/status", "/files", "//", "/docs/.pdf", "/archive/2000/1", "users/me", "files"} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, path string) {
		r, ok := table.Match(path)
		if ok != (r != nil) {
			t.Fatalf("Match(%q) = %v, %v", path, r, ok)
		}
		if ok {
			for name, value := range r.Params() {
				if value == "" || !strings.Contains(path, value) {
					t.Fatalf("Match(%q) bound %s=%q", path, name, value)
				}
			}
		}
		if strings.HasPrefix(path, "/") {
			return
		}
		slashed, slashedOK := table.Match("/" + path)
		if ok != slashedOK {
			t.Fatalf("Match(%q) = %v but Match(%q) = %v", path, ok, "/"+path, slashedOK)
		}
		if ok && (r.Template() != slashed.Template() || !cmp.Equal(r.Params(), slashed.Params())) {
			t.Fatalf("Match(%q) = %s %v, Match(%q) = %s %v",
				path, r.Template(), r.Params(), "/"+path, slashed.Template(), slashed.Params())
		}
	})
}

func BenchmarkTableMatch(b *testing.B) {
	table := MustBuild(endpoints("/users/me", "/users/{id:int}", "/api/v{version}/items/{id}"))

	b.Run("exact", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			table.Match("/users/me")
		}
	})
	b.Run("cached", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			table.Match("/api/v2/items/9")
		}
	})

	uncached := MustBuild(endpoints("/users/me", "/users/{id:int}", "/api/v{version}/items/{id}"), WithoutCache())
	b.Run("uncached", func(b *testing.B) {
		b.ReportAllocs()
		for b.Loop() {
			uncached.Match("/api/v2/items/9")
		}
	})
}
