package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/gqlgate/gqlgate/internal/language"
)

func parse(t *testing.T, sdl string) *language.SchemaDocument {
	t.Helper()
	doc, err := language.ParseSchema("test.graphql", sdl)
	require.NoError(t, err)
	return doc
}

func TestFromDocument(t *testing.T) {
	doc := parse(t, `
schema @server(port: 8000, graphiql: true) @upstream(baseURL: "http://jsonplaceholder.typicode.com") {
  query: Query
}

type Query {
  """
  Fetch one post.
  """
  post(id: Int!): Post @http(url: "/posts/{{args.id}}")
  posts: [Post!]! @http(url: "/posts")
}

type Post {
  id: Int!
  title: String
  body: String @modify(omit: true)
}
`)

	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	want := &Config{
		Server:   Server{Port: 8000, GraphiQL: true},
		Upstream: Upstream{BaseURL: "http://jsonplaceholder.typicode.com"},
		Schema:   RootSchema{Query: "Query"},
		Types: map[string]*Type{
			"Query": {Fields: map[string]*Field{
				"post": {
					Type: "Post",
					Doc:  "Fetch one post.",
					Args: map[string]*Arg{"id": {Type: "Int", Required: true}},
					Http: &Http{URL: "/posts/{{args.id}}"},
				},
				"posts": {
					Type:             "Post",
					List:             true,
					Required:         true,
					ListTypeRequired: true,
					Http:             &Http{URL: "/posts"},
				},
			}},
			"Post": {Fields: map[string]*Field{
				"id":    {Type: "Int", Required: true},
				"title": {Type: "String"},
				"body":  {Type: "String", Modify: &Modify{Omit: true}},
			}},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestFromDocumentSchemaMissing(t *testing.T) {
	doc := parse(t, `type Query { id: Int }`)

	r := FromDocument(doc)
	require.True(t, r.IsFail())
	require.Equal(t, "schema not found", r.Errors()[0].Message)
	require.Equal(t, []string{"schema"}, r.Errors()[0].Trace)
}

func TestFromDocumentAccumulatesDefects(t *testing.T) {
	doc := parse(t, `
schema { query: Query }

type Query {
  a: Int @http(urll: "/a")
  b: Int @graphql(namee: "b")
}

type Other {
  c: Int @grpc(servicee: "x")
}
`)

	r := FromDocument(doc)
	require.True(t, r.IsFail())

	// Three independent defects, each with its own trace.
	require.Len(t, r.Errors(), 3)
	traces := make([][]string, len(r.Errors()))
	for i, c := range r.Errors() {
		traces[i] = c.Trace
	}
	require.Equal(t, [][]string{
		{"Query", "a", "http"},
		{"Query", "b", "graphql"},
		{"Other", "c", "grpc"},
	}, traces)
	require.Equal(t, "unknown argument 'urll'", r.Errors()[0].Message)
}

func TestFromDocumentRootDirectiveFold(t *testing.T) {
	doc := parse(t, `
schema @server(port: 4000) @server(host: "localhost") @server(port: 8080) {
  query: Query
}
type Query { id: Int }
`)

	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	// Later blocks override field-wise, untouched fields survive.
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, "localhost", cfg.Server.Host)
}

func TestFromDocumentUnionsAndEnums(t *testing.T) {
	doc := parse(t, `
schema { query: Query }
type Query { media: Media }
enum Status { ACTIVE INACTIVE }
union Media = Book | Movie
type Book { title: String }
type Movie { title: String }
scalar Date
`)

	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	require.Equal(t, []string{"ACTIVE", "INACTIVE"}, cfg.Types["Status"].Variants)
	require.Equal(t, &Union{Types: []string{"Book", "Movie"}}, cfg.Unions["Media"])
	require.True(t, cfg.Types["Date"].Scalar)
	// Union names live in the side table only.
	require.Nil(t, cfg.Types["Media"])
}

func TestFromDocumentArgDefaults(t *testing.T) {
	doc := parse(t, `
schema { query: Query }
type Query {
  posts(limit: Int = 10, tag: String = "news"): [Post] @http(url: "/posts")
}
type Post { id: Int }
`)

	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	args := cfg.Types["Query"].Fields["posts"].Args
	require.Equal(t, int64(10), args["limit"].Default)
	require.Equal(t, "news", args["tag"].Default)
}
