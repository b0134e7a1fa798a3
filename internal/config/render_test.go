package config

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

// canonicalSDL is already in render order: sorted types, sorted fields,
// directive arguments in declaration order.
const canonicalSDL = `schema @server(port: 8000, graphiql: true) @upstream(baseURL: "http://jsonplaceholder.typicode.com", httpCache: true) {
  query: Query
}

type Post {
  body: String
  id: Int!
  title: String @modify(name: "headline")
  user: User @call(query: "user", args: {id: "{{value.userId}}"})
  userId: Int!
}

type Query {
  post(id: Int!): Post @http(url: "/posts/{{args.id}}")
  user(id: Int!): User @http(url: "/users/{{args.id}}")
  users: [User] @http(url: "/users")
  version: String @const(data: "1.0.0")
}

type User {
  id: Int!
  name: String
}
`

func TestRenderRoundTrip(t *testing.T) {
	doc := parse(t, canonicalSDL)
	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	rendered := Render(cfg)
	require.Equal(t, canonicalSDL, rendered)
}

// Rendering then lowering again yields the identical config regardless of
// the input's ordering.
func TestRenderLowerIdentity(t *testing.T) {
	doc := parse(t, `
schema @upstream(baseURL: "http://api.example.com") { query: Query }

type User { name: String id: Int! }

type Query {
  user(id: Int!): User @http(url: "/users/{{args.id}}")
  users: [User] @http(url: "/users") @groupBy(path: ["id"])
}

enum Role { ADMIN MEMBER }
union Account = User
scalar Date
`)
	cfg, err := FromDocument(doc).ToResult()
	require.NoError(t, err)

	rendered := Render(cfg)
	doc2 := parse(t, rendered)
	cfg2, err := FromDocument(doc2).ToResult()
	require.NoError(t, err)

	if diff := cmp.Diff(cfg, cfg2); diff != "" {
		t.Errorf("render/lower identity broken (-first +second):\n%s", diff)
	}
}
