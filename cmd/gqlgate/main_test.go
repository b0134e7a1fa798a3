package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunUnknownCommand(t *testing.T) {
	if err := run([]string{"frobnicate"}); err == nil {
		t.Fatal("expected error for unknown command")
	}
}

func TestRunMissingCommand(t *testing.T) {
	if err := run(nil); err == nil {
		t.Fatal("expected error for missing command")
	}
}

func TestCheckRequiresSchema(t *testing.T) {
	if err := run([]string{"check"}); err == nil {
		t.Fatal("expected error when -schema is missing")
	}
}

func TestRenderWritesCanonicalSDL(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "schema.graphql")
	out := filepath.Join(dir, "out.graphql")
	err := os.WriteFile(in, []byte(`
schema @upstream(baseURL: "https://api.example.com") { query: Query }
type Query {
  post(id: Int!): Post @http(url: "/posts/{{args.id}}")
}
type Post { id: Int! }
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"render", "-schema", in, "-out", out}); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 {
		t.Fatal("rendered SDL is empty")
	}
}

func TestCheckReportsDefects(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "schema.graphql")
	err := os.WriteFile(in, []byte(`
schema { query: Query }
type Query {
  post: Int @http(url: "/posts")
}
`), 0644)
	if err != nil {
		t.Fatal(err)
	}

	if err := run([]string{"check", "-offline", "-schema", in}); err == nil {
		t.Fatal("expected check to fail without a base URL")
	}
}
