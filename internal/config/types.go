// Package config is the validated configuration model of a gateway schema:
// the internal type graph lowered from SDL plus the server and upstream
// settings read from the schema root. A Config is built once per compile
// and is immutable afterwards; the blueprint compiler and the executor
// share it read-only.
package config

import (
	"sort"

	"github.com/gqlgate/gqlgate/internal/introspection"
)

type Config struct {
	Server   Server            `json:"server,omitempty" yaml:"server,omitempty"`
	Upstream Upstream          `json:"upstream,omitempty" yaml:"upstream,omitempty"`
	Schema   RootSchema        `json:"schema,omitempty" yaml:"schema,omitempty"`
	Types    map[string]*Type  `json:"types,omitempty" yaml:"types,omitempty"`
	Unions   map[string]*Union `json:"unions,omitempty" yaml:"unions,omitempty"`
}

// RootSchema names the root operation types.
type RootSchema struct {
	Query        string `json:"query,omitempty" yaml:"query,omitempty"`
	Mutation     string `json:"mutation,omitempty" yaml:"mutation,omitempty"`
	Subscription string `json:"subscription,omitempty" yaml:"subscription,omitempty"`
}

// Type is one node of the type graph. Exactly one of fields, variants or
// scalar is populated.
type Type struct {
	Fields     map[string]*Field `json:"fields,omitempty" yaml:"fields,omitempty"`
	Doc        string            `json:"doc,omitempty" yaml:"doc,omitempty"`
	Interface  bool              `json:"interface,omitempty" yaml:"interface,omitempty"`
	Implements []string          `json:"implements,omitempty" yaml:"implements,omitempty"`
	Variants   []string          `json:"variants,omitempty" yaml:"variants,omitempty"`
	Scalar     bool              `json:"scalar,omitempty" yaml:"scalar,omitempty"`
}

type Field struct {
	Type             string          `json:"type"                       yaml:"type"`
	List             bool            `json:"list,omitempty"             yaml:"list,omitempty"`
	Required         bool            `json:"required,omitempty"         yaml:"required,omitempty"`
	ListTypeRequired bool            `json:"listTypeRequired,omitempty" yaml:"listTypeRequired,omitempty"`
	Args             map[string]*Arg `json:"args,omitempty"             yaml:"args,omitempty"`
	Doc              string          `json:"doc,omitempty"              yaml:"doc,omitempty"`

	Http    *Http          `json:"http,omitempty"    yaml:"http,omitempty"`
	GraphQL *GraphQLSource `json:"graphql,omitempty" yaml:"graphql,omitempty"`
	Grpc    *Grpc          `json:"grpc,omitempty"    yaml:"grpc,omitempty"`
	Call    *Call          `json:"call,omitempty"    yaml:"call,omitempty"`
	Const   *Const         `json:"const,omitempty"   yaml:"const,omitempty"`

	Modify  *Modify  `json:"modify,omitempty"  yaml:"modify,omitempty"`
	GroupBy *GroupBy `json:"groupBy,omitempty" yaml:"groupBy,omitempty"`
}

type Arg struct {
	Type     string `json:"type"                   yaml:"type"`
	List     bool   `json:"list,omitempty"         yaml:"list,omitempty"`
	Required bool   `json:"required,omitempty"     yaml:"required,omitempty"`
	Doc      string `json:"doc,omitempty"          yaml:"doc,omitempty"`
	Default  any    `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
}

type Union struct {
	Types []string `json:"types"         yaml:"types"`
	Doc   string   `json:"doc,omitempty" yaml:"doc,omitempty"`
}

// KeyValue is an ordered name/value pair used for headers, query
// parameters and forwarded operation arguments.
type KeyValue struct {
	Key   string `json:"key"   yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// Http declares an upstream REST call (the @http directive).
type Http struct {
	URL     string     `json:"url,omitempty"     yaml:"url,omitempty"`
	Method  string     `json:"method,omitempty"  yaml:"method,omitempty"`
	Query   []KeyValue `json:"query,omitempty"   yaml:"query,omitempty"`
	Body    string     `json:"body,omitempty"    yaml:"body,omitempty"`
	BaseURL string     `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Headers []KeyValue `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// GraphQLSource declares delegation to a foreign GraphQL endpoint (the
// @graphql directive). Introspection is attached after the upstream schema
// is resolved; it never comes from the document itself.
type GraphQLSource struct {
	BaseURL string     `json:"baseURL,omitempty" yaml:"baseURL,omitempty"`
	Name    string     `json:"name,omitempty"    yaml:"name,omitempty"`
	Args    []KeyValue `json:"args,omitempty"    yaml:"args,omitempty"`
	Headers []KeyValue `json:"headers,omitempty" yaml:"headers,omitempty"`
	Batch   bool       `json:"batch,omitempty"   yaml:"batch,omitempty"`

	Introspection *introspection.Result `json:"-" yaml:"-"`
}

// Grpc declares an upstream gRPC call (the @grpc directive). ProtoPath
// points at a compiled descriptor set used to check the method at compile
// time.
type Grpc struct {
	Service   string     `json:"service,omitempty"   yaml:"service,omitempty"`
	Method    string     `json:"method,omitempty"    yaml:"method,omitempty"`
	BaseURL   string     `json:"baseURL,omitempty"   yaml:"baseURL,omitempty"`
	Body      string     `json:"body,omitempty"      yaml:"body,omitempty"`
	Headers   []KeyValue `json:"headers,omitempty"   yaml:"headers,omitempty"`
	ProtoPath string     `json:"protoPath,omitempty" yaml:"protoPath,omitempty"`
}

// Call delegates to another field with literal arguments (the @call
// directive). Exactly one of Query or Mutation names the target.
type Call struct {
	Query    string            `json:"query,omitempty"    yaml:"query,omitempty"`
	Mutation string            `json:"mutation,omitempty" yaml:"mutation,omitempty"`
	Args     map[string]string `json:"args,omitempty"     yaml:"args,omitempty"`
}

// Const resolves a field to a fixed value (the @const directive).
type Const struct {
	Data any `json:"data" yaml:"data"`
}

// Modify renames or omits a field in the exposed schema.
type Modify struct {
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
	Omit bool   `json:"omit,omitempty" yaml:"omit,omitempty"`
}

// GroupBy attaches batching metadata: responses for sibling resolutions
// may be grouped on the value at Path.
type GroupBy struct {
	Path []string `json:"path,omitempty" yaml:"path,omitempty"`
}

// Key is the group key: the last path element.
func (g *GroupBy) Key() string {
	if g == nil || len(g.Path) == 0 {
		return ""
	}
	return g.Path[len(g.Path)-1]
}

type Server struct {
	Port            int        `json:"port,omitempty"            yaml:"port,omitempty"`
	Host            string     `json:"host,omitempty"            yaml:"host,omitempty"`
	GraphiQL        bool       `json:"graphiql,omitempty"        yaml:"graphiql,omitempty"`
	Introspection   *bool      `json:"introspection,omitempty"   yaml:"introspection,omitempty"`
	QueryValidation *bool      `json:"queryValidation,omitempty" yaml:"queryValidation,omitempty"`
	Vars            []KeyValue `json:"vars,omitempty"            yaml:"vars,omitempty"`
}

type Upstream struct {
	BaseURL        string   `json:"baseURL,omitempty"        yaml:"baseURL,omitempty"`
	HTTPCache      bool     `json:"httpCache,omitempty"      yaml:"httpCache,omitempty"`
	AllowedHeaders []string `json:"allowedHeaders,omitempty" yaml:"allowedHeaders,omitempty"`
	Batch          *Batch   `json:"batch,omitempty"          yaml:"batch,omitempty"`
}

type Batch struct {
	MaxSize int      `json:"maxSize,omitempty" yaml:"maxSize,omitempty"`
	Delay   int      `json:"delay,omitempty"   yaml:"delay,omitempty"`
	Headers []string `json:"headers,omitempty" yaml:"headers,omitempty"`
}

// FindType looks up a type by name in the main type map.
func (c *Config) FindType(name string) *Type {
	return c.Types[name]
}

// TypeNames returns the type names in deterministic (sorted) order.
func (c *Config) TypeNames() []string {
	names := make([]string, 0, len(c.Types))
	for name := range c.Types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FieldNames returns t's field names in deterministic (sorted) order.
func (t *Type) FieldNames() []string {
	names := make([]string, 0, len(t.Fields))
	for name := range t.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ArgNames returns f's argument names in deterministic (sorted) order.
func (f *Field) ArgNames() []string {
	names := make([]string, 0, len(f.Args))
	for name := range f.Args {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
