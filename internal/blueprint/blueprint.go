package blueprint

import (
	"sort"

	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/protoreg"
	"github.com/gqlgate/gqlgate/internal/valid"
)

// Blueprint is the compiled gateway program: the validated type graph plus
// one resolver expression per resolver-bearing field. It is the input the
// executor runs against and the artifact the compile command serializes.
type Blueprint struct {
	Server    Server                   `json:"server"`
	Schema    config.RootSchema        `json:"schema"`
	Types     map[string]*config.Type  `json:"types,omitempty"`
	Unions    map[string]*config.Union `json:"unions,omitempty"`
	Resolvers map[string]Expression    `json:"resolvers,omitempty"`
}

// Server is the runtime server configuration with config-time pointer
// options resolved to their defaults.
type Server struct {
	Port            int               `json:"port"`
	Host            string            `json:"host"`
	GraphiQL        bool              `json:"graphiql,omitempty"`
	Introspection   bool              `json:"introspection"`
	QueryValidation bool              `json:"queryValidation"`
	Vars            []config.KeyValue `json:"vars,omitempty"`
	Upstream        config.Upstream   `json:"upstream,omitempty"`
}

// FieldKey addresses a field's resolver in the Resolvers map.
func FieldKey(typeName, fieldName string) string {
	return typeName + "." + fieldName
}

// Resolver returns the compiled expression for a field, nil when the field
// resolves from its parent value.
func (b *Blueprint) Resolver(typeName, fieldName string) Expression {
	return b.Resolvers[FieldKey(typeName, fieldName)]
}

// Options carries compile-time inputs that come from outside the schema
// document.
type Options struct {
	// Descriptors backs @grpc method checks. When nil the checks are
	// skipped and method names are trusted.
	Descriptors *protoreg.Registry
}

// Generate compiles a Config into a Blueprint. Fields are compiled
// independently so every defective field contributes its own diagnostics;
// loader identities are interned across the whole compile so delegating
// fields share the coalescing group of their target.
func Generate(cfg *config.Config, opts Options) valid.Valid[*Blueprint] {
	c := &compiler{cfg: cfg, opts: opts, loaders: map[string]LoaderID{}}

	return valid.AndThen(c.rootSchema(), func(schema config.RootSchema) valid.Valid[*Blueprint] {
		return valid.Map(c.resolvers(), func(resolvers map[string]Expression) *Blueprint {
			return &Blueprint{
				Server:    toServer(cfg),
				Schema:    schema,
				Types:     cfg.Types,
				Unions:    cfg.Unions,
				Resolvers: resolvers,
			}
		})
	})
}

type compiler struct {
	cfg     *config.Config
	opts    Options
	loaders map[string]LoaderID
}

func (c *compiler) rootSchema() valid.Valid[config.RootSchema] {
	schema := c.cfg.Schema
	if schema.Query == "" {
		return valid.Fail[config.RootSchema]("Query root is missing").Trace("schema")
	}
	if c.cfg.FindType(schema.Query) == nil {
		return valid.Fail[config.RootSchema]("Query type is not defined").Trace("schema")
	}
	if schema.Mutation != "" && c.cfg.FindType(schema.Mutation) == nil {
		return valid.Fail[config.RootSchema]("Mutation type is not defined").Trace("schema")
	}
	return valid.Succeed(schema)
}

// resolvers compiles every resolver-bearing field, walking types and fields
// in sorted order so diagnostics come out deterministically.
func (c *compiler) resolvers() valid.Valid[map[string]Expression] {
	resolvers := map[string]Expression{}
	var errs []*valid.Cause

	for _, typeName := range c.cfg.TypeNames() {
		t := c.cfg.Types[typeName]
		for _, fieldName := range t.FieldNames() {
			field := t.Fields[fieldName]
			r := c.compileField(typeName, fieldName, field)
			if r.IsFail() {
				errs = append(errs, r.Trace(fieldName).Trace(typeName).Errors()...)
				continue
			}
			if expr := r.Value(); expr != nil {
				resolvers[FieldKey(typeName, fieldName)] = expr
			}
		}
	}

	if len(errs) > 0 {
		return valid.FromErrors[map[string]Expression](errs)
	}
	return valid.Succeed(resolvers)
}

// compileField dispatches on the field's resolver directive. Directive
// precedence is fixed: http, then graphql, grpc, call, const. Fields
// without any resolver directive compile to nil and resolve from the
// parent value at runtime.
func (c *compiler) compileField(typeName, fieldName string, field *config.Field) valid.Valid[Expression] {
	switch {
	case field.Http != nil:
		return c.compileHttp(field, field.Http)
	case field.GraphQL != nil:
		return c.compileGraphQL(c.operationType(typeName), fieldName, field.GraphQL)
	case field.Grpc != nil:
		return c.compileGrpc(field, field.Grpc)
	case field.Call != nil:
		return c.compileCall(field.Call)
	case field.Const != nil:
		return compileConst(field.Const)
	default:
		return valid.Succeed[Expression](nil)
	}
}

// operationType reports which root operation a type serves. Delegated
// GraphQL requests from mutation-root fields are sent as mutations.
func (c *compiler) operationType(typeName string) string {
	if typeName != "" && typeName == c.cfg.Schema.Mutation {
		return "mutation"
	}
	return "query"
}

// loaderFor interns a loader identity. The key is built from the request's
// pre-substitution identity, so a field delegating through @call lands in
// the same coalescing group as its target.
func (c *compiler) loaderFor(key string) *LoaderID {
	if id, ok := c.loaders[key]; ok {
		return &id
	}
	id := LoaderID(len(c.loaders))
	c.loaders[key] = id
	return &id
}

func toServer(cfg *config.Config) Server {
	s := Server{
		Port:            cfg.Server.Port,
		Host:            cfg.Server.Host,
		GraphiQL:        cfg.Server.GraphiQL,
		Introspection:   boolOr(cfg.Server.Introspection, true),
		QueryValidation: boolOr(cfg.Server.QueryValidation, true),
		Vars:            sortedVars(cfg.Server.Vars),
		Upstream:        cfg.Upstream,
	}
	if s.Port == 0 {
		s.Port = 8000
	}
	if s.Host == "" {
		s.Host = "0.0.0.0"
	}
	return s
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

func sortedVars(vars []config.KeyValue) []config.KeyValue {
	if len(vars) == 0 {
		return nil
	}
	out := append([]config.KeyValue(nil), vars...)
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
