// Package blueprint compiles a validated Config into the expression IR the
// query executor walks at request time. Each field owns at most one
// expression tree; call-resolved fields are inlined at compile time so the
// executor never chases delegations.
package blueprint

import (
	"errors"

	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/template"
)

// Expression is the resolver IR: a closed union over Literal, IO and Pipe.
type Expression interface {
	isExpression()
}

// Literal resolves to a fixed value.
type Literal struct {
	Value any `json:"literal"`
}

// IO performs one upstream request. Exactly one protocol variant is set.
type IO struct {
	Http    *HttpIO    `json:"http,omitempty"`
	GraphQL *GraphQLIO `json:"graphql,omitempty"`
	Grpc    *GrpcIO    `json:"grpc,omitempty"`
}

// Pipe feeds the first expression's result into the second.
type Pipe struct {
	First  Expression `json:"first"`
	Second Expression `json:"second"`
}

func (Literal) isExpression() {}
func (IO) isExpression()      {}
func (Pipe) isExpression()    {}

// LoaderID identifies a request-coalescing group. The executor batches
// concurrent resolutions that share a loader identity into one upstream
// call; compilation assigns identities, never the executor.
type LoaderID int

type HttpIO struct {
	Request *HttpRequestTemplate `json:"request"`
	GroupBy *config.GroupBy      `json:"groupBy,omitempty"`
	Loader  *LoaderID            `json:"loaderId,omitempty"`
}

type GraphQLIO struct {
	Request   *GraphQLRequestTemplate `json:"request"`
	FieldName string                  `json:"fieldName"`
	Batch     bool                    `json:"batch,omitempty"`
	Loader    *LoaderID               `json:"loaderId,omitempty"`
}

type GrpcIO struct {
	Request *GrpcRequestTemplate `json:"request"`
	GroupBy *config.GroupBy      `json:"groupBy,omitempty"`
	Loader  *LoaderID            `json:"loaderId,omitempty"`
}

// KeyedTemplate is an ordered request component such as a header or query
// parameter. Order is preserved exactly through compilation.
type KeyedTemplate struct {
	Key   string            `json:"key"`
	Value template.Template `json:"value"`
}

// HttpRequestTemplate is the finalized HTTP request shape: every dynamic
// part is a template the executor fills with runtime arguments.
type HttpRequestTemplate struct {
	RootURL template.Template  `json:"rootURL"`
	Method  string             `json:"method,omitempty"`
	Query   []KeyedTemplate    `json:"query,omitempty"`
	Headers []KeyedTemplate    `json:"headers,omitempty"`
	Body    *template.Template `json:"body,omitempty"`
}

type GraphQLRequestTemplate struct {
	BaseURL            string          `json:"baseURL"`
	Operation          string          `json:"operation"`
	FieldName          string          `json:"fieldName"`
	Headers            []KeyedTemplate `json:"headers,omitempty"`
	OperationArguments []KeyedTemplate `json:"operationArguments,omitempty"`
}

type GrpcRequestTemplate struct {
	URL     template.Template  `json:"url"`
	Service string             `json:"service"`
	Method  string             `json:"method"`
	Headers []KeyedTemplate    `json:"headers,omitempty"`
	Body    *template.Template `json:"body,omitempty"`
}

var (
	errNotHttp    = errors.New("not an http expression")
	errNotGraphQL = errors.New("not a graphql expression")
	errNotGrpc    = errors.New("not a grpc expression")
)

func asHttp(e Expression) (*HttpIO, error) {
	if io, ok := e.(IO); ok && io.Http != nil {
		return io.Http, nil
	}
	return nil, errNotHttp
}

func asGraphQL(e Expression) (*GraphQLIO, error) {
	if io, ok := e.(IO); ok && io.GraphQL != nil {
		return io.GraphQL, nil
	}
	return nil, errNotGraphQL
}

func asGrpc(e Expression) (*GrpcIO, error) {
	if io, ok := e.(IO); ok && io.Grpc != nil {
		return io.Grpc, nil
	}
	return nil, errNotGrpc
}
