package blueprint

import (
	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/introspection"
	"github.com/gqlgate/gqlgate/internal/valid"
)

func (c *compiler) compileGraphQL(operation, fieldName string, gql *config.GraphQLSource) valid.Valid[Expression] {
	baseURL := gql.BaseURL
	if baseURL == "" {
		baseURL = c.cfg.Upstream.BaseURL
	}
	if baseURL == "" {
		return valid.Fail[Expression]("No base url found for graphql directive").Trace("graphql")
	}
	remoteField := gql.Name
	if remoteField == "" {
		remoteField = fieldName
	}

	return valid.AndThen(
		checkRemoteField(gql.Introspection, operation, remoteField),
		func(struct{}) valid.Valid[Expression] {
			return valid.Zip(
				parseKeyedTemplates(gql.Headers),
				parseKeyedTemplates(gql.Args),
				func(headers, args []KeyedTemplate) Expression {
					req := &GraphQLRequestTemplate{
						BaseURL:            baseURL,
						Operation:          operation,
						FieldName:          remoteField,
						Headers:            headers,
						OperationArguments: args,
					}
					return IO{GraphQL: &GraphQLIO{
						Request:   req,
						FieldName: remoteField,
						Batch:     gql.Batch,
						Loader:    c.graphqlLoader(baseURL, operation, remoteField, gql.Batch),
					}}
				},
			)
		},
	).Trace("graphql")
}

// checkRemoteField validates the delegated field against the upstream
// schema when introspection data is attached. Without it the field name is
// trusted; any mismatch then surfaces at request time instead.
func checkRemoteField(result *introspection.Result, operation, name string) valid.Valid[struct{}] {
	if result == nil {
		return valid.Succeed(struct{}{})
	}
	root := result.QueryType
	if operation == "mutation" {
		root = result.MutationType
	}
	if root == "" {
		return valid.Failf[struct{}]("%s operation is not supported by the upstream schema", operation)
	}
	rt := result.Types[root]
	if rt == nil {
		return valid.Succeed(struct{}{})
	}
	if _, ok := rt.Fields[name]; !ok {
		return valid.Failf[struct{}]("%s field not found in upstream schema", name)
	}
	return valid.Succeed(struct{}{})
}

// graphqlLoader keys on base URL, operation and remote field: batched
// delegations to the same upstream field share one request group.
func (c *compiler) graphqlLoader(baseURL, operation, name string, batch bool) *LoaderID {
	if !batch {
		return nil
	}
	return c.loaderFor("graphql|" + baseURL + "|" + operation + "|" + name)
}
