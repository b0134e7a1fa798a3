package blueprint

import (
	"strings"

	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/template"
	"github.com/gqlgate/gqlgate/internal/valid"
)

func (c *compiler) compileGrpc(field *config.Field, grpc *config.Grpc) valid.Valid[Expression] {
	if grpc.Service == "" {
		return valid.Fail[Expression]("No service specified for grpc directive").Trace("grpc")
	}
	if grpc.Method == "" {
		return valid.Fail[Expression]("No method specified for grpc directive").Trace("grpc")
	}
	baseURL := grpc.BaseURL
	if baseURL == "" {
		baseURL = c.cfg.Upstream.BaseURL
	}
	if baseURL == "" {
		return valid.Fail[Expression]("No base URL defined").Trace("grpc")
	}

	if c.opts.Descriptors != nil {
		if _, err := c.opts.Descriptors.Method(grpc.Service, grpc.Method); err != nil {
			return valid.Fail[Expression](err.Error()).Trace("grpc")
		}
	}

	fullURL := strings.TrimSuffix(baseURL, "/") + "/" + grpc.Service + "/" + grpc.Method

	return valid.Zip3(
		parseTemplate(fullURL),
		parseKeyedTemplates(grpc.Headers),
		parseOptionalTemplate(grpc.Body),
		func(url template.Template, headers []KeyedTemplate, body *template.Template) Expression {
			req := &GrpcRequestTemplate{
				URL:     url,
				Service: grpc.Service,
				Method:  grpc.Method,
				Headers: headers,
				Body:    body,
			}
			return IO{Grpc: &GrpcIO{
				Request: req,
				GroupBy: field.GroupBy,
				Loader:  c.grpcLoader(fullURL, field.GroupBy),
			}}
		},
	).Trace("grpc")
}

func (c *compiler) grpcLoader(url string, groupBy *config.GroupBy) *LoaderID {
	if groupBy == nil {
		return nil
	}
	return c.loaderFor("grpc|" + url + "|" + groupBy.Key())
}
