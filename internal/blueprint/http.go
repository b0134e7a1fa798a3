package blueprint

import (
	"strings"

	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/template"
	"github.com/gqlgate/gqlgate/internal/valid"
)

func (c *compiler) compileHttp(field *config.Field, http *config.Http) valid.Valid[Expression] {
	baseURL := http.BaseURL
	if baseURL == "" {
		baseURL = c.cfg.Upstream.BaseURL
	}
	if baseURL == "" {
		return valid.Fail[Expression]("No base URL defined").Trace("http")
	}
	method := http.Method
	if method == "" {
		method = "GET"
	}
	fullURL := strings.TrimSuffix(baseURL, "/") + http.URL

	return valid.Zip3(
		parseTemplate(fullURL),
		valid.Zip(
			parseKeyedTemplates(http.Query),
			parseKeyedTemplates(http.Headers),
			func(query, headers []KeyedTemplate) [2][]KeyedTemplate {
				return [2][]KeyedTemplate{query, headers}
			},
		),
		parseOptionalTemplate(http.Body),
		func(rootURL template.Template, kts [2][]KeyedTemplate, body *template.Template) Expression {
			req := &HttpRequestTemplate{
				RootURL: rootURL,
				Method:  method,
				Query:   kts[0],
				Headers: kts[1],
				Body:    body,
			}
			return IO{Http: &HttpIO{
				Request: req,
				GroupBy: field.GroupBy,
				Loader:  c.httpLoader(method, fullURL, field.GroupBy),
			}}
		},
	).Trace("http")
}

// httpLoader assigns a loader identity to batchable requests. The key uses
// the template source text before argument substitution, so every caller of
// the same endpoint with the same group key coalesces.
func (c *compiler) httpLoader(method, url string, groupBy *config.GroupBy) *LoaderID {
	if groupBy == nil {
		return nil
	}
	return c.loaderFor("http|" + method + "|" + url + "|" + groupBy.Key())
}

func parseTemplate(s string) valid.Valid[template.Template] {
	t, err := template.Parse(s)
	if err != nil {
		return valid.Fail[template.Template](err.Error())
	}
	return valid.Succeed(t)
}

func parseOptionalTemplate(s string) valid.Valid[*template.Template] {
	if s == "" {
		return valid.Succeed[*template.Template](nil)
	}
	return valid.Map(parseTemplate(s), func(t template.Template) *template.Template { return &t })
}

func parseKeyedTemplates(kvs []config.KeyValue) valid.Valid[[]KeyedTemplate] {
	if len(kvs) == 0 {
		return valid.Succeed[[]KeyedTemplate](nil)
	}
	return valid.FromIter(kvs, func(kv config.KeyValue) valid.Valid[KeyedTemplate] {
		return valid.Map(parseTemplate(kv.Value), func(t template.Template) KeyedTemplate {
			return KeyedTemplate{Key: kv.Key, Value: t}
		}).Trace(kv.Key)
	})
}
