package introspection

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// introspectionQuery is the standard query sent to foreign endpoints. Only
// the parts the compiler consumes are requested.
const introspectionQuery = `query IntrospectionQuery {
  __schema {
    queryType { name }
    mutationType { name }
    types {
      kind
      name
      fields(includeDeprecated: true) {
        name
        type { name kind ofType { name kind ofType { name kind } } }
      }
    }
  }
}`

// HTTPFetcher posts the introspection query to a foreign GraphQL endpoint.
type HTTPFetcher struct {
	Client *http.Client
	Log    *zap.Logger
}

func NewHTTPFetcher(log *zap.Logger) *HTTPFetcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPFetcher{
		Client: &http.Client{Timeout: 30 * time.Second},
		Log:    log,
	}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, baseURL string) (*Result, error) {
	body, err := json.Marshal(map[string]string{"query": introspectionQuery})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	f.Log.Debug("introspecting upstream", zap.String("baseURL", baseURL))
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("introspection request to %s failed: %w", baseURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("introspection request to %s returned status %d", baseURL, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	result, err := ParseResponse(data)
	if err != nil {
		return nil, fmt.Errorf("introspection response from %s: %w", baseURL, err)
	}
	f.Log.Debug("introspection complete",
		zap.String("baseURL", baseURL),
		zap.Int("types", len(result.Types)))
	return result, nil
}

// ParseResponse extracts the schema description from an introspection
// response body.
func ParseResponse(data []byte) (*Result, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("invalid JSON")
	}
	root := gjson.ParseBytes(data)
	if errs := root.Get("errors"); errs.Exists() && len(errs.Array()) > 0 {
		return nil, fmt.Errorf("upstream returned errors: %s", errs.Raw)
	}
	schema := root.Get("data.__schema")
	if !schema.Exists() {
		return nil, fmt.Errorf("no __schema in response")
	}

	result := &Result{
		QueryType:    schema.Get("queryType.name").String(),
		MutationType: schema.Get("mutationType.name").String(),
		Types:        map[string]*RemoteType{},
	}
	schema.Get("types").ForEach(func(_, t gjson.Result) bool {
		name := t.Get("name").String()
		if name == "" {
			return true
		}
		rt := &RemoteType{
			Name:   name,
			Kind:   t.Get("kind").String(),
			Fields: map[string]*RemoteField{},
		}
		t.Get("fields").ForEach(func(_, f gjson.Result) bool {
			fieldName := f.Get("name").String()
			rt.Fields[fieldName] = &RemoteField{
				Name: fieldName,
				Type: namedType(f.Get("type")),
			}
			return true
		})
		result.Types[name] = rt
		return true
	})
	return result, nil
}

// namedType unwraps NON_NULL and LIST wrappers down to the named type.
func namedType(t gjson.Result) string {
	for t.Exists() {
		if name := t.Get("name").String(); name != "" {
			return name
		}
		t = t.Get("ofType")
	}
	return ""
}
