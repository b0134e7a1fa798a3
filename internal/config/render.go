package config

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Render produces SDL from a Config. Ordering is deterministic: types,
// fields and arguments are sorted lexicographically, directive arguments
// follow their declaration order. Lowering a rendered schema yields the
// same Config back.
func Render(c *Config) string {
	var b strings.Builder

	renderSchemaBlock(&b, c)

	names := c.TypeNames()
	for _, name := range names {
		t := c.Types[name]
		switch {
		case t.Scalar:
			renderScalar(&b, name, t)
		case t.Variants != nil:
			renderEnum(&b, name, t)
		default:
			renderObject(&b, name, t)
		}
	}

	unionNames := make([]string, 0, len(c.Unions))
	for name := range c.Unions {
		unionNames = append(unionNames, name)
	}
	sort.Strings(unionNames)
	for _, name := range unionNames {
		renderUnion(&b, name, c.Unions[name])
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

func renderSchemaBlock(b *strings.Builder, c *Config) {
	b.WriteString("schema")
	renderServer(b, c.Server)
	renderUpstream(b, c.Upstream)
	b.WriteString(" {\n")
	if c.Schema.Query != "" {
		fmt.Fprintf(b, "  query: %s\n", c.Schema.Query)
	}
	if c.Schema.Mutation != "" {
		fmt.Fprintf(b, "  mutation: %s\n", c.Schema.Mutation)
	}
	if c.Schema.Subscription != "" {
		fmt.Fprintf(b, "  subscription: %s\n", c.Schema.Subscription)
	}
	b.WriteString("}\n\n")
}

func renderServer(b *strings.Builder, s Server) {
	d := directiveArgs{}
	d.addInt("port", s.Port)
	d.addString("host", s.Host)
	d.addBool("graphiql", s.GraphiQL)
	d.addBoolPtr("introspection", s.Introspection)
	d.addBoolPtr("queryValidation", s.QueryValidation)
	d.addKeyValues("vars", s.Vars)
	d.write(b, "server")
}

func renderUpstream(b *strings.Builder, u Upstream) {
	d := directiveArgs{}
	d.addString("baseURL", u.BaseURL)
	d.addBool("httpCache", u.HTTPCache)
	d.addStrings("allowedHeaders", u.AllowedHeaders)
	if u.Batch != nil {
		batch := directiveArgs{}
		batch.addInt("maxSize", u.Batch.MaxSize)
		batch.addInt("delay", u.Batch.Delay)
		batch.addStrings("headers", u.Batch.Headers)
		d.add("batch", "{"+strings.Join(batch.parts, ", ")+"}")
	}
	d.write(b, "upstream")
}

func renderScalar(b *strings.Builder, name string, t *Type) {
	renderDescription(b, t.Doc, "")
	fmt.Fprintf(b, "scalar %s\n\n", name)
}

func renderEnum(b *strings.Builder, name string, t *Type) {
	renderDescription(b, t.Doc, "")
	fmt.Fprintf(b, "enum %s {\n", name)
	for _, v := range t.Variants {
		fmt.Fprintf(b, "  %s\n", v)
	}
	b.WriteString("}\n\n")
}

func renderUnion(b *strings.Builder, name string, u *Union) {
	renderDescription(b, u.Doc, "")
	fmt.Fprintf(b, "union %s = %s\n\n", name, strings.Join(u.Types, " | "))
}

func renderObject(b *strings.Builder, name string, t *Type) {
	renderDescription(b, t.Doc, "")
	keyword := "type"
	if t.Interface {
		keyword = "interface"
	}
	fmt.Fprintf(b, "%s %s", keyword, name)
	if len(t.Implements) > 0 {
		fmt.Fprintf(b, " implements %s", strings.Join(t.Implements, " & "))
	}
	b.WriteString(" {\n")
	for _, fieldName := range t.FieldNames() {
		renderField(b, fieldName, t.Fields[fieldName])
	}
	b.WriteString("}\n\n")
}

func renderField(b *strings.Builder, name string, f *Field) {
	renderDescription(b, f.Doc, "  ")
	fmt.Fprintf(b, "  %s", name)
	if len(f.Args) > 0 {
		parts := make([]string, 0, len(f.Args))
		for _, argName := range f.ArgNames() {
			parts = append(parts, renderArg(argName, f.Args[argName]))
		}
		fmt.Fprintf(b, "(%s)", strings.Join(parts, ", "))
	}
	fmt.Fprintf(b, ": %s", typeExpr(f.Type, f.List, f.Required, f.ListTypeRequired))

	renderHttp(b, f.Http)
	renderGraphQLSource(b, f.GraphQL)
	renderGrpc(b, f.Grpc)
	renderCall(b, f.Call)
	renderConst(b, f.Const)
	renderModify(b, f.Modify)
	renderGroupBy(b, f.GroupBy)

	b.WriteString("\n")
}

func renderArg(name string, a *Arg) string {
	s := name + ": " + typeExpr(a.Type, a.List, a.Required, false)
	if a.Default != nil {
		s += " = " + renderValue(a.Default)
	}
	return s
}

func typeExpr(base string, list, required, itemRequired bool) string {
	s := base
	if list {
		if itemRequired {
			s += "!"
		}
		s = "[" + s + "]"
	}
	if required {
		s += "!"
	}
	return s
}

func renderHttp(b *strings.Builder, h *Http) {
	if h == nil {
		return
	}
	d := directiveArgs{}
	d.addString("url", h.URL)
	d.addString("method", h.Method)
	d.addKeyValues("query", h.Query)
	d.addString("body", h.Body)
	d.addString("baseURL", h.BaseURL)
	d.addKeyValues("headers", h.Headers)
	d.write(b, "http")
}

func renderGraphQLSource(b *strings.Builder, g *GraphQLSource) {
	if g == nil {
		return
	}
	d := directiveArgs{}
	d.addString("baseURL", g.BaseURL)
	d.addString("name", g.Name)
	d.addKeyValues("args", g.Args)
	d.addKeyValues("headers", g.Headers)
	d.addBool("batch", g.Batch)
	d.write(b, "graphql")
}

func renderGrpc(b *strings.Builder, g *Grpc) {
	if g == nil {
		return
	}
	d := directiveArgs{}
	d.addString("service", g.Service)
	d.addString("method", g.Method)
	d.addString("baseURL", g.BaseURL)
	d.addString("body", g.Body)
	d.addKeyValues("headers", g.Headers)
	d.addString("protoPath", g.ProtoPath)
	d.write(b, "grpc")
}

func renderCall(b *strings.Builder, c *Call) {
	if c == nil {
		return
	}
	d := directiveArgs{}
	d.addString("query", c.Query)
	d.addString("mutation", c.Mutation)
	if len(c.Args) > 0 {
		keys := make([]string, 0, len(c.Args))
		for k := range c.Args {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + strconv.Quote(c.Args[k])
		}
		d.add("args", "{"+strings.Join(parts, ", ")+"}")
	}
	d.write(b, "call")
}

func renderConst(b *strings.Builder, c *Const) {
	if c == nil {
		return
	}
	d := directiveArgs{}
	d.add("data", renderValue(c.Data))
	d.write(b, "const")
}

func renderModify(b *strings.Builder, m *Modify) {
	if m == nil {
		return
	}
	d := directiveArgs{}
	d.addString("name", m.Name)
	d.addBool("omit", m.Omit)
	d.write(b, "modify")
}

func renderGroupBy(b *strings.Builder, g *GroupBy) {
	if g == nil {
		return
	}
	d := directiveArgs{}
	d.addStrings("path", g.Path)
	d.write(b, "groupBy")
}

func renderDescription(b *strings.Builder, doc, indent string) {
	if doc == "" {
		return
	}
	b.WriteString(indent + `"""` + "\n")
	b.WriteString(indent + strings.ReplaceAll(doc, `"`, `\"`) + "\n")
	b.WriteString(indent + `"""` + "\n")
}

// renderValue writes a Go value as a GraphQL const value literal.
func renderValue(v any) string {
	switch v := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(v)
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case []any:
		parts := make([]string, len(v))
		for i, item := range v {
			parts[i] = renderValue(item)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + ": " + renderValue(v[k])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", v)
	}
}

// directiveArgs accumulates rendered arguments, skipping zero values so
// rendered SDL stays minimal.
type directiveArgs struct {
	parts []string
}

func (d *directiveArgs) add(name, rendered string) {
	d.parts = append(d.parts, name+": "+rendered)
}

func (d *directiveArgs) addString(name, v string) {
	if v != "" {
		d.add(name, strconv.Quote(v))
	}
}

func (d *directiveArgs) addInt(name string, v int) {
	if v != 0 {
		d.add(name, strconv.Itoa(v))
	}
}

func (d *directiveArgs) addBool(name string, v bool) {
	if v {
		d.add(name, "true")
	}
}

func (d *directiveArgs) addBoolPtr(name string, v *bool) {
	if v != nil {
		d.add(name, strconv.FormatBool(*v))
	}
}

func (d *directiveArgs) addStrings(name string, vs []string) {
	if len(vs) == 0 {
		return
	}
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = strconv.Quote(v)
	}
	d.add(name, "["+strings.Join(parts, ", ")+"]")
}

func (d *directiveArgs) addKeyValues(name string, kvs []KeyValue) {
	if len(kvs) == 0 {
		return
	}
	parts := make([]string, len(kvs))
	for i, kv := range kvs {
		parts[i] = fmt.Sprintf("{key: %s, value: %s}", strconv.Quote(kv.Key), strconv.Quote(kv.Value))
	}
	d.add(name, "["+strings.Join(parts, ", ")+"]")
}

func (d *directiveArgs) write(b *strings.Builder, name string) {
	if len(d.parts) == 0 {
		return
	}
	b.WriteString(" @" + name + "(" + strings.Join(d.parts, ", ") + ")")
}
