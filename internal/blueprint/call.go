package blueprint

import (
	"fmt"
	"strings"

	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/template"
	"github.com/gqlgate/gqlgate/internal/valid"
)

// maxInlineDepth bounds chained argument references during call inlining.
// A @call argument may itself be an {{args.x}} forward; resolution follows
// such chains but a cycle must not hang the compiler.
const maxInlineDepth = 8

// compileCall inlines a delegation: it compiles the target root field and
// substitutes the literal @call arguments into the resulting request
// templates. The executor never sees the delegation, only the specialized
// request.
func (c *compiler) compileCall(call *config.Call) valid.Valid[Expression] {
	return valid.AndThen(c.callTarget(call), func(t callTarget) valid.Valid[Expression] {
		if missing := missingArguments(t.field, call); len(missing) > 0 {
			return valid.Failf[Expression]("no argument %s found", strings.Join(missing, ", ")).
				Trace(t.fieldName).Trace("call")
		}
		return valid.AndThen(c.compileTarget(t), func(expr Expression) valid.Valid[Expression] {
			return inlineArguments(expr, call.Args).Trace(t.fieldName).Trace("call")
		})
	})
}

type callTarget struct {
	operation string
	fieldName string
	field     *config.Field
}

// callTarget resolves the root field a @call names. Exactly one of query
// or mutation must be set.
func (c *compiler) callTarget(call *config.Call) valid.Valid[callTarget] {
	var rootType, fieldName, operation string
	switch {
	case call.Query != "" && call.Mutation != "":
		return valid.Fail[callTarget]("call must have query or mutation").Trace("call")
	case call.Query != "":
		rootType, fieldName, operation = c.cfg.Schema.Query, call.Query, "query"
		if rootType == "" {
			rootType = "Query"
		}
	case call.Mutation != "":
		rootType, fieldName, operation = c.cfg.Schema.Mutation, call.Mutation, "mutation"
		if rootType == "" {
			rootType = "Mutation"
		}
	default:
		return valid.Fail[callTarget]("call must have query or mutation").Trace("call")
	}

	t := c.cfg.FindType(rootType)
	if t == nil {
		return valid.Failf[callTarget]("%s type not found on config", rootType).Trace("call")
	}
	field := t.Fields[fieldName]
	if field == nil {
		return valid.Failf[callTarget]("%s field not found", fieldName).Trace("call")
	}
	return valid.Succeed(callTarget{operation: operation, fieldName: fieldName, field: field})
}

// missingArguments returns the target's argument names absent from the
// call, quoted and sorted.
func missingArguments(field *config.Field, call *config.Call) []string {
	var missing []string
	for _, name := range field.ArgNames() {
		if _, ok := call.Args[name]; !ok {
			missing = append(missing, "'"+name+"'")
		}
	}
	return missing
}

// compileTarget compiles the target field's own resolver. A target with no
// resolver cannot be delegated to.
func (c *compiler) compileTarget(t callTarget) valid.Valid[Expression] {
	switch {
	case t.field.Http != nil:
		return c.compileHttp(t.field, t.field.Http)
	case t.field.GraphQL != nil:
		return c.compileGraphQL(t.operation, t.fieldName, t.field.GraphQL)
	case t.field.Grpc != nil:
		return c.compileGrpc(t.field, t.field.Grpc)
	default:
		return valid.Failf[Expression]("%s field has no resolver", t.fieldName).Trace("call")
	}
}

// inlineArguments rewrites every {{args.x}} reference in the compiled
// request templates with the call's literal argument values. Group keys and
// loader identities carry over untouched so the delegating field coalesces
// with its target.
func inlineArguments(expr Expression, args map[string]string) valid.Valid[Expression] {
	if io, err := asHttp(expr); err == nil {
		return valid.Zip3(
			substituteTemplate(io.Request.RootURL, args),
			valid.Zip(
				substituteKeyed(io.Request.Query, args),
				substituteKeyed(io.Request.Headers, args),
				func(query, headers []KeyedTemplate) [2][]KeyedTemplate {
					return [2][]KeyedTemplate{query, headers}
				},
			),
			substituteOptional(io.Request.Body, args),
			func(rootURL template.Template, kts [2][]KeyedTemplate, body *template.Template) Expression {
				return IO{Http: &HttpIO{
					Request: &HttpRequestTemplate{
						RootURL: rootURL,
						Method:  io.Request.Method,
						Query:   kts[0],
						Headers: kts[1],
						Body:    body,
					},
					GroupBy: io.GroupBy,
					Loader:  io.Loader,
				}}
			},
		)
	}
	if io, err := asGraphQL(expr); err == nil {
		return valid.Zip(
			substituteKeyed(io.Request.Headers, args),
			substituteKeyed(io.Request.OperationArguments, args),
			func(headers, opArgs []KeyedTemplate) Expression {
				return IO{GraphQL: &GraphQLIO{
					Request: &GraphQLRequestTemplate{
						BaseURL:            io.Request.BaseURL,
						Operation:          io.Request.Operation,
						FieldName:          io.Request.FieldName,
						Headers:            headers,
						OperationArguments: opArgs,
					},
					FieldName: io.FieldName,
					Batch:     io.Batch,
					Loader:    io.Loader,
				}}
			},
		)
	}
	if io, err := asGrpc(expr); err == nil {
		return valid.Zip3(
			substituteTemplate(io.Request.URL, args),
			substituteKeyed(io.Request.Headers, args),
			substituteOptional(io.Request.Body, args),
			func(url template.Template, headers []KeyedTemplate, body *template.Template) Expression {
				return IO{Grpc: &GrpcIO{
					Request: &GrpcRequestTemplate{
						URL:     url,
						Service: io.Request.Service,
						Method:  io.Request.Method,
						Headers: headers,
						Body:    body,
					},
					GroupBy: io.GroupBy,
					Loader:  io.Loader,
				}}
			},
		)
	}
	return valid.Succeed(expr)
}

// substituteTemplate replaces {{args.x}} segments with the literal value
// bound to x. Values parse as templates themselves; the first segment of
// the parsed value is spliced in, and a value that again reads args is
// chased up to maxInlineDepth.
func substituteTemplate(t template.Template, args map[string]string) valid.Valid[template.Template] {
	in := t.Segments()
	out := make([]template.Segment, 0, len(in))
	for _, seg := range in {
		if !isArgRef(seg) {
			out = append(out, seg)
			continue
		}
		replaced, err := resolveArgRef(seg, args, maxInlineDepth)
		if err != nil {
			return valid.Fail[template.Template](err.Error())
		}
		out = append(out, replaced)
	}
	return valid.Succeed(template.FromSegments(out))
}

func isArgRef(seg template.Segment) bool {
	return seg.IsExpr() && len(seg.Expr) >= 2 && seg.Expr[0] == "args"
}

func resolveArgRef(seg template.Segment, args map[string]string, depth int) (template.Segment, error) {
	if depth == 0 {
		return template.Segment{}, fmt.Errorf("argument substitution exceeded depth %d", maxInlineDepth)
	}
	value, ok := args[seg.Expr[1]]
	if !ok {
		// Completeness is checked before substitution starts; a miss here
		// is a broken compiler invariant, not a schema defect.
		panic(fmt.Sprintf("blueprint: call argument %q missing after completeness check", seg.Expr[1]))
	}
	parsed, err := template.Parse(value)
	if err != nil {
		return template.Segment{}, err
	}
	segs := parsed.Segments()
	if len(segs) == 0 {
		return template.Segment{Literal: ""}, nil
	}
	first := segs[0]
	if isArgRef(first) {
		if _, ok := args[first.Expr[1]]; ok {
			return resolveArgRef(first, args, depth-1)
		}
	}
	return first, nil
}

func substituteOptional(t *template.Template, args map[string]string) valid.Valid[*template.Template] {
	if t == nil {
		return valid.Succeed[*template.Template](nil)
	}
	return valid.Map(substituteTemplate(*t, args), func(t template.Template) *template.Template {
		return &t
	})
}

func substituteKeyed(kts []KeyedTemplate, args map[string]string) valid.Valid[[]KeyedTemplate] {
	if len(kts) == 0 {
		return valid.Succeed[[]KeyedTemplate](nil)
	}
	return valid.FromIter(kts, func(kt KeyedTemplate) valid.Valid[KeyedTemplate] {
		return valid.Map(substituteTemplate(kt.Value, args), func(t template.Template) KeyedTemplate {
			return KeyedTemplate{Key: kt.Key, Value: t}
		}).Trace(kt.Key)
	})
}
