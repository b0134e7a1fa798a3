package config

import (
	"github.com/gqlgate/gqlgate/internal/directive"
	"github.com/gqlgate/gqlgate/internal/language"
	"github.com/gqlgate/gqlgate/internal/valid"
)

// FromDocument lowers a parsed schema document into a Config. Defects in
// independent types and fields accumulate so one pass reports all of them;
// the missing schema block is the only dependency everything else has.
func FromDocument(doc *language.SchemaDocument) valid.Valid[*Config] {
	return valid.AndThen(schemaDefinition(doc), func(sd *language.SchemaDefinition) valid.Valid[*Config] {
		return valid.Zip3(
			serverConfig(sd),
			upstreamConfig(sd),
			toTypes(doc),
			func(server Server, upstream Upstream, types map[string]*Type) *Config {
				return &Config{
					Server:   server,
					Upstream: upstream,
					Schema:   toRootSchema(sd),
					Types:    types,
					Unions:   toUnionTypes(doc),
				}
			},
		)
	})
}

func schemaDefinition(doc *language.SchemaDocument) valid.Valid[*language.SchemaDefinition] {
	if len(doc.Schema) == 0 {
		return valid.Fail[*language.SchemaDefinition]("schema not found").Trace("schema")
	}
	return valid.Succeed(doc.Schema[0])
}

// serverConfig and upstreamConfig fold every matching root directive in
// document order, later blocks overriding earlier ones field by field.
func serverConfig(sd *language.SchemaDefinition) valid.Valid[Server] {
	return directive.Fold(sd.Directives, "server", Server{})
}

func upstreamConfig(sd *language.SchemaDefinition) valid.Valid[Upstream] {
	return directive.Fold(sd.Directives, "upstream", Upstream{})
}

func toRootSchema(sd *language.SchemaDefinition) RootSchema {
	var rs RootSchema
	for _, op := range sd.OperationTypes {
		switch op.Operation {
		case language.Query:
			rs.Query = op.Type
		case language.Mutation:
			rs.Mutation = op.Type
		case language.Subscription:
			rs.Subscription = op.Type
		}
	}
	return rs
}

func toTypes(doc *language.SchemaDocument) valid.Valid[map[string]*Type] {
	type namedType struct {
		name string
		tpe  *Type
	}
	pairs := valid.FromIter(doc.Definitions, func(def *language.Definition) valid.Valid[namedType] {
		var tpe valid.Valid[*Type]
		switch def.Kind {
		case language.Object:
			tpe = toObjectType(def, false)
		case language.Interface:
			tpe = toObjectType(def, true)
		case language.Enum:
			tpe = valid.Succeed(toEnum(def))
		case language.InputObject:
			tpe = toInputObject(def)
		case language.Scalar:
			tpe = valid.Succeed(&Type{Scalar: true, Doc: def.Description})
		case language.Union:
			// Unions live in the side table, not the main type map.
			tpe = valid.Succeed[*Type](nil)
		default:
			tpe = valid.Succeed[*Type](nil)
		}
		return valid.Map(tpe, func(t *Type) namedType { return namedType{name: def.Name, tpe: t} }).
			Trace(def.Name)
	})
	return valid.Map(pairs, func(ps []namedType) map[string]*Type {
		types := make(map[string]*Type, len(ps))
		for _, p := range ps {
			if p.tpe != nil {
				types[p.name] = p.tpe
			}
		}
		return types
	})
}

func toUnionTypes(doc *language.SchemaDocument) map[string]*Union {
	unions := map[string]*Union{}
	for _, def := range doc.Definitions {
		if def.Kind != language.Union {
			continue
		}
		unions[def.Name] = &Union{Types: def.Types, Doc: def.Description}
	}
	if len(unions) == 0 {
		return nil
	}
	return unions
}

func toObjectType(def *language.Definition, isInterface bool) valid.Valid[*Type] {
	return valid.Map(toFields(def.Fields), func(fields map[string]*Field) *Type {
		return &Type{
			Fields:     fields,
			Doc:        def.Description,
			Interface:  isInterface,
			Implements: def.Interfaces,
		}
	})
}

func toEnum(def *language.Definition) *Type {
	variants := make([]string, len(def.EnumValues))
	for i, v := range def.EnumValues {
		variants[i] = v.Name
	}
	return &Type{Variants: variants, Doc: def.Description}
}

// Input object fields reuse the common field lowering; they carry no
// arguments or resolver directives of their own.
func toInputObject(def *language.Definition) valid.Valid[*Type] {
	return valid.Map(toFields(def.Fields), func(fields map[string]*Field) *Type {
		return &Type{Fields: fields, Doc: def.Description}
	})
}

func toFields(fields language.FieldList) valid.Valid[map[string]*Field] {
	type namedField struct {
		name  string
		field *Field
	}
	pairs := valid.FromIter(fields, func(node *language.FieldDefinition) valid.Valid[namedField] {
		return valid.Map(toField(node), func(f *Field) namedField {
			return namedField{name: node.Name, field: f}
		}).Trace(node.Name)
	})
	return valid.Map(pairs, func(ps []namedField) map[string]*Field {
		out := make(map[string]*Field, len(ps))
		for _, p := range ps {
			out[p.name] = p.field
		}
		return out
	})
}

func toField(node *language.FieldDefinition) valid.Valid[*Field] {
	d := node.Directives

	// The two decoders the original treats applicatively, plus the rest of
	// the resolver directives; all failures for one field surface together.
	ioDirectives := valid.Zip3(
		directive.First[Http](d, "http"),
		directive.First[GraphQLSource](d, "graphql"),
		directive.First[Grpc](d, "grpc"),
		func(http *Http, gql *GraphQLSource, grpc *Grpc) *Field {
			return &Field{Http: http, GraphQL: gql, Grpc: grpc}
		},
	)
	valueDirectives := valid.Zip3(
		directive.First[Call](d, "call"),
		directive.First[Const](d, "const"),
		directive.First[Modify](d, "modify"),
		func(call *Call, cnst *Const, modify *Modify) *Field {
			return &Field{Call: call, Const: cnst, Modify: modify}
		},
	)
	rest := valid.Zip(
		directive.First[GroupBy](d, "groupBy"),
		toArgs(node.Arguments),
		func(groupBy *GroupBy, args map[string]*Arg) *Field {
			return &Field{GroupBy: groupBy, Args: args}
		},
	)

	return valid.Zip3(ioDirectives, valueDirectives, rest, func(io, val, rest *Field) *Field {
		f := &Field{
			Type:             baseType(node.Type),
			List:             isList(node.Type),
			Required:         node.Type.NonNull,
			ListTypeRequired: listItemRequired(node.Type),
			Args:             rest.Args,
			Doc:              node.Description,
			Http:             io.Http,
			GraphQL:          io.GraphQL,
			Grpc:             io.Grpc,
			Call:             val.Call,
			Const:            val.Const,
			Modify:           val.Modify,
			GroupBy:          rest.GroupBy,
		}
		return f
	})
}

func toArgs(args language.ArgumentDefinitionList) valid.Valid[map[string]*Arg] {
	type namedArg struct {
		name string
		arg  *Arg
	}
	pairs := valid.FromIter(args, func(node *language.ArgumentDefinition) valid.Valid[namedArg] {
		return valid.Map(toArg(node), func(a *Arg) namedArg {
			return namedArg{name: node.Name, arg: a}
		}).Trace(node.Name)
	})
	return valid.Map(pairs, func(ps []namedArg) map[string]*Arg {
		if len(ps) == 0 {
			return nil
		}
		out := make(map[string]*Arg, len(ps))
		for _, p := range ps {
			out[p.name] = p.arg
		}
		return out
	})
}

func toArg(node *language.ArgumentDefinition) valid.Valid[*Arg] {
	arg := &Arg{
		Type:     baseType(node.Type),
		List:     isList(node.Type),
		Required: node.Type.NonNull,
		Doc:      node.Description,
	}
	if node.DefaultValue != nil {
		v, err := node.DefaultValue.Value(nil)
		if err != nil {
			return valid.FailWith[*Arg]("invalid default value", err.Error())
		}
		arg.Default = v
	}
	return valid.Succeed(arg)
}

// baseType unwraps list nesting down to the named type.
func baseType(t *language.Type) string {
	for t.Elem != nil {
		t = t.Elem
	}
	return t.NamedType
}

func isList(t *language.Type) bool { return t.Elem != nil }

func listItemRequired(t *language.Type) bool {
	return t.Elem != nil && t.Elem.NonNull
}
