package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/gqlgate/gqlgate/internal/compile"
	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/introspection"
	"github.com/gqlgate/gqlgate/internal/language"
	"github.com/gqlgate/gqlgate/internal/otel"
	"github.com/gqlgate/gqlgate/internal/protoreg"
	"github.com/gqlgate/gqlgate/internal/valid"

	"go.uber.org/zap"
)

const rootUsage = `gqlgate — GraphQL gateway schema compiler

USAGE:
  gqlgate <command> [flags]

COMMANDS:
  check      Compile a schema and report every diagnostic
  compile    Compile a schema and emit the blueprint as JSON
  render     Lower a schema and print it back as canonical SDL
  help       Show help for any command
`

const checkUsage = `check FLAGS:
  -schema <file>          Schema document: SDL, or YAML/JSON by extension (required)
  -proto <file>           Compiled proto descriptor set for @grpc checks. Repeatable
  -grpc.reflect <addr>    Resolve proto descriptors from a reflection endpoint
  -offline                Skip upstream introspection for @graphql fields
  -otel.endpoint <addr>   OTLP collector endpoint
  -otel.service <name>    OpenTelemetry service name (default: gqlgate)
  (Exits non-zero when the schema has defects)
`

const compileUsage = `compile FLAGS:
  -schema <file>          Schema document: SDL, or YAML/JSON by extension (required)
  -out <file>             Write blueprint JSON to file (default: stdout)
  -proto <file>           Compiled proto descriptor set for @grpc checks. Repeatable
  -grpc.reflect <addr>    Resolve proto descriptors from a reflection endpoint
  -offline                Skip upstream introspection for @graphql fields
  -otel.endpoint <addr>   OTLP collector endpoint
  -otel.service <name>    OpenTelemetry service name (default: gqlgate)
`

const renderUsage = `render FLAGS:
  -schema <file>          Schema document: SDL, or YAML/JSON by extension (required)
  -out <file>             Write canonical SDL to file (default: stdout)
`

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

func run(args []string) error {
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("missing command")
	}
	cmd := args[0]
	cmdArgs := args[1:]
	switch cmd {
	case "check":
		return cmdCheck(cmdArgs)
	case "compile":
		return cmdCompile(cmdArgs)
	case "render":
		return cmdRender(cmdArgs)
	case "help":
		return cmdHelp(cmdArgs)
	default:
		fmt.Fprint(os.Stderr, rootUsage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func cmdHelp(args []string) error {
	if len(args) == 0 {
		fmt.Print(rootUsage)
		return nil
	}
	switch args[0] {
	case "check":
		fmt.Print(checkUsage)
	case "compile":
		fmt.Print(compileUsage)
	case "render":
		fmt.Print(renderUsage)
	default:
		return fmt.Errorf("unknown help topic %q", args[0])
	}
	return nil
}

type stringListFlag []string

func (s *stringListFlag) String() string { return "" }

func (s *stringListFlag) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// compileFlags are the flags shared by check and compile.
type compileFlags struct {
	schema       string
	protoSets    stringListFlag
	grpcReflect  string
	offline      bool
	otelEndpoint string
	otelService  string
}

func (f *compileFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.schema, "schema", "", "Schema document")
	fs.Var(&f.protoSets, "proto", "Compiled proto descriptor set")
	fs.StringVar(&f.grpcReflect, "grpc.reflect", "", "gRPC reflection endpoint")
	fs.BoolVar(&f.offline, "offline", false, "Skip upstream introspection")
	fs.StringVar(&f.otelEndpoint, "otel.endpoint", "", "OTLP collector endpoint")
	fs.StringVar(&f.otelService, "otel.service", "gqlgate", "OpenTelemetry service name")
}

// options assembles the compile collaborators the flags describe.
func (f *compileFlags) options(ctx context.Context, logger *zap.Logger) (compile.Options, error) {
	opts := compile.Options{}
	if !f.offline {
		opts.Fetcher = introspection.NewHTTPFetcher(logger)
	}
	if len(f.protoSets) > 0 {
		reg, err := protoreg.Load(f.protoSets...)
		if err != nil {
			return opts, err
		}
		opts.Descriptors = reg
	} else if f.grpcReflect != "" {
		reg, err := protoreg.Reflect(ctx, f.grpcReflect)
		if err != nil {
			return opts, err
		}
		opts.Descriptors = reg
	}
	return opts, nil
}

func (f *compileFlags) setupTelemetry() (func(context.Context) error, error) {
	eventbus.Use(eventbus.New())
	return otel.Setup(f.otelEndpoint, f.otelService)
}

func cmdCheck(args []string) error {
	var cf compileFlags
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	cf.register(fs)
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, checkUsage)
		return err
	}
	if cf.schema == "" {
		fmt.Fprint(os.Stderr, checkUsage)
		return fmt.Errorf("-schema is required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdown, err := cf.setupTelemetry()
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	ctx := context.Background()
	defer func() { _ = shutdown(ctx) }()

	opts, err := cf.options(ctx, logger)
	if err != nil {
		return err
	}
	if _, err := compile.File(ctx, cf.schema, opts); err != nil {
		var verr valid.Error
		if errors.As(err, &verr) {
			for _, cause := range verr {
				fmt.Fprintf(os.Stderr, "error: %s\n", cause)
			}
			return fmt.Errorf("%s has %d error(s)", cf.schema, len(verr))
		}
		return err
	}
	fmt.Printf("%s is valid\n", cf.schema)
	return nil
}

func cmdCompile(args []string) error {
	var cf compileFlags
	outFile := ""
	fs := flag.NewFlagSet("compile", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	cf.register(fs)
	fs.StringVar(&outFile, "out", outFile, "Write blueprint JSON to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, compileUsage)
		return err
	}
	if cf.schema == "" {
		fmt.Fprint(os.Stderr, compileUsage)
		return fmt.Errorf("-schema is required")
	}

	logger, err := zap.NewProduction()
	if err != nil {
		return err
	}
	defer logger.Sync()

	shutdown, err := cf.setupTelemetry()
	if err != nil {
		return fmt.Errorf("otel setup: %w", err)
	}
	ctx := context.Background()
	defer func() { _ = shutdown(ctx) }()

	opts, err := cf.options(ctx, logger)
	if err != nil {
		return err
	}
	bp, err := compile.File(ctx, cf.schema, opts)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(bp, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	if outFile == "" {
		fmt.Print(string(data))
		return nil
	}
	return os.WriteFile(outFile, data, 0644)
}

func cmdRender(args []string) error {
	schemaFile := ""
	outFile := ""
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	fs.SetOutput(new(bytes.Buffer))
	fs.StringVar(&schemaFile, "schema", schemaFile, "Schema document")
	fs.StringVar(&outFile, "out", outFile, "Write canonical SDL to file")
	if err := fs.Parse(args); err != nil {
		fmt.Fprint(os.Stderr, renderUsage)
		return err
	}
	if schemaFile == "" {
		fmt.Fprint(os.Stderr, renderUsage)
		return fmt.Errorf("-schema is required")
	}

	cfg, err := lowerFile(schemaFile)
	if err != nil {
		return err
	}
	sdl := config.Render(cfg)
	if outFile == "" {
		fmt.Print(sdl)
		return nil
	}
	return os.WriteFile(outFile, []byte(sdl), 0644)
}

func lowerFile(path string) (*config.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if len(path) > len(ext) && path[len(path)-len(ext):] == ext {
			return config.FromYAML(data)
		}
	}
	doc, err := language.ParseSchema(path, string(data))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return config.FromDocument(doc).ToResult()
}
