// Package compile runs the schema compilation pipeline end to end: parse
// or decode the config document, resolve upstream introspection, and
// generate the blueprint. It owns the compile-lifecycle events; the
// packages it composes stay silent.
package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gqlgate/gqlgate/internal/blueprint"
	"github.com/gqlgate/gqlgate/internal/config"
	"github.com/gqlgate/gqlgate/internal/eventbus"
	"github.com/gqlgate/gqlgate/internal/events"
	"github.com/gqlgate/gqlgate/internal/introspection"
	"github.com/gqlgate/gqlgate/internal/language"
	"github.com/gqlgate/gqlgate/internal/protoreg"
	"github.com/gqlgate/gqlgate/internal/runid"
	"github.com/gqlgate/gqlgate/internal/valid"
)

// Options carries the compile-time collaborators that come from outside
// the document.
type Options struct {
	// Fetcher resolves @graphql upstream schemas. Nil compiles offline:
	// delegated field names are trusted unchecked.
	Fetcher introspection.Fetcher

	// Seed pre-populates the introspection cache, e.g. from a previous
	// compile's Snapshot.
	Seed map[string]*introspection.Result

	// Descriptors backs @grpc method checks.
	Descriptors *protoreg.Registry
}

// File compiles the document at path. YAML and JSON documents are decoded
// into the config model directly; anything else is parsed as SDL.
func File(ctx context.Context, path string, opts Options) (*blueprint.Blueprint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Source(ctx, path, string(data), opts)
}

// Source compiles a config document held in memory. name is used for
// diagnostics and format detection.
func Source(ctx context.Context, name, source string, opts Options) (*blueprint.Blueprint, error) {
	ctx, _ = runid.NewContext(ctx)
	eventbus.Publish(ctx, events.CompileStart{Source: name})
	start := time.Now()

	bp, err := run(ctx, name, source, opts)

	finish := events.CompileFinish{Source: name, Duration: time.Since(start)}
	if bp != nil {
		finish.Types = len(bp.Types)
	}
	if err != nil {
		var verr valid.Error
		if errors.As(err, &verr) {
			finish.Errors = len(verr)
		} else {
			finish.Errors = 1
		}
	}
	eventbus.Publish(ctx, finish)
	return bp, err
}

func run(ctx context.Context, name, source string, opts Options) (*blueprint.Blueprint, error) {
	cfg, err := lower(name, source)
	if err != nil {
		return nil, err
	}
	if opts.Fetcher != nil {
		cache := introspection.NewCache(opts.Fetcher, opts.Seed)
		if _, err := cfg.ResolveIntrospection(ctx, cache).ToResult(); err != nil {
			return nil, err
		}
	}
	return blueprint.Generate(cfg, blueprint.Options{Descriptors: opts.Descriptors}).ToResult()
}

func lower(name, source string) (*config.Config, error) {
	if isYAML(name) {
		return config.FromYAML([]byte(source))
	}
	doc, err := language.ParseSchema(name, source)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	return config.FromDocument(doc).ToResult()
}

func isYAML(name string) bool {
	for _, ext := range []string{".yaml", ".yml", ".json"} {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}
