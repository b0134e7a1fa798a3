package protoreg

import (
	"context"
	"fmt"

	"github.com/jhump/protoreflect/v2/grpcreflect"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Reflect downloads descriptors from a gRPC server that exposes the
// reflection service and builds a registry from every service it lists.
// It is an alternative to shipping descriptor-set files next to the
// schema.
func Reflect(ctx context.Context, target string) (*Registry, error) {
	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("protoreg: dial %s: %w", target, err)
	}
	defer conn.Close()

	client := grpcreflect.NewClientAuto(ctx, conn)
	defer client.Reset()

	services, err := client.ListServices()
	if err != nil {
		return nil, fmt.Errorf("protoreg: list services on %s: %w", target, err)
	}

	r := &Registry{}
	seen := map[string]bool{}
	for _, svc := range services {
		fd, err := client.FileContainingSymbol(svc)
		if err != nil {
			return nil, fmt.Errorf("protoreg: resolve %s: %w", svc, err)
		}
		collectFiles(fd, seen, &r.files)
	}
	return r, nil
}

// collectFiles walks fd and its imports depth-first, appending each file
// once.
func collectFiles(fd protoreflect.FileDescriptor, seen map[string]bool, out *[]protoreflect.FileDescriptor) {
	if seen[fd.Path()] {
		return
	}
	seen[fd.Path()] = true
	imports := fd.Imports()
	for i := 0; i < imports.Len(); i++ {
		collectFiles(imports.Get(i).FileDescriptor, seen, out)
	}
	*out = append(*out, fd)
}
