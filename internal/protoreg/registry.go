// Package protoreg loads protobuf descriptors and resolves the service
// methods that @grpc fields name. Descriptors come either from compiled
// descriptor-set files (protoc --descriptor_set_out) or from gRPC server
// reflection; the blueprint compiler only ever sees the Registry.
package protoreg

import (
	"fmt"
	"os"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/descriptorpb"
)

type Registry struct {
	files []protoreflect.FileDescriptor
}

// Load reads compiled descriptor-set files and merges them into one
// registry. Files repeated across sets keep their first occurrence.
func Load(paths ...string) (*Registry, error) {
	merged := &descriptorpb.FileDescriptorSet{}
	seen := map[string]bool{}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("protoreg: %w", err)
		}
		set := &descriptorpb.FileDescriptorSet{}
		if err := proto.Unmarshal(data, set); err != nil {
			return nil, fmt.Errorf("protoreg: %s is not a descriptor set: %w", path, err)
		}
		for _, fd := range set.File {
			if seen[fd.GetName()] {
				continue
			}
			seen[fd.GetName()] = true
			merged.File = append(merged.File, fd)
		}
	}
	return FromSet(merged)
}

// FromSet resolves an in-memory descriptor set into a registry.
func FromSet(set *descriptorpb.FileDescriptorSet) (*Registry, error) {
	files, err := protodesc.NewFiles(set)
	if err != nil {
		return nil, fmt.Errorf("protoreg: %w", err)
	}
	r := &Registry{}
	files.RangeFiles(func(fd protoreflect.FileDescriptor) bool {
		r.files = append(r.files, fd)
		return true
	})
	return r, nil
}

// Files returns every loaded file descriptor.
func (r *Registry) Files() []protoreflect.FileDescriptor {
	return r.files
}

// Method resolves a service method. The service may be named by its full
// protobuf name ("news.NewsService") or its short name ("NewsService").
func (r *Registry) Method(service, method string) (protoreflect.MethodDescriptor, error) {
	for _, fd := range r.files {
		svcs := fd.Services()
		for i := 0; i < svcs.Len(); i++ {
			sd := svcs.Get(i)
			if string(sd.FullName()) != service && string(sd.Name()) != service {
				continue
			}
			md := sd.Methods().ByName(protoreflect.Name(method))
			if md == nil {
				return nil, fmt.Errorf("method %q not found on service %q", method, service)
			}
			return md, nil
		}
	}
	return nil, fmt.Errorf("service %q not found in proto descriptors", service)
}
