package protoreg

import (
	"os"
	"path/filepath"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/descriptorpb"
)

func newsDescriptorSet() *descriptorpb.FileDescriptorSet {
	return &descriptorpb.FileDescriptorSet{
		File: []*descriptorpb.FileDescriptorProto{{
			Name:    proto.String("news/news.proto"),
			Package: proto.String("news"),
			Syntax:  proto.String("proto3"),
			MessageType: []*descriptorpb.DescriptorProto{
				{
					Name: proto.String("NewsId"),
					Field: []*descriptorpb.FieldDescriptorProto{{
						Name:   proto.String("id"),
						Number: proto.Int32(1),
						Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
						Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
					}},
				},
				{
					Name: proto.String("News"),
					Field: []*descriptorpb.FieldDescriptorProto{
						{
							Name:   proto.String("id"),
							Number: proto.Int32(1),
							Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
							Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
						},
						{
							Name:   proto.String("title"),
							Number: proto.Int32(2),
							Type:   descriptorpb.FieldDescriptorProto_TYPE_STRING.Enum(),
							Label:  descriptorpb.FieldDescriptorProto_LABEL_OPTIONAL.Enum(),
						},
					},
				},
			},
			Service: []*descriptorpb.ServiceDescriptorProto{{
				Name: proto.String("NewsService"),
				Method: []*descriptorpb.MethodDescriptorProto{{
					Name:       proto.String("GetNews"),
					InputType:  proto.String(".news.NewsId"),
					OutputType: proto.String(".news.News"),
				}},
			}},
		}},
	}
}

func TestMethodLookup(t *testing.T) {
	r, err := FromSet(newsDescriptorSet())
	if err != nil {
		t.Fatal(err)
	}

	md, err := r.Method("news.NewsService", "GetNews")
	if err != nil {
		t.Fatal(err)
	}
	if got := string(md.FullName()); got != "news.NewsService.GetNews" {
		t.Errorf("method full name = %q", got)
	}
	if got := string(md.Input().FullName()); got != "news.NewsId" {
		t.Errorf("input = %q", got)
	}

	// Short service name resolves too.
	if _, err := r.Method("NewsService", "GetNews"); err != nil {
		t.Errorf("short name lookup: %v", err)
	}
}

func TestMethodLookupErrors(t *testing.T) {
	r, err := FromSet(newsDescriptorSet())
	if err != nil {
		t.Fatal(err)
	}

	if _, err := r.Method("news.NewsService", "ListNews"); err == nil {
		t.Error("expected missing method error")
	}
	if _, err := r.Method("news.WeatherService", "GetNews"); err == nil {
		t.Error("expected missing service error")
	}
}

func TestLoadDescriptorSetFile(t *testing.T) {
	data, err := proto.Marshal(newsDescriptorSet())
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "news.pb")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	r, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Method("news.NewsService", "GetNews"); err != nil {
		t.Fatal(err)
	}
}

func TestRenderWritesProtoSource(t *testing.T) {
	r, err := FromSet(newsDescriptorSet())
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := Render(r, dir); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "news/news.proto")); err != nil {
		t.Errorf("rendered file missing: %v", err)
	}
}
