package protoreg

import (
	"os"
	"path"

	"github.com/jhump/protoreflect/v2/protoprint"
)

// Render writes the registry's descriptors back out as .proto source under
// outDir, mirroring each file's declared path. Useful for inspecting what a
// reflection download actually returned.
func Render(r *Registry, outDir string) error {
	pp := protoprint.Printer{}

	for _, fd := range r.Files() {
		fp := path.Join(outDir, fd.Path())
		if err := os.MkdirAll(path.Dir(fp), 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(fp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
		if err != nil {
			return err
		}
		if err := pp.PrintProtoFile(fd, f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
	}
	return nil
}
