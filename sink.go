package traitgen

import (
	"context"
	"encoding/json"
	"image"
	"os"
	"path/filepath"
	"strconv"

	"github.com/setanarut/traitgen/utils"
)

// Sink persists a finished token. Implementations must be safe for
// concurrent use when the generator runs more than one worker.
type Sink interface {
	Put(ctx context.Context, id int, img image.Image, md Metadata) error
}

// DirSink writes <ImagesDir>/<id>.png and <MetadataDir>/<id>.
// Both directories must already exist.
type DirSink struct {
	ImagesDir   string
	MetadataDir string
}

// NewDirSink returns a sink writing under root/images and root/metadata.
func NewDirSink(root string) *DirSink {
	return &DirSink{
		ImagesDir:   filepath.Join(root, "images"),
		MetadataDir: filepath.Join(root, "metadata"),
	}
}

func (s *DirSink) Put(_ context.Context, id int, img image.Image, md Metadata) error {
	pngData, err := utils.EncodePNG(img)
	if err != nil {
		return &EncodeError{ID: id, Err: err}
	}
	doc, err := json.Marshal(md)
	if err != nil {
		return &EncodeError{ID: id, Err: err}
	}

	sid := strconv.Itoa(id)
	imgPath := filepath.Join(s.ImagesDir, sid+".png")
	if err := os.WriteFile(imgPath, pngData, 0o644); err != nil {
		return &WriteError{Path: imgPath, Err: err}
	}
	mdPath := filepath.Join(s.MetadataDir, sid)
	if err := os.WriteFile(mdPath, doc, 0o644); err != nil {
		return &WriteError{Path: mdPath, Err: err}
	}
	return nil
}
