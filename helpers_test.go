package traitgen_test

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/setanarut/traitgen"
)

var palette = map[string]color.NRGBA{
	"red":    {R: 255, A: 255},
	"blue":   {B: 255, A: 255},
	"green":  {G: 255, A: 255},
	"circle": {R: 255, G: 255, A: 128},
	"square": {G: 255, B: 255, A: 64},
}

// writePNG writes a w x h image filled with c.
func writePNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// makeAssets creates root/<layer>/<value>.png for every entry.
func makeAssets(t *testing.T, layers map[string][]string) string {
	t.Helper()
	root := t.TempDir()
	for layer, values := range layers {
		dir := filepath.Join(root, layer)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
		for _, v := range values {
			c, ok := palette[v]
			if !ok {
				c = color.NRGBA{R: uint8(len(v) * 40), G: 80, B: 160, A: 255}
			}
			writePNG(t, filepath.Join(dir, v+".png"), 4, 4, c)
		}
	}
	return root
}

// abAssets is the two-layer catalog with capacity 4.
func abAssets(t *testing.T) string {
	return makeAssets(t, map[string][]string{
		"A": {"red", "blue"},
		"B": {"circle", "square"},
	})
}

type memSink struct {
	mu   sync.Mutex
	puts map[int]traitgen.Metadata
	size map[int]image.Point
	err  error
	// failAt makes Put return err for that id.
	failAt int
}

func newMemSink() *memSink {
	return &memSink{puts: make(map[int]traitgen.Metadata), size: make(map[int]image.Point)}
}

func (s *memSink) Put(_ context.Context, id int, img image.Image, md traitgen.Metadata) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failAt == id {
		return s.err
	}
	s.puts[id] = md
	s.size[id] = img.Bounds().Size()
	return nil
}

func (s *memSink) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.puts)
}
