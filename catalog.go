package traitgen

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/setanarut/traitgen/utils"
)

// Asset is one decoded variant of a layer.
type Asset struct {
	TraitType string
	Value     string
	Path      string
	Image     image.Image
}

// Attribute returns the pixel-free projection of the asset.
func (a Asset) Attribute() Attribute {
	return Attribute{TraitType: a.TraitType, Value: a.Value}
}

type variant struct {
	value string
	path  string
}

// Catalog enumerates asset variants stored as <root>/<layer>/<value>.<ext>.
//
// Listings are read once per layer and sorted by file name, so the Nth
// variant is stable across platforms for the lifetime of the Catalog.
// Images are never cached; Resolve decodes from disk on every call.
type Catalog struct {
	root string

	mu       sync.Mutex
	listings map[string][]variant
}

func NewCatalog(root string) *Catalog {
	return &Catalog{
		root:     root,
		listings: make(map[string][]variant),
	}
}

// Root returns the assets directory.
func (c *Catalog) Root() string { return c.root }

// Layers lists the layer subdirectories of the root, sorted by name.
func (c *Catalog) Layers() ([]string, error) {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		return nil, err
	}
	var layers []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			layers = append(layers, e.Name())
		}
	}
	return layers, nil
}

// Count returns the number of variants available for layer.
func (c *Catalog) Count(layer string) (int, error) {
	vs, err := c.listing(layer)
	if err != nil {
		return 0, err
	}
	return len(vs), nil
}

// Variants returns the sorted attribute values of layer.
func (c *Catalog) Variants(layer string) ([]string, error) {
	vs, err := c.listing(layer)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = v.value
	}
	return out, nil
}

// Resolve decodes the nth variant (0-indexed) of layer.
func (c *Catalog) Resolve(layer string, n int) (Asset, error) {
	vs, err := c.listing(layer)
	if err != nil {
		return Asset{}, err
	}
	if n < 0 || n >= len(vs) {
		return Asset{}, &CatalogError{Layer: layer, Err: fs.ErrNotExist}
	}
	v := vs[n]
	img, err := utils.ReadImage(v.path)
	if err != nil {
		return Asset{}, &DecodeError{Path: v.path, Err: err}
	}
	return Asset{TraitType: layer, Value: v.value, Path: v.path, Image: img}, nil
}

func (c *Catalog) listing(layer string) ([]variant, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if vs, ok := c.listings[layer]; ok {
		return vs, nil
	}

	dir := filepath.Join(c.root, layer)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &CatalogError{Layer: layer, Err: errors.Join(ErrLayerNotFound, err)}
		}
		return nil, &CatalogError{Layer: layer, Err: err}
	}

	vs := make([]variant, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		vs = append(vs, variant{
			value: strings.TrimSuffix(name, filepath.Ext(name)),
			path:  filepath.Join(dir, name),
		})
	}
	if len(vs) == 0 {
		return nil, &CatalogError{Layer: layer, Err: ErrEmptyLayer}
	}
	// os.ReadDir already sorts by file name; keep the order explicit.
	slices.SortFunc(vs, func(a, b variant) int { return strings.Compare(a.path, b.path) })
	seen := make(map[string]string, len(vs))
	for _, v := range vs {
		if prev, dup := seen[v.value]; dup {
			return nil, &CatalogError{Layer: layer, Err: fmt.Errorf("%w: %s and %s", ErrDuplicateValue, filepath.Base(prev), filepath.Base(v.path))}
		}
		seen[v.value] = v.path
	}

	c.listings[layer] = vs
	return vs, nil
}

// Capacity returns the number of distinct combinations of layers.
func (c *Catalog) Capacity(layers []string) (uint64, error) {
	counts := make([]int, len(layers))
	for i, l := range layers {
		n, err := c.Count(l)
		if err != nil {
			return 0, err
		}
		counts[i] = n
	}
	return Capacity(counts), nil
}
