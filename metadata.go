package traitgen

import "strconv"

// Attribute is the {trait_type, value} pair recorded in token metadata.
type Attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// AttributeSet holds one Attribute per layer, in layer order.
type AttributeSet []Attribute

// Values returns the attribute values in order.
func (s AttributeSet) Values() []string {
	out := make([]string, len(s))
	for i, a := range s {
		out[i] = a.Value
	}
	return out
}

// Collection holds the constants shared by every token of a run.
type Collection struct {
	Name        string `mapstructure:"name" json:"name"`
	Description string `mapstructure:"description" json:"description"`
	BaseURI     string `mapstructure:"base_uri" json:"base_uri"`
}

// Metadata is the JSON document written for each token.
type Metadata struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []Attribute `json:"attributes"`
	// BackgroundColor is the dominant colour as six hex digits without '#'.
	// Only set when palette extraction is enabled.
	BackgroundColor string `json:"background_color,omitempty"`
}

// Synthesize builds the metadata of token id. The attribute order is kept
// as given.
func Synthesize(c Collection, id int, attrs AttributeSet) Metadata {
	sid := strconv.Itoa(id)
	out := make([]Attribute, len(attrs))
	copy(out, attrs)
	return Metadata{
		Name:        c.Name + " #" + sid,
		Description: c.Description,
		Image:       c.BaseURI + sid,
		Attributes:  out,
	}
}
