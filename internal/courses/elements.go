package courses

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ElementType discriminates the VisualElement union in JSON.
type ElementType string

const (
	ElementAvatar ElementType = "avatar"
	ElementImage  ElementType = "image"
	ElementText   ElementType = "text"
	ElementShape  ElementType = "shape"
)

// Position places an element on the scene canvas: either a semantic keyword
// (left, center, full, background, ...) or absolute coordinates.
type Position struct {
	Name string  `json:"name,omitempty"`
	X    float64 `json:"x,omitempty"`
	Y    float64 `json:"y,omitempty"`
}

// At builds a coordinate position.
func At(x, y float64) Position {
	return Position{X: x, Y: y}
}

// Named builds a semantic keyword position.
func Named(name string) Position {
	return Position{Name: name}
}

// Avatar is a presenter character overlay.
type Avatar struct {
	Position   Position `json:"position"`
	Emotion    string   `json:"emotion"`
	HairColor  string   `json:"hair_color,omitempty"`
	ShirtColor string   `json:"shirt_color,omitempty"`
	Style      string   `json:"style,omitempty"`
}

// Image is a picture overlay. Primary marks the video-derived frame that
// backs a scene; it always occupies index 0 of the scene's element list.
type Image struct {
	Position    Position `json:"position"`
	ImageData   string   `json:"image_data,omitempty"`
	Description string   `json:"description,omitempty"`
	Primary     bool     `json:"primary,omitempty"`
}

// Text is a textual callout overlay.
type Text struct {
	Position Position `json:"position"`
	Content  string   `json:"content"`
	FontSize float64  `json:"font_size,omitempty"`
	Color    string   `json:"color,omitempty"`
	Style    string   `json:"style,omitempty"`
}

// Shape is a geometric overlay used for highlighting and diagramming.
type Shape struct {
	Position  Position `json:"position"`
	ShapeType string   `json:"shape_type"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	Color     string   `json:"color,omitempty"`
	Purpose   string   `json:"purpose,omitempty"`
}

var shapeTypes = map[string]struct{}{
	"arrow": {}, "rectangle": {}, "circle": {}, "line": {}, "star": {},
}

// VisualElement is a tagged union over the four overlay kinds. Exactly one
// variant pointer is non-nil.
type VisualElement struct {
	Avatar *Avatar
	Image  *Image
	Text   *Text
	Shape  *Shape
}

// NewAvatar wraps an Avatar variant.
func NewAvatar(a Avatar) VisualElement { return VisualElement{Avatar: &a} }

// NewImage wraps an Image variant.
func NewImage(i Image) VisualElement { return VisualElement{Image: &i} }

// NewText wraps a Text variant.
func NewText(t Text) VisualElement { return VisualElement{Text: &t} }

// NewShape wraps a Shape variant.
func NewShape(s Shape) VisualElement { return VisualElement{Shape: &s} }

// Kind returns the discriminator of the populated variant.
func (e VisualElement) Kind() ElementType {
	switch {
	case e.Avatar != nil:
		return ElementAvatar
	case e.Image != nil:
		return ElementImage
	case e.Text != nil:
		return ElementText
	case e.Shape != nil:
		return ElementShape
	default:
		return ""
	}
}

// Validate ensures exactly one variant is set and its fields are usable.
func (e VisualElement) Validate() error {
	count := 0
	if e.Avatar != nil {
		count++
	}
	if e.Image != nil {
		count++
	}
	if e.Text != nil {
		count++
	}
	if e.Shape != nil {
		count++
	}
	if count != 1 {
		return fmt.Errorf("visual element must carry exactly one variant, has %d", count)
	}
	switch {
	case e.Avatar != nil:
		if strings.TrimSpace(e.Avatar.Emotion) == "" {
			return fmt.Errorf("avatar element requires an emotion")
		}
	case e.Image != nil:
		if e.Image.ImageData == "" && strings.TrimSpace(e.Image.Description) == "" {
			return fmt.Errorf("image element requires image data or a description")
		}
	case e.Text != nil:
		if strings.TrimSpace(e.Text.Content) == "" {
			return fmt.Errorf("text element requires content")
		}
	case e.Shape != nil:
		if _, ok := shapeTypes[e.Shape.ShapeType]; !ok {
			return fmt.Errorf("shape element has unknown shape type %q", e.Shape.ShapeType)
		}
	}
	return nil
}

// MarshalJSON encodes the populated variant with its type discriminator.
func (e VisualElement) MarshalJSON() ([]byte, error) {
	switch {
	case e.Avatar != nil:
		return json.Marshal(struct {
			Type ElementType `json:"type"`
			*Avatar
		}{ElementAvatar, e.Avatar})
	case e.Image != nil:
		return json.Marshal(struct {
			Type ElementType `json:"type"`
			*Image
		}{ElementImage, e.Image})
	case e.Text != nil:
		return json.Marshal(struct {
			Type ElementType `json:"type"`
			*Text
		}{ElementText, e.Text})
	case e.Shape != nil:
		return json.Marshal(struct {
			Type ElementType `json:"type"`
			*Shape
		}{ElementShape, e.Shape})
	default:
		return nil, fmt.Errorf("visual element has no variant")
	}
}

// UnmarshalJSON decodes a variant selected by the type discriminator.
func (e *VisualElement) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type ElementType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	*e = VisualElement{}
	switch probe.Type {
	case ElementAvatar:
		var v Avatar
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e.Avatar = &v
	case ElementImage:
		var v Image
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e.Image = &v
	case ElementText:
		var v Text
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e.Text = &v
	case ElementShape:
		var v Shape
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		e.Shape = &v
	default:
		return fmt.Errorf("unknown visual element type %q", probe.Type)
	}
	return nil
}

// BlockType discriminates the Block union in JSON.
type BlockType string

const (
	BlockHeading   BlockType = "heading"
	BlockParagraph BlockType = "paragraph"
	BlockList      BlockType = "list"
)

// HeadingBlock is a titled divider within a section.
type HeadingBlock struct {
	Text  string `json:"text"`
	Level int    `json:"level,omitempty"`
}

// ParagraphBlock is free-form supporting prose.
type ParagraphBlock struct {
	Text string `json:"text"`
}

// ListBlock is an ordered set of short points.
type ListBlock struct {
	Items []string `json:"items"`
}

// Block is a tagged union over supporting content blocks.
type Block struct {
	Heading   *HeadingBlock
	Paragraph *ParagraphBlock
	List      *ListBlock
}

// Kind returns the discriminator of the populated variant.
func (b Block) Kind() BlockType {
	switch {
	case b.Heading != nil:
		return BlockHeading
	case b.Paragraph != nil:
		return BlockParagraph
	case b.List != nil:
		return BlockList
	default:
		return ""
	}
}

// Validate ensures exactly one variant is set with usable content.
func (b Block) Validate() error {
	count := 0
	if b.Heading != nil {
		count++
	}
	if b.Paragraph != nil {
		count++
	}
	if b.List != nil {
		count++
	}
	if count != 1 {
		return fmt.Errorf("block must carry exactly one variant, has %d", count)
	}
	switch {
	case b.Heading != nil && strings.TrimSpace(b.Heading.Text) == "":
		return fmt.Errorf("heading block requires text")
	case b.Paragraph != nil && strings.TrimSpace(b.Paragraph.Text) == "":
		return fmt.Errorf("paragraph block requires text")
	case b.List != nil && len(b.List.Items) == 0:
		return fmt.Errorf("list block requires items")
	}
	return nil
}

// MarshalJSON encodes the populated variant with its type discriminator.
func (b Block) MarshalJSON() ([]byte, error) {
	switch {
	case b.Heading != nil:
		return json.Marshal(struct {
			Type BlockType `json:"type"`
			*HeadingBlock
		}{BlockHeading, b.Heading})
	case b.Paragraph != nil:
		return json.Marshal(struct {
			Type BlockType `json:"type"`
			*ParagraphBlock
		}{BlockParagraph, b.Paragraph})
	case b.List != nil:
		return json.Marshal(struct {
			Type BlockType `json:"type"`
			*ListBlock
		}{BlockList, b.List})
	default:
		return nil, fmt.Errorf("block has no variant")
	}
}

// UnmarshalJSON decodes a variant selected by the type discriminator.
func (b *Block) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return err
	}
	*b = Block{}
	switch probe.Type {
	case BlockHeading:
		var v HeadingBlock
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		b.Heading = &v
	case BlockParagraph:
		var v ParagraphBlock
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		b.Paragraph = &v
	case BlockList:
		var v ListBlock
		if err := json.Unmarshal(data, &v); err != nil {
			return err
		}
		b.List = &v
	default:
		return fmt.Errorf("unknown block type %q", probe.Type)
	}
	return nil
}
