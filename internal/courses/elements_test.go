package courses

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestVisualElementRoundTrip(t *testing.T) {
	elements := []VisualElement{
		NewAvatar(Avatar{Position: Named("left"), Emotion: "thoughtful", HairColor: "#4a3728", Style: "professional"}),
		NewImage(Image{Position: Named("full"), ImageData: "data:image/jpeg;base64,QUJD", Primary: true}),
		NewText(Text{Position: At(0.5, 0.2), Content: "Key Points", FontSize: 24}),
		NewShape(Shape{Position: At(0.3, 0.4), ShapeType: "arrow", Width: 0.1, Purpose: "pointer"}),
	}

	data, err := json.Marshal(elements)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, tag := range []string{`"type":"avatar"`, `"type":"image"`, `"type":"text"`, `"type":"shape"`} {
		if !strings.Contains(string(data), tag) {
			t.Errorf("encoded elements missing %s: %s", tag, data)
		}
	}

	var decoded []VisualElement
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded) != len(elements) {
		t.Fatalf("len = %d, want %d", len(decoded), len(elements))
	}
	for i, element := range decoded {
		if element.Kind() != elements[i].Kind() {
			t.Errorf("element %d kind = %q, want %q", i, element.Kind(), elements[i].Kind())
		}
		if err := element.Validate(); err != nil {
			t.Errorf("element %d validate: %v", i, err)
		}
	}
	if decoded[1].Image == nil || !decoded[1].Image.Primary {
		t.Error("primary flag lost in round trip")
	}
	if decoded[2].Text == nil || decoded[2].Text.Position.X != 0.5 {
		t.Error("coordinate position lost in round trip")
	}
}

func TestVisualElementUnmarshalRejectsUnknownType(t *testing.T) {
	var element VisualElement
	err := json.Unmarshal([]byte(`{"type":"video","position":{"name":"full"}}`), &element)
	if err == nil {
		t.Fatal("expected error for unknown element type")
	}
}

func TestVisualElementValidate(t *testing.T) {
	cases := []struct {
		name    string
		element VisualElement
		wantErr bool
	}{
		{"valid avatar", NewAvatar(Avatar{Emotion: "happy"}), false},
		{"avatar without emotion", NewAvatar(Avatar{}), true},
		{"image with description only", NewImage(Image{Description: "a chart"}), false},
		{"empty image", NewImage(Image{}), true},
		{"text without content", NewText(Text{Content: "   "}), true},
		{"unknown shape type", NewShape(Shape{ShapeType: "hexagon"}), true},
		{"no variant", VisualElement{}, true},
		{"two variants", VisualElement{Avatar: &Avatar{Emotion: "happy"}, Text: &Text{Content: "x"}}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.element.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestBlockRoundTrip(t *testing.T) {
	blocks := []Block{
		{Heading: &HeadingBlock{Text: "Overview", Level: 2}},
		{Paragraph: &ParagraphBlock{Text: "Some prose."}},
		{List: &ListBlock{Items: []string{"one", "two"}}},
	}

	data, err := json.Marshal(blocks)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded []Block
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	kinds := []BlockType{BlockHeading, BlockParagraph, BlockList}
	for i, block := range decoded {
		if block.Kind() != kinds[i] {
			t.Errorf("block %d kind = %q, want %q", i, block.Kind(), kinds[i])
		}
		if err := block.Validate(); err != nil {
			t.Errorf("block %d validate: %v", i, err)
		}
	}
}

func TestBlockValidateRejectsEmptyContent(t *testing.T) {
	if err := (Block{Heading: &HeadingBlock{}}).Validate(); err == nil {
		t.Error("expected error for empty heading")
	}
	if err := (Block{List: &ListBlock{}}).Validate(); err == nil {
		t.Error("expected error for empty list")
	}
	if err := (Block{}).Validate(); err == nil {
		t.Error("expected error for empty block")
	}
}
