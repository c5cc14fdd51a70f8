package document

import "testing"

func TestIsBlockMarkup(t *testing.T) {
	if !IsBlockMarkup("<!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->") {
		t.Error("expected block markup to be detected")
	}
	if IsBlockMarkup("<p>classic</p><!-- more -->") {
		t.Error("classic markup detected as blocks")
	}
}

func TestParseBlocks_Flat(t *testing.T) {
	input := "<!-- wp:heading {\"level\":2} -->\n<h2>Title</h2>\n<!-- /wp:heading -->\n\n" +
		"<!-- wp:paragraph -->\n<p>Body</p>\n<!-- /wp:paragraph -->"

	blocks := ParseBlocks(input)

	named := namedBlocks(blocks)
	if len(named) != 2 {
		t.Fatalf("got %d named blocks, want 2: %+v", len(named), blocks)
	}
	if named[0].Name != "core/heading" {
		t.Errorf("Name = %q, want core/heading", named[0].Name)
	}
	if named[0].Attrs != `{"level":2}` {
		t.Errorf("Attrs = %q", named[0].Attrs)
	}
	if named[0].InnerHTML != "\n<h2>Title</h2>\n" {
		t.Errorf("InnerHTML = %q", named[0].InnerHTML)
	}
	if named[1].Name != "core/paragraph" || named[1].InnerHTML != "\n<p>Body</p>\n" {
		t.Errorf("second block = %+v", named[1])
	}
}

func TestParseBlocks_Nested(t *testing.T) {
	input := `<!-- wp:group --><div class="group"><!-- wp:paragraph --><p>A</p><!-- /wp:paragraph -->` +
		`<!-- wp:navigation {"ref":4} /--></div><!-- /wp:group -->`

	blocks := ParseBlocks(input)
	if len(blocks) != 1 {
		t.Fatalf("got %d blocks, want 1: %+v", len(blocks), blocks)
	}

	group := blocks[0]
	if group.Name != "core/group" {
		t.Errorf("Name = %q", group.Name)
	}
	if group.InnerHTML != `<div class="group"></div>` {
		t.Errorf("InnerHTML = %q", group.InnerHTML)
	}
	if len(group.InnerBlocks) != 2 {
		t.Fatalf("got %d inner blocks, want 2", len(group.InnerBlocks))
	}
	if group.InnerBlocks[0].InnerHTML != "<p>A</p>" {
		t.Errorf("inner paragraph = %q", group.InnerBlocks[0].InnerHTML)
	}
	nav := group.InnerBlocks[1]
	if nav.Name != "core/navigation" || nav.Attrs != `{"ref":4}` || nav.InnerHTML != "" {
		t.Errorf("self-closing block = %+v", nav)
	}
}

func TestParseBlocks_Namespaced(t *testing.T) {
	blocks := ParseBlocks(`<!-- wp:acme/card {"a":{"b":1}} --><p>x</p><!-- /wp:acme/card -->`)
	if len(blocks) != 1 || blocks[0].Name != "acme/card" {
		t.Fatalf("blocks = %+v", blocks)
	}
	if blocks[0].Attrs != `{"a":{"b":1}}` {
		t.Errorf("Attrs = %q", blocks[0].Attrs)
	}
}

func TestParseBlocks_Freeform(t *testing.T) {
	blocks := ParseBlocks(`<p>intro</p><!-- wp:paragraph --><p>x</p><!-- /wp:paragraph -->`)
	if len(blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(blocks))
	}
	if blocks[0].Name != "" || blocks[0].InnerHTML != "<p>intro</p>" {
		t.Errorf("freeform block = %+v", blocks[0])
	}
}

func TestParseBlocks_Unbalanced(t *testing.T) {
	tests := []struct {
		name  string
		input string
		count int
	}{
		{"stray_closer", `<!-- /wp:paragraph --><p>x</p>`, 1},
		{"unclosed", `<!-- wp:paragraph --><p>x</p>`, 1},
		{"empty", ``, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := len(ParseBlocks(tt.input)); got != tt.count {
				t.Errorf("got %d blocks, want %d", got, tt.count)
			}
		})
	}
}

func namedBlocks(blocks []Block) []Block {
	var out []Block
	for _, b := range blocks {
		if b.Name != "" {
			out = append(out, b)
		}
	}
	return out
}
