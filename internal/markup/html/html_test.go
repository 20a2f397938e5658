package html

import (
	"reflect"
	"testing"

	"github.com/jearn/composer/internal/engine/model"
)

var (
	doc  = model.Doc
	p    = model.Paragraph
	txt  = model.Text
	h    = model.Heading
	ul   = model.BulletList
	li   = model.ListItem
	bq   = model.Blockquote
	code = model.CodeBlock
)

const uid = "5f1e0c8a9b2d3e4f5a6b7c8d"

func TestSerialize(t *testing.T) {
	got, err := Serialize(doc(p(txt("a"), model.Math("x<1")), p()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `<p>a<span data-type="math" class="math-node" data-latex="x&lt;1">x&lt;1</span></p><p></p>`
	if got != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestRoundTrip(t *testing.T) {
	orig := doc(
		h(2, txt("Title")),
		p(txt("a"), model.Math(`\frac{1}{2}`), txt("\u200b b"), model.Tag("go"), txt("\u200b"), model.Mention(uid, "ada"), txt(" ")),
		p(txt("x"), model.HardBreak(), txt("y")),
		ul(li(p(txt("one")), ul(li(p(txt("two")))))),
		bq(p(txt("q"))),
		code("go", "if a < b {\n}", "```go\nif a < b {\n}\n```"),
		p(),
	)

	src, err := Serialize(orig)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, err := Parse(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.Equal(orig) {
		t.Errorf("round trip changed the document\nhtml: %s\nwant: %s\ngot:  %s", src, orig, got)
	}
}

func TestParseFragmentForeignMarkup(t *testing.T) {
	src := "<div>\n  <h4>Deep</h4>\n  <ol><li>one</li><li><strong>two</strong> words</li></ol>\n</div><p>x<br>\n y</p>"

	blocks, err := ParseFragment(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []*model.Node{
		h(3, txt("Deep")),
		ul(li(p(txt("one"))), li(p(txt("two words")))),
		p(txt("x"), model.HardBreak(), txt("y")),
	}
	if len(blocks) != len(want) {
		t.Fatalf("expected %d blocks, got %v", len(want), blocks)
	}
	for i := range want {
		if !blocks[i].Equal(want[i]) {
			t.Errorf("block %d: expected %s, got %s", i, want[i], blocks[i])
		}
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want *model.Node
	}{
		{"empty", "", doc(p())},
		{"bare text in quote", "<blockquote>quoted</blockquote>", doc(bq(p(txt("quoted"))))},
		{"empty list item", "<ul><li></li></ul>", doc(ul(li(p())))},
		{"item starting with a list", "<ul><li><ul><li>a</li></ul></li></ul>", doc(ul(li(p(), ul(li(p(txt("a")))))))},
		{"script dropped", "<script>x()</script><p>a</p>", doc(p(txt("a")))},
		{
			"plain pre",
			"<pre><code class=\"language-py\">print(1)\n</code></pre>",
			doc(code("py", "print(1)", "```py\nprint(1)\n```")),
		},
		{
			"mention without display attribute",
			`<p><span data-mention="true" data-uid="abc">@ada</span></p>`,
			doc(p(model.Mention("abc", "ada"))),
		},
		{
			"tag",
			`<p><a data-tag="go" href="/tags/go">#go</a></p>`,
			doc(p(model.Tag("go"))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.src)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestExtractMentions(t *testing.T) {
	src := `<p>` +
		`<span data-mention="true" data-uid="` + uid + `">@ada</span>` +
		`<span data-mention="true" data-uid="not-an-id">@bob</span>` +
		`<span data-uid="aaaaaaaaaaaaaaaaaaaaaaaa">@eve</span>` +
		`</p><p><span data-mention="true" data-uid="` + uid + `">@ada</span>` +
		`<span data-mention="true" data-uid="ABCDEF0123456789abcdef01">@cy</span></p>`

	got, err := ExtractMentions(src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{uid, "ABCDEF0123456789abcdef01"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}
