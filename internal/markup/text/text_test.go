package text

import (
	"testing"

	"github.com/jearn/composer/internal/engine/model"
)

func TestRender(t *testing.T) {
	doc := model.Doc(
		model.Paragraph(model.Text("see "), model.Math("x^2"), model.Text(" "), model.Tag("go")),
		model.CodeBlock("go", "fmt.Println()", ""),
		model.Paragraph(model.Mention("u1", "ann"), model.HardBreak(), model.Text("bye")),
	)

	want := "see $x^2$ #go\n```go\nfmt.Println()\n```\n@ann\nbye"
	if got := Render(doc); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if n := len(Lines(doc)); n != 6 {
		t.Errorf("expected 6 lines, got %d", n)
	}
}

func TestRenderPlainCodeBlock(t *testing.T) {
	doc := model.Doc(model.CodeBlock("text", "a", ""))
	if got := Render(doc); got != "```\na\n```" {
		t.Errorf("unexpected %q", got)
	}
}

func TestParse(t *testing.T) {
	got := Parse("a\r\n\nb")
	want := model.Doc(model.Paragraph(model.Text("a")), model.Paragraph(), model.Paragraph(model.Text("b")))
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
	if !Parse("").Equal(model.Doc(model.Paragraph())) {
		t.Error("empty text is one empty paragraph")
	}
}
