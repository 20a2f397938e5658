package jsondoc

import (
	"errors"
	"strings"
	"testing"

	"github.com/jearn/composer/internal/engine/model"
)

func TestMarshal(t *testing.T) {
	d := model.Doc(model.Heading(2, model.Text("a")), model.Paragraph(model.Math(`x."y"`)))

	got, err := Marshal(d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := `{"type":"doc","content":[` +
		`{"type":"heading","attrs":{"level":2},"content":[{"type":"text","text":"a"}]},` +
		`{"type":"paragraph","content":[{"type":"math","attrs":{"latex":"x.\"y\""}}]}]}`
	if string(got) != want {
		t.Errorf("expected\n%s\ngot\n%s", want, got)
	}
}

func TestRoundTrip(t *testing.T) {
	d := model.Doc(
		model.Heading(3, model.Text("t")),
		model.Paragraph(
			model.Text("a"), model.Tag("go"), model.Text("\u200b"),
			model.Mention("5f1e0c8a9b2d3e4f5a6b7c8d", "ada"), model.Text(" "),
			model.HardBreak(),
		),
		model.BulletList(model.ListItem(model.Paragraph(), model.Blockquote(model.Paragraph(model.Text("q"))))),
		model.CodeBlock("go", "a\nb", "```go\na\nb\n```"),
	)

	for _, marshal := range []func(*model.Node) ([]byte, error){Marshal, MarshalIndent} {
		data, err := marshal(d)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got, err := Unmarshal(data)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !got.Equal(d) {
			t.Errorf("expected %s, got %s", d, got)
		}
	}
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(model.Doc(model.Paragraph()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(string(data), "\n  \"content\"") {
		t.Errorf("expected indented output, got %s", data)
	}
}

func TestUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"not json", `{"type":`, ErrInvalidJSON},
		{"unknown type", `{"type":"doc","content":[{"type":"table"}]}`, ErrUnknownType},
		{"invalid content", `{"type":"doc","content":[{"type":"text","text":"a"}]}`, model.ErrInvalidContent},
		{"empty text", `{"type":"paragraph","content":[{"type":"text","text":""}]}`, ErrInvalidJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Unmarshal([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
