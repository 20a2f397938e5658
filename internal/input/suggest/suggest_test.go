package suggest

import (
	"context"
	"errors"
	"testing"

	"github.com/jearn/composer/internal/engine"
	"github.com/jearn/composer/internal/engine/cursor"
	"github.com/jearn/composer/internal/engine/model"
)

const adaUID = "5f1e0c8a9b2d3e4f5a6b7c8d"

var people = []User{
	{UID: adaUID, UniqueID: "ada", Name: "Ada Lovelace"},
	{UID: "5f1e0c8a9b2d3e4f5a6b7c8e", UniqueID: "grace", Name: "Grace Hopper"},
	{UID: "5f1e0c8a9b2d3e4f5a6b7c8f", Name: "Alan  Turing"},
}

func state(text string, pos int) engine.State {
	return engine.State{
		Doc:       model.Doc(model.Paragraph(model.Text(text))),
		Selection: cursor.Cursor(pos),
	}
}

func handles(users []User) []string {
	out := make([]string, len(users))
	for i, u := range users {
		out[i] = u.Handle()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestHandle(t *testing.T) {
	if got := people[0].Handle(); got != "ada" {
		t.Errorf("expected ada, got %q", got)
	}
	if got := people[2].Handle(); got != "alan_turing" {
		t.Errorf("expected alan_turing, got %q", got)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name string
		text string
		pos  int
		want Query
		ok   bool
	}{
		{"after space", "hi @ad", 7, Query{Text: "ad", From: 4, To: 7}, true},
		{"bare at sign", "@", 2, Query{From: 1, To: 2}, true},
		{"inside a word", "mail@ad", 8, Query{}, false},
		{"space ends query", "@ad x", 6, Query{}, false},
		{"no at sign", "hello", 6, Query{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Detect(state(tt.text, tt.pos))
			if ok != tt.ok || got != tt.want {
				t.Errorf("Detect = %+v, %v; want %+v, %v", got, ok, tt.want, tt.ok)
			}
		})
	}

	st := state("@ad", 1)
	st.Selection = cursor.TextSelection(1, 4)
	if _, ok := Detect(st); ok {
		t.Error("range selections have no query")
	}
}

func TestMemoryDirectorySearch(t *testing.T) {
	dir := NewMemoryDirectory(DefaultMemoryOptions(), people...)
	ctx := context.Background()

	tests := []struct {
		query string
		limit int
		want  []string
	}{
		{"a", 0, []string{"ada", "alan_turing", "grace"}},
		{"A", 2, []string{"ada", "alan_turing"}},
		{"gh", 0, []string{"grace"}},
		{"zz", 0, []string{}},
		{"  ", 0, []string{}},
	}
	for _, tt := range tests {
		users, err := dir.Search(ctx, tt.query, tt.limit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := handles(users); !equal(got, tt.want) {
			t.Errorf("Search(%q, %d) = %v, want %v", tt.query, tt.limit, got, tt.want)
		}
	}
	if n := dir.cache.len(); n != 3 {
		t.Errorf("expected 3 cached queries, got %d", n)
	}

	dir.Add(User{UID: "x", UniqueID: "gh_bot"})
	users, _ := dir.Search(ctx, "gh", 0)
	if got := handles(users); !equal(got, []string{"gh_bot", "grace"}) {
		t.Errorf("Add should invalidate cached results, got %v", got)
	}
}

func TestMemoryDirectoryCanceled(t *testing.T) {
	dir := NewMemoryDirectory(MemoryOptions{}, people...)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := dir.Search(ctx, "a", 0); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestSuggest(t *testing.T) {
	dir := NewMemoryDirectory(DefaultMemoryOptions(), people...)
	ctx := context.Background()

	q, users, err := Suggest(ctx, dir, state("hi @ad", 7), 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.Text != "ad" || !equal(handles(users), []string{"ada"}) {
		t.Errorf("unexpected suggestion %+v %v", q, handles(users))
	}

	q, users, err = Suggest(ctx, dir, state("hi @", 5), 5)
	if err != nil || !q.Empty() || users != nil {
		t.Errorf("a bare @ should search nothing, got %+v %v %v", q, users, err)
	}

	if _, _, err := Suggest(ctx, dir, state("hi", 3), 5); !errors.Is(err, ErrNoQuery) {
		t.Errorf("expected ErrNoQuery, got %v", err)
	}
}

func TestChoose(t *testing.T) {
	st := state("hi @ad", 7)
	q, _ := Detect(st)

	tr, ok := Choose(q, people[0])(st)
	if !ok {
		t.Fatal("choose declined")
	}
	want := model.Doc(model.Paragraph(model.Text("hi "), model.Mention(adaUID, "ada"), model.Text(" ")))
	if !tr.Doc().Equal(want) {
		t.Errorf("expected %s, got %s", want, tr.Doc())
	}
	if sel, _ := tr.Selection(); sel.Anchor != 6 || sel.Head != 6 {
		t.Errorf("expected cursor 6, got %+v", sel)
	}

	if _, ok := Choose(q, people[0])(state("hi @x", 6)); ok {
		t.Error("a stale query should decline")
	}
	if _, ok := Choose(q, User{Name: "nobody"})(st); ok {
		t.Error("users without an id cannot be mentioned")
	}
}
