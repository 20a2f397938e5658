package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jearn/composer/internal/config"
	"github.com/jearn/composer/internal/logging"
)

func writeScript(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.yaml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return path
}

func newReplayer() *replayer {
	return &replayer{cfg: config.Default(), logger: logging.Null, timeout: time.Second}
}

func TestReplayPasses(t *testing.T) {
	path := writeScript(t, `
doc:
  format: html
  content: "<p>a</p>"
steps:
  - select: [2]
  - type: "b"
expect:
  text: "ab"
`)
	o := newReplayer().replay(context.Background(), path)
	if !o.ok() {
		t.Fatalf("expected a pass, got %v %+v", o.err, o.mismatches)
	}

	var out bytes.Buffer
	p, err := newPrinter(&out, false, "html")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.print(o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "ok   " + path + " (2 steps)\n<p>ab</p>\n"
	if out.String() != want {
		t.Errorf("expected %q, got %q", want, out.String())
	}
}

func TestReplayMaxChars(t *testing.T) {
	path := writeScript(t, `
max_chars: 2
steps:
  - type: "abc"
expect:
  text: "ab"
`)
	if o := newReplayer().replay(context.Background(), path); !o.ok() {
		t.Errorf("expected the script limit to apply, got %v %+v", o.err, o.mismatches)
	}
}

func TestReplayMismatch(t *testing.T) {
	path := writeScript(t, `
steps:
  - type: "x"
expect:
  text: "y"
`)
	o := newReplayer().replay(context.Background(), path)
	if o.ok() || o.err != nil || len(o.mismatches) != 1 {
		t.Fatalf("expected one mismatch, got %v %+v", o.err, o.mismatches)
	}

	var out bytes.Buffer
	p, _ := newPrinter(&out, false, "")
	if err := p.print(o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, want := range []string{"FAIL " + path, "text (-want +got)", "    -y\n", "    +x\n"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("expected %q in %q", want, out.String())
		}
	}
}

func TestReplayError(t *testing.T) {
	path := writeScript(t, "steps:\n  - action: nope\n")
	o := newReplayer().replay(context.Background(), path)
	if o.err == nil {
		t.Fatal("expected an error for an unknown action")
	}

	var out bytes.Buffer
	p, _ := newPrinter(&out, false, "")
	if err := p.print(o); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.String(), "FAIL "+path+": step 1 (action nope)") {
		t.Errorf("unexpected output %q", out.String())
	}
}

func TestNewPrinterRejectsFormat(t *testing.T) {
	if _, err := newPrinter(&bytes.Buffer{}, false, "rtf"); err == nil {
		t.Error("expected an error for an unknown format")
	}
}

func TestReadDoc(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("# Title\n"), 0o644); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := readDoc(path, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Child(0).Kind() != "heading" {
		t.Errorf("expected markdown to be picked from the extension, got %s", doc)
	}

	doc, err = readDoc(path, "text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if doc.Child(0).Kind() != "paragraph" {
		t.Errorf("an explicit format wins, got %s", doc)
	}
}

func TestColorOn(t *testing.T) {
	if !(&Globals{Color: "always"}).colorOn(os.Stdout) {
		t.Error("always should color")
	}
	if (&Globals{Color: "never"}).colorOn(os.Stdout) {
		t.Error("never should not color")
	}
}
