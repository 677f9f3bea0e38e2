package docs

import (
	"bytes"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
)

func TestNames(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 || names[0] != "readme" {
		t.Fatalf("Names() = %v, want readme first", names)
	}

	// every topic must be announced in the readme
	readme, err := Get("readme")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names[1:] {
		if !strings.Contains(readme, "`"+name+"`") {
			t.Errorf("topic %q is not listed in the readme", name)
		}
	}
}

func TestGet_ValidMarkdown(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		content, err := Get(name)
		if err != nil {
			t.Fatalf("Get(%q): %v", name, err)
		}
		if !strings.HasPrefix(content, "# ") {
			t.Errorf("topic %q does not start with a title", name)
		}
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(content), &buf); err != nil {
			t.Errorf("topic %q is not valid markdown: %v", name, err)
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	if _, err := Get("nonsense"); err == nil {
		t.Fatal("Get on an unknown topic should fail")
	}
}

func TestGetMany_Star(t *testing.T) {
	all, err := GetMany("*")
	if err != nil {
		t.Fatal(err)
	}
	names, err := Names()
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range names {
		content, err := Get(name)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(all, content) {
			t.Errorf("GetMany(\"*\") is missing topic %q", name)
		}
	}
}
