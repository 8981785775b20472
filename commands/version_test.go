package commands

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestVersion(t *testing.T) {
	var b bytes.Buffer

	cmd := Version{out: &b}
	if err := cmd.Execute(context.Background(), &Options{}); err != nil {
		t.Fatalf("Unexpected error (%v)", err)
	}

	expected := APP + " " + VERSION + "\n"
	if b.String() != expected {
		t.Errorf("Incorrect version\n   expected: %q\n   got:      %q\n", expected, b.String())
	}
}

func TestPublishHelp(t *testing.T) {
	cmd := Publish{}
	help := cmd.Help()

	if !strings.Contains(help, "--force") {
		t.Errorf("Expected help to describe --force, got:\n%v", help)
	}
}
