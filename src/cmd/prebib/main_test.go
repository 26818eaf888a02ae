package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"prebib/src/cmd/prebib/prebibcmd"
)

func TestRunUsage(t *testing.T) {
	for _, args := range [][]string{{}, {"one.bib", "two.bib"}} {
		var out, errBuf bytes.Buffer
		if code := run(prebibcmd.New(), args, &out, &errBuf); code != 1 {
			t.Fatalf("args %v: exit %d, want 1", args, code)
		}
		if got := errBuf.String(); got != "usage: prebib <infile>\n" {
			t.Fatalf("args %v: stderr %q", args, got)
		}
		if out.Len() != 0 {
			t.Fatalf("args %v: unexpected stdout %q", args, out.String())
		}
	}
}

func TestRunMissingFileIsFatal(t *testing.T) {
	var out, errBuf bytes.Buffer
	missing := filepath.Join(t.TempDir(), "missing.bib")
	if code := run(prebibcmd.New(), []string{missing}, &out, &errBuf); code != 1 {
		t.Fatalf("exit %d, want 1", code)
	}
	if !strings.HasPrefix(errBuf.String(), "***error: read ") {
		t.Fatalf("stderr %q", errBuf.String())
	}
}

func TestRunSuccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refs.bib")
	if err := os.WriteFile(path, []byte("@article{k1,\n  title = {Foo},\n  year = {2020},\n  abstract = {gone}\n}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	var out, errBuf bytes.Buffer
	if code := run(prebibcmd.New(), []string{path}, &out, &errBuf); code != 0 {
		t.Fatalf("exit %d: %s", code, errBuf.String())
	}
	if !strings.Contains(out.String(), "@article{k1,\n    title = {Foo},\n    year = {2020},\n}\n") {
		t.Fatalf("stdout %q", out.String())
	}
	if errBuf.Len() != 0 {
		t.Fatalf("unexpected stderr %q", errBuf.String())
	}
}

func TestExecuteHelp(t *testing.T) {
	var out bytes.Buffer
	if code := run(rootCmd, []string{"--help"}, &out, &out); code != 0 {
		t.Fatalf("help exit %d", code)
	}
	if !strings.Contains(out.String(), "prebib <infile>") {
		t.Fatalf("help output %q", out.String())
	}
}
