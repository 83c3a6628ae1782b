package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/and161185/motd/internal/model"
)

func Test_readAll_File_And_Stdin(t *testing.T) {
	// file path
	tmp := filepath.Join(t.TempDir(), "f.txt")
	_ = os.WriteFile(tmp, []byte("hello"), 0o600)
	b, err := readAll(tmp)
	if err != nil || string(b) != "hello" {
		t.Fatalf("readAll(file): %q %v", b, err)
	}

	// stdin
	r, w, _ := os.Pipe()
	old := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = old }()
	go func() { _, _ = io.WriteString(w, "from-stdin"); _ = w.Close() }()
	b, err = readAll("-")
	if err != nil || string(b) != "from-stdin" {
		t.Fatalf("readAll(stdin): %q %v", b, err)
	}
}

func Test_printJSON_WritesPretty(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printJSON(&out, map[string]any{"a": 1})

	var m map[string]any
	if json.Unmarshal(out.Bytes(), &m) != nil || m["a"] != float64(1) {
		t.Fatalf("printJSON produced invalid json: %s", out.String())
	}
	if !bytes.Contains(out.Bytes(), []byte("\n  ")) {
		t.Fatalf("printJSON should indent")
	}
}

func Test_tsString(t *testing.T) {
	t.Parallel()

	if tsString(time.Time{}) != "" {
		t.Fatalf("zero time should be empty string")
	}
	now := time.Now().UTC().Truncate(time.Second)
	if s := tsString(now); !strings.Contains(s, now.Format("2006-01-02")) {
		t.Fatalf("tsString output unexpected: %s", s)
	}
}

func Test_loadTLS_Variants(t *testing.T) {
	t.Parallel()

	// insecure
	creds, err := loadTLS("", true)
	if err != nil || creds == nil {
		t.Fatalf("insecure: %v %v", creds, err)
	}

	// system default (no caPath)
	creds, err = loadTLS("", false)
	if err != nil || creds == nil {
		t.Fatalf("default tls: %v %v", creds, err)
	}

	// bad CA file
	tmp := filepath.Join(t.TempDir(), "bad.pem")
	_ = os.WriteFile(tmp, []byte("not pem"), 0o600)
	creds, err = loadTLS(tmp, false)
	if err == nil || creds != nil {
		t.Fatalf("bad CA should error, got creds=%v err=%v", creds, err)
	}
}

func Test_resolveCode(t *testing.T) {
	t.Parallel()

	now := time.Unix(1111111111, 0)
	if c, err := resolveCode("", "12345678", now); err != nil || c != "12345678" {
		t.Fatalf("code passthrough: %q %v", c, err)
	}
	c, err := resolveCode("12345678901234567890123456789012", "", now)
	if err != nil || c != "67062674" {
		t.Fatalf("derived code: %q %v", c, err)
	}
	if _, err := resolveCode("", "", now); err == nil {
		t.Fatalf("want error with neither")
	}
	if _, err := resolveCode("s", "1", now); err == nil {
		t.Fatalf("want error with both")
	}
}

func Test_cmdCode(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	if err := cmdCode([]string{"-secret", "12345678901234567890123456789012"}, time.Unix(59, 0), &out); err != nil {
		t.Fatalf("cmdCode: %v", err)
	}
	if out.String() != "46119246 (valid for 1s)\n" {
		t.Fatalf("unexpected output %q", out.String())
	}
	if err := cmdCode(nil, time.Now(), &out); err == nil {
		t.Fatalf("want error without -secret")
	}
}

func Test_printMessage(t *testing.T) {
	t.Parallel()

	m := model.Message{ID: 1, Text: "hello", Creator: "sister", CreatedAt: time.Unix(0, 0)}

	var out bytes.Buffer
	printMessage(&out, m, true, false)
	if !strings.Contains(out.String(), "hello") || !strings.Contains(out.String(), "sister") {
		t.Fatalf("text output: %q", out.String())
	}

	out.Reset()
	printMessage(&out, model.Message{}, false, true)
	if !strings.Contains(out.String(), `"empty": true`) {
		t.Fatalf("empty json output: %q", out.String())
	}

	out.Reset()
	printMessage(&out, m, true, true)
	var j messageJSON
	if err := json.Unmarshal(out.Bytes(), &j); err != nil || j.Motd != "hello" || j.ID != 1 {
		t.Fatalf("json output: %q %v", out.String(), err)
	}
}

func Test_cmdDump_SQLite(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "motd.db")

	var out bytes.Buffer
	if err := cmdDump(ctx, []string{"-store", "sqlite", "-dsn", dsn}, &out); err != nil {
		t.Fatalf("cmdDump: %v", err)
	}
	if !strings.Contains(strings.ToUpper(out.String()), "CREATOR") {
		t.Fatalf("missing header: %q", out.String())
	}

	if err := cmdDump(ctx, []string{"-store", "mysql"}, &out); err == nil {
		t.Fatalf("want error on unknown store")
	}
}
