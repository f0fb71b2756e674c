package main

import (
	"os"
	"strings"
	"testing"
)

func withStdin(t *testing.T, content string, fn func()) {
	t.Helper()
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	orig := os.Stdin
	os.Stdin = r
	defer func() { os.Stdin = orig }()

	go func() {
		_, _ = w.WriteString(content)
		w.Close()
	}()
	fn()
}

func TestResolveCaptureRequestRejectsBareString(t *testing.T) {
	captureStdin = true
	defer func() { captureStdin = false }()

	withStdin(t, `"some text"`, func() {
		_, err := resolveCaptureRequest()
		if err == nil {
			t.Fatal("expected error for bare string input")
		}
		if !isInvalidInput(err) {
			t.Errorf("expected errInvalidInput, got %T: %v", err, err)
		}
		if !strings.Contains(err.Error(), "mapping") {
			t.Errorf("expected hint about mapping, got %v", err)
		}
	})
}

func TestResolveCaptureRequestAcceptsMapping(t *testing.T) {
	captureStdin = true
	defer func() { captureStdin = false }()

	withStdin(t, `{"text": "some text"}`, func() {
		req, err := resolveCaptureRequest()
		if err != nil {
			t.Fatalf("resolveCaptureRequest: %v", err)
		}
		if req.Text != "some text" {
			t.Errorf("got text %q, want %q", req.Text, "some text")
		}
	})
}

func TestResolveCaptureRequestFromData(t *testing.T) {
	captureData = `{"text": "from --data"}`
	defer func() { captureData = "" }()

	req, err := resolveCaptureRequest()
	if err != nil {
		t.Fatalf("resolveCaptureRequest: %v", err)
	}
	if req.Text != "from --data" {
		t.Errorf("got text %q, want %q", req.Text, "from --data")
	}
}

func TestResolveCaptureRequestFromDataRejectsBareString(t *testing.T) {
	captureData = `"just a string"`
	defer func() { captureData = "" }()

	_, err := resolveCaptureRequest()
	if err == nil || !isInvalidInput(err) {
		t.Errorf("expected errInvalidInput, got %v", err)
	}
}

func TestResolveCaptureRequestFromFlag(t *testing.T) {
	captureStdin = false
	captureText = "flag text"
	defer func() { captureText = "" }()

	req, err := resolveCaptureRequest()
	if err != nil {
		t.Fatalf("resolveCaptureRequest: %v", err)
	}
	if req.Text != "flag text" {
		t.Errorf("got text %q, want %q", req.Text, "flag text")
	}
}
