package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestSSHCommand(t *testing.T) {
	testCases := []struct {
		host, port string
		want       string
	}{
		{host: "rocks.example", port: "2222", want: "ssh -t -p 2222 rocks.example"},
		{host: "rocks.example", port: "22", want: "ssh -t rocks.example"},
		{host: "rocks.example", port: "", want: "ssh -t rocks.example"},
	}
	for _, tc := range testCases {
		if got := sshCommand(tc.host, tc.port); got != tc.want {
			t.Errorf("sshCommand(%q, %q): expected %q, got %q", tc.host, tc.port, tc.want, got)
		}
	}
}

func TestHandler(t *testing.T) {
	srv := httptest.NewServer(newHandler(landing{Command: "ssh -t -p 2222 <rocks>"}, log.New(io.Discard)))
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected an html page, got %q", ct)
	}
	if !strings.Contains(string(body), "ssh -t -p 2222 &lt;rocks&gt;") {
		t.Errorf("expected the escaped connect command in the page, got %s", body)
	}

	missing, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope: %v", err)
	}
	missing.Body.Close()
	if missing.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 for unknown paths, got %d", missing.StatusCode)
	}
}
