package asset

import (
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func TestLocalResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	res, err := NewResource(thisFile)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if res.IsRemote() {
		t.Fatal("expected local file not to be remote")
	}
	if res.Name() != "resource_test.go" {
		t.Fatalf("expected resource name to be resource_test.go; got %s", res.Name())
	}
}

func TestHttpResource(t *testing.T) {
	_, thisFile, _, _ := runtime.Caller(0)
	thisDir := filepath.Dir(thisFile)

	server := httptest.NewServer(http.FileServer(http.Dir(thisDir)))
	defer server.Close()

	fetchUrl := server.URL + "/" + filepath.Base(thisFile)
	res, err := NewResource(fetchUrl)
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()

	if !res.IsRemote() {
		t.Fatal("expected http resource to be remote")
	}
	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "TestHttpResource") {
		t.Fatal("expected to fetch the contents of this file")
	}

	fetchUrl = server.URL + "/file-not-found.zip"
	expError := "resource: could not fetch '" + fetchUrl + "': status 404"
	_, err = NewResource(fetchUrl)
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestUnsupportedResourceScheme(t *testing.T) {
	expError := "resource: unsupported scheme 'gopher'"
	_, err := NewResource("gopher://digging.zip")
	if err == nil || err.Error() != expError {
		t.Fatalf("expected to get: %s; got %v", expError, err)
	}
}

func TestStreamResource(t *testing.T) {
	res := NewResourceFromStream("embedded.zip", strings.NewReader("payload"))
	defer res.Close()

	data, err := io.ReadAll(res)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "payload" || res.Name() != "embedded.zip" {
		t.Fatalf("unexpected stream resource contents %q (name %s)", data, res.Name())
	}
}
