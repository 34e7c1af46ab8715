package client

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRootForTest(url string) *cobra.Command {
	root := &cobra.Command{Use: "resumechat"}
	root.PersistentFlags().String("api-url", url, "")
	root.AddCommand(UploadCmd())
	root.AddCommand(AskCmd())
	return root
}

func runCommand(t *testing.T, url string, args ...string) (string, error) {
	t.Helper()
	root := newRootForTest(url)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNewAPIClientWithCmd_EnvFallback(t *testing.T) {
	t.Setenv(envAPIURL, "http://example.com:9999")

	api, err := NewAPIClientWithCmd(nil)

	require.NoError(t, err)
	assert.Equal(t, "http://example.com:9999", api.baseURL)
}

func TestNewAPIClientWithCmd_Default(t *testing.T) {
	t.Setenv(envAPIURL, "")

	api, err := NewAPIClientWithCmd(nil)

	require.NoError(t, err)
	assert.Equal(t, defaultAPIURL, api.baseURL)
}

func TestUploadCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/upload", r.URL.Path)
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "resume.pdf", header.Filename)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":"Resume for Jane Doe uploaded and indexed successfully."}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := dir + "/resume.pdf"
	require.NoError(t, os.WriteFile(path, []byte("%PDF-fake"), 0o644))

	out, err := runCommand(t, srv.URL, "upload", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Resume for Jane Doe uploaded and indexed successfully.")
}

func TestUploadCommand_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":"[INGEST_ERROR] uploaded file is not a parseable PDF"}`)
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := dir + "/junk.pdf"
	require.NoError(t, os.WriteFile(path, []byte("junk"), 0o644))

	_, err := runCommand(t, srv.URL, "upload", path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a parseable PDF")
}

func TestAskCommand_StreamsAnswer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat", r.URL.Path)
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: Jane is \n\ndata: an engineer.\n\n")
	}))
	defer srv.Close()

	out, err := runCommand(t, srv.URL, "ask", "what", "does", "jane", "do")

	require.NoError(t, err)
	assert.Contains(t, out, "Jane is an engineer.")
}

func TestAskCommand_StreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: partial\n\ndata: ERROR: [GENERATION_ERROR] model unavailable\n\n")
	}))
	defer srv.Close()

	out, err := runCommand(t, srv.URL, "ask", "anything")

	require.Error(t, err)
	assert.Contains(t, out, "partial")
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestAskCommand_ValidationError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":"[VALIDATION_ERROR] question is required"}`)
	}))
	defer srv.Close()

	_, err := runCommand(t, srv.URL, "ask", " ")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "question is required")
}
