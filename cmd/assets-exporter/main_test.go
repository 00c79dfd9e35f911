package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/matryer/is"
)

func TestExportCommand(t *testing.T) {
	is, s := setupCommandTest(t)
	defer s.Close()

	dir := t.TempDir()
	jobs := filepath.Join(dir, "jobs.yaml")
	output := filepath.Join(dir, "routers.csv")

	is.NoErr(os.WriteFile(jobs, []byte(`
exports:
  - name: routers
    query: objectTypeId = 40
    columns: [object_id, Key, Model]
    output: `+output+`
`), 0644))

	stdout := &bytes.Buffer{}
	cmd := newRootCmd()
	cmd.SetOut(stdout)
	cmd.SetArgs([]string{"export", "--config", jobs, "--site-url", s.URL, "--api-gateway", s.URL})

	is.NoErr(cmd.Execute())
	is.True(strings.Contains(stdout.String(), "wrote 1 of 1 objects"))

	b, err := os.ReadFile(output)
	is.NoErr(err)
	is.Equal(string(b), "object_id,Key,Model\n101,PIB-101,RUT240\n")
}

func TestExportCommandWithUnknownJob(t *testing.T) {
	is, s := setupCommandTest(t)
	defer s.Close()

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"export", "--job", "nope", "--site-url", s.URL, "--api-gateway", s.URL})

	is.True(cmd.Execute() != nil)
}

func TestDocumentCommandRequiresNumber(t *testing.T) {
	is := is.New(t)

	cmd := newRootCmd()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"document"})

	is.True(cmd.Execute() != nil)
}

func setupCommandTest(t *testing.T) (*is.I, *httptest.Server) {
	is := is.New(t)

	t.Setenv("ATLANTSIA_DOMAIN", "example.atlassian.net")
	t.Setenv("ATLANTSIA_EMAIL", "ops@example.com")
	t.Setenv("ATLANTSIA_API_TOKEN", "s3cr3t")

	r := chi.NewRouter()
	r.Get("/rest/servicedeskapi/assets/workspace", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"values": []any{map[string]any{"workspaceId": "ws-1"}}})
	})
	r.Route("/jsm/assets/workspace/ws-1/v1", func(r chi.Router) {
		r.Post("/object/aql", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{
				"startAt": 0, "maxResults": 1000, "total": 1, "isLast": true,
				"values": []any{
					map[string]any{"id": "101", "label": "PiB-101", "objectType": map[string]any{"id": "40"}},
				},
			})
		})
		r.Get("/object/{id}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, map[string]any{"id": chi.URLParam(r, "id"), "label": "PiB-101", "objectType": map[string]any{"id": "40"}})
		})
		r.Get("/object/{id}/attributes", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, []any{
				attribute("Key", "PIB-"+chi.URLParam(r, "id")),
				attribute("Model", "RUT240"),
			})
		})
		r.Get("/objecttype/40/attributes", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, []any{
				map[string]any{"id": "1", "name": "Key"},
				map[string]any{"id": "2", "name": "Model"},
			})
		})
	})

	return is, httptest.NewServer(r)
}

func attribute(name, value string) map[string]any {
	return map[string]any{
		"objectTypeAttribute": map[string]any{"name": name},
		"objectAttributeValues": []any{
			map[string]any{"displayValue": value},
		},
	}
}

func writeJSON(w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(body)
}
