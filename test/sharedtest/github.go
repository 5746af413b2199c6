package sharedtest

import (
	"encoding/base64"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"

	"github.com/gorilla/mux"
)

// The fake GitHub contents API serves manifests keyed by repo name:
// RepoWithoutDeps misses the jest toolchain, MissingRepo doesn't exist at
// all, every other name resolves to a manifest declaring jest and ts-jest.
const (
	RepoWithoutDeps = "nodeps"
	MissingRepo     = "missing"
)

const (
	manifestWithJest = `{
		"name": "fixture",
		"devDependencies": {
			"jest": "^29.5.0",
			"ts-jest": "^29.1.0",
			"typescript": "^5.0.4"
		}
	}`
	manifestWithoutJest = `{
		"name": "fixture",
		"dependencies": {
			"express": "^4.18.2"
		}
	}`
)

func (ta *App) initFakeGithubServer() {
	r := mux.NewRouter()
	r.Methods(http.MethodGet).Path("/repos/{owner}/{repo}/contents/{path}").HandlerFunc(getContentsHandler)
	ta.fakeGithubServer = httptest.NewServer(r)
}

func getContentsHandler(w http.ResponseWriter, r *http.Request) {
	v := mux.Vars(r)
	if v["path"] != "package.json" || v["repo"] == MissingRepo {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	manifest := manifestWithJest
	if v["repo"] == RepoWithoutDeps {
		manifest = manifestWithoutJest
	}

	SendJSON(w, map[string]interface{}{
		"type":     "file",
		"name":     "package.json",
		"path":     "package.json",
		"encoding": "base64",
		"content":  base64.StdEncoding.EncodeToString([]byte(manifest)),
	})
}

func SendJSON(w http.ResponseWriter, obj interface{}) {
	w.Header().Add("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(obj); err != nil {
		log.Fatalf("Can't JSON encode result: %s", err)
	}
}
