package main

import (
	"fmt"
	"html"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

var (
	uploadCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "templated",
		Name:      "uploads_total",
		Help:      "Number of golden template uploads, by outcome.",
	}, []string{"outcome"})
	downloadCount = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "templated",
		Name:      "downloads_total",
		Help:      "Number of golden template downloads.",
	})
)

// Server stores golden templates in one directory per project under Root.
type Server struct {
	Root string
	Log  zerolog.Logger
}

func NewRouter(s *Server) *mux.Router {
	r := mux.NewRouter()
	r.NewRoute().Name("Upload").Methods("POST").Path("/upload")
	r.NewRoute().Name("ListProject").Methods("GET").Path("/{project}/")
	r.NewRoute().Name("GetTemplate").Methods("GET").Path("/{project}/{file}")
	r.NewRoute().Name("Metrics").Methods("GET").Path("/metrics")

	r.Get("Upload").HandlerFunc(s.Upload)
	r.Get("ListProject").HandlerFunc(s.ListProject)
	r.Get("GetTemplate").HandlerFunc(s.GetTemplate)
	r.Get("Metrics").Handler(promhttp.Handler())
	return r
}

// Upload writes a posted template under the project's directory. The
// directory and file names come from the network, so anything that could
// escape Root is rejected before touching the filesystem.
func (s *Server) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		uploadCount.WithLabelValues("bad_request").Inc()
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	directory := r.PostFormValue("directory_name")
	fileName := r.PostFormValue("file_name")
	contents := r.PostFormValue("contents")

	if directory == "" || fileName == "" || contents == "" {
		uploadCount.WithLabelValues("bad_request").Inc()
		http.Error(w, "Unable to write template. Missing necessary information.", http.StatusBadRequest)
		return
	}
	if !safeName(directory) || !safeName(fileName) {
		uploadCount.WithLabelValues("rejected").Inc()
		s.Log.Warn().Str("directory", directory).Str("file", fileName).Msg("Rejected unsafe upload path")
		http.Error(w, "Invalid directory or file name.", http.StatusBadRequest)
		return
	}

	dir := filepath.Join(s.Root, directory)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		uploadCount.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if err := os.WriteFile(filepath.Join(dir, fileName), []byte(contents), 0o644); err != nil {
		uploadCount.WithLabelValues("error").Inc()
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	uploadCount.WithLabelValues("ok").Inc()
	s.Log.Info().Str("directory", directory).Str("file", fileName).Msg("Stored golden template")
	w.WriteHeader(http.StatusCreated)
}

// ListProject renders a minimal directory index. The vios client scrapes
// the hrefs, so the format stays plain anchors.
func (s *Server) ListProject(w http.ResponseWriter, r *http.Request) {
	project := mux.Vars(r)["project"]
	if !safeName(project) {
		http.NotFound(w, r)
		return
	}

	entries, err := os.ReadDir(filepath.Join(s.Root, project))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><body><h1>Index of /%s/</h1>\n", html.EscapeString(project))
	for _, name := range names {
		fmt.Fprintf(w, "<a href=\"./%s\">%s</a><br>\n", html.EscapeString(name), html.EscapeString(name))
	}
	fmt.Fprint(w, "</body></html>\n")
}

func (s *Server) GetTemplate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if !safeName(vars["project"]) || !safeName(vars["file"]) {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.Root, vars["project"], vars["file"])
	if _, err := os.Stat(path); err != nil {
		http.NotFound(w, r)
		return
	}
	downloadCount.Inc()
	http.ServeFile(w, r, path)
}

// safeName accepts a single path element with no traversal tricks.
func safeName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	if strings.ContainsAny(name, "/\\") {
		return false
	}
	return filepath.Base(filepath.Clean(name)) == name
}
