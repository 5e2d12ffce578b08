package template

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/vios-project/vios/internal/sysinfo"
	"github.com/vios-project/vios/pkg/settings"
)

const indexPage = `<html><body>
<a href="./GOLDEN_TEMPLATE_P100_ACME_2024-01-02-10-00-00.bios">old</a>
<a href="./GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios">new</a>
<a href="./readme.txt">notes</a>
</body></html>`

func newStoreServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/P100_ACME/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/"):
			_, _ = w.Write([]byte(indexPage))
		case strings.Contains(r.URL.Path, "2024-05-01"):
			_, _ = w.Write([]byte("[BIOS::Main]\nQuiet Boot=Enabled\n"))
		default:
			http.NotFound(w, r)
		}
	})
	mux.HandleFunc("/empty_proj/", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html><body>nothing here</body></html>"))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchLatestPicksNewest(t *testing.T) {
	srv := newStoreServer(t)
	client := NewClient(srv.URL, srv.URL+"/upload")

	tpl, err := client.FetchLatest(context.Background(), "P100", "ACME")
	if err != nil {
		t.Fatalf("fetch latest: %v", err)
	}
	if tpl.Name != "GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios" {
		t.Fatalf("picked wrong template: %q", tpl.Name)
	}
	if !strings.Contains(string(tpl.Content), "Quiet Boot") {
		t.Fatalf("unexpected content: %q", tpl.Content)
	}
}

func TestFetchLatestNoTemplates(t *testing.T) {
	srv := newStoreServer(t)
	client := NewClient(srv.URL, srv.URL+"/upload")

	if _, err := client.FetchLatest(context.Background(), "empty", "proj"); !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("want ErrNoTemplate, got %v", err)
	}
}

func TestFetchURLVendorGuard(t *testing.T) {
	client := NewClient("http://unused", "http://unused")

	cases := []struct {
		url  string
		kind settings.BoardKind
	}{
		{"http://store/GOLDEN_TEMPLATE_P_C_2024-01-01-00-00-00.bios", settings.BoardIntel},
		{"http://store/GOLDEN_TEMPLATE_P_C_2024-01-01-00-00-00.INI", settings.BoardSupermicro},
	}
	for _, tc := range cases {
		if _, err := client.FetchURL(context.Background(), tc.url, tc.kind); !errors.Is(err, ErrWrongVendor) {
			t.Errorf("%s on %s: want ErrWrongVendor, got %v", tc.url, tc.kind, err)
		}
	}
}

func TestFetchURL(t *testing.T) {
	srv := newStoreServer(t)
	client := NewClient(srv.URL, srv.URL+"/upload")

	url := srv.URL + "/P100_ACME/GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios"
	tpl, err := client.FetchURL(context.Background(), url, settings.BoardSupermicro)
	if err != nil {
		t.Fatalf("fetch by url: %v", err)
	}
	if tpl.Name != "GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios" {
		t.Fatalf("template name not extracted from URL: %q", tpl.Name)
	}
}

func TestUpload(t *testing.T) {
	var gotDir, gotName, gotContents string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		gotDir = r.PostFormValue("directory_name")
		gotName = r.PostFormValue("file_name")
		gotContents = r.PostFormValue("contents")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	client := NewClient("http://store/configs", srv.URL)
	loc, err := client.Upload(context.Background(), "P100", "ACME", "GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios", []byte("#content"))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if gotDir != "P100_ACME" || gotName != "GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios" || gotContents != "#content" {
		t.Fatalf("form not posted as expected: %q %q %q", gotDir, gotName, gotContents)
	}
	if loc != "http://store/configs/P100_ACME/GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestUploadRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "disk full", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient("http://store", srv.URL)
	if _, err := client.Upload(context.Background(), "P", "C", "GOLDEN_TEMPLATE_x.bios", nil); err == nil {
		t.Fatal("upload against failing endpoint must error")
	}
}

func TestStamp(t *testing.T) {
	info := &sysinfo.Info{
		ProjectNumber: "P100",
		SMNumber:      "SM42",
		Customer:      "ACME",
		Order:         "O-7",
		Date:          time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		Model:         "X11DPH-T",
		Serial:        "ZM001",
		BIOSVersion:   "3.4",
		IPMIVersion:   "1.73.06",
	}

	cases := []struct {
		name      string
		content   string
		wantFirst string
	}{
		{"hash", "#Existing comment\n[BIOS::Main]\n", "# 2024-05-01-09-30-00"},
		{"semicolon", ";Comment\n[Main]\n", ";  2024-05-01-09-30-00"},
		{"xml", "<?xml version=\"1.0\"?>\n<BiosCfg>\n", "<!-- 2024-05-01-09-30-00-->"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := Stamp([]byte(tc.content), "GOLDEN_TEMPLATE_P100_ACME_2024-05-01-09-30-00.bios", info)
			if err != nil {
				t.Fatalf("stamp: %v", err)
			}
			lines := strings.Split(string(out), "\n")
			if lines[0] != tc.wantFirst {
				t.Fatalf("first stamp line: got %q want %q", lines[0], tc.wantFirst)
			}
			if !strings.Contains(string(out), "Customer:  ACME") {
				t.Fatal("stamp is missing the customer line")
			}
			if !strings.Contains(string(out), "BIOS / IPMI:  3.4 / 1.73.06") {
				t.Fatal("stamp is missing the firmware line")
			}
			if !strings.HasSuffix(string(out), tc.content) {
				t.Fatal("original content must follow the stamp untouched")
			}
		})
	}
}

func TestStampUnknownFormat(t *testing.T) {
	if _, err := Stamp([]byte("garbage"), "x", &sysinfo.Info{}); !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("want ErrUnknownFormat, got %v", err)
	}
}
