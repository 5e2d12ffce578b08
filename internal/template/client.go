// Package template talks to the golden template store, a plain HTTP file
// server with one directory per project. Templates are discovered by
// scraping the directory index and uploaded through a small form endpoint.
package template

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/vios-project/vios/pkg/settings"
)

// ErrNoTemplate means the project's directory holds no golden template yet.
var ErrNoTemplate = errors.New("no golden template found for this system")

// ErrWrongVendor means the requested template file belongs to the other
// board family and the vendor tool would reject or misapply it.
var ErrWrongVendor = errors.New("template file does not match the baseboard vendor")

var (
	hrefPattern         = regexp.MustCompile(`(?i)href="\.?/?(GOLDEN_TEMPLATE.*?(\.bios|\.INI))"`)
	templateNamePattern = regexp.MustCompile(`(?i)(GOLDEN_TEMPLATE.*(\.bios|\.INI))`)
)

// Client fetches and uploads golden templates.
type Client struct {
	// BaseURL is the root of the template store, one subdirectory per
	// "{project}_{customer}" pair.
	BaseURL string
	// UploadURL receives multipart form posts of new templates.
	UploadURL string

	HTTPClient *http.Client
}

// NewClient wires a client against baseURL using the default HTTP client.
func NewClient(baseURL, uploadURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		UploadURL:  uploadURL,
		HTTPClient: http.DefaultClient,
	}
}

// Template is a fetched golden template.
type Template struct {
	// Name is the file name the template is stored under.
	Name string
	// Content is the raw settings file as served by the store.
	Content []byte
}

// FetchLatest scrapes the project's directory index and downloads the
// lexically newest golden template. The date suffix in the file names makes
// lexical order chronological.
func (c *Client) FetchLatest(ctx context.Context, projectNumber, customer string) (*Template, error) {
	dir := fmt.Sprintf("%s/%s_%s/", c.BaseURL, projectNumber, customer)
	index, err := c.get(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list golden templates: %w", err)
	}

	var names []string
	for _, m := range hrefPattern.FindAllStringSubmatch(string(index), -1) {
		names = append(names, m[1])
	}
	if len(names) == 0 {
		return nil, ErrNoTemplate
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	content, err := c.get(ctx, dir+url.PathEscape(names[0]))
	if err != nil {
		return nil, fmt.Errorf("cannot download golden template %s: %w", names[0], err)
	}
	return &Template{Name: names[0], Content: content}, nil
}

// FetchURL downloads a specific golden template. The extension is checked
// against the board family so an Intel system cannot be fed a Supermicro
// file and vice versa.
func (c *Client) FetchURL(ctx context.Context, rawURL string, kind settings.BoardKind) (*Template, error) {
	switch {
	case kind == settings.BoardIntel && strings.HasSuffix(rawURL, ".bios"):
		return nil, fmt.Errorf("%w: Intel systems cannot use .bios files", ErrWrongVendor)
	case kind == settings.BoardSupermicro && strings.HasSuffix(rawURL, ".INI"):
		return nil, fmt.Errorf("%w: Supermicro systems cannot use .INI files", ErrWrongVendor)
	}

	m := templateNamePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return nil, fmt.Errorf("URL does not point at a golden template file: %s", rawURL)
	}
	content, err := c.get(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("cannot download golden template: %w", err)
	}
	return &Template{Name: m[1], Content: content}, nil
}

// Upload posts a stamped golden template into the project's directory.
// It returns the URL the template is now served under.
func (c *Client) Upload(ctx context.Context, projectNumber, customer, name string, content []byte) (string, error) {
	directory := projectNumber + "_" + customer
	form := url.Values{
		"directory_name": {directory},
		"file_name":      {name},
		"contents":       {string(content)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.UploadURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("golden template upload failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("golden template upload rejected: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return fmt.Sprintf("%s/%s/%s", c.BaseURL, directory, name), nil
}

func (c *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", rawURL, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
