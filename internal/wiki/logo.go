// Copyright 2025 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

package wiki

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
)

// logoURLFile remembers the URL of the last fetched logo, so an
// unchanged URL does not trigger a re-fetch on every config change.
const logoURLFile = ".logo-url"

var logoExtensions = map[string]string{
	"image/png":     ".png",
	"image/jpeg":    ".jpg",
	"image/gif":     ".gif",
	"image/svg+xml": ".svg",
}

// LogoFetcher downloads the wiki logo to local storage.
type LogoFetcher struct {
	client *http.Client
	dir    string
}

// NewLogoFetcher returns a LogoFetcher storing under dir. A nil
// client uses http.DefaultClient.
func NewLogoFetcher(client *http.Client, dir string) *LogoFetcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &LogoFetcher{client: client, dir: dir}
}

// Fetch downloads url and returns the local path of the stored image.
// If url matches the last successful fetch the cached file is
// returned without a request. Responses that are not images are
// rejected before anything is written.
func (f *LogoFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if cached, ok := f.cached(url); ok {
		logger.Debugf("logo %q already fetched", url)
		return cached, nil
	}
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return "", errors.Trace(err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return "", errors.Annotatef(err, "cannot fetch logo from %q", url)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("cannot fetch logo from %q: %s", url, resp.Status)
	}
	contentType := resp.Header.Get("Content-Type")
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	ext, ok := logoExtensions[contentType]
	if !ok {
		return "", errors.NotValidf("logo content type %q", contentType)
	}
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return "", errors.Trace(err)
	}
	path := filepath.Join(f.dir, "logo"+ext)
	out, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return "", errors.Trace(err)
	}
	defer out.Close()
	if _, err := io.Copy(out, resp.Body); err != nil {
		return "", errors.Annotate(err, "cannot store logo")
	}
	sentinel := url + "\n" + path + "\n"
	if err := os.WriteFile(filepath.Join(f.dir, logoURLFile), []byte(sentinel), 0644); err != nil {
		return "", errors.Trace(err)
	}
	return path, nil
}

// cached returns the stored logo path if url was the last fetched URL
// and the file is still present.
func (f *LogoFetcher) cached(url string) (string, bool) {
	data, err := os.ReadFile(filepath.Join(f.dir, logoURLFile))
	if err != nil {
		return "", false
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || lines[0] != url {
		return "", false
	}
	if _, err := os.Stat(lines[1]); err != nil {
		return "", false
	}
	return lines[1], true
}
