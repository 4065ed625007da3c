// Package fetch reads prompt content from stdin, local files, and URLs.
//
// Sources are read in input order and each becomes one prompt segment. HTML
// responses are stripped to plain text so that scraped pages do not flood the
// model with markup.
package fetch

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// MaxInputTotalBytes bounds the combined size of stdin, file, and URL
// content for a single invocation.
const MaxInputTotalBytes = 10 << 20

var httpClient = &http.Client{Timeout: 30 * time.Second}

var htmlPolicy = bluemonday.StrictPolicy()

// ReadContent reads every source in order and returns one string per source.
// A source is treated as a URL when it parses with an http or https scheme,
// and as a local file path otherwise. Any unreadable source is fatal; there
// is no partial result.
func ReadContent(sources []string) ([]string, error) {
	contents := make([]string, 0, len(sources))
	var total int64

	for _, src := range sources {
		var (
			text string
			err  error
		)
		if isURL(src) {
			text, err = scrapeURL(src)
		} else {
			text, err = readFile(src)
		}
		if err != nil {
			return nil, err
		}

		total += int64(len(text))
		if total > MaxInputTotalBytes {
			return nil, fmt.Errorf("total input size exceeds limit of %d bytes (%s)", MaxInputTotalBytes, src)
		}
		contents = append(contents, text)
	}

	return contents, nil
}

// ReadStdin returns the content piped to stdin, or "" when stdin is an
// interactive terminal.
func ReadStdin() (string, error) {
	info, err := os.Stdin.Stat()
	if err != nil {
		return "", fmt.Errorf("stat stdin: %w", err)
	}
	if info.Mode()&os.ModeCharDevice != 0 {
		return "", nil
	}

	data, err := io.ReadAll(io.LimitReader(os.Stdin, MaxInputTotalBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading stdin: %w", err)
	}
	if len(data) > MaxInputTotalBytes {
		return "", fmt.Errorf("stdin exceeds limit of %d bytes", MaxInputTotalBytes)
	}
	return string(data), nil
}

func isURL(s string) bool {
	u, err := url.ParseRequestURI(s)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

func readFile(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("file %q does not exist or is not readable: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("file %q is not a regular file", path)
	}
	if info.Size() > MaxInputTotalBytes {
		return "", fmt.Errorf("file %q exceeds limit of %d bytes", path, MaxInputTotalBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file %q: %w", path, err)
	}
	return string(data), nil
}

func scrapeURL(rawURL string) (string, error) {
	resp, err := httpClient.Get(rawURL)
	if err != nil {
		return "", fmt.Errorf("fetching URL %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetching URL %s: HTTP %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxInputTotalBytes+1))
	if err != nil {
		return "", fmt.Errorf("reading URL %s: %w", rawURL, err)
	}
	if len(body) > MaxInputTotalBytes {
		return "", fmt.Errorf("URL %s exceeds limit of %d bytes", rawURL, MaxInputTotalBytes)
	}

	text := string(body)
	if strings.Contains(resp.Header.Get("Content-Type"), "text/html") {
		text = htmlPolicy.Sanitize(text)
	}
	return text, nil
}
