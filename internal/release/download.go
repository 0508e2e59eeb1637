package release

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/AloisH/capture-cli/internal/config"
	"github.com/schollz/progressbar/v3"
)

// DefaultUserAgent is the User-Agent header sent with requests
const DefaultUserAgent = "capture-install"

// Downloader fetches release files over HTTP(S). Redirects are followed by
// hand so the hop count is bounded and every hop is logged.
type Downloader struct {
	client       *http.Client
	userAgent    string
	maxRedirects int
	progress     io.Writer // nil disables the progress bar
	logger       config.Logger
}

// NewDownloader creates a downloader that follows at most maxRedirects
// redirects per request.
func NewDownloader(maxRedirects int) *Downloader {
	return &Downloader{
		client: &http.Client{
			// Hand every 3xx back to fetch.
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:    DefaultUserAgent,
		maxRedirects: maxRedirects,
		logger:       config.NopLogger(),
	}
}

// DownloadToFile downloads url into destPath.
//
// The destination directory is created before the request. destPath itself
// is only created once a 200 response arrives, and is written in place: a
// failure mid-stream leaves a partial file behind for the next run to
// overwrite.
func (d *Downloader) DownloadToFile(ctx context.Context, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	resp, err := d.fetch(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}

	var w io.Writer = out
	if d.progress != nil {
		bar := progressbar.NewOptions64(resp.ContentLength,
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription(filepath.Base(destPath)),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
		defer bar.Close()
		w = io.MultiWriter(out, bar)
	}

	n, err := io.Copy(w, resp.Body)
	if err != nil {
		out.Close()
		return &NetworkError{URL: resp.Request.URL.String(), Err: fmt.Errorf("read body: %w", err)}
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}

	d.logger.Debug("downloaded", "url", url, "path", destPath, "bytes", n)
	return nil
}

// fetch issues GET requests along the redirect chain starting at url and
// returns the first 200 response. The caller closes the body.
func (d *Downloader) fetch(ctx context.Context, url string) (*http.Response, error) {
	current := url

	for hop := 0; ; hop++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, current, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("User-Agent", d.userAgent)

		resp, err := d.client.Do(req)
		if err != nil {
			return nil, &NetworkError{URL: current, Err: err}
		}

		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}

		location := resp.Header.Get("Location")
		drainAndClose(resp.Body)

		if !isRedirect(resp.StatusCode) || location == "" {
			return nil, &DownloadError{URL: current, StatusCode: resp.StatusCode}
		}
		if hop >= d.maxRedirects {
			return nil, &TooManyRedirectsError{URL: url, Max: d.maxRedirects}
		}

		// Location may be relative to the URL that produced it.
		next, err := resp.Request.URL.Parse(location)
		if err != nil {
			return nil, fmt.Errorf("parse redirect location %q: %w", location, err)
		}
		d.logger.Debug("following redirect", "status", resp.StatusCode, "from", current, "to", next.String())
		current = next.String()
	}
}

func isRedirect(status int) bool {
	return status >= 300 && status < 400
}

// drainAndClose lets the transport reuse the connection for the next hop.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 64<<10))
	_ = body.Close()
}
