// Package source opens the CSV inputs, which may be local files or
// http(s) URLs, optionally gzip-compressed.
package source

import (
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"labor-odds/internal/errors"
)

var client = &http.Client{
	Timeout: 10 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	},
}

// Open returns a reader over location. Names ending in ".gz" are
// decompressed on the fly.
func Open(ctx context.Context, location string) (io.ReadCloser, error) {
	var (
		rc  io.ReadCloser
		err error
	)
	if isRemote(location) {
		rc, err = fetch(ctx, location)
	} else {
		rc, err = os.Open(location)
		if err != nil {
			err = errors.WithSecondaryError(errors.Wrapf(errors.ErrSourceUnavailable, "open %s", location), err)
		}
	}
	if err != nil {
		return nil, err
	}

	if !strings.HasSuffix(strings.ToLower(trimQuery(location)), ".gz") {
		return rc, nil
	}
	g, err := gzip.NewReader(rc)
	if err != nil {
		rc.Close()
		return nil, errors.Wrapf(err, "gunzip %s", location)
	}
	return &gzipReadCloser{Reader: g, underlying: rc}, nil
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

func trimQuery(location string) string {
	if i := strings.IndexAny(location, "?#"); i >= 0 && isRemote(location) {
		return location[:i]
	}
	return location
}

func fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "build request for %s", url)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.WithSecondaryError(errors.Wrapf(errors.ErrSourceUnavailable, "fetch %s", url), err)
	}
	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, errors.Wrapf(errors.ErrSourceUnavailable, "fetch %s: status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

type gzipReadCloser struct {
	*gzip.Reader
	underlying io.Closer
}

func (g *gzipReadCloser) Close() error {
	gerr := g.Reader.Close()
	if err := g.underlying.Close(); err != nil {
		return err
	}
	return gerr
}
