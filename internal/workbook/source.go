package workbook

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
)

// IsURL reports whether source names an http(s) resource.
func IsURL(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}

// readSource returns the decompressed bytes behind a file path or URL.
func readSource(ctx context.Context, client *http.Client, source string) ([]byte, error) {
	var (
		body     io.ReadCloser
		encoding string
	)
	if IsURL(source) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download: %w", err)
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("download: HTTP %d", resp.StatusCode)
		}
		body = resp.Body
		encoding = resp.Header.Get("Content-Encoding")
	} else {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open: %w", err)
		}
		body = f
	}
	defer body.Close()

	src, closeFn, err := decompressor(source, encoding, body)
	if err != nil {
		return nil, err
	}
	defer closeFn()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, src); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	return buf.Bytes(), nil
}

// decompressor picks a decoder from the source suffix (query string ignored).
func decompressor(source, encoding string, r io.Reader) (io.Reader, func(), error) {
	name := source
	if i := strings.IndexAny(name, "?#"); i >= 0 && IsURL(source) {
		name = name[:i]
	}
	nop := func() {}
	switch {
	case strings.HasSuffix(name, ".bz2"):
		return bzip2.NewReader(r), nop, nil
	case strings.HasSuffix(name, ".zst"):
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("zstd: %w", err)
		}
		return dec, dec.Close, nil
	case strings.HasSuffix(name, ".gz") || encoding == "gzip":
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, nil, fmt.Errorf("gzip: %w", err)
		}
		return gz, func() { gz.Close() }, nil
	}
	return r, nop, nil
}
