// Package media serves uploaded assets from a local folder and reads product
// feeds over HTTP.
package media

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"quiz-builder/internal/domain"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

// ErrOutsideRoot is returned for paths escaping the media folder.
var ErrOutsideRoot = fmt.Errorf("%w: outside media root", domain.ErrInvalidPath)

const maxFeedBytes = 16 << 20

// Provider implements app.MediaProvider.
type Provider struct {
	root    string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

type Option func(*Provider)

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(p *Provider) {
		if log != nil {
			p.log = log
		}
	}
}

// NewProvider serves files below root; their public URLs are baseURL + relative path.
func NewProvider(root, baseURL string, opts ...Option) *Provider {
	p := &Provider{
		root:    filepath.Clean(root),
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
		log:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.log = p.log.Named("media")
	return p
}

// ListFiles returns the regular files directly inside folder, sorted by name.
// A missing folder lists as empty.
func (p *Provider) ListFiles(ctx context.Context, folder string) ([]domain.MediaFile, error) {
	dir, err := p.resolve(folder)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []domain.MediaFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("list media %q: %w", folder, err)
	}
	out := make([]domain.MediaFile, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		rel := path.Join(filepath.ToSlash(strings.Trim(folder, "/")), e.Name())
		out = append(out, domain.MediaFile{
			URL:         p.baseURL + "/" + rel,
			Name:        e.Name(),
			Path:        rel,
			ContentType: p.detect(filepath.Join(dir, e.Name())),
			Size:        info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// DeleteFile removes one asset. Deleting a missing file is not an error.
func (p *Provider) DeleteFile(_ context.Context, rel string) error {
	full, err := p.resolve(rel)
	if err != nil {
		return err
	}
	if full == p.root {
		return ErrOutsideRoot
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete media %q: %w", rel, err)
	}
	p.log.Info("media deleted", zap.String("path", rel))
	return nil
}

// FetchFeed downloads a product feed. JSON feeds are an array of flat objects
// (or {"products": [...]}); anything else is read as CSV with a header row.
func (p *Provider) FetchFeed(ctx context.Context, url string) ([]domain.FeedRecord, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build feed request: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: unexpected status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	var records []domain.FeedRecord
	if isJSON(resp.Header.Get("Content-Type"), body) {
		records, err = parseJSONFeed(body)
	} else {
		records, err = parseCSVFeed(body)
	}
	if err != nil {
		return nil, err
	}
	p.log.Debug("feed fetched", zap.String("url", url), zap.Int("records", len(records)))
	return records, nil
}

func (p *Provider) resolve(rel string) (string, error) {
	full := filepath.Join(p.root, filepath.FromSlash(rel))
	if full != p.root && !strings.HasPrefix(full, p.root+string(filepath.Separator)) {
		return "", ErrOutsideRoot
	}
	return full, nil
}

func (p *Provider) detect(file string) string {
	if byExt := mime.TypeByExtension(filepath.Ext(file)); byExt != "" {
		return byExt
	}
	m, err := mimetype.DetectFile(file)
	if err != nil {
		p.log.Debug("detect content type", zap.String("file", file), zap.Error(err))
		return ""
	}
	return m.String()
}

func isJSON(contentType string, body []byte) bool {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasSuffix(mt, "json") {
		return true
	}
	return mimetype.Detect(body).Is("application/json")
}

func parseJSONFeed(body []byte) ([]domain.FeedRecord, error) {
	var items []map[string]any
	if err := json.Unmarshal(body, &items); err != nil {
		var wrapped struct {
			Products []map[string]any `json:"products"`
		}
		if err2 := json.Unmarshal(body, &wrapped); err2 != nil {
			return nil, fmt.Errorf("decode json feed: %w", err)
		}
		items = wrapped.Products
	}
	out := make([]domain.FeedRecord, 0, len(items))
	for _, item := range items {
		rec := make(domain.FeedRecord, len(item))
		for k, v := range item {
			switch t := v.(type) {
			case nil:
			case string:
				rec[k] = t
			default:
				rec[k] = fmt.Sprint(t)
			}
		}
		out = append(out, rec)
	}
	return out, nil
}

func parseCSVFeed(body []byte) ([]domain.FeedRecord, error) {
	r := csv.NewReader(strings.NewReader(string(body)))
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("decode csv feed: %w", err)
	}
	if len(rows) == 0 {
		return []domain.FeedRecord{}, nil
	}
	header := rows[0]
	for i := range header {
		header[i] = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")))
	}
	out := make([]domain.FeedRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(domain.FeedRecord, len(header))
		for i, col := range header {
			if i < len(row) && col != "" {
				rec[col] = row[i]
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
