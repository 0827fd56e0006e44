// Package importer feeds account listings from text, files and URLs through
// the parser into the account service.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/logging"
	"github.com/pysugar/account-tabs/internal/parser"
	"go.uber.org/zap"
)

// MaxSourceBytes bounds how much of a single source is read.
const MaxSourceBytes = 10 << 20

// ErrFetch marks failures to obtain a source's content, as opposed to
// failures to store what was parsed from it.
var ErrFetch = errors.New("fetch source")

// Result reports one imported source.
type Result struct {
	Source   string           `json:"source"`
	Count    int              `json:"count"`
	Dropped  int              `json:"dropped"`
	Metadata parser.Metadata  `json:"metadata"`
	Accounts []models.Account `json:"accounts,omitempty"`
}

// Options configures an Importer.
type Options struct {
	Mode        parser.Mode
	Timeout     time.Duration
	Concurrency int
	HTTPClient  *http.Client
}

// Importer parses sources and appends their records to a group.
type Importer struct {
	svc         *account.Service
	parser      *parser.Parser
	client      *http.Client
	concurrency int
	logger      *zap.Logger
}

// New returns an Importer writing through svc.
func New(svc *account.Service, opts Options, logger *zap.Logger) *Importer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &Importer{
		svc:         svc,
		parser:      parser.New(opts.Mode),
		client:      client,
		concurrency: opts.Concurrency,
		logger:      logger,
	}
}

// Mode returns the parse mode in use.
func (im *Importer) Mode() parser.Mode {
	return im.parser.Mode()
}

// ImportText parses text and bulk-creates its records in g. A text without
// complete records returns account.ErrNoValidRecords.
func (im *Importer) ImportText(ctx context.Context, g models.Group, source, text string) (Result, error) {
	parsed := im.parser.ParseDocument(text)
	im.logger.Debug("parsed source",
		zap.String("source", source),
		zap.Int("lines", parsed.Lines),
		zap.Int("records", len(parsed.Records)),
		zap.Int("dropped", parsed.Dropped))

	created, err := im.svc.BulkCreate(ctx, g, parsed.Records)
	if errors.Is(err, account.ErrNoValidRecords) {
		im.logger.Info("no valid accounts in source",
			zap.String("source", source),
			zap.String("preview", logging.Preview(text, logging.DefaultPreviewLen)))
	}
	if err != nil {
		return Result{Source: source, Dropped: parsed.Dropped, Metadata: parsed.Metadata}, err
	}
	return Result{
		Source:   source,
		Count:    len(created),
		Dropped:  parsed.Dropped,
		Metadata: parsed.Metadata,
		Accounts: created,
	}, nil
}

// ImportReader reads r fully and imports it.
func (im *Importer) ImportReader(ctx context.Context, g models.Group, source string, r io.Reader) (Result, error) {
	text, err := readAll(r)
	if err != nil {
		return Result{Source: source}, fmt.Errorf("%w %s: %v", ErrFetch, source, err)
	}
	return im.ImportText(ctx, g, source, text)
}

// ImportURL downloads a listing over HTTP(S) and imports it.
func (im *Importer) ImportURL(ctx context.Context, g models.Group, rawURL string) (Result, error) {
	text, err := im.fetchURL(ctx, rawURL)
	if err != nil {
		return Result{Source: rawURL}, err
	}
	return im.ImportText(ctx, g, rawURL, text)
}

// ImportSources fetches every source (file path or http/https URL)
// concurrently, then imports them into g one by one in the given order.
// Sources without valid records are reported in the returned error but do not
// stop the others.
func (im *Importer) ImportSources(ctx context.Context, g models.Group, sources []string) ([]Result, error) {
	texts := make([]string, len(sources))
	fetchErrs := make([]error, len(sources))

	pool := pond.NewPool(im.concurrency)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()
	for i, src := range sources {
		i, src := i, src
		group.Submit(func() {
			if err := groupCtx.Err(); err != nil {
				fetchErrs[i] = err
				return
			}
			texts[i], fetchErrs[i] = im.fetch(groupCtx, src)
		})
	}
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, pond.ErrGroupStopped) {
		im.logger.Warn("concurrent fetch encountered error", zap.Error(err))
	}

	results := make([]Result, 0, len(sources))
	var errs []error
	for i, src := range sources {
		if fetchErrs[i] != nil {
			errs = append(errs, fetchErrs[i])
			continue
		}
		res, err := im.ImportText(ctx, g, src, texts[i])
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", src, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

func (im *Importer) fetch(ctx context.Context, src string) (string, error) {
	if IsURL(src) {
		return im.fetchURL(ctx, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrFetch, src, err)
	}
	defer f.Close()
	text, err := readAll(f)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrFetch, src, err)
	}
	return text, nil
}

func (im *Importer) fetchURL(ctx context.Context, rawURL string) (string, error) {
	if !IsURL(rawURL) {
		return "", fmt.Errorf("%w: %q is not an http(s) URL", ErrFetch, rawURL)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrFetch, rawURL, err)
	}
	resp, err := im.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrFetch, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w %s: HTTP error! status: %d", ErrFetch, rawURL, resp.StatusCode)
	}
	text, err := readAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrFetch, rawURL, err)
	}
	return text, nil
}

// IsURL reports whether s is an absolute http or https URL.
func IsURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// SourceName returns a short display name for a source, the last path segment
// of a URL or file path.
func SourceName(src string) string {
	if IsURL(src) {
		if u, err := url.Parse(src); err == nil {
			if base := path.Base(u.Path); base != "" && base != "/" && base != "." {
				return base
			}
		}
		return "file_from_url.txt"
	}
	return path.Base(strings.ReplaceAll(src, "\\", "/"))
}

func readAll(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxSourceBytes+1))
	if err != nil {
		return "", err
	}
	if len(data) > MaxSourceBytes {
		return "", fmt.Errorf("source larger than %d bytes", MaxSourceBytes)
	}
	return string(data), nil
}
