// Package ingestion turns job posting URLs and local files into clean text
// ready for job detail extraction and resume analysis.
package ingestion

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cold-outreach/internal/fetch"
)

var (
	// ErrHTTPRequestFailed is returned when HTTP request fails
	ErrHTTPRequestFailed = errors.New("HTTP request failed")
	// ErrContentExtractionFailed is returned when content extraction fails
	ErrContentExtractionFailed = errors.New("content extraction failed")
)

// Posting is the cleaned text of a fetched page.
type Posting struct {
	URL       string         `json:"url"`
	Title     string         `json:"title,omitempty"`
	Platform  fetch.Platform `json:"platform"`
	Text      string         `json:"text"`
	Hash      string         `json:"hash"`
	FetchedAt time.Time      `json:"fetchedAt"`
	Rendered  bool           `json:"rendered"`
}

// Options configures URL ingestion.
type Options struct {
	Timeout    time.Duration
	UseBrowser bool
	HTTPClient *http.Client
	// Render is used when UseBrowser is set and the HTTP text is too short.
	// Nil means headless Chrome.
	Render fetch.Renderer
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) fetchOptions() *fetch.Options {
	fo := fetch.DefaultOptions()
	if o.Timeout > 0 {
		fo.Timeout = o.Timeout
	}
	fo.HTTPClient = o.HTTPClient
	return fo
}

// FromURL fetches a job posting and extracts its main text using
// platform-specific selectors. With UseBrowser set, pages whose text is
// shorter than fetch.MinContentLength are rendered in a browser; a render
// failure keeps the HTTP text.
func FromURL(ctx context.Context, urlStr string, opts Options) (*Posting, error) {
	platform := fetch.DetectPlatform(urlStr)
	return ingest(ctx, urlStr, opts,
		platform,
		fetch.PlatformContentSelectors(platform),
		fetch.PlatformNoiseSelectors(platform),
	)
}

// CompanyPage fetches a company page such as an about or careers page.
func CompanyPage(ctx context.Context, urlStr string, opts Options) (*Posting, error) {
	return ingest(ctx, urlStr, opts, fetch.PlatformUnknown, fetch.CompanyPageSelectors(), nil)
}

func ingest(ctx context.Context, urlStr string, opts Options, platform fetch.Platform, content, noise []string) (*Posting, error) {
	log := opts.logger().With(zap.String("url", urlStr), zap.String("platform", string(platform)))

	result, err := fetch.URL(ctx, urlStr, opts.fetchOptions())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrHTTPRequestFailed, err)
	}
	log.Debug("fetched page", zap.Int("bytes", len(result.HTML)))

	html := result.HTML
	text, err := fetch.ExtractMainText(html, content, noise...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrContentExtractionFailed, err)
	}

	rendered := false
	if opts.UseBrowser && fetch.ShouldUseBrowser(text) {
		render := opts.Render
		if render == nil {
			render = fetch.BrowserRenderer(log)
		}
		log.Debug("content too short, rendering in browser", zap.Int("chars", len(text)))

		browserHTML, renderErr := render(ctx, urlStr, opts.fetchOptions().Timeout)
		switch {
		case renderErr != nil:
			log.Warn("browser rendering failed, using HTTP content", zap.Error(renderErr))
		default:
			if browserText, exErr := fetch.ExtractMainText(browserHTML, content, noise...); exErr == nil && len(browserText) > len(text) {
				html, text, rendered = browserHTML, browserText, true
			}
		}
	}

	cleaned := CleanText(text)
	if cleaned == "" {
		return nil, fmt.Errorf("%w: no text found at %s", ErrContentExtractionFailed, urlStr)
	}

	return &Posting{
		URL:       urlStr,
		Title:     fetch.Title(html),
		Platform:  platform,
		Text:      cleaned,
		Hash:      computeHash(cleaned),
		FetchedAt: time.Now().UTC(),
		Rendered:  rendered,
	}, nil
}

// Gathered holds the results of Gather. Company is nil when no company URL
// was given or the company page could not be fetched; CompanyErr says why.
type Gathered struct {
	Job        *Posting
	Company    *Posting
	CompanyErr error
}

// Gather fetches the job posting and the company page concurrently. Only a
// job posting failure is returned as an error.
func Gather(ctx context.Context, jobURL, companyURL string, opts Options) (*Gathered, error) {
	var out Gathered
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		job, err := FromURL(gctx, jobURL, opts)
		if err != nil {
			return err
		}
		out.Job = job
		return nil
	})

	if companyURL != "" {
		// parent ctx: a company page failure never cancels the job fetch
		g.Go(func() error {
			company, err := CompanyPage(ctx, companyURL, opts)
			if err != nil {
				opts.logger().Warn("company page fetch failed", zap.String("url", companyURL), zap.Error(err))
				out.CompanyErr = err
				return nil
			}
			out.Company = company
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

func computeHash(content string) string {
	hash := sha256.Sum256([]byte(content))
	return hex.EncodeToString(hash[:])
}
