// Package submit posts uploads and YouTube links to the knowbite server.
//
// The server answers a successful submission with a redirect to the summary
// page. The client does not follow it: the redirect target is returned as
// Result.Location so the caller can treat it as the navigation signal.
package submit

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// UploadPath is the server endpoint for all submissions.
const UploadPath = "/upload/"

// Request describes one submission.
type Request struct {
	// FileType is "pdf", "audio" or "youtube".
	FileType string
	// YouTubeLink is sent for youtube submissions.
	YouTubeLink string
	// FilePath is the local file sent for pdf and audio submissions.
	FilePath string
}

// Result is the server's answer to an accepted submission.
type Result struct {
	StatusCode int
	// Location is the page the server navigates to next.
	Location string
}

// StatusError is returned when the server rejects a submission.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Body)
}

// RejectedError is returned when the server bounces a submission to one of
// its own pages instead of a summary. The server explains why on that page.
type RejectedError struct {
	Location string
	Reason   string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("submission rejected: %s (see %s)", e.Reason, e.Location)
}

// bouncePages maps the pages the server redirects refused submissions to
// onto a short reason.
var bouncePages = []struct {
	suffix string
	reason string
}{
	{"/dashboard/", "the server refused the submission"},
	{"/pricing/", "an active subscription is required"},
	{"/login/", "not signed in; set server.session_cookie"},
}

// rejection reports whether a redirect to loc means the submission was refused.
func rejection(loc *url.URL) (string, bool) {
	for _, p := range bouncePages {
		if strings.HasSuffix(loc.Path, p.suffix) {
			return p.reason, true
		}
	}
	return "", false
}

// Options configures a Client.
type Options struct {
	BaseURL string
	// Timeout bounds the whole request. Default: 10m.
	Timeout time.Duration
	// SessionCookie is sent verbatim as the Cookie header when set.
	SessionCookie string
	// HTTPClient overrides the underlying client (tests).
	HTTPClient *http.Client
}

// Client submits requests to the knowbite server.
type Client struct {
	endpoint string
	cookie   string
	http     *http.Client
}

// NewClient creates a client for the server at opts.BaseURL.
func NewClient(opts Options) (*Client, error) {
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q is not absolute", opts.BaseURL)
	}

	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Minute
	}

	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	// Copy so the caller's client keeps its own redirect policy.
	c := *hc
	c.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &Client{
		endpoint: strings.TrimRight(base.String(), "/") + UploadPath,
		cookie:   opts.SessionCookie,
		http:     &c,
	}, nil
}

// Endpoint returns the URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit posts req as multipart/form-data and waits for the server's answer.
func (c *Client) Submit(ctx context.Context, req Request) (Result, error) {
	var file *os.File
	if req.FilePath != "" {
		f, err := os.Open(req.FilePath)
		if err != nil {
			return Result{}, fmt.Errorf("open upload: %w", err)
		}
		defer f.Close()
		file = f
	}

	// Stream the body so large audio files are never held in memory.
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		pw.CloseWithError(writeForm(mw, req, file))
	}()
	defer pr.Close()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, pr)
	if err != nil {
		return Result{}, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	if c.cookie != "" {
		httpReq.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return Result{}, fmt.Errorf("submit: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode >= 300 && resp.StatusCode < 400:
		loc, err := resp.Location()
		if err != nil {
			return Result{}, fmt.Errorf("redirect without location: %w", err)
		}
		if reason, ok := rejection(loc); ok {
			return Result{}, &RejectedError{Location: loc.String(), Reason: reason}
		}
		return Result{StatusCode: resp.StatusCode, Location: loc.String()}, nil
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		io.Copy(io.Discard, resp.Body)
		return Result{StatusCode: resp.StatusCode, Location: resp.Request.URL.String()}, nil
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return Result{}, &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
}

func writeForm(mw *multipart.Writer, req Request, file *os.File) error {
	if err := mw.WriteField("file_type", req.FileType); err != nil {
		return err
	}
	if err := mw.WriteField("youtube_link", req.YouTubeLink); err != nil {
		return err
	}
	if file != nil {
		part, err := mw.CreateFormFile("file", filepath.Base(file.Name()))
		if err != nil {
			return err
		}
		if _, err := io.Copy(part, file); err != nil {
			return fmt.Errorf("copy upload: %w", err)
		}
	}
	return mw.Close()
}
