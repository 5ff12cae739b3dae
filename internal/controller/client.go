package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"aapmcp/pkg/logging"
)

const (
	// DefaultHTTPTimeout is the default timeout for controller requests.
	DefaultHTTPTimeout = 30 * time.Second

	// DefaultPageSize is the page_size parameter used when draining the
	// template listing.
	DefaultPageSize = 200

	// legacyVersion is the one version flag value that selects the legacy
	// /api prefix. Every other value selects /api/controller; this is a
	// binary policy, not a version comparison.
	legacyVersion = "2.4"
)

// Client executes authenticated REST calls against the automation
// controller. It owns prefix selection and pagination; it performs no
// retries and holds no state beyond its configuration.
type Client struct {
	baseURL    string
	token      string
	apiPrefix  string
	pageSize   int
	httpClient *http.Client
}

// ClientOption configures the controller client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client, e.g. to adjust the timeout or
// inject a test transport.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithPageSize overrides the pagination page size.
func WithPageSize(pageSize int) ClientOption {
	return func(c *Client) {
		if pageSize > 0 {
			c.pageSize = pageSize
		}
	}
}

// NewClient creates a controller client for the given base URL, bearer token
// and version flag.
func NewClient(baseURL, token, version string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		token:      token,
		apiPrefix:  apiPrefixForVersion(version),
		pageSize:   DefaultPageSize,
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
	}

	for _, opt := range opts {
		opt(c)
	}

	logging.Info("Controller", "Initialized client for %s with API prefix %s", c.baseURL, c.apiPrefix)
	return c
}

func apiPrefixForVersion(version string) string {
	if version == legacyVersion {
		return "/api"
	}
	return "/api/controller"
}

// endpoint joins the base URL, the version-dependent prefix and the given
// path segments into a full URL.
func (c *Client) endpoint(path string) string {
	return c.baseURL + c.apiPrefix + "/v2" + path
}

// do executes one request with the bearer credential attached and maps
// failures onto the error taxonomy. The caller owns the response body.
func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, &ProtocolError{URL: rawURL, Message: err.Error()}
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ConnectivityError{URL: rawURL, Err: err}
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		resp.Body.Close()
		return nil, &AuthorizationError{StatusCode: resp.StatusCode, URL: rawURL}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		snippet := readSnippet(resp.Body)
		resp.Body.Close()
		return nil, &ProtocolError{StatusCode: resp.StatusCode, URL: rawURL, Message: snippet}
	}

	return resp, nil
}

// getJSON executes a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, out interface{}) error {
	resp, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{StatusCode: resp.StatusCode, URL: rawURL, Message: fmt.Sprintf("failed to decode response body: %v", err)}
	}
	return nil
}

// ListJobTemplates drains the paginated template listing, preserving
// encounter order. A failure on the first page is a hard error; a failure on
// any later page returns the templates fetched so far with partial=true, and
// the caller decides whether partial data is acceptable.
func (c *Client) ListJobTemplates(ctx context.Context) (templates []JobTemplate, partial bool, err error) {
	page := 1
	totalCount := -1

	for {
		params := url.Values{}
		params.Set("page_size", strconv.Itoa(c.pageSize))
		params.Set("page", strconv.Itoa(page))
		pageURL := c.endpoint("/job_templates/") + "?" + params.Encode()

		var listing templateListPage
		if err := c.getJSON(ctx, pageURL, &listing); err != nil {
			if page == 1 {
				return nil, false, err
			}
			logging.Warn("Controller", "Stopping pagination after error on page %d, returning %d templates fetched so far: %v",
				page, len(templates), err)
			return templates, true, nil
		}

		if totalCount < 0 {
			totalCount = listing.Count
			logging.Debug("Controller", "Total job templates available: %d", totalCount)
		}

		templates = append(templates, listing.Results...)

		if listing.Next == nil || *listing.Next == "" || len(listing.Results) == 0 {
			break
		}
		page++
	}

	logging.Info("Controller", "Fetched %d job templates across %d pages", len(templates), page)
	return templates, false, nil
}

// GetSurveySpec fetches the survey specification of one template. A 404 is a
// normal condition (the template has no survey) and yields a nil spec.
func (c *Client) GetSurveySpec(ctx context.Context, templateID int) (*SurveySpec, error) {
	rawURL := c.endpoint(fmt.Sprintf("/job_templates/%d/survey_spec/", templateID))

	var spec SurveySpec
	err := c.getJSON(ctx, rawURL, &spec)
	if err != nil {
		var protoErr *ProtocolError
		if errors.As(err, &protoErr) && protoErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &spec, nil
}

// Launch starts a new job from the given template. extraVars may be nil; the
// controller then uses the template's own variables.
func (c *Client) Launch(ctx context.Context, templateID int, extraVars map[string]interface{}) (*LaunchResponse, error) {
	rawURL := c.endpoint(fmt.Sprintf("/job_templates/%d/launch/", templateID))

	payload := map[string]interface{}{}
	if len(extraVars) > 0 {
		payload["extra_vars"] = extraVars
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ProtocolError{URL: rawURL, Message: fmt.Sprintf("failed to encode launch payload: %v", err)}
	}

	resp, err := c.do(ctx, http.MethodPost, rawURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var launched LaunchResponse
	if err := json.NewDecoder(resp.Body).Decode(&launched); err != nil {
		return nil, &ProtocolError{StatusCode: resp.StatusCode, URL: rawURL, Message: fmt.Sprintf("failed to decode launch response: %v", err)}
	}

	logging.Info("Controller", "Launched job template %d, job %d", templateID, launched.Job)
	return &launched, nil
}

// GetJob fetches the current view of one job.
func (c *Client) GetJob(ctx context.Context, jobID int) (*JobRun, error) {
	rawURL := c.endpoint(fmt.Sprintf("/jobs/%d/", jobID))

	var run JobRun
	if err := c.getJSON(ctx, rawURL, &run); err != nil {
		var protoErr *ProtocolError
		if errors.As(err, &protoErr) && protoErr.StatusCode == http.StatusNotFound {
			return nil, &NotFoundError{Resource: "job", ID: jobID}
		}
		return nil, err
	}
	return &run, nil
}

// GetJobStdout fetches the raw stdout text of one job. An empty body is a
// valid result; the job may simply not have produced output yet.
func (c *Client) GetJobStdout(ctx context.Context, jobID int) (string, error) {
	rawURL := c.endpoint(fmt.Sprintf("/jobs/%d/stdout/", jobID)) + "?format=txt"

	resp, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		var protoErr *ProtocolError
		if errors.As(err, &protoErr) && protoErr.StatusCode == http.StatusNotFound {
			return "", &NotFoundError{Resource: "job", ID: jobID}
		}
		return "", err
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &ConnectivityError{URL: rawURL, Err: err}
	}
	return string(content), nil
}

// readSnippet reads a bounded prefix of an error response body for
// diagnostics.
func readSnippet(r io.Reader) string {
	const maxSnippet = 512
	data, _ := io.ReadAll(io.LimitReader(r, maxSnippet))
	return strings.TrimSpace(string(data))
}
