package g2b

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/adapter"
	"github.com/g2b-insight/g2b-indexer/internal/logger"
	"github.com/g2b-insight/g2b-indexer/internal/ratelimit"
)

const (
	// RESULT_CODE_OK is the header result code of a successful response
	RESULT_CODE_OK = "00"

	// ERROR_ENVELOPE_KEY is the top-level key of the error envelope returned with status 200
	ERROR_ENVELOPE_KEY = "nkoneps.com.response.ResponseError"
)

// FailureKind classifies why a page could not be fetched
type FailureKind string

const (
	FailureTimeout   FailureKind = "timeout"
	FailureTransport FailureKind = "transport"
	FailureHTTP      FailureKind = "http"
	FailureAPI       FailureKind = "api"
	FailureMalformed FailureKind = "malformed"
)

// FetchError is the typed failure of a page fetch
type FetchError struct {
	Kind    FailureKind
	URL     string // credential redacted
	Status  int    // HTTP status, when a response was received
	Code    string // source result code, for API errors
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	switch e.Kind {
	case FailureHTTP:
		return fmt.Sprintf("g2b http error %d: %s", e.Status, e.Message)
	case FailureAPI:
		return fmt.Sprintf("g2b api error %s: %s", e.Code, e.Message)
	default:
		return fmt.Sprintf("g2b %s error: %s", e.Kind, e.Message)
	}
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether the failure may clear up by the next scheduled run
func (e *FetchError) IsTransient() bool {
	switch e.Kind {
	case FailureTimeout, FailureTransport:
		return true
	case FailureHTTP:
		return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
	default:
		return false
	}
}

// RawItem is one source item with its original field names
type RawItem map[string]any

// String returns the value of a field as text, or "" when it is absent
func (r RawItem) String(key string) string {
	switch v := r[key].(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// PageParams holds the query of one page request
type PageParams struct {
	PageNo    int
	NumOfRows int
	Bounds    url.Values
}

// Page is one successfully parsed page
type Page struct {
	Items      []RawItem
	TotalCount int
	PageNo     int
}

// Client defines the interface for procurement API operations to enable mocking
//
//go:generate mockgen -source=client.go -destination=../../mocks/g2b_client.go -package=mocks -mock_names=Client=MockG2BClient
type Client interface {
	// FetchPage fetches one page of a sub-endpoint.
	// Any returned error is a *FetchError.
	FetchPage(ctx context.Context, endpoint string, params PageParams) (*Page, error)
}

// G2BClient implements Client over the data.go.kr open API
type G2BClient struct {
	httpClient adapter.HTTPClient
	limiter    ratelimit.Limiter
	clock      adapter.Clock
	serviceKey string
}

// NewClient creates a new procurement API client
func NewClient(httpClient adapter.HTTPClient, limiter ratelimit.Limiter, clock adapter.Clock, serviceKey string) Client {
	return &G2BClient{
		httpClient: httpClient,
		limiter:    limiter,
		clock:      clock,
		serviceKey: serviceKey,
	}
}

// response is the success envelope
type response struct {
	Response *struct {
		Header resultHeader  `json:"header"`
		Body   *responseBody `json:"body"`
	} `json:"response"`
	ResponseError *struct {
		Header resultHeader `json:"header"`
	} `json:"nkoneps.com.response.ResponseError"`
}

type resultHeader struct {
	ResultCode string `json:"resultCode"`
	ResultMsg  string `json:"resultMsg"`
}

type responseBody struct {
	Items      json.RawMessage `json:"items"`
	TotalCount flexInt         `json:"totalCount"`
	PageNo     flexInt         `json:"pageNo"`
	NumOfRows  flexInt         `json:"numOfRows"`
}

// gatewayError is the XML document the data.go.kr gateway answers with for key and quota errors,
// regardless of the requested format
type gatewayError struct {
	XMLName xml.Name `xml:"OpenAPI_ServiceResponse"`
	Header  struct {
		ErrMsg           string `xml:"errMsg"`
		ReturnAuthMsg    string `xml:"returnAuthMsg"`
		ReturnReasonCode string `xml:"returnReasonCode"`
	} `xml:"cmmMsgHeader"`
}

// flexInt accepts both 10 and "10"
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(strings.TrimSpace(string(data)), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", s, err)
	}
	*f = flexInt(n)
	return nil
}

// FetchPage fetches one page of a sub-endpoint
func (c *G2BClient) FetchPage(ctx context.Context, endpoint string, params PageParams) (*Page, error) {
	requestURL := c.buildURL(endpoint, params)
	logURL := redactURL(requestURL)
	start := c.clock.Now()

	page, status, err := c.fetch(ctx, requestURL, logURL)

	fields := []zap.Field{
		zap.String("url", logURL),
		zap.Int("status", status),
		zap.Int("page_no", params.PageNo),
		zap.Duration("duration", c.clock.Since(start)),
	}
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			fields = append(fields, zap.String("outcome", string(fetchErr.Kind)))
		}
		logger.WarnCtx(ctx, "G2B page fetch failed", append(fields, zap.Error(err))...)
		return nil, err
	}

	logger.InfoCtx(ctx, "G2B page fetched", append(fields,
		zap.String("outcome", "ok"),
		zap.Int("items", len(page.Items)),
		zap.Int("total_count", page.TotalCount),
	)...)
	return page, nil
}

// fetch performs the request and classifies every failure into a *FetchError
func (c *G2BClient) fetch(ctx context.Context, requestURL, logURL string) (*Page, int, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, transportError(logURL, err)
		}
	}

	resp, err := c.httpClient.GetRaw(ctx, requestURL)
	if err != nil {
		return nil, 0, transportError(logURL, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, &FetchError{
			Kind:    FailureHTTP,
			URL:     logURL,
			Status:  resp.StatusCode,
			Message: truncate(string(resp.Body), 200),
		}
	}

	page, err := parsePage(resp.Body)
	if err != nil {
		var fetchErr *FetchError
		if errors.As(err, &fetchErr) {
			fetchErr.URL = logURL
			fetchErr.Status = resp.StatusCode
			return nil, resp.StatusCode, fetchErr
		}
		return nil, resp.StatusCode, &FetchError{Kind: FailureMalformed, URL: logURL, Status: resp.StatusCode, Message: err.Error(), Err: err}
	}

	return page, resp.StatusCode, nil
}

// parsePage decodes a 200 response body
func parsePage(body []byte) (*Page, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, &FetchError{Kind: FailureMalformed, Message: "empty response body"}
	}

	if trimmed[0] == '<' {
		return nil, parseXMLError(trimmed)
	}

	var envelope response
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, &FetchError{Kind: FailureMalformed, Message: fmt.Sprintf("failed to decode response: %v", err), Err: err}
	}

	if envelope.ResponseError != nil {
		return nil, &FetchError{
			Kind:    FailureAPI,
			Code:    envelope.ResponseError.Header.ResultCode,
			Message: envelope.ResponseError.Header.ResultMsg,
		}
	}

	if envelope.Response == nil {
		return nil, &FetchError{Kind: FailureMalformed, Message: "response envelope is missing"}
	}

	header := envelope.Response.Header
	if header.ResultCode != "" && header.ResultCode != RESULT_CODE_OK {
		return nil, &FetchError{Kind: FailureAPI, Code: header.ResultCode, Message: header.ResultMsg}
	}

	if envelope.Response.Body == nil {
		return nil, &FetchError{Kind: FailureMalformed, Message: "response body is missing"}
	}

	items, err := decodeItems(envelope.Response.Body.Items)
	if err != nil {
		return nil, &FetchError{Kind: FailureMalformed, Message: err.Error(), Err: err}
	}

	return &Page{
		Items:      items,
		TotalCount: int(envelope.Response.Body.TotalCount),
		PageNo:     int(envelope.Response.Body.PageNo),
	}, nil
}

// decodeItems accepts the shapes the source uses for items:
// an array, {"item": [...]}, {"item": {...}} or an empty string
func decodeItems(raw json.RawMessage) ([]RawItem, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	switch trimmed[0] {
	case '[':
		var items []RawItem
		if err := decodeJSON(trimmed, &items); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
		return items, nil
	case '{':
		var wrapper map[string]json.RawMessage
		if err := decodeJSON(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
		if inner, ok := wrapper["item"]; ok {
			return decodeItems(inner)
		}
		if len(wrapper) == 0 {
			return nil, nil
		}
		// A single bare item
		var item RawItem
		if err := decodeJSON(trimmed, &item); err != nil {
			return nil, fmt.Errorf("failed to decode item: %w", err)
		}
		return []RawItem{item}, nil
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return nil, fmt.Errorf("failed to decode items: %w", err)
		}
		if strings.TrimSpace(s) == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("unexpected items string %q", truncate(s, 50))
	default:
		return nil, fmt.Errorf("unexpected items value %q", truncate(string(trimmed), 50))
	}
}

// decodeJSON keeps numbers as json.Number so large amounts survive intact
func decodeJSON(data []byte, v any) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	return decoder.Decode(v)
}

func parseXMLError(body []byte) error {
	var gwErr gatewayError
	if err := xml.Unmarshal(body, &gwErr); err != nil || gwErr.Header.ReturnReasonCode == "" {
		return &FetchError{Kind: FailureMalformed, Message: "unexpected XML response: " + truncate(string(body), 100)}
	}

	message := gwErr.Header.ReturnAuthMsg
	if message == "" {
		message = gwErr.Header.ErrMsg
	}
	return &FetchError{Kind: FailureAPI, Code: gwErr.Header.ReturnReasonCode, Message: message}
}

func transportError(logURL string, err error) *FetchError {
	// net/http reports the full request URL, credential included
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		err = &url.Error{Op: urlErr.Op, URL: logURL, Err: urlErr.Err}
	}

	kind := FailureTransport
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		kind = FailureTimeout
	}
	return &FetchError{Kind: kind, URL: logURL, Message: err.Error(), Err: err}
}

func (c *G2BClient) buildURL(endpoint string, params PageParams) string {
	query := url.Values{}
	for key, values := range params.Bounds {
		for _, v := range values {
			query.Add(key, v)
		}
	}
	query.Set("serviceKey", c.serviceKey)
	query.Set("pageNo", strconv.Itoa(params.PageNo))
	query.Set("numOfRows", strconv.Itoa(params.NumOfRows))
	query.Set("type", "json")

	return endpoint + "?" + query.Encode()
}

// redactURL hides the access credential before a URL is logged or reported
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	query := u.Query()
	if query.Has("serviceKey") {
		query.Set("serviceKey", "REDACTED")
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// truncate shortens s to n runes for log and error messages
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
