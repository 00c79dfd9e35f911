package client

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"sync"

	"github.com/diwise/assets-exporter/pkg/assets"
	"github.com/diwise/assets-exporter/pkg/assets/errors"
	"github.com/diwise/assets-exporter/pkg/assets/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

//go:generate moq -rm -out ../test/assetsclient_mock.go . AssetsClient

type AssetsClient interface {
	ResolveWorkspace(ctx context.Context) (string, error)
	QueryObjects(ctx context.Context, aql string, parameters ...RequestDecoratorFunc) (*assets.ObjectPage, error)
	Objects(ctx context.Context, aql string, pageSize int) iter.Seq2[types.Object, error]
	RetrieveObject(ctx context.Context, objectID string) (*types.Object, error)
	RetrieveObjectAttributes(ctx context.Context, objectID string) ([]types.AttributeRecord, error)
	RetrieveObjectTypeAttributes(ctx context.Context, objectTypeID string) ([]types.ObjectTypeAttribute, error)
}

// Config holds the site and credentials used for every call made by a client
type Config struct {
	Domain   string
	Email    string
	APIToken string
}

type RequestDecoratorFunc func([]string) []string

type Option func(*assetsClient)

const (
	DefaultAPIGateway string = "https://api.atlassian.com"
	DefaultPageSize   int    = 1000
)

func Debug(enabled string) Option {
	return func(c *assetsClient) {
		c.debug = (enabled == "true")
	}
}

// SiteURL overrides the site url that is otherwise derived from the configured domain
func SiteURL(siteURL string) Option {
	return func(c *assetsClient) {
		c.siteURL = strings.TrimSuffix(siteURL, "/")
	}
}

func APIGateway(gatewayURL string) Option {
	return func(c *assetsClient) {
		c.gatewayURL = strings.TrimSuffix(gatewayURL, "/")
	}
}

// Workspace skips workspace discovery and uses the provided workspace id
func Workspace(workspaceID string) Option {
	return func(c *assetsClient) {
		c.workspaceID = workspaceID
		c.presetWorkspace = workspaceID != ""
	}
}

// RateLimit throttles outgoing requests to at most rps requests per second
func RateLimit(rps float64, burst int) Option {
	return func(c *assetsClient) {
		if rps > 0 {
			if burst < 1 {
				burst = 1
			}
			c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
		}
	}
}

func NewAssetsClient(cfg Config, options ...Option) AssetsClient {
	credentials := base64.StdEncoding.EncodeToString([]byte(cfg.Email + ":" + cfg.APIToken))

	c := &assetsClient{
		siteURL:       "https://" + cfg.Domain,
		gatewayURL:    DefaultAPIGateway,
		authorization: "Basic " + credentials,
		debug:         false,
		httpClient: http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}

	for _, option := range options {
		option(c)
	}

	return c
}

const (
	TraceAttributeObjectID     string = "object-id"
	TraceAttributeObjectTypeID string = "object-type-id"
	TraceAttributeWorkspace    string = "assets-workspace"
)

var tracer = otel.Tracer("assets-client")

type assetsClient struct {
	mu              sync.RWMutex
	workspaceID     string
	presetWorkspace bool

	siteURL       string
	gatewayURL    string
	authorization string
	debug         bool
	limiter       *rate.Limiter
	httpClient    http.Client
}

// ResolveWorkspace discovers the workspace of the site and uses it as the base of all
// object calls. A workspace given with the Workspace option is returned as is.
func (c *assetsClient) ResolveWorkspace(ctx context.Context) (string, error) {
	var err error

	c.mu.RLock()
	preset := c.presetWorkspace
	workspaceID := c.workspaceID
	c.mu.RUnlock()

	if preset && workspaceID != "" {
		return workspaceID, nil
	}

	ctx, span := tracer.Start(ctx, "resolve-workspace")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	response, responseBody, err := c.callAssets(
		ctx, http.MethodGet, c.siteURL+"/rest/servicedeskapi/assets/workspace", nil,
	)
	if err != nil {
		return "", err
	}

	if response.StatusCode != http.StatusOK {
		err = responseError(response, responseBody)
		return "", err
	}

	workspaces := assets.WorkspaceList{}
	err = json.Unmarshal(responseBody, &workspaces)
	if err != nil {
		err = fmt.Errorf("failed to unmarshal workspaces: %s (%w)", err.Error(), errors.ErrBadResponse)
		return "", err
	}

	if len(workspaces.Values) == 0 || workspaces.Values[0].ID == "" {
		err = errors.ErrNoWorkspace
		return "", err
	}

	workspaceID = workspaces.Values[0].ID
	span.SetAttributes(attribute.String(TraceAttributeWorkspace, workspaceID))

	c.mu.Lock()
	c.workspaceID = workspaceID
	c.mu.Unlock()

	return workspaceID, nil
}

func (c *assetsClient) QueryObjects(ctx context.Context, aql string, parameters ...RequestDecoratorFunc) (*assets.ObjectPage, error) {
	var err error

	ctx, span := tracer.Start(ctx, "query-objects")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	baseURL, err := c.baseURL()
	if err != nil {
		return nil, err
	}

	params := make([]string, 0, 3)
	for _, rdf := range parameters {
		params = rdf(params)
	}

	urlparams := ""
	if len(params) > 0 {
		urlparams = "?" + strings.Join(params, "&")
	}

	body, err := json.Marshal(map[string]string{"qlQuery": aql})
	if err != nil {
		return nil, err
	}

	response, responseBody, err := c.callAssets(
		ctx, http.MethodPost, baseURL+"/v1/object/aql"+urlparams, bytes.NewBuffer(body),
	)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		err = responseError(response, responseBody)
		return nil, err
	}

	page := &assets.ObjectPage{}
	err = json.Unmarshal(responseBody, page)
	if err != nil {
		err = c.unmarshalError("query result", responseBody, err)
		return nil, err
	}

	return page, nil
}

// Objects returns a lazy sequence over all objects matching the aql query. Pages are
// requested as the sequence is consumed, and every iteration starts a new query.
// Attribute values are left out of the pages, use RetrieveObjectAttributes for those.
func (c *assetsClient) Objects(ctx context.Context, aql string, pageSize int) iter.Seq2[types.Object, error] {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return func(yield func(types.Object, error) bool) {
		start := 0

		for {
			page, err := c.QueryObjects(ctx, aql, StartAt(start), MaxResults(pageSize), IncludeAttributes(false))
			if err != nil {
				yield(types.Object{}, err)
				return
			}

			// paging follows the requested offset, startAt may be missing from the response
			page.StartAt = start

			for _, o := range page.Values {
				if !yield(o, nil) {
					return
				}
			}

			if !page.HasMore() {
				return
			}

			start = page.Next()
		}
	}
}

func (c *assetsClient) RetrieveObject(ctx context.Context, objectID string) (*types.Object, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-object",
		trace.WithAttributes(attribute.String(TraceAttributeObjectID, objectID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	baseURL, err := c.baseURL()
	if err != nil {
		return nil, err
	}

	response, responseBody, err := c.callAssets(
		ctx, http.MethodGet, baseURL+"/v1/object/"+url.PathEscape(objectID), nil,
	)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		err = responseError(response, responseBody)
		return nil, err
	}

	object := &types.Object{}
	err = json.Unmarshal(responseBody, object)
	if err != nil {
		err = c.unmarshalError("object", responseBody, err)
		return nil, err
	}

	return object, nil
}

func (c *assetsClient) RetrieveObjectAttributes(ctx context.Context, objectID string) ([]types.AttributeRecord, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-object-attributes",
		trace.WithAttributes(attribute.String(TraceAttributeObjectID, objectID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	baseURL, err := c.baseURL()
	if err != nil {
		return nil, err
	}

	response, responseBody, err := c.callAssets(
		ctx, http.MethodGet, baseURL+"/v1/object/"+url.PathEscape(objectID)+"/attributes", nil,
	)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		err = responseError(response, responseBody)
		return nil, err
	}

	records := []types.AttributeRecord{}
	err = json.Unmarshal(responseBody, &records)
	if err != nil {
		err = c.unmarshalError("object attributes", responseBody, err)
		return nil, err
	}

	return records, nil
}

func (c *assetsClient) RetrieveObjectTypeAttributes(ctx context.Context, objectTypeID string) ([]types.ObjectTypeAttribute, error) {
	var err error

	ctx, span := tracer.Start(ctx, "retrieve-object-type-attributes",
		trace.WithAttributes(attribute.String(TraceAttributeObjectTypeID, objectTypeID)),
	)
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	baseURL, err := c.baseURL()
	if err != nil {
		return nil, err
	}

	response, responseBody, err := c.callAssets(
		ctx, http.MethodGet, baseURL+"/v1/objecttype/"+url.PathEscape(objectTypeID)+"/attributes", nil,
	)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		err = responseError(response, responseBody)
		return nil, err
	}

	catalog := []types.ObjectTypeAttribute{}
	err = json.Unmarshal(responseBody, &catalog)
	if err != nil {
		err = c.unmarshalError("object type attributes", responseBody, err)
		return nil, err
	}

	return catalog, nil
}

func (c *assetsClient) baseURL() (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.workspaceID == "" {
		return "", errors.ErrWorkspaceNotResolved
	}

	return c.gatewayURL + "/jsm/assets/workspace/" + url.PathEscape(c.workspaceID), nil
}

func (c *assetsClient) callAssets(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, nil, fmt.Errorf("rate limiter refused request: %s (%w)", err.Error(), errors.ErrRequest)
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %s (%w)", err.Error(), errors.ErrInternal)
	}

	req.Header.Add("Authorization", c.authorization)
	req.Header.Add("Accept", "application/json")
	if body != nil {
		req.Header.Add("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to send request: %s (%w)", err.Error(), errors.ErrRequest)
	}

	defer resp.Body.Close()
	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %s (%w)", err.Error(), errors.ErrBadResponse)
	}

	if c.debug && resp.StatusCode >= http.StatusBadRequest {
		reqbytes, _ := httputil.DumpRequest(req, false)
		respbytes, _ := httputil.DumpResponse(resp, false)

		log := logging.GetFromContext(ctx)
		log.Error("request failed", "request", redact(string(reqbytes)), "response", string(respbytes))
	}

	return resp, respBody, nil
}

func (c *assetsClient) unmarshalError(what string, body []byte, err error) error {
	if c.debug && len(body) < 1000 {
		return fmt.Errorf("unmarshaling of %s %s failed with err %s (%w)", what, string(body), err.Error(), errors.ErrBadResponse)
	}

	return fmt.Errorf("failed to unmarshal %s: %s (%w)", what, err.Error(), errors.ErrBadResponse)
}

func responseError(response *http.Response, body []byte) error {
	contentType := response.Header.Get("Content-Type")
	return errors.NewErrorFromResponse(response.StatusCode, contentType, body)
}

// redact removes the credentials from a dumped request
func redact(dump string) string {
	lines := strings.Split(dump, "\r\n")
	for idx, l := range lines {
		if strings.HasPrefix(strings.ToLower(l), "authorization:") {
			lines[idx] = "Authorization: [REDACTED]"
		}
	}
	return strings.Join(lines, "\r\n")
}
