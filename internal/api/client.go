package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"franchise-league/internal/constants"
	apperrors "franchise-league/internal/errors"
	"franchise-league/internal/repository"
	"franchise-league/internal/server"
	"franchise-league/internal/service"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// LeagueClient talks to the league HTTP API.
type LeagueClient struct {
	baseURL string
	client  *fasthttp.Client
}

func NewLeagueClient(baseURL string) *LeagueClient {
	return &LeagueClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &fasthttp.Client{
			MaxConnsPerHost:     16,
			ReadTimeout:         constants.ClientTimeout,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Kind    apperrors.Kind
	Message string
	Issues  []apperrors.Issue
}

func (e *Error) Error() string {
	return fmt.Sprintf("API error %d (%s): %s", e.Status, e.Kind, e.Message)
}

func (c *LeagueClient) Health(ctx context.Context) error {
	_, err := doRequest[map[string]string](ctx, c, fasthttp.MethodGet, "/healthz", nil)
	return err
}

func (c *LeagueClient) CreateLeague(ctx context.Context, req service.CreateRequest) (*server.LeagueResponse, error) {
	return doRequest[server.LeagueResponse](ctx, c, fasthttp.MethodPost, "/api/leagues", req)
}

func (c *LeagueClient) ListLeagues(ctx context.Context) ([]repository.Summary, error) {
	resp, err := doRequest[struct {
		Leagues []repository.Summary `json:"leagues"`
	}](ctx, c, fasthttp.MethodGet, "/api/leagues", nil)
	if err != nil {
		return nil, err
	}
	return resp.Leagues, nil
}

func (c *LeagueClient) GetLeague(ctx context.Context, id string) (*server.LeagueResponse, error) {
	return doRequest[server.LeagueResponse](ctx, c, fasthttp.MethodGet, leaguePath(id, ""), nil)
}

func (c *LeagueClient) ProgressAuction(ctx context.Context, id string, req server.ProgressRequest) (*server.LeagueResponse, error) {
	return doRequest[server.LeagueResponse](ctx, c, fasthttp.MethodPost, leaguePath(id, "/auction/progress"), req)
}

func (c *LeagueClient) SkipToPlayer(ctx context.Context, id, playerID string) (*server.LeagueResponse, error) {
	return doRequest[server.LeagueResponse](ctx, c, fasthttp.MethodPost, leaguePath(id, "/auction/skip"), server.SkipRequest{PlayerID: playerID})
}

func (c *LeagueClient) StartSeason(ctx context.Context, id string) (*server.LeagueResponse, error) {
	return doRequest[server.LeagueResponse](ctx, c, fasthttp.MethodPost, leaguePath(id, "/season/start"), nil)
}

func (c *LeagueClient) NextWindow(ctx context.Context, id string) (*server.WindowResponse, error) {
	return doRequest[server.WindowResponse](ctx, c, fasthttp.MethodPost, leaguePath(id, "/season/next"), nil)
}

func (c *LeagueClient) AdvanceSeason(ctx context.Context, id string) (*server.LeagueResponse, error) {
	return doRequest[server.LeagueResponse](ctx, c, fasthttp.MethodPost, leaguePath(id, "/season/advance"), nil)
}

func (c *LeagueClient) Validate(ctx context.Context, id string) (*server.ValidateResponse, error) {
	return doRequest[server.ValidateResponse](ctx, c, fasthttp.MethodGet, leaguePath(id, "/validate"), nil)
}

// SimulateSeason runs the rest of the season and hands every streamed
// event to onEvent. The body is read in full before events are replayed.
func (c *LeagueClient) SimulateSeason(ctx context.Context, id string, onEvent func(server.StreamEvent)) (*server.SimulationResponse, error) {
	body, err := c.do(ctx, fasthttp.MethodPost, leaguePath(id, "/season/simulate"), nil)
	if err != nil {
		return nil, err
	}

	var result *server.SimulationResponse
	scanner := bufio.NewScanner(bytes.NewReader(body))
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var ev server.StreamEvent
		if err := json.Unmarshal(line, &ev); err != nil {
			return nil, fmt.Errorf("failed to decode stream event: %w", err)
		}
		if onEvent != nil {
			onEvent(ev)
		}
		switch ev.Type {
		case server.EventResult:
			result = ev.Result
		case server.EventError:
			if ev.Error == nil {
				return nil, fmt.Errorf("stream reported an error without details")
			}
			return nil, &Error{Status: fasthttp.StatusOK, Kind: ev.Error.Kind, Message: ev.Error.Message, Issues: ev.Error.Issues}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read stream: %w", err)
	}
	if result == nil {
		return nil, fmt.Errorf("stream ended without a result")
	}
	return result, nil
}

func leaguePath(id, suffix string) string {
	return "/api/leagues/" + url.PathEscape(id) + suffix
}

func doRequest[T any](ctx context.Context, client *LeagueClient, method, path string, payload any) (*T, error) {
	body, err := client.do(ctx, method, path, payload)
	if err != nil {
		return nil, err
	}
	var result T
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &result, nil
}

func (c *LeagueClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.Set("X-Request-ID", uuid.New().String())
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(data)
	}

	deadline, ok := ctx.Deadline()
	if ok {
		if err := c.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, err
		}
	} else {
		if err := c.client.Do(req, resp); err != nil {
			return nil, err
		}
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status < 200 || status >= 300 {
		apiErr := &Error{Status: status, Kind: apperrors.KindInternal, Message: string(body)}
		var payload struct {
			Error struct {
				Kind    apperrors.Kind    `json:"kind"`
				Message string            `json:"message"`
				Issues  []apperrors.Issue `json:"issues"`
			} `json:"error"`
		}
		if json.Unmarshal(body, &payload) == nil && payload.Error.Message != "" {
			apiErr.Kind = payload.Error.Kind
			apiErr.Message = payload.Error.Message
			apiErr.Issues = payload.Error.Issues
		}
		return nil, apiErr
	}
	return body, nil
}
