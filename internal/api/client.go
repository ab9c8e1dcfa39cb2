package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/kapu/cinefact-client-go/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

const msgUnexpectedResponse = "Unexpected response from server"

// FavoriteMovieUpdate is the confirmed value returned by a favorite-movie
// write. The server may normalize the submitted title, so this can differ
// from what was sent.
type FavoriteMovieUpdate struct {
	FavoriteMovie string `json:"favoriteMovie"`
}

type updateMovieRequest struct {
	Movie string `json:"movie"`
}

type failureBody struct {
	Error string `json:"error"`
}

// Client is the typed API client. Every operation resolves to a Result and
// never returns a Go error; all failure modes are normalized into the
// result's status and message. The client holds no state beyond its
// transport, so a test double returning canned results substitutes for it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     oauth2.TokenSource
	logger     *zap.Logger
}

func NewClient(baseURL string, timeout time.Duration, tokens oauth2.TokenSource, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		tokens: tokens,
		logger: logger,
	}
}

// FetchProfile retrieves the signed-in user's profile snapshot.
func (c *Client) FetchProfile(ctx context.Context) Result[domain.UserProfile] {
	return do[domain.UserProfile](ctx, c, http.MethodGet, "/me", nil)
}

// UpdateFavoriteMovie persists a new favorite movie title. The title is
// forwarded as given; validation is the editor's responsibility.
func (c *Client) UpdateFavoriteMovie(ctx context.Context, title string) Result[FavoriteMovieUpdate] {
	return do[FavoriteMovieUpdate](ctx, c, http.MethodPut, "/me/movie", updateMovieRequest{Movie: title})
}

// FetchFact retrieves a generated fact for the user's favorite movie.
func (c *Client) FetchFact(ctx context.Context) Result[domain.MovieFact] {
	return do[domain.MovieFact](ctx, c, http.MethodGet, "/fact", nil)
}

// do applies the one normalization algorithm shared by every operation:
// pre-response failures become status 0, responses are parsed and mapped
// onto the success or failure side by their status code, and unparseable
// bodies collapse into a generic message. No retries, no transformation.
func do[T any](ctx context.Context, c *Client, method, path string, reqBody any) Result[T] {
	url := c.baseURL + path

	var bodyReader io.Reader
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return Fail[T](StatusTransport, err.Error())
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return Fail[T](StatusTransport, err.Error())
	}

	req.Header.Set("Content-Type", "application/json")
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			c.logger.Warn("Token source failed", zap.String("path", path), zap.Error(err))
			return Fail[T](StatusTransport, err.Error())
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Request failed before a response was obtained",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
		return Fail[T](StatusTransport, err.Error())
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		var data T
		if readErr != nil || json.Unmarshal(body, &data) != nil {
			c.logger.Warn("Unparseable success body",
				zap.String("path", path),
				zap.Int("status", resp.StatusCode),
			)
			return Fail[T](resp.StatusCode, msgUnexpectedResponse)
		}
		return Ok(data)
	}

	c.logger.Warn("Request rejected",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
	)

	var parsed any
	if readErr != nil || json.Unmarshal(body, &parsed) != nil {
		return Fail[T](resp.StatusCode, msgUnexpectedResponse)
	}

	var failure failureBody
	_ = json.Unmarshal(body, &failure)
	if failure.Error == "" {
		return FailStatus[T](resp.StatusCode)
	}
	return Fail[T](resp.StatusCode, failure.Error)
}
