package wunderground

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diwise/ingress-wunderground/internal/pkg/application/weather"
	. "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/matryer/is"
)

func TestResolveAPIKey(t *testing.T) {
	is, kr := setupMockKeyPage(t, http.StatusOK, keyPageHTML)

	key, err := kr.ResolveAPIKey(context.Background())

	is.NoErr(err)
	is.Equal(key, "e1f10a1e78da46f5b10a1e78da96f525")
}

func TestResolveAPIKeyFailsWhenKeyIsMissing(t *testing.T) {
	is, kr := setupMockKeyPage(t, http.StatusOK, "<html><body>nothing to see here</body></html>")

	key, err := kr.ResolveAPIKey(context.Background())

	is.True(errors.Is(err, weather.ErrCredentialUnavailable))
	is.Equal(key, "")
}

func TestResolveAPIKeyFailsWhenKeyIsMalformed(t *testing.T) {
	is, kr := setupMockKeyPage(t, http.StatusOK, `<script src="/api?apiKey=NOT-A-KEY"></script>`)

	_, err := kr.ResolveAPIKey(context.Background())

	is.True(errors.Is(err, weather.ErrCredentialUnavailable))
}

func TestResolveAPIKeyFailsOnErrorStatus(t *testing.T) {
	is, kr := setupMockKeyPage(t, http.StatusServiceUnavailable, keyPageHTML)

	_, err := kr.ResolveAPIKey(context.Background())

	is.True(errors.Is(err, weather.ErrCredentialUnavailable))
}

func TestResolveAPIKeyTimesOut(t *testing.T) {
	is := is.New(t)

	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer server.Close()
	defer close(release)

	kr := NewKeyResolver(NewHTTPClient(50*time.Millisecond), server.URL)

	start := time.Now()
	_, err := kr.ResolveAPIKey(context.Background())

	is.True(errors.Is(err, weather.ErrCredentialUnavailable))
	is.True(errors.Is(err, weather.ErrTimeout))
	is.True(time.Since(start) < 5*time.Second) // should give up after the configured timeout
}

func setupMockKeyPage(t *testing.T, statusCode int, body string) (*is.I, *KeyResolver) {
	is := is.New(t)
	page := NewMockServiceThat(
		Expects(is, expects.AnyInput()),
		Returns(
			response.Code(statusCode),
			response.Body([]byte(body)),
		),
	)

	return is, NewKeyResolver(NewHTTPClient(time.Second), page.URL())
}

const keyPageHTML string = `<!DOCTYPE html><html><head><title>Weather Underground</title></head><body><script>var cfg = "https://api.weather.com/v3/location/search?language=en-US&apiKey=e1f10a1e78da46f5b10a1e78da96f525&format=json";</script></body></html>`
