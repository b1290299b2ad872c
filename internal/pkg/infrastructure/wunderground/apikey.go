package wunderground

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"

	"github.com/diwise/ingress-wunderground/internal/pkg/application/weather"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
)

// the public web front end embeds the key it uses against api.weather.com
var apiKeyPattern = regexp.MustCompile(`apiKey=([a-z0-9]{32})`)

const maxPageSize = 8 << 20

type KeyResolver struct {
	client  *http.Client
	pageURL string
}

func NewKeyResolver(client *http.Client, pageURL string) *KeyResolver {
	return &KeyResolver{
		client:  client,
		pageURL: pageURL,
	}
}

// ResolveAPIKey scrapes a fresh api key from the web front end. It issues
// exactly one request and never caches the result.
func (kr *KeyResolver) ResolveAPIKey(ctx context.Context) (string, error) {
	var err error

	ctx, span := tracer.Start(ctx, "resolve-api-key")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	log := logging.GetFromContext(ctx)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, kr.pageURL, nil)
	if err != nil {
		err = fmt.Errorf("%w: failed to create http request: %s", weather.ErrCredentialUnavailable, err.Error())
		return "", err
	}

	resp, err := kr.client.Do(req)
	if err != nil {
		err = wrap(weather.ErrCredentialUnavailable, "failed to retrieve key page", err)
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = fmt.Errorf("%w: expected status code %d, but got %d", weather.ErrCredentialUnavailable, http.StatusOK, resp.StatusCode)
		return "", err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		err = wrap(weather.ErrCredentialUnavailable, "failed to read key page", err)
		return "", err
	}

	match := apiKeyPattern.FindSubmatch(body)
	if match == nil {
		err = fmt.Errorf("%w: no api key found in %d bytes from %s", weather.ErrCredentialUnavailable, len(body), kr.pageURL)
		return "", err
	}

	key := string(match[1])
	log.Debug("resolved api key", "key", redact(key))

	return key, nil
}

func redact(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return key[:4] + "****"
}
