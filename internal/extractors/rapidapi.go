package extractors

import (
	"context"
	"fmt"
	"net/url"

	"github.com/tidwall/gjson"

	"github.com/prannavdeshpande/second-brain/pkg/httpclient"
)

// fetchPlatformJSON calls a RapidAPI-style endpoint with the shared key
// and host headers and returns the parsed response body. The endpoint is a
// full URL so tests can substitute a local fake.
func fetchPlatformJSON(ctx context.Context, client *httpclient.Client, endpoint, apiKey string, params url.Values) (gjson.Result, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("parse endpoint: %w", err)
	}
	u.RawQuery = params.Encode()

	body, err := client.Get(ctx, u.String(), map[string]string{
		"x-rapidapi-key":  apiKey,
		"x-rapidapi-host": u.Host,
	})
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("invalid JSON from %s", u.Host)
	}
	return gjson.ParseBytes(body), nil
}
