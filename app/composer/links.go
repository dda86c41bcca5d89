package composer

import (
	"fmt"
	"net/url"
)

// AddParams returns baseURL with the given query parameters merged in.
// Parameters already present on the URL are preserved unless overridden by a
// same-named entry in params.
func AddParams(baseURL string, params map[string]string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse base URL: %w", err)
	}

	q := u.Query()
	for key, value := range params {
		q.Set(key, value)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
