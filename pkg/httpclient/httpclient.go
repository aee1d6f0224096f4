package httpclient

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	URL     string        `yaml:"BACKEND_URL"     env:"BACKEND_URL"     env-default:"http://localhost:8080/api"`
	Timeout time.Duration `yaml:"REQUEST_TIMEOUT" env:"REQUEST_TIMEOUT" env-default:"15s"`
}

// New returns the backend base URL without a trailing slash and a client bound to the timeout.
func New(config Config) (string, *http.Client, error) {
	base := strings.TrimRight(config.URL, "/")
	u, err := url.Parse(base)
	if err != nil {
		return "", nil, fmt.Errorf("httpclient: invalid backend url %q: %w", config.URL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", nil, fmt.Errorf("httpclient: backend url %q must be http or https", config.URL)
	}
	return base, &http.Client{Timeout: config.Timeout}, nil
}
