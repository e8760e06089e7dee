package ontstat

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kenshaw/httplog"
)

// ClientOption is an option used when creating a new Client.
type ClientOption func(*Client) error

// WithURL is a client option setting the device base URL.
func WithURL(rawurl string) ClientOption {
	return func(c *Client) error {
		var err error
		if !strings.HasSuffix(rawurl, "/") {
			rawurl += "/"
		}
		c.rawurl = rawurl
		c.url, err = url.Parse(rawurl)
		return err
	}
}

// WithHost is a client option setting the device address. The firmware
// serves plain http only.
func WithHost(host string) ClientOption {
	return WithURL("http://" + host + "/")
}

// WithTimeout is a client option setting the request timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) error {
		c.timeout = timeout
		return nil
	}
}

// WithHTTPClient is a client option setting the underlying http.Client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) error {
		c.client = client
		return nil
	}
}

// WithTransport is a client option setting the http transport.
func WithTransport(transport http.RoundTripper) ClientOption {
	return func(c *Client) error {
		c.transport = transport
		return nil
	}
}

// WithLogf is a client option specifying a logging handler for HTTP
// request and response data.
func WithLogf(logf func(string, ...interface{})) ClientOption {
	return func(c *Client) error {
		return WithTransport(httplog.NewPrefixedRoundTripLogger(c.transport, logf))(c)
	}
}
