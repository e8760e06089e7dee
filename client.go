package ontstat

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultHost is the factory address of the ONT.
	DefaultHost = "192.168.100.1"

	// DefaultTimeout is the default request timeout.
	DefaultTimeout = 10 * time.Second
)

// Fixed paths served by the firmware.
const (
	loginPath      = "cgi-bin/install_login.cgi"
	infoPath       = "cgi-bin/install_info.cgi"
	identifierPath = "cgi-bin/install_identifier.cgi"
)

// sidRE matches the session id assigned in the login page's JavaScript.
var sidRE = regexp.MustCompile(`var\s+sid\s*=\s*['"]([a-fA-F0-9]+)['"]`)

// Login failure markers emitted by the firmware.
const (
	markerBadCredentials = "Falscher Benutzer oder Passwort"
	markerAuthFailed     = "Fehler bei Authentifizierung"
)

// Client represents a connection to the ONT web interface.
type Client struct {
	rawurl    string
	url       *url.URL
	timeout   time.Duration
	client    *http.Client
	transport http.RoundTripper
	loggedIn  bool
}

// NewClient creates a new client for an ONT device.
func NewClient(opts ...ClientOption) (*Client, error) {
	c := &Client{
		timeout: DefaultTimeout,
	}

	// process options
	for _, o := range opts {
		if err := o(c); err != nil {
			return nil, err
		}
	}

	// set default url
	if c.rawurl == "" || c.url == nil {
		if err := WithHost(DefaultHost)(c); err != nil {
			return nil, err
		}
	}

	if c.client == nil {
		c.client = &http.Client{}
	}
	if c.client.Timeout == 0 {
		c.client.Timeout = c.timeout
	}
	if c.transport != nil {
		c.client.Transport = c.transport
	}

	// the firmware tracks the login in a session cookie
	if c.client.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.client.Jar = jar
	}

	return c, nil
}

// URL returns the device base URL.
func (c *Client) URL() string {
	return c.rawurl
}

// get issues a GET request to path and returns the response body.
func (c *Client) get(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.rawurl+path, nil)
	if err != nil {
		return "", err
	}
	return c.do(req)
}

// postForm issues a form encoded POST request to path and returns the
// response body.
func (c *Client) postForm(ctx context.Context, path string, form url.Values) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.rawurl+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req)
}

func (c *Client) do(req *http.Request) (string, error) {
	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	// check status code
	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("bad status code %d", res.StatusCode)
	}

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// authDigest computes the challenge response expected by the firmware,
// the hex encoded MD5 of password + ":" + sid. This is a fixed contract
// with the device and must not change.
func authDigest(password, sid string) string {
	sum := md5.Sum([]byte(password + ":" + sid))
	return hex.EncodeToString(sum[:])
}

// SessionID fetches the login page and extracts the challenge session id
// from its JavaScript.
func (c *Client) SessionID(ctx context.Context) (string, error) {
	body, err := c.get(ctx, loginPath)
	if err != nil {
		return "", &AuthError{Reason: "could not fetch login page", Err: err}
	}
	m := sidRE.FindStringSubmatch(body)
	if m == nil {
		return "", &AuthError{Reason: "could not extract session id from login page"}
	}
	return m[1], nil
}

// Login authenticates against the device using its challenge-response
// scheme. On success the session cookie is held by the client for the
// rest of the invocation; there is no logout.
func (c *Client) Login(ctx context.Context, username, password string) error {
	sid, err := c.SessionID(ctx)
	if err != nil {
		return err
	}

	form := url.Values{
		"Loginuser":          []string{username},
		"LoginPasswordValue": []string{authDigest(password, sid)},
		"submitValue":        []string{"1"},
	}
	body, err := c.postForm(ctx, loginPath, form)
	if err != nil {
		return &AuthError{Reason: "login request failed", Err: err}
	}

	switch {
	case strings.Contains(body, markerBadCredentials):
		return &AuthError{Reason: "invalid username or password"}
	case strings.Contains(body, markerAuthFailed):
		return &AuthError{Reason: "authentication rejected by device"}
	}

	c.loggedIn = true
	return nil
}

// InstallInfo retrieves the raw install info page.
func (c *Client) InstallInfo(ctx context.Context) (string, error) {
	return c.fetchPage(ctx, infoPath)
}

// Identifier retrieves the raw identifier page, which carries the
// connection status.
func (c *Client) Identifier(ctx context.Context) (string, error) {
	return c.fetchPage(ctx, identifierPath)
}

func (c *Client) fetchPage(ctx context.Context, path string) (string, error) {
	if !c.loggedIn {
		return "", &AuthError{Reason: "not logged in"}
	}
	body, err := c.get(ctx, path)
	if err != nil {
		return "", &ParseError{Reason: "could not fetch " + path, Err: err}
	}

	// the firmware answers 200 with a JavaScript redirect to the login
	// page when the session is not accepted
	if strings.Contains(body, "install_login.cgi") && strings.Contains(body, "window.parent.location") {
		return "", &ParseError{Reason: "redirected to login page, session not accepted"}
	}
	return body, nil
}

// DeviceInfo fetches and parses the device information. The identifier
// page is best effort: the connection status stays unavailable when it
// cannot be read.
func (c *Client) DeviceInfo(ctx context.Context) (*DeviceInfo, error) {
	body, err := c.InstallInfo(ctx)
	if err != nil {
		return nil, err
	}
	info, err := parseInstallInfo(body)
	if err != nil {
		return nil, err
	}
	if ident, err := c.Identifier(ctx); err == nil {
		mergeIdentifier(info, parseIdentifier(ident))
	}
	info.FetchedAt = time.Now()
	return info, nil
}
