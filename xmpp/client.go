package xmpp

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Client talks to the ejabberd administrative HTTP API with admin basic auth.
// Every call is a JSON POST to <APIURL>/<command>; ejabberd answers most
// mutating commands with a bare integer, zero meaning success.
type Client struct {
	APIURL        string
	AdminUser     string
	AdminPassword string
	VHost         string
	MUCService    string

	http *http.Client
	log  *logrus.Logger
}

type ClientConfig struct {
	APIURL             string
	AdminUser          string
	AdminPassword      string
	VHost              string
	MUCService         string
	Timeout            time.Duration
	InsecureSkipVerify bool
}

func NewClient(cfg ClientConfig, log *logrus.Logger) *Client {
	transport := &http.Transport{}
	if cfg.InsecureSkipVerify {
		// ejabberd dev setups ship a self-signed cert on the admin port.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &Client{
		APIURL:        strings.TrimRight(cfg.APIURL, "/"),
		AdminUser:     cfg.AdminUser,
		AdminPassword: cfg.AdminPassword,
		VHost:         cfg.VHost,
		MUCService:    cfg.MUCService,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		log: log,
	}
}

// post executes one admin command and decodes the JSON response body.
// A non-2xx status is returned as an error carrying the status code so the
// adapters can map "room does not exist" style rejections.
func (c *Client) post(ctx context.Context, command string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.APIURL+"/"+command, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.AdminUser, c.AdminPassword)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{Command: command, StatusCode: resp.StatusCode, Body: string(raw)}
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("%s: decoding response: %w", command, err)
		}
	}
	return nil
}

// postResult runs a command whose response is an integer result code and
// reports whether ejabberd accepted it. Transport failures are returned as
// errors; a well-formed non-zero result is (false, nil).
func (c *Client) postResult(ctx context.Context, command string, payload any) (bool, error) {
	var result int
	if err := c.post(ctx, command, payload, &result); err != nil {
		return false, err
	}
	return result == 0, nil
}

// StatusError is a non-2xx reply from the admin API.
type StatusError struct {
	Command    string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("ejabberd %s: HTTP %d: %s", e.Command, e.StatusCode, e.Body)
}

// bareUser strips the domain suffix from a JID-ish identifier, so
// "alice@localhost/psi" becomes "alice".
func bareUser(jid string) string {
	if i := strings.IndexByte(jid, '@'); i >= 0 {
		return jid[:i]
	}
	return jid
}

func (c *Client) userJID(userID string) string {
	return userID + "@" + c.VHost
}

func (c *Client) roomJID(roomID string) string {
	return roomID + "@" + c.MUCService
}
