package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

// Client talks to a relay server.
type Client struct {
	Base string
	HTTP *http.Client
}

// NewClient returns a client for the relay at base, e.g.
// "https://relay.example.com".
func NewClient(base string) *Client {
	return &Client{Base: strings.TrimRight(base, "/"), HTTP: http.DefaultClient}
}

// ConnectionString returns the value participants share out of band to
// join session id.
func (c *Client) ConnectionString(id string) string {
	return c.Base + "/sessions/" + url.PathEscape(id)
}

// ParseConnectionString splits a connection string into the relay base URL
// and the session id.
func ParseConnectionString(s string) (base, id string, err error) {
	u, err := url.Parse(s)
	if err != nil {
		return "", "", errors.Wrap(err, "parsing connection string")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", "", errors.Errorf("connection string %q: unsupported scheme", s)
	}
	prefix, rawID, ok := strings.Cut(u.EscapedPath(), "/sessions/")
	if !ok || rawID == "" || strings.Contains(rawID, "/") {
		return "", "", errors.Errorf("connection string %q: no session id", s)
	}
	id, err = url.PathUnescape(rawID)
	if err != nil {
		return "", "", errors.Wrap(err, "parsing session id")
	}
	u.Path, u.RawPath, u.RawQuery, u.Fragment = "", "", "", ""
	return u.String() + prefix, id, nil
}

// StartSession creates a session for numSigners participants signing
// unsignedTransaction.
func (c *Client) StartSession(ctx context.Context, numSigners int, unsignedTransaction string) (*Status, error) {
	var out Status
	err := c.do(ctx, http.MethodPost, "/sessions", StartRequest{
		NumSigners:          numSigners,
		UnsignedTransaction: unsignedTransaction,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Join attaches to an existing session and returns its status, which
// carries the authoritative configuration.
func (c *Client) Join(ctx context.Context, id string) (*Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodPost, "/sessions/"+url.PathEscape(id)+"/join", struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Status returns the current state of session id.
func (c *Client) Status(ctx context.Context, id string) (*Status, error) {
	var out Status
	if err := c.do(ctx, http.MethodGet, "/sessions/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Submit adds value to round kind of session id.
func (c *Client) Submit(ctx context.Context, id string, kind Kind, value string) (*Status, error) {
	var out Status
	path := "/sessions/" + url.PathEscape(id) + "/" + string(kind)
	if err := c.do(ctx, http.MethodPost, path, SubmitRequest{Value: value}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) SubmitIdentity(ctx context.Context, id, identity string) error {
	_, err := c.Submit(ctx, id, KindIdentities, identity)
	return err
}

func (c *Client) SubmitCommitment(ctx context.Context, id, commitment string) error {
	_, err := c.Submit(ctx, id, KindCommitments, commitment)
	return err
}

func (c *Client) SubmitSignatureShare(ctx context.Context, id, share string) error {
	_, err := c.Submit(ctx, id, KindSignatureShares, share)
	return err
}

// EndSession tells the relay that the participant with identity is done
// with session id. Repeating it is harmless.
func (c *Client) EndSession(ctx context.Context, id, identity string) error {
	return c.do(ctx, http.MethodDelete, "/sessions/"+url.PathEscape(id), &FinishRequest{Identity: identity}, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(in); err != nil {
			return err
		}
		body = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrapf(err, "relay %s %s", method, path)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		var e errorResponse
		_ = json.NewDecoder(resp.Body).Decode(&e)
		msg := e.Error
		if msg == "" {
			msg = resp.Status
		}
		switch resp.StatusCode {
		case http.StatusNotFound:
			return errors.Wrap(ErrSessionNotFound, msg)
		case http.StatusConflict:
			return errors.Wrap(ErrSessionFull, msg)
		case http.StatusBadRequest:
			return errors.Wrap(ErrInvalidRequest, msg)
		}
		return errors.Errorf("relay %s %s: %s", method, path, msg)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
