package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// Every outbound call shares one fixed budget; a timeout is terminal for
// the calling operation, no retry is attempted.
const callTimeout = 5 * time.Second

// Error sub-kinds. Timeout and connection failures are distinguished for
// diagnostics only; callers treat every TransportError the same way.
const (
	KindStatus     = "status"
	KindTimeout    = "timeout"
	KindConnection = "connection"
)

// TransportError reports a failed call to a peer service: an unexpected
// HTTP or envelope status, a timeout, or a connection failure.
type TransportError struct {
	Service string
	Status  int
	Kind    string
	Err     error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindTimeout:
		return fmt.Sprintf("%s service call timed out", e.Service)
	case KindConnection:
		return fmt.Sprintf("cannot connect to %s service: %v", e.Service, e.Err)
	default:
		return fmt.Sprintf("%s service returned status %d", e.Service, e.Status)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// Both peer services wrap payloads in the same envelope convention;
// code==200 signals success.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type caller struct {
	base    string
	service string
	hc      *http.Client
}

func newCaller(baseURL, service string) *caller {
	return &caller{
		base:    strings.TrimRight(baseURL, "/"),
		service: service,
		hc:      &http.Client{Timeout: callTimeout},
	}
}

// get fetches an entity. A nil, nil return means not found (HTTP 404, or
// HTTP 200 with a missing/null data field) as opposed to a transport error.
func (c *caller) get(ctx context.Context, path string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return nil, &TransportError{Service: c.service, Kind: KindConnection, Err: err}
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.requestError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Service: c.service, Kind: KindConnection, Err: err}
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var env envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, &TransportError{Service: c.service, Kind: KindConnection, Err: err}
		}
		if env.Code == http.StatusOK && !rawIsNull(env.Data) {
			return env.Data, nil
		}
		return nil, nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, &TransportError{Service: c.service, Status: resp.StatusCode, Kind: KindStatus}
	}
}

// put sends a JSON payload and requires a success envelope back.
func (c *caller) put(ctx context.Context, path string, payload any) error {
	buf, err := json.Marshal(payload)
	if err != nil {
		return &TransportError{Service: c.service, Kind: KindConnection, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.base+path, bytes.NewReader(buf))
	if err != nil {
		return &TransportError{Service: c.service, Kind: KindConnection, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return c.requestError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Service: c.service, Kind: KindConnection, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return &TransportError{Service: c.service, Status: resp.StatusCode, Kind: KindStatus}
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return &TransportError{Service: c.service, Kind: KindConnection, Err: err}
	}
	if env.Code != http.StatusOK {
		return &TransportError{Service: c.service, Status: env.Code, Kind: KindStatus}
	}
	return nil
}

func (c *caller) requestError(err error) error {
	kind := KindConnection
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		kind = KindTimeout
	}
	return &TransportError{Service: c.service, Kind: kind, Err: err}
}

func rawIsNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(raw, []byte("null"))
}
