package googleid

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultTimeout         = 10 * time.Second
	defaultRefreshInterval = time.Minute
)

// certsTransport fronts requests for Google's signing keys. Fetches are
// limited to one per interval; in between, the last good key set is replayed.
// This bounds upstream calls when tokens carry unknown key ids.
type certsTransport struct {
	base    http.RoundTripper
	mirror  *url.URL
	limiter *rate.Limiter

	mu     sync.Mutex
	body   []byte
	header http.Header
}

func newCertsClient(client *http.Client, mirror string, every time.Duration) (*http.Client, error) {
	if every <= 0 {
		every = defaultRefreshInterval
	}
	t := &certsTransport{base: client.Transport, limiter: rate.NewLimiter(rate.Every(every), 1)}
	if t.base == nil {
		t.base = http.DefaultTransport
	}
	if mirror != "" && mirror != DefaultCertsURL {
		u, err := url.Parse(mirror)
		if err != nil {
			return nil, err
		}
		t.mirror = u
	}
	wrapped := *client
	wrapped.Transport = t
	return &wrapped, nil
}

func (t *certsTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.String() != DefaultCertsURL {
		return t.base.RoundTrip(req)
	}
	if !t.limiter.Allow() {
		if resp := t.replay(req); resp != nil {
			return resp, nil
		}
	}

	out := req
	if t.mirror != nil {
		out = req.Clone(req.Context())
		u := *t.mirror
		out.URL = &u
		out.Host = u.Host
	}
	resp, err := t.base.RoundTrip(out)
	if err != nil || resp.StatusCode != http.StatusOK {
		return resp, err
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, err
	}

	t.mu.Lock()
	t.body, t.header = body, resp.Header.Clone()
	t.mu.Unlock()

	resp.Body = io.NopCloser(bytes.NewReader(body))
	return resp, nil
}

func (t *certsTransport) replay(req *http.Request) *http.Response {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.body == nil {
		return nil
	}
	return &http.Response{
		Status:        "200 OK",
		StatusCode:    http.StatusOK,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        t.header.Clone(),
		Body:          io.NopCloser(bytes.NewReader(t.body)),
		ContentLength: int64(len(t.body)),
		Request:       req,
	}
}
