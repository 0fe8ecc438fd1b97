package gemini

import (
	"bufio"
	"crypto/sha256"
	"crypto/tls"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/gemview/internal/log"
)

const (
	dialTimeout   = 15 * time.Second
	maxHeaderSize = 1029 // status + space + 1024-byte meta + CRLF
	readChunkSize = 16 * 1024
)

// Client implements Fetcher over TLS. Certificate validity is recorded in
// CertInfo flags rather than enforced; trust decisions belong to the
// session (TOFU), so verification is disabled at the transport level.
type Client struct {
	timeout time.Duration
}

// NewClient creates a network client with the default dial timeout.
func NewClient() *Client {
	return &Client{timeout: dialTimeout}
}

// NewClientWithTimeout creates a network client with a custom dial
// timeout. Non-positive values fall back to the default.
func NewClientWithTimeout(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = dialTimeout
	}
	return &Client{timeout: timeout}
}

// Fetch starts a request for url. The exchange runs on its own goroutine;
// progress is reported through cb.
func (c *Client) Fetch(rawURL string, cb Callbacks) Request {
	req := &netRequest{
		id:      uuid.New(),
		url:     rawURL,
		cb:      cb,
		timeout: c.timeout,
		done:    make(chan struct{}),
	}
	req.resp.When = time.Now()
	go req.run()
	return req
}

type netRequest struct {
	id      uuid.UUID
	url     string
	cb      Callbacks
	timeout time.Duration

	mu       sync.Mutex
	resp     Response
	finished bool
	canceled bool
	conn     net.Conn

	done chan struct{}
}

func (r *netRequest) ID() uuid.UUID { return r.id }
func (r *netRequest) URL() string   { return r.url }

func (r *netRequest) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

func (r *netRequest) Status() StatusCode {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resp.Status
}

func (r *netRequest) LockResponse() (*Response, func()) {
	r.mu.Lock()
	return &r.resp, r.mu.Unlock
}

func (r *netRequest) CertificateInfo() CertInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resp.Cert
}

func (r *netRequest) Cancel() {
	r.mu.Lock()
	if r.canceled || r.finished {
		r.mu.Unlock()
		return
	}
	r.canceled = true
	conn := r.conn
	r.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
	<-r.done
}

func (r *netRequest) run() {
	defer close(r.done)

	addr := DialAddress(r.url)
	if addr == "" {
		r.fail(StatusTLSFailure, fmt.Sprintf("invalid URL: %s", r.url))
		return
	}

	dialer := &net.Dialer{Timeout: r.timeout}
	conn, err := tls.DialWithDialer(dialer, "tcp", addr, &tls.Config{
		ServerName:         Host(r.url),
		InsecureSkipVerify: true, //nolint:gosec // TOFU: validity is recorded, not enforced
		MinVersion:         tls.VersionTLS12,
	})
	if err != nil {
		r.fail(StatusTLSFailure, err.Error())
		return
	}
	defer func() { _ = conn.Close() }()

	r.mu.Lock()
	if r.canceled {
		r.mu.Unlock()
		return
	}
	r.conn = conn
	r.resp.Cert = captureCert(conn, Host(r.url))
	r.mu.Unlock()

	if _, err := fmt.Fprintf(conn, "%s\r\n", r.url); err != nil {
		r.fail(StatusTLSFailure, err.Error())
		return
	}

	rd := bufio.NewReaderSize(conn, readChunkSize)
	header, err := readHeader(rd)
	if err != nil {
		if r.wasCanceled() {
			return
		}
		r.fail(StatusTLSFailure, err.Error())
		return
	}
	status, meta, err := parseHeader(header)
	if err != nil {
		r.fail(StatusInvalidHeader, err.Error())
		return
	}

	r.mu.Lock()
	r.resp.Status = status
	r.resp.Meta = meta
	r.mu.Unlock()
	log.Debug(log.CatNet, "header received", "url", r.url, "status", int(status), "meta", meta)
	r.notifyUpdated()

	// Only success responses carry a body.
	if IsSuccess(status) {
		buf := make([]byte, readChunkSize)
		for {
			n, err := rd.Read(buf)
			if n > 0 {
				r.mu.Lock()
				r.resp.Body = append(r.resp.Body, buf[:n]...)
				r.mu.Unlock()
				r.notifyUpdated()
			}
			if err != nil {
				break
			}
		}
	}

	r.mu.Lock()
	if r.canceled {
		r.mu.Unlock()
		return
	}
	r.finished = true
	size := len(r.resp.Body)
	r.mu.Unlock()
	log.Debug(log.CatNet, "request finished", "url", r.url, "bytes", size)
	if r.cb.Finished != nil {
		r.cb.Finished(r.id)
	}
}

func (r *netRequest) wasCanceled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.canceled
}

func (r *netRequest) fail(code StatusCode, detail string) {
	r.mu.Lock()
	if r.canceled {
		r.mu.Unlock()
		return
	}
	r.resp.Status = code
	r.resp.Meta = detail
	r.finished = true
	r.mu.Unlock()
	log.Warn(log.CatNet, "request failed", "url", r.url, "status", int(code), "detail", detail)
	if r.cb.Finished != nil {
		r.cb.Finished(r.id)
	}
}

func (r *netRequest) notifyUpdated() {
	if r.cb.Updated != nil {
		r.cb.Updated(r.id)
	}
}

func readHeader(rd *bufio.Reader) (string, error) {
	line, err := rd.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading response header: %w", err)
	}
	if len(line) > maxHeaderSize {
		return "", fmt.Errorf("response header exceeds %d bytes", maxHeaderSize)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func parseHeader(header string) (StatusCode, string, error) {
	if len(header) < 2 {
		return StatusNone, "", fmt.Errorf("response header too short: %q", header)
	}
	code, err := strconv.Atoi(header[:2])
	if err != nil {
		return StatusNone, "", fmt.Errorf("malformed status code in %q", header)
	}
	meta := strings.TrimSpace(header[2:])
	return StatusCode(code), meta, nil
}

func captureCert(conn *tls.Conn, host string) CertInfo {
	state := conn.ConnectionState()
	if len(state.PeerCertificates) == 0 {
		return CertInfo{}
	}
	cert := state.PeerCertificates[0]
	sum := sha256.Sum256(cert.Raw)

	info := CertInfo{
		Fingerprint: sum[:],
		Subject:     cert.Subject.CommonName,
		ValidUntil:  cert.NotAfter,
		Flags:       CertAvailable | CertHaveFingerprint,
	}
	now := time.Now()
	if now.After(cert.NotBefore) && now.Before(cert.NotAfter) {
		info.Flags |= CertTimeVerified
	}
	if cert.VerifyHostname(host) == nil {
		info.Flags |= CertDomainVerified
	}
	return info
}
