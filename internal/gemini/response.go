package gemini

import "time"

// CertFlags records what could be established about the server certificate.
type CertFlags int

const (
	CertAvailable CertFlags = 1 << iota
	CertHaveFingerprint
	CertTimeVerified
	CertDomainVerified
	CertTrusted
)

// Has reports whether all the given flag bits are set.
func (f CertFlags) Has(bits CertFlags) bool {
	return f&bits == bits
}

// CertInfo is the certificate metadata captured from one response.
type CertInfo struct {
	Fingerprint []byte
	Subject     string
	ValidUntil  time.Time
	Flags       CertFlags
}

// Response is the accumulated state of one network exchange: the parsed
// header, the body received so far, and certificate metadata. The body
// grows while the request streams; readers access it only through
// Request.LockResponse.
type Response struct {
	Status StatusCode
	Meta   string
	Body   []byte
	Cert   CertInfo
	When   time.Time
}

// Clone returns a deep copy safe to retain after the response lock is
// released (used when caching a completed response).
func (r *Response) Clone() *Response {
	dup := *r
	dup.Body = append([]byte(nil), r.Body...)
	dup.Cert.Fingerprint = append([]byte(nil), r.Cert.Fingerprint...)
	return &dup
}
