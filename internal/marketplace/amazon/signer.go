package amazon

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"
)

const (
	sigAlgorithm = "AWS4-HMAC-SHA256"
	amzDateFmt   = "20060102T150405Z"
	amzDayFmt    = "20060102"
)

// CryptoProvider supplies the digests SigV4 needs.
type CryptoProvider interface {
	SHA256Hex(data []byte) string
	HMACSHA256(key, data []byte) []byte
}

// StdCrypto implements CryptoProvider with crypto/sha256 and crypto/hmac.
type StdCrypto struct{}

// SHA256Hex returns the lowercase hex SHA-256 digest of data.
func (StdCrypto) SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HMACSHA256 returns the raw HMAC-SHA256 of data under key.
func (StdCrypto) HMACSHA256(key, data []byte) []byte {
	m := hmac.New(sha256.New, key)
	m.Write(data)
	return m.Sum(nil)
}

// Signer signs requests with AWS Signature Version 4.
type Signer struct {
	accessKey string
	secretKey string
	region    string
	service   string
	crypto    CryptoProvider
}

// NewSigner creates a Signer. A nil crypto uses StdCrypto.
func NewSigner(accessKey, secretKey, region, service string, crypto CryptoProvider) *Signer {
	if crypto == nil {
		crypto = StdCrypto{}
	}
	return &Signer{
		accessKey: accessKey,
		secretKey: secretKey,
		region:    region,
		service:   service,
		crypto:    crypto,
	}
}

// Sign sets X-Amz-Date and Authorization on req. body must be the exact
// payload sent. Host, Content-Type, Content-Encoding and every X-Amz-*
// header present are signed.
func (s *Signer) Sign(req *http.Request, body []byte, now time.Time) {
	now = now.UTC()
	amzDate := now.Format(amzDateFmt)
	day := now.Format(amzDayFmt)
	req.Header.Set("X-Amz-Date", amzDate)

	headers, signed := canonicalHeaders(req)
	creq := strings.Join([]string{
		req.Method,
		canonicalURI(req.URL),
		canonicalQuery(req.URL),
		headers,
		signed,
		s.crypto.SHA256Hex(body),
	}, "\n")

	scope := day + "/" + s.region + "/" + s.service + "/aws4_request"
	toSign := strings.Join([]string{
		sigAlgorithm,
		amzDate,
		scope,
		s.crypto.SHA256Hex([]byte(creq)),
	}, "\n")

	sig := hex.EncodeToString(s.crypto.HMACSHA256(s.SigningKey(day), []byte(toSign)))
	req.Header.Set("Authorization",
		sigAlgorithm+" Credential="+s.accessKey+"/"+scope+
			", SignedHeaders="+signed+
			", Signature="+sig)
}

// SigningKey derives the per-day signing key:
// HMAC(HMAC(HMAC(HMAC("AWS4"+secret, day), region), service), "aws4_request").
func (s *Signer) SigningKey(day string) []byte {
	k := s.crypto.HMACSHA256([]byte("AWS4"+s.secretKey), []byte(day))
	k = s.crypto.HMACSHA256(k, []byte(s.region))
	k = s.crypto.HMACSHA256(k, []byte(s.service))
	return s.crypto.HMACSHA256(k, []byte("aws4_request"))
}

func canonicalURI(u *url.URL) string {
	p := u.EscapedPath()
	if p == "" {
		return "/"
	}
	return p
}

func canonicalQuery(u *url.URL) string {
	q := u.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var parts []string
	for _, k := range keys {
		vals := slices.Clone(q[k])
		slices.Sort(vals)
		for _, v := range vals {
			parts = append(parts, awsEscape(k)+"="+awsEscape(v))
		}
	}
	return strings.Join(parts, "&")
}

func awsEscape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// canonicalHeaders returns the canonical header block (with its trailing
// newline) and the signed header list.
func canonicalHeaders(req *http.Request) (string, string) {
	host := req.Host
	if host == "" {
		host = req.URL.Host
	}
	vals := map[string]string{"host": host}
	for k, v := range req.Header {
		lk := strings.ToLower(k)
		if lk == "content-type" || lk == "content-encoding" || strings.HasPrefix(lk, "x-amz-") {
			vals[lk] = strings.Join(strings.Fields(strings.Join(v, ",")), " ")
		}
	}

	names := make([]string, 0, len(vals))
	for k := range vals {
		names = append(names, k)
	}
	slices.Sort(names)

	var b strings.Builder
	for _, n := range names {
		b.WriteString(n)
		b.WriteByte(':')
		b.WriteString(vals[n])
		b.WriteByte('\n')
	}
	return b.String(), strings.Join(names, ";")
}
