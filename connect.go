package jira

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// connectTokenLifetime is how long a Connect JWT stays valid. Atlassian
// recommends short-lived tokens; each request gets a fresh one.
const connectTokenLifetime = 3 * time.Minute

// connectJWT signs an Atlassian Connect JWT for the request, carrying the
// app key as issuer and the canonical query-string hash (qsh) binding the
// token to this exact method, path, and query.
func (c *Client) connectJWT(req *http.Request) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"iss": c.cfg.Auth.ConnectIssuer,
		"iat": now.Unix(),
		"exp": now.Add(connectTokenLifetime).Unix(),
		"qsh": canonicalQueryHash(req),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(c.cfg.Auth.ConnectSecret))
}

// canonicalQueryHash computes the Connect qsh claim: the SHA-256 of
// "METHOD&path&canonical-query", with query keys sorted, values sorted and
// joined by commas, and both percent-encoded.
func canonicalQueryHash(req *http.Request) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(req.Method))
	b.WriteByte('&')

	path := req.URL.Path
	if path == "" {
		path = "/"
	}
	b.WriteString(path)
	b.WriteByte('&')

	q := req.URL.Query()
	keys := make([]string, 0, len(q))
	for k := range q {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	params := make([]string, 0, len(keys))
	for _, k := range keys {
		values := append([]string(nil), q[k]...)
		sort.Strings(values)
		encoded := make([]string, len(values))
		for i, v := range values {
			encoded[i] = canonicalEscape(v)
		}
		params = append(params, canonicalEscape(k)+"="+strings.Join(encoded, ","))
	}
	b.WriteString(strings.Join(params, "&"))

	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// canonicalEscape percent-encodes per RFC 3986, which the qsh algorithm
// requires. url.QueryEscape is form encoding (space as "+", "~" escaped) and
// would hash a string Jira never reproduces.
func canonicalEscape(s string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
	return strings.ReplaceAll(escaped, "%7E", "~")
}
