// Package collectors holds the enrichment units of the investigation
// pipeline. Each collector queries one class of external source through its
// injected provider and persists findings for an investigation id. Collectors
// are failure-isolated: a failed fetch is logged and yields zero findings,
// never an error that could abort the fan-out.
package collectors

import (
	"encoding/json"
	"net/url"

	"golang.org/x/net/publicsuffix"
)

func rawJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return b
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// registrableDomain reduces a URL to its eTLD+1, falling back to the raw
// host when the public suffix list has no answer.
func registrableDomain(rawurl string) string {
	u, err := url.Parse(rawurl)
	if err != nil {
		return ""
	}
	host := u.Hostname()
	registrable, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return registrable
}
