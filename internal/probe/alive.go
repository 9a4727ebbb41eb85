package probe

import (
	"context"
	"net/http"
)

// ConsoleIsAlive reports whether an address answers on its system-info
// endpoint. Any HTTP response counts, 401 included; only connection
// failures and timeouts mean dead. Unlike FetchSystemInfo the body is
// never inspected.
func ConsoleIsAlive(ctx context.Context, client *http.Client, address string) bool {
	p := &Prober{BaseURL: "https://" + address, HTTPClient: client}
	return p.IsAlive(ctx)
}

// IsAlive reports whether the prober's device answers over HTTP at all.
func (p *Prober) IsAlive(ctx context.Context) bool {
	resp, err := p.get(ctx, SystemPath)
	if err != nil {
		return false
	}
	drain(resp)
	return true
}
