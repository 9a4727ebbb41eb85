// Package probe interrogates a device's HTTPS management API.
//
// Two independent probes run per candidate address: a service-presence
// check against the Protect proxy and a system-info fetch. Devices present
// self-signed or vendor-pinned certificates, so verification is disabled.
// Probes never fail loudly; every outcome is an explicit Status so a dead
// or misbehaving device costs the caller nothing but missing fields.
package probe

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bdraco/unifi-discovery/internal/device"
	"github.com/bdraco/unifi-discovery/internal/logging"
)

const (
	// ProtectPath is the Protect service-status endpoint. Only the
	// response status code is consulted.
	ProtectPath = "/proxy/protect/api"

	// SystemPath is the system-information endpoint.
	SystemPath = "/api/system"

	// DefaultTimeout bounds each request; it is the only thing keeping a
	// scan from hanging on a half-dead device.
	DefaultTimeout = 10 * time.Second
)

// Status classifies a probe outcome.
type Status int

const (
	// StatusSuccess is a 2xx response with a usable body.
	StatusSuccess Status = iota
	// StatusUnauthorized is a 401; the endpoint exists but wants credentials.
	StatusUnauthorized
	// StatusUnreachable is a connection failure or timeout.
	StatusUnreachable
	// StatusMalformed is any other reachable outcome: unexpected status,
	// wrong content type, or an undecodable body.
	StatusMalformed
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusUnauthorized:
		return "unauthorized"
	case StatusUnreachable:
		return "unreachable"
	case StatusMalformed:
		return "malformed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Reachable reports whether the device answered over HTTP at all.
func (s Status) Reachable() bool {
	return s != StatusUnreachable
}

// SystemInfo mirrors the fields of the /api/system document we consume.
type SystemInfo struct {
	Hardware struct {
		Shortname string `json:"shortname"`
	} `json:"hardware"`
	Name                string `json:"name"`
	MAC                 string `json:"mac"`
	DirectConnectDomain string `json:"directConnectDomain"`
	IsSSOEnabled        *bool  `json:"isSsoEnabled"`
	IsSingleUser        *bool  `json:"isSingleUser"`
}

// ServiceResult is the outcome of the service-presence probe.
type ServiceResult struct {
	Status Status
}

// Present reports whether the probe concluded the service is running. Only
// meaningful when the status is reachable.
func (r ServiceResult) Present() bool {
	return r.Status == StatusUnauthorized
}

// SystemInfoResult is the outcome of the system-info probe. Info is
// non-nil only for StatusSuccess.
type SystemInfoResult struct {
	Status Status
	Info   *SystemInfo
}

// Result bundles both probe outcomes for one address.
type Result struct {
	Protect ServiceResult
	System  SystemInfoResult
}

// Reachable reports whether either probe got an HTTP response.
func (r Result) Reachable() bool {
	return r.Protect.Status.Reachable() || r.System.Status.Reachable()
}

// Prober issues management API probes against one device.
type Prober struct {
	// BaseURL is the scheme and host, e.g. "https://192.168.212.1".
	BaseURL string

	// HTTPClient is the underlying client. The default skips certificate
	// verification and enforces DefaultTimeout.
	HTTPClient *http.Client
}

// NewProber creates a prober for a device address.
func NewProber(address string) *Prober {
	return NewProberWithURL("https://" + address)
}

// NewProberWithURL creates a prober with a full base URL.
func NewProberWithURL(baseURL string) *Prober {
	return &Prober{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: NewHTTPClient(DefaultTimeout),
	}
}

// NewHTTPClient builds the client used for device probes: certificate
// verification off, no keep-alive pooling worth keeping for one-shot scans.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig:   &tls.Config{InsecureSkipVerify: true},
			DisableKeepAlives: true,
		},
	}
}

// Probe runs both probes. Each recovers its own failures; one failing
// never affects the other.
func (p *Prober) Probe(ctx context.Context) Result {
	var result Result

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		result.Protect = p.ProbeProtect(ctx)
		return nil
	})
	g.Go(func() error {
		result.System = p.FetchSystemInfo(ctx)
		return nil
	})
	_ = g.Wait()

	return result
}

// ProbeProtect checks for the Protect service. A 401 means the service is
// present behind authentication; any other reachable status means absent.
func (p *Prober) ProbeProtect(ctx context.Context) ServiceResult {
	resp, err := p.get(ctx, ProtectPath)
	if err != nil {
		logging.Debug("protect probe unreachable",
			zap.String("url", p.BaseURL+ProtectPath), zap.Error(err))
		return ServiceResult{Status: StatusUnreachable}
	}
	defer drain(resp)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return ServiceResult{Status: StatusUnauthorized}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return ServiceResult{Status: StatusSuccess}
	default:
		return ServiceResult{Status: StatusMalformed}
	}
}

// FetchSystemInfo retrieves and decodes the system-info document.
func (p *Prober) FetchSystemInfo(ctx context.Context) SystemInfoResult {
	resp, err := p.get(ctx, SystemPath)
	if err != nil {
		logging.Debug("system info unreachable",
			zap.String("url", p.BaseURL+SystemPath), zap.Error(err))
		return SystemInfoResult{Status: StatusUnreachable}
	}
	defer drain(resp)

	if resp.StatusCode == http.StatusUnauthorized {
		return SystemInfoResult{Status: StatusUnauthorized}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SystemInfoResult{Status: StatusMalformed}
	}

	mediaType, _, err := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		logging.Debug("system info returned non-JSON",
			zap.String("url", p.BaseURL+SystemPath),
			zap.String("content_type", resp.Header.Get("Content-Type")))
		return SystemInfoResult{Status: StatusMalformed}
	}

	var info SystemInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return SystemInfoResult{Status: StatusMalformed}
	}
	return SystemInfoResult{Status: StatusSuccess, Info: &info}
}

func (p *Prober) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.BaseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return p.HTTPClient.Do(req)
}

func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	_ = resp.Body.Close()
}

// Apply merges the probe outcomes into a record. HTTP facts win for the
// fields they set, except the hardware address which only fills a gap left
// by the wire.
func (r Result) Apply(d *device.Device) {
	if r.Protect.Status.Reachable() {
		d.SetService(device.ServiceProtect, r.Protect.Present())
	}

	if r.System.Status != StatusSuccess || r.System.Info == nil {
		return
	}
	info := r.System.Info
	if info.Hardware.Shortname != "" {
		d.Platform = info.Hardware.Shortname
	}
	if info.Name != "" {
		d.Hostname = strings.ReplaceAll(info.Name, " ", "-")
	}
	if d.HWAddr == "" && info.MAC != "" {
		if mac := device.FormatMAC(info.MAC); mac != "" {
			d.HWAddr = mac
		}
	}
	if info.DirectConnectDomain != "" {
		d.DirectConnectDomain = info.DirectConnectDomain
	}
	if info.IsSSOEnabled != nil {
		d.IsSSOEnabled = info.IsSSOEnabled
	}
	if info.IsSingleUser != nil {
		d.IsSingleUser = info.IsSingleUser
	}
}
