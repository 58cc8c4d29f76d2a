package network

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

var ErrNoProxies = errors.New("no proxies available")

// maxBanShift caps repeated bans at eight times the base cool-down.
const maxBanShift = 3

// Rotator hands out proxies round-robin. A proxy that a job board answers
// with 403, 407 or 429 is benched; every further ban of the same proxy
// doubles its cool-down until a successful response resets it.
type Rotator struct {
	mu          sync.Mutex
	proxies     []*url.URL
	banDuration time.Duration
	bans        map[string]ban
	index       int
	now         func() time.Time
}

type ban struct {
	until   time.Time
	strikes int
}

func NewRotator(raw []string, banDuration time.Duration) (*Rotator, error) {
	r := &Rotator{
		banDuration: banDuration,
		bans:        map[string]ban{},
		now:         time.Now,
	}
	for _, proxy := range raw {
		proxy = strings.TrimSpace(proxy)
		if proxy == "" {
			continue
		}
		u, err := url.Parse(proxy)
		if err != nil {
			return nil, fmt.Errorf("parse proxy %q: %w", proxy, err)
		}
		switch u.Scheme {
		case "http", "https", "socks5":
		default:
			return nil, fmt.Errorf("proxy %q: unsupported scheme %q", proxy, u.Scheme)
		}
		if u.Host == "" {
			return nil, fmt.Errorf("proxy %q: missing host", proxy)
		}
		r.proxies = append(r.proxies, u)
	}
	return r, nil
}

// Next returns the next proxy that is not benched.
func (r *Rotator) Next() (*url.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for range r.proxies {
		proxy := r.proxies[r.index]
		r.index = (r.index + 1) % len(r.proxies)
		if b, ok := r.bans[proxy.String()]; !ok || !now.Before(b.until) {
			return proxy, nil
		}
	}
	return nil, ErrNoProxies
}

// Report records the status a proxy produced.
func (r *Rotator) Report(proxy *url.URL, status int) {
	if proxy == nil {
		return
	}
	key := proxy.String()

	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case status == 403 || status == 407 || status == 429:
		b := r.bans[key]
		b.strikes++
		factor := time.Duration(1) << min(b.strikes-1, maxBanShift)
		b.until = r.now().Add(r.banDuration * factor)
		r.bans[key] = b
	case status >= 200 && status < 400:
		delete(r.bans, key)
	}
}

// Available counts proxies that are not benched right now.
func (r *Rotator) Available() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	n := 0
	for _, proxy := range r.proxies {
		if b, ok := r.bans[proxy.String()]; !ok || !now.Before(b.until) {
			n++
		}
	}
	return n
}
