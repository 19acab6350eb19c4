package fetch

import (
	"math/rand"
	"sync"
)

// Variant selects a header/URL-shaping profile for a dispatch
type Variant string

const (
	VariantStandard Variant = "standard"
	VariantMobile   Variant = "mobile"
	VariantEmbed    Variant = "embed"
)

// desktopHeaderPool holds realistic desktop browser header sets. The standard
// variant rotates through these so consecutive attempts never present the
// same fingerprint.
var desktopHeaderPool = []map[string]string{
	{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
		"Sec-Fetch-Dest":  "document",
		"Sec-Fetch-Mode":  "navigate",
		"Sec-Fetch-Site":  "none",
	},
	{
		"User-Agent":      "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
	},
	{
		"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64; rv:122.0) Gecko/20100101 Firefox/122.0",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.5",
		"DNT":             "1",
	},
	{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
		"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8",
		"Accept-Language": "en-US,en;q=0.9",
	},
}

// mobileHeaders is the fixed header set of the mobile variant
var mobileHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Mobile/15E148 Safari/604.1",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
}

// embedHeaders keeps the embed variant lightweight; embed pages are served
// to arbitrary referring sites and tolerate a minimal fingerprint
var embedHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
	"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.google.com/",
}

// headerRotation hands out desktop header sets, never repeating the previous
// pick when the pool allows it
type headerRotation struct {
	mu   sync.Mutex
	last int
}

func newHeaderRotation() *headerRotation {
	return &headerRotation{last: -1}
}

// next returns the next desktop header set
func (hr *headerRotation) next() map[string]string {
	hr.mu.Lock()
	defer hr.mu.Unlock()

	if len(desktopHeaderPool) == 1 {
		hr.last = 0
		return desktopHeaderPool[0]
	}

	idx := rand.Intn(len(desktopHeaderPool))
	for idx == hr.last {
		idx = rand.Intn(len(desktopHeaderPool))
	}
	hr.last = idx
	return desktopHeaderPool[idx]
}
