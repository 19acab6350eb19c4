// Package resolver orchestrates content resolution: it classifies an input
// URL, attempts the structured primary lookup, and walks the ordered fallback
// scrape strategies until one of them yields direct media URLs.
package resolver
