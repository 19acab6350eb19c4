// Package instagram provides URL classification and the structured primary
// lookup against the target service's own data model.
//
// Classification maps a raw content URL to a kind (profile, post, reel,
// story) and its extraction token: a shortcode for the post family, a
// username for profiles. The lookup client resolves tokens to typed media
// objects, including the ordered children of multi-item posts.
//
// The client is the primary strategy only. When a lookup fails for any
// reason other than confirmed privacy, the orchestrator in pkg/resolver
// cascades to the fallback scrapers in pkg/fetch.
package instagram
