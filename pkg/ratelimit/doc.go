// Package ratelimit provides the process-wide outbound request budget for
// the resolution gateway.
//
// The target site actively rate-limits scrapers, so every outbound dispatch
// must consult a shared budget before touching the network. The budget is a
// sliding window: at most N requests within the window size, with old
// requests pruned as the window moves.
//
// Interface:
//
// All rate limiters implement the Limiter interface:
//   - Allow() bool - Check if a request is allowed (and record it)
//   - Wait(ctx) error - Block until a request is allowed or ctx is done
//   - Remaining() int - Requests left in the current window
//   - Reset() - Reset the limiter state
//
// Usage:
//
//	// 30 requests per minute, shared across all resolutions
//	limiter := ratelimit.NewSlidingWindow(30, time.Minute)
//
//	if limiter.Allow() {
//	    // Proceed with request
//	} else {
//	    // Surface RateLimited without dispatching
//	}
package ratelimit
