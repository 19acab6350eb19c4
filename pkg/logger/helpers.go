package logger

// LogRequest logs outbound HTTP request information
func LogRequest(method, url string, statusCode int, durationMs float64) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": durationMs,
	}

	if statusCode >= 200 && statusCode < 300 {
		GetLogger().DebugWithFields("HTTP request completed", fields)
	} else if statusCode >= 400 && statusCode < 500 {
		GetLogger().WarnWithFields("HTTP request client error", fields)
	} else if statusCode >= 500 {
		GetLogger().ErrorWithFields("HTTP request server error", fields)
	}
}

// LogResolve logs the outcome of a content resolution
func LogResolve(url, kind, strategy string, mediaCount int, err error) {
	fields := map[string]interface{}{
		"url":         url,
		"kind":        kind,
		"strategy":    strategy,
		"media_count": mediaCount,
	}

	log := GetLogger().WithFields(fields)

	if err != nil {
		log.WithError(err).Error("Resolution failed")
	} else if mediaCount > 0 {
		log.Info("Resolution completed")
	} else {
		log.Warn("Resolution yielded no media")
	}
}

// LogStrategy logs a single strategy attempt
func LogStrategy(strategy, url string, candidates int, err error) {
	fields := map[string]interface{}{
		"strategy":   strategy,
		"url":        url,
		"candidates": candidates,
	}

	log := GetLogger().WithFields(fields)

	if err != nil {
		log.WithError(err).Warn("Strategy failed, trying next")
	} else if candidates == 0 {
		log.Debug("Strategy yielded no candidates")
	} else {
		log.Info("Strategy succeeded")
	}
}

// LogRateLimit logs rate limiting events. retryAfterSeconds <= 0 means the
// wait is unknown (the process-wide budget was denied, not an upstream 429).
func LogRateLimit(scope, url string, retryAfterSeconds int) {
	fields := map[string]interface{}{
		"scope":  scope,
		"url":    url,
		"action": "rate_limited",
	}
	if retryAfterSeconds > 0 {
		fields["retry_after"] = retryAfterSeconds
	}

	GetLogger().WithFields(fields).Warn("Rate limit reached, backing off")
}
