// Package defaults holds the timeouts, limits and breaker settings shared by
// cropwise and cropwised.
//
// Values are tuned together. A weather or market lookup (ProviderTimeout)
// and a remote prediction (ModelPredictTimeout) both fit inside
// RecommendHandlerTimeout, which fits inside ServerWriteTimeout, so a slow
// upstream still leaves time to answer with fallback data:
//
//	ctx, cancel := context.WithTimeout(ctx, defaults.ProviderTimeout)
//	defer cancel()
package defaults
