package marketdata

import "errors"

// ErrUpstream wraps any provider failure: transport errors, non-2xx
// statuses and undecodable bodies. The gateway is a transparent proxy, so
// callers get one opaque error class with the upstream detail in the
// message.
var ErrUpstream = errors.New("market data upstream failure")
