//go:build !windows

package stdlib

import "time"

var hiresEpoch = time.Now()

// hiresNow returns a high-resolution monotonic timestamp in nanoseconds.
func hiresNow() int64 {
	return time.Since(hiresEpoch).Nanoseconds()
}

// clockSeconds anchors the monotonic reading to the wall clock at startup.
func clockSeconds() float64 {
	return float64(hiresEpoch.UnixNano()+hiresNow()) / 1e9
}
