// Package metrics exposes the small set of operational counters that
// describe the health of both stacks: frames moved, reconnects,
// rate-limited commands discarded unsent when a session is reset, and
// corrupt order-stream buffers.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	FramesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betdaq",
		Name:      "frames_received_total",
		Help:      "Number of frames received, by stack.",
	}, []string{"stack"})

	FramesSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betdaq",
		Name:      "frames_sent_total",
		Help:      "Number of frames sent, by stack.",
	}, []string{"stack"})

	Reconnects = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "betdaq",
		Name:      "reconnects_total",
		Help:      "Number of connection (re)establishments, by stack.",
	}, []string{"stack"})

	RateLimitedDrops = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betdaq",
		Name:      "mds_rate_limited_drops_total",
		Help:      "Number of rate-limited subscription commands discarded unsent when the session was reset.",
	})

	CorruptFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "betdaq",
		Name:      "lwps_corrupt_frames_total",
		Help:      "Number of times the order stream buffer was discarded after two consecutive parse failures.",
	})
)

func init() {
	prometheus.MustRegister(FramesReceived, FramesSent, Reconnects, RateLimitedDrops, CorruptFrames)
}
