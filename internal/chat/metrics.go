package chat

import "github.com/prometheus/client_golang/prometheus"

var (
	ConnectedSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connected_sessions",
		Help: "Number of usernames currently registered",
	})

	SessionsReplaced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "relay_sessions_replaced_total",
		Help: "Registrations that displaced a live session with the same username",
	})

	FramesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_frames_total",
		Help: "Inbound routed frames by outcome",
	}, []string{"type"})

	FrameProcessingDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "relay_frame_processing_seconds",
		Help:    "Time to route each inbound frame by outcome",
		Buckets: prometheus.DefBuckets,
	}, []string{"type"})
)

const (
	frameDelivered     = "delivered"
	frameForwardFailed = "forward_failed"
	frameNotFound      = "not_found"
	frameInvalid       = "invalid"
)

func init() {
	prometheus.MustRegister(ConnectedSessions)
	prometheus.MustRegister(SessionsReplaced)
	prometheus.MustRegister(FramesTotal)
	prometheus.MustRegister(FrameProcessingDuration)
}
