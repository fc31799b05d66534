// Package stats exports an [ethermac.MAC]'s statistics to Prometheus and
// summarizes channel-utilization samples gathered over a run.
//
// [Exporter] holds the counter-snapshot gauges, built once via
// [NewExporter] and set by [Exporter.Observe]; [LiveObserver] holds the
// per-event metrics.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/obrienkd/ethermac"
)

// Exporter mirrors an [ethermac.Counters] snapshot as Prometheus gauges.
// Gauges, not counters, because ethermac.Counters is already the
// cumulative source of truth; Exporter just samples it.
type Exporter struct {
	framesSent     prometheus.Gauge
	bytesSent      prometheus.Gauge
	framesReceived prometheus.Gauge
	bytesReceived  prometheus.Gauge
	collisions     prometheus.Gauge
	backoffs       prometheus.Gauge
	pauseSent      prometheus.Gauge
	pauseReceived  prometheus.Gauge
	drops          *prometheus.GaugeVec
	channelIdle    prometheus.Gauge
	channelUtil    prometheus.Gauge
	channelColl    prometheus.Gauge
}

// NewExporter registers one Exporter's metrics under subsystem name against
// reg (pass prometheus.DefaultRegisterer, or a test-local registry).
func NewExporter(reg prometheus.Registerer, name string) *Exporter {
	factory := promauto.With(reg)
	return &Exporter{
		framesSent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "frames_sent_total",
			Help: "Frames successfully transmitted.",
		}),
		bytesSent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "bytes_sent_total",
			Help: "Bytes successfully transmitted, including header and FCS.",
		}),
		framesReceived: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "frames_received_total",
			Help: "Frames successfully received and accepted.",
		}),
		bytesReceived: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "bytes_received_total",
			Help: "Bytes successfully received and accepted.",
		}),
		collisions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "collisions_total",
			Help: "Collisions detected by the arbiter.",
		}),
		backoffs: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "backoffs_total",
			Help: "Backoff slot counts drawn.",
		}),
		pauseSent: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "pause_frames_sent_total",
			Help: "IEEE 802.3x PAUSE frames sent.",
		}),
		pauseReceived: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "pause_frames_received_total",
			Help: "IEEE 802.3x PAUSE frames received.",
		}),
		drops: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "drops_total",
			Help: "Dropped frames by reason.",
		}, []string{"reason"}),
		channelIdle: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "channel_idle_percent",
			Help: "Percentage of the run the channel was observed idle.",
		}),
		channelUtil: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "channel_utilization_percent",
			Help: "Percentage of the run spent in successful transmission/reception.",
		}),
		channelColl: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "channel_collision_percent",
			Help: "Percentage of the run spent in collision.",
		}),
	}
}

// Observe samples c into the exporter's gauges.
func (e *Exporter) Observe(c ethermac.Counters) {
	e.framesSent.Set(float64(c.FramesSent))
	e.bytesSent.Set(float64(c.BytesSent))
	e.framesReceived.Set(float64(c.FramesReceived))
	e.bytesReceived.Set(float64(c.BytesReceived))
	e.collisions.Set(float64(c.Collisions))
	e.backoffs.Set(float64(c.Backoffs))
	e.pauseSent.Set(float64(c.PauseFramesSent))
	e.pauseReceived.Set(float64(c.PauseFramesReceived))

	e.drops.WithLabelValues(string(ethermac.DropInterfaceDown)).Set(float64(c.DropsInterfaceDown))
	e.drops.WithLabelValues(string(ethermac.DropRetryLimitReached)).Set(float64(c.DropsRetryLimitReached))
	e.drops.WithLabelValues(string(ethermac.DropIncorrectlyReceived)).Set(float64(c.DropsIncorrectlyReceived))
	e.drops.WithLabelValues(string(ethermac.DropNotAddressedToUs)).Set(float64(c.DropsNotAddressedToUs))

	e.channelIdle.Set(c.ChannelIdlePercent())
	e.channelUtil.Set(c.ChannelUtilizationPercent())
	e.channelColl.Set(c.ChannelCollisionPercent())
}
