package stats

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/obrienkd/ethermac"
)

// LiveObserver is an [ethermac.Observer] exporting per-event signals as
// they happen, complementing [Exporter]'s periodic snapshot of the
// cumulative counters.
type LiveObserver struct {
	collisionsLive prometheus.Gauge
	backoffSlots   prometheus.Histogram
	dropsByReason  *prometheus.CounterVec
}

// NewLiveObserver registers a LiveObserver's metrics under subsystem name.
func NewLiveObserver(reg prometheus.Registerer, name string) *LiveObserver {
	factory := promauto.With(reg)
	return &LiveObserver{
		collisionsLive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "ethermac", Subsystem: name, Name: "collision_active",
			Help: "1 while the arbiter considers the channel collided, 0 otherwise.",
		}),
		backoffSlots: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ethermac", Subsystem: name, Name: "backoff_slots",
			Help:    "Distribution of drawn backoff slot counts.",
			Buckets: prometheus.ExponentialBuckets(1, 2, 11), // 1..1024
		}),
		dropsByReason: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ethermac", Subsystem: name, Name: "drop_events_total",
			Help: "Drop events observed live, by reason.",
		}, []string{"reason"}),
	}
}

func (o *LiveObserver) OnCollision(active bool) {
	if active {
		o.collisionsLive.Set(1)
	} else {
		o.collisionsLive.Set(0)
	}
}

func (o *LiveObserver) OnBackoffSlotsGenerated(k int) {
	o.backoffSlots.Observe(float64(k))
}

func (o *LiveObserver) OnPacketSentToLower(frame *ethermac.Frame)       {}
func (o *LiveObserver) OnPacketSentFinished(frame *ethermac.Frame)      {}
func (o *LiveObserver) OnPacketReceivedFromLower(frame *ethermac.Frame) {}

func (o *LiveObserver) OnPacketDropped(drop ethermac.DropSignal) {
	o.dropsByReason.WithLabelValues(string(drop.Reason)).Inc()
}

var _ ethermac.Observer = (*LiveObserver)(nil)
