// Command macsim runs a small Ethernet MAC collision-domain simulation
// between two stations and prints a summary of the run.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/obrienkd/ethermac"
	"github.com/obrienkd/ethermac/stats"
)

// fifoQueue is the simplest usable ethermac.TxQueue.
type fifoQueue struct {
	frames []*ethermac.Frame
}

func (q *fifoQueue) Enqueue(f *ethermac.Frame) { q.frames = append(q.frames, f) }

func (q *fifoQueue) Dequeue() (*ethermac.Frame, bool) {
	if len(q.frames) == 0 {
		return nil, false
	}
	f := q.frames[0]
	q.frames = q.frames[1:]
	return f, true
}

func (q *fifoQueue) Len() int { return len(q.frames) }

// loggingUpper delivers received frames to the logger.
type loggingUpper struct {
	name string
}

func (u *loggingUpper) Deliver(f *ethermac.Frame) {
	log.Infof("%s: delivered frame from %s (%d bytes payload)", u.name, f.Header.Src, f.DataLength())
}

// station bundles one MAC's constructor dependencies.
type station struct {
	name string
	addr ethermac.MACAddress
	mac  *ethermac.MAC
}

func newStation(
	name string, addr ethermac.MACAddress, fullDuplex bool,
	channel ethermac.ChannelDescriptor, clock ethermac.Clock,
	out ethermac.PhysicalOut, observer ethermac.Observer, seed int64,
) *station {
	mac := ethermac.NewMAC(ethermac.Config{
		LocalMAC:   addr,
		FullDuplex: fullDuplex,
		Channel:    channel,
		Clock:      clock,
		Logger:     log.Log,
		Queue:      &fifoQueue{},
		Out:        out,
		Upper:      &loggingUpper{name: name},
		RNG:        rand.New(rand.NewSource(seed)),
		Observer:   observer,
	})
	return &station{name: name, addr: addr, mac: mac}
}

func main() {
	frameCount := flag.Int("frames", 500, "frames each station submits")
	fullDuplex := flag.Bool("full-duplex", false, "run full-duplex instead of half-duplex CSMA/CD")
	payloadBytes := flag.Int("payload", 64, "payload bytes per submitted frame")
	metricsAddr := flag.String("metrics-addr", "", "if set, serve Prometheus metrics here after the run completes (blocks)")
	flag.Parse()

	log.SetLevel(log.InfoLevel)

	channel := ethermac.GigabitHalfDuplex
	if *fullDuplex {
		channel = ethermac.TenGigabitFullDuplexOnly
	}

	clock := ethermac.NewSimClock()
	wire := ethermac.NewWire(clock)

	registry := prometheus.NewRegistry()
	liveA := stats.NewLiveObserver(registry, "station_a")
	liveB := stats.NewLiveObserver(registry, "station_b")

	outA, epA := wire.NewEndpoint(channel.MaxPropagationDelay / 2)
	outB, epB := wire.NewEndpoint(channel.MaxPropagationDelay / 2)

	addrA := ethermac.MACAddress{0x02, 0, 0, 0, 0, 0x01}
	addrB := ethermac.MACAddress{0x02, 0, 0, 0, 0, 0x02}

	a := newStation("A", addrA, *fullDuplex, channel, clock, outA, liveA, 1)
	b := newStation("B", addrB, *fullDuplex, channel, clock, outB, liveB, 2)
	epA.Bind(a.mac)
	epB.Bind(b.mac)

	payload := make([]byte, *payloadBytes)
	for i := 0; i < *frameCount; i++ {
		a.mac.Submit(&ethermac.Frame{
			Header: ethermac.Header{Dest: addrB, TypeOrLength: 0x0800},
			Data:   append([]byte(nil), payload...),
		})
		b.mac.Submit(&ethermac.Frame{
			Header: ethermac.Header{Dest: addrA, TypeOrLength: 0x0800},
			Data:   append([]byte(nil), payload...),
		})
	}

	clock.Run()

	finish := clock.Now()
	exporterA := stats.NewExporter(registry, "station_a")
	exporterB := stats.NewExporter(registry, "station_b")
	countersA, countersB := a.mac.Counters(), b.mac.Counters()
	countersA.RunDuration = time.Duration(finish)
	countersB.RunDuration = time.Duration(finish)
	exporterA.Observe(countersA)
	exporterB.Observe(countersB)

	fmt.Printf("station,frames_sent,frames_received,collisions,drops,idle%%,util%%,collision%%\n")
	for _, row := range []struct {
		name string
		c    ethermac.Counters
	}{{"A", countersA}, {"B", countersB}} {
		fmt.Printf("%s,%d,%d,%d,%d,%.2f,%.2f,%.2f\n",
			row.name, row.c.FramesSent, row.c.FramesReceived, row.c.Collisions, row.c.TotalDrops(),
			row.c.ChannelIdlePercent(), row.c.ChannelUtilizationPercent(), row.c.ChannelCollisionPercent())
	}

	if *metricsAddr != "" {
		http.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		log.Infof("serving metrics on %s", *metricsAddr)
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			log.WithError(err).Fatal("http.ListenAndServe")
		}
	}
}
