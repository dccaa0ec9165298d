// Package metrics exposes live ascent telemetry as Prometheus gauges,
// grounded on the pack's promauto singleton idiom
// (PossumXI-Asgard_Arobi/Pricilla/internal/metrics/prometheus.go).
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gauges updated once per integration step.
type Metrics struct {
	Altitude         prometheus.Gauge
	Speed            prometheus.Gauge
	DynamicPressure  prometheus.Gauge
	TimeToGo         prometheus.Gauge
	TerminationCode  prometheus.Gauge
}

var (
	global     *Metrics
	globalOnce sync.Once
)

// Get returns the global ascent metrics instance, registering it on first
// use.
func Get() *Metrics {
	globalOnce.Do(func() {
		global = &Metrics{
			Altitude: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "ascent", Name: "altitude_meters",
				Help: "Current altitude above the planet surface",
			}),
			Speed: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "ascent", Name: "inertial_speed_mps",
				Help: "Current inertial speed magnitude",
			}),
			DynamicPressure: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "ascent", Name: "dynamic_pressure_pa",
				Help: "Current dynamic pressure",
			}),
			TimeToGo: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "ascent", Name: "upfg_tgo_seconds",
				Help: "UPFG's current time-to-go estimate",
			}),
			TerminationCode: promauto.NewGauge(prometheus.GaugeOpts{
				Namespace: "ascent", Name: "termination_code",
				Help: "Most recent phase termination code",
			}),
		}
	})
	return global
}

// RecordStep updates the live gauges from one integration step.
func (m *Metrics) RecordStep(altitude, speed, dynamicPressure, tgo float64) {
	m.Altitude.Set(altitude)
	m.Speed.Set(speed)
	m.DynamicPressure.Set(dynamicPressure)
	m.TimeToGo.Set(tgo)
}

// RecordTermination updates the termination-code gauge at phase end.
func (m *Metrics) RecordTermination(code int) {
	m.TerminationCode.Set(float64(code))
}
