package metrics_config

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/dominant-strategies/quai-evm/log"
)

// DefaultAddress is the listen address of the metrics endpoint.
const DefaultAddress = ":2112"

// enabled is checked by the constructor functions for all of the
// standard metrics. If it is false, the constructors return nil and callers
// skip recording.
var enabled = true

// EnableMetrics turns metric collection on.
func EnableMetrics() {
	enabled = true
}

// DisableMetrics turns metric collection off for metrics created afterwards.
func DisableMetrics() {
	enabled = false
}

func MetricsEnabled() bool {
	return enabled
}

// StartProcessMetrics serves the default registry on addr together with
// process level gauges refreshed on every scrape. It blocks until the
// listener fails.
func StartProcessMetrics(addr string) error {
	if !enabled {
		return nil
	}
	gaugesMap := make(map[string]*prometheus.GaugeVec)
	gaugesMap["cpu"] = defineCPUMetrics()
	gaugesMap["mem"] = defineMemMetrics()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			updateMetrics(gaugesMap)
			promhttp.Handler().ServeHTTP(w, r)
		}),
	))
	log.Global.WithField("addr", addr).Info("Starting metrics endpoint")
	return http.ListenAndServe(addr, mux)
}

func NewCounterVec(name string, help string) *prometheus.CounterVec {
	if !enabled {
		return nil
	}
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: name,
		Help: help,
	}, []string{"label"})
	prometheus.MustRegister(counterVec)
	return counterVec
}

func NewGaugeVec(name string, help string) *prometheus.GaugeVec {
	if !enabled {
		return nil
	}
	gaugeVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: name,
		Help: help,
	}, []string{"label"})
	prometheus.MustRegister(gaugeVec)
	return gaugeVec
}

func NewCounter(name string, help string) prometheus.Counter {
	if !enabled {
		return nil
	}
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Name: name,
		Help: help,
	})
	prometheus.MustRegister(counter)
	return counter
}

// NewHistogram registers a histogram with the default exponential buckets
// starting at start.
func NewHistogram(name string, help string, start float64) prometheus.Histogram {
	if !enabled {
		return nil
	}
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    name,
		Help:    help,
		Buckets: prometheus.ExponentialBuckets(start, 4, 10),
	})
	prometheus.MustRegister(histogram)
	return histogram
}

func defineCPUMetrics() *prometheus.GaugeVec {
	cpuUsageGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cpu_usage",
			Help: "The average CPU usage over the last second",
		},
		[]string{"cpu_type"},
	)
	prometheus.MustRegister(cpuUsageGauge)
	return cpuUsageGauge
}

func defineMemMetrics() *prometheus.GaugeVec {
	memGauge := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mem_usage",
			Help: "The current memory usage",
		},
		[]string{"mem_type"},
	)
	prometheus.MustRegister(memGauge)
	return memGauge
}

func updateMetrics(metricsMap map[string]*prometheus.GaugeVec) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		log.Global.WithField("err", err).Error("Failed to get process")
		return
	}
	collectCPUMetrics(metricsMap["cpu"], proc)
	collectMemoryMetrics(metricsMap["mem"], proc)
}

func collectCPUMetrics(cpuGaugeVec *prometheus.GaugeVec, proc *process.Process) {
	percent, err := proc.CPUPercent()
	if err != nil {
		log.Global.WithField("err", err).Error("Failed to get CPU percent")
	} else {
		cpuGaugeVec.WithLabelValues("Quai-evm").Set(percent)
	}

	usage, err := cpu.Percent(0, false)
	if err != nil || len(usage) == 0 {
		log.Global.WithField("err", err).Error("Failed to get CPU percent")
	} else {
		cpuGaugeVec.WithLabelValues("System").Set(usage[0])
	}

	threads, err := proc.NumThreads()
	if err != nil {
		log.Global.WithField("err", err).Error("Failed to get threads")
	} else {
		cpuGaugeVec.WithLabelValues("Threads").Set(float64(threads))
	}
}

func collectMemoryMetrics(memGaugeVec *prometheus.GaugeVec, proc *process.Process) {
	memInfo, err := proc.MemoryInfo()
	if err != nil {
		log.Global.WithField("err", err).Error("Error while getting memory info")
		return
	}
	memGaugeVec.WithLabelValues("Used").Set(float64(memInfo.RSS))
	memGaugeVec.WithLabelValues("Swap").Set(float64(memInfo.Swap))
	memGaugeVec.WithLabelValues("Stack").Set(float64(memInfo.Stack))
}
