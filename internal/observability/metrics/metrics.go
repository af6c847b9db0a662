// Package metrics keeps process-wide counters for the crack services and
// exposes them in the Prometheus text format.
package metrics

import (
	"fmt"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type collector interface {
	write(sb *strings.Builder)
}

type counterVec struct {
	name   string
	help   string
	labels []string

	mu     sync.RWMutex
	values map[string]float64
}

type gaugeVec struct {
	counterVec
}

type histogramVec struct {
	name    string
	help    string
	labels  []string
	buckets []float64

	mu     sync.RWMutex
	values map[string]*histogramValue
}

type histogramValue struct {
	counts []uint64
	sum    float64
	total  uint64
}

var (
	requestBuckets = []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
	crackBuckets   = []float64{0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120}

	requests       = newCounterVec("monocrack_requests_total", "Total number of requests handled, by surface and method.", []string{"surface", "method"})
	requestErrors  = newCounterVec("monocrack_request_errors_total", "Total number of failed requests, by surface, method and status code.", []string{"surface", "method", "code"})
	requestLatency = newHistogramVec("monocrack_request_duration_seconds", "Latency of request handlers.", []string{"surface", "method", "code"}, requestBuckets)
	cracks         = newCounterVec("monocrack_cracks_total", "Number of cracks run, by cipher family and outcome.", []string{"cipher", "outcome"})
	crackLatency   = newHistogramVec("monocrack_crack_duration_seconds", "Time spent cracking, by cipher family.", []string{"cipher"}, crackBuckets)
	crackScore     = newGaugeVec("monocrack_last_crack_score", "Score of the most recent successful crack, by cipher family and metric.", []string{"cipher", "metric"})
	improvements   = newCounterVec("monocrack_climber_improvements_total", "Number of times the hill climber improved its global best.", nil)
	inflight       = newGaugeVec("monocrack_inflight_cracks", "Number of cracks currently running.", nil)

	collectors    = []collector{requests, requestErrors, requestLatency, cracks, crackLatency, crackScore, improvements, inflight}
	totalRequests uint64
)

func newCounterVec(name, help string, labels []string) *counterVec {
	return &counterVec{name: name, help: help, labels: labels, values: make(map[string]float64)}
}

func newGaugeVec(name, help string, labels []string) *gaugeVec {
	return &gaugeVec{counterVec{name: name, help: help, labels: labels, values: make(map[string]float64)}}
}

func newHistogramVec(name, help string, labels []string, buckets []float64) *histogramVec {
	return &histogramVec{
		name:    name,
		help:    help,
		labels:  labels,
		buckets: buckets,
		values:  make(map[string]*histogramValue),
	}
}

func labelKey(labels, values []string) string {
	if len(values) != len(labels) {
		panic(fmt.Sprintf("expected %d labels, got %d", len(labels), len(values)))
	}
	return strings.Join(values, "\xff")
}

func (cv *counterVec) add(delta float64, values ...string) {
	key := labelKey(cv.labels, values)
	cv.mu.Lock()
	cv.values[key] += delta
	cv.mu.Unlock()
}

func (gv *gaugeVec) set(v float64, values ...string) {
	key := labelKey(gv.labels, values)
	gv.mu.Lock()
	gv.values[key] = v
	gv.mu.Unlock()
}

func (cv *counterVec) value(values ...string) float64 {
	key := labelKey(cv.labels, values)
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	return cv.values[key]
}

func (cv *counterVec) write(sb *strings.Builder) {
	cv.writeAs(sb, "counter")
}

func (gv *gaugeVec) write(sb *strings.Builder) {
	gv.writeAs(sb, "gauge")
}

func (cv *counterVec) writeAs(sb *strings.Builder, metricType string) {
	writeHeader(sb, cv.name, cv.help, metricType)
	cv.mu.RLock()
	defer cv.mu.RUnlock()
	for _, key := range sortedKeys(cv.values) {
		sb.WriteString(cv.name)
		writeLabels(sb, cv.labels, key, "")
		fmt.Fprintf(sb, " %g\n", cv.values[key])
	}
}

func (hv *histogramVec) observe(sample float64, values ...string) {
	key := labelKey(hv.labels, values)
	hv.mu.Lock()
	defer hv.mu.Unlock()
	entry, ok := hv.values[key]
	if !ok {
		entry = &histogramValue{counts: make([]uint64, len(hv.buckets)+1)}
		hv.values[key] = entry
	}
	entry.sum += sample
	entry.total++
	i := sort.SearchFloat64s(hv.buckets, sample)
	entry.counts[i]++
}

func (hv *histogramVec) write(sb *strings.Builder) {
	writeHeader(sb, hv.name, hv.help, "histogram")
	hv.mu.RLock()
	defer hv.mu.RUnlock()
	for _, key := range sortedKeys(hv.values) {
		entry := hv.values[key]
		cumulative := uint64(0)
		for i, upper := range hv.buckets {
			cumulative += entry.counts[i]
			sb.WriteString(hv.name + "_bucket")
			writeLabels(sb, hv.labels, key, fmt.Sprintf("le=\"%g\"", upper))
			fmt.Fprintf(sb, " %d\n", cumulative)
		}
		cumulative += entry.counts[len(hv.buckets)]
		sb.WriteString(hv.name + "_bucket")
		writeLabels(sb, hv.labels, key, "le=\"+Inf\"")
		fmt.Fprintf(sb, " %d\n", cumulative)

		sb.WriteString(hv.name + "_sum")
		writeLabels(sb, hv.labels, key, "")
		fmt.Fprintf(sb, " %g\n", entry.sum)
		sb.WriteString(hv.name + "_count")
		writeLabels(sb, hv.labels, key, "")
		fmt.Fprintf(sb, " %d\n", entry.total)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeLabels renders {label="value",...} for the joined key, followed by
// extra when it is not empty. Nothing is written without labels.
func writeLabels(sb *strings.Builder, labels []string, key, extra string) {
	if len(labels) == 0 && extra == "" {
		return
	}
	pairs := make([]string, 0, len(labels)+1)
	if len(labels) > 0 {
		for i, v := range strings.Split(key, "\xff") {
			pairs = append(pairs, labels[i]+"=\""+escapeLabel(v)+"\"")
		}
	}
	if extra != "" {
		pairs = append(pairs, extra)
	}
	sb.WriteString("{" + strings.Join(pairs, ",") + "}")
}

func writeHeader(sb *strings.Builder, name, help, metricType string) {
	fmt.Fprintf(sb, "# HELP %s %s\n# TYPE %s %s\n", name, help, name, metricType)
}

func escapeLabel(value string) string {
	value = strings.ReplaceAll(value, "\\", "\\\\")
	value = strings.ReplaceAll(value, "\n", "\\n")
	value = strings.ReplaceAll(value, "\"", "\\\"")
	return value
}

// Handler exposes the metrics registry as an http.Handler compatible with Prometheus.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		var sb strings.Builder
		for _, collector := range collectors {
			collector.write(&sb)
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_, _ = w.Write([]byte(sb.String()))
	})
}

// RecordRequest counts a request to method on a surface ("http" or "grpc").
func RecordRequest(surface, method string) {
	requests.add(1, surface, method)
	atomic.AddUint64(&totalRequests, 1)
}

// RecordError counts a failed request and its status code.
func RecordError(surface, method, code string) {
	requestErrors.add(1, surface, method, code)
}

// ObserveRequestLatency records the time spent serving a request.
func ObserveRequestLatency(surface, method, code string, dur time.Duration) {
	requestLatency.observe(dur.Seconds(), surface, method, code)
}

// CrackStarted marks a crack as running. The returned function records its
// outcome and must be called exactly once.
func CrackStarted(cipher string) func(metric string, score float64, err error) {
	start := time.Now()
	inflightAdd(1)
	return func(metric string, score float64, err error) {
		inflightAdd(-1)
		crackLatency.observe(time.Since(start).Seconds(), cipher)
		if err != nil {
			cracks.add(1, cipher, "error")
			return
		}
		cracks.add(1, cipher, "ok")
		crackScore.set(score, cipher, metric)
	}
}

func inflightAdd(delta float64) {
	inflight.add(delta)
}

// RecordImprovement counts a new global best found by the hill climber.
func RecordImprovement() {
	improvements.add(1)
}

// TotalRequests returns the total number of requests served since process start.
func TotalRequests() uint64 {
	return atomic.LoadUint64(&totalRequests)
}
