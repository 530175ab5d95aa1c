package vm

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dominant-strategies/quai-evm/metrics_config"
)

var (
	executionMetrics   *prometheus.CounterVec
	instructionCounter prometheus.Counter
	gasUsedCounter     prometheus.Counter
)

func init() {
	registerMetrics()
}

func registerMetrics() {
	executionMetrics = metrics_config.NewCounterVec("ExecutionCounters", "Executions of the interpreter by terminal status")
	for status := range statusCodeToString {
		executionMetrics.WithLabelValues(status.String())
	}

	instructionCounter = metrics_config.NewCounter("InstructionCounter", "Instructions executed by the interpreter")
	gasUsedCounter = metrics_config.NewCounter("GasUsedCounter", "Gas consumed by interpreter executions")
}

// recordExecution adds one finished invocation to the metrics.
func recordExecution(out *Output, gasUsed uint64, steps uint64) {
	if executionMetrics == nil {
		return
	}
	executionMetrics.WithLabelValues(out.Status.String()).Inc()
	instructionCounter.Add(float64(steps))
	gasUsedCounter.Add(float64(gasUsed))
}
