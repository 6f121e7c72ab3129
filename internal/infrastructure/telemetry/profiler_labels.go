package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// Profile label keys. Only these keys ever reach Pyroscope, which keeps label
// cardinality bounded no matter what callers pass.
const (
	ProfilingLabelRoute     = "route"
	ProfilingLabelMethod    = "method"
	ProfilingLabelOperation = "operation"
	ProfilingLabelOrderType = "order_type"
)

var profileLabelKeys = map[string]bool{
	ProfilingLabelRoute:     true,
	ProfilingLabelMethod:    true,
	ProfilingLabelOperation: true,
	ProfilingLabelOrderType: true,
}

// MaxLabelValueLength truncates label values
const MaxLabelValueLength = 128

// ProfileLabels are pprof labels applied to a goroutine while a function runs
type ProfileLabels map[string]string

// RouteLabels labels an HTTP request by route pattern and method
func RouteLabels(route, method string) ProfileLabels {
	return ProfileLabels{ProfilingLabelRoute: route, ProfilingLabelMethod: method}
}

// OperationLabels labels a business operation
func OperationLabels(operation string) ProfileLabels {
	return ProfileLabels{ProfilingLabelOperation: operation}
}

// With returns a copy of l with key set
func (l ProfileLabels) With(key, value string) ProfileLabels {
	out := make(ProfileLabels, len(l)+1)
	for k, v := range l {
		out[k] = v
	}
	out[key] = value
	return out
}

// Do runs fn with the labels attached to ctx. Unknown keys and empty values
// are dropped; with nothing left fn runs unlabelled.
func (l ProfileLabels) Do(ctx context.Context, fn func(context.Context)) {
	pairs := l.pairs()
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

func (l ProfileLabels) pairs() []string {
	keys := make([]string, 0, len(l))
	for k, v := range l {
		if profileLabelKeys[k] && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		v := l[k]
		if len(v) > MaxLabelValueLength {
			v = v[:MaxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
