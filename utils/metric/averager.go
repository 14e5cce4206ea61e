// Copyright (C) 2019-2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utilmetric

import (
	"errors"

	metric "github.com/luxfi/metric"

	"github.com/luxfi/montbench/utils/wrappers"
)

var ErrFailedRegistering = errors.New("failed registering metric")

// Averager tracks the number and the sum of observations so that an average
// can be derived at scrape time.
type Averager interface {
	Observe(float64)
}

type averager struct {
	count metric.Counter
	sum   metric.Gauge
}

func NewAverager(name, desc string, reg metric.Registerer) (Averager, error) {
	errs := wrappers.Errs{}
	a := NewAveragerWithErrs(name, desc, reg, &errs)
	return a, errs.Err
}

func NewAveragerWithErrs(name, desc string, reg metric.Registerer, errs *wrappers.Errs) Averager {
	a := averager{
		count: metric.NewCounter(metric.CounterOpts{
			Name: metric.AppendNamespace(name, "count"),
			Help: "Total # of observations of " + desc,
		}),
		sum: metric.NewGauge(metric.GaugeOpts{
			Name: metric.AppendNamespace(name, "sum"),
			Help: "Sum of " + desc,
		}),
	}

	if err := reg.Register(metric.AsCollector(a.count)); err != nil {
		errs.Add(errors.Join(ErrFailedRegistering, err))
	}
	if err := reg.Register(metric.AsCollector(a.sum)); err != nil {
		errs.Add(errors.Join(ErrFailedRegistering, err))
	}
	return &a
}

func (a *averager) Observe(v float64) {
	a.count.Inc()
	a.sum.Add(v)
}
