package ledger

import (
	"time"

	"github.com/rcrowley/go-metrics"
)

const metricsPrefix = "ledger."

func (that *Client) observe(op string, start time.Time, err error) {
	metrics.GetOrRegisterTimer(metricsPrefix+op, that.registry).UpdateSince(start)

	if err != nil {
		metrics.GetOrRegisterCounter(metricsPrefix+op+".errors", that.registry).Inc(1)
	}
}

func (that *Client) countRetry(op string) {
	metrics.GetOrRegisterCounter(metricsPrefix+op+".retries", that.registry).Inc(1)
}
