package redis

import (
	"context"
	"strconv"
	"time"
)

// HealthDetails pings the server and reports connection details and pool counters.
// The returned error is the ping failure, if any.
func (c *Client) HealthDetails(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	details := map[string]string{
		"address":  c.config.Addr(),
		"database": strconv.Itoa(c.config.Database),
	}

	start := time.Now()
	if err := c.Ping(ctx); err != nil {
		details["error"] = err.Error()
		return details, err
	}
	details["ping_latency"] = time.Since(start).String()

	stats := c.Stats()
	details["total_conns"] = strconv.FormatUint(uint64(stats.TotalConns), 10)
	details["idle_conns"] = strconv.FormatUint(uint64(stats.IdleConns), 10)
	details["timeouts"] = strconv.FormatUint(uint64(stats.Timeouts), 10)
	return details, nil
}
