package diagnose

import (
	"context"
	"encoding/json"
	"io"
	"time"
)

type probe struct {
	service string
	url     string
	fn      func(ctx context.Context) error
}

type probeResult struct {
	Service string `json:"service"`
	URL     string `json:"url"`
	OK      bool   `json:"ok"`
	Ms      int64  `json:"ms"`
	Error   string `json:"error,omitempty"`
}

func runProbe(ctx context.Context, p probe) probeResult {
	start := time.Now()
	err := p.fn(ctx)
	res := probeResult{
		Service: p.service,
		URL:     p.url,
		OK:      err == nil,
		Ms:      time.Since(start).Milliseconds(),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func printJSONLine(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
