package httpclient

import (
	"net/http"

	"golang.org/x/time/rate"

	"github.com/teranos/batchrest/errors"
)

// RateLimitedDoer paces requests through a token bucket before handing them
// to the next Doer. Waiting honours the request context. It never retries.
type RateLimitedDoer struct {
	next    Doer
	limiter *rate.Limiter
}

// NewRateLimitedDoer allows requestsPerSecond on average with the given burst.
// A non-positive rate returns next unchanged.
func NewRateLimitedDoer(next Doer, requestsPerSecond float64, burst int) Doer {
	if requestsPerSecond <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedDoer{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

func (d *RateLimitedDoer) Do(req *http.Request) (*http.Response, error) {
	if err := d.limiter.Wait(req.Context()); err != nil {
		return nil, errors.Wrap(err, "rate limiter")
	}
	return d.next.Do(req)
}
