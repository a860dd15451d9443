package httputil

import (
	"net/http"
	"time"
)

// Upstream fetches must fail within a bounded window so a stuck sync run
// cannot hold the pipeline open indefinitely.
const jobBoardTimeout = 20 * time.Second

// Clients groups the outbound HTTP clients shared across the process.
type Clients struct {
	JobBoard *http.Client
}

func NewClients() *Clients {
	return &Clients{
		JobBoard: &http.Client{
			Timeout: jobBoardTimeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
	}
}
