package rpc

import (
	"context"
	"sync"

	"github.com/Mohsinsiddi/w3raffle/internal/chain"
)

// Benchmark pings every URL in parallel. Result order matches urls.
func Benchmark(ctx context.Context, urls []string) []Endpoint {
	endpoints := make([]Endpoint, len(urls))
	var wg sync.WaitGroup

	for i, url := range urls {
		wg.Add(1)
		go func(idx int, u string) {
			defer wg.Done()
			latency, block, err := chain.NewEVMClient(u).Ping(ctx)
			endpoints[idx] = Endpoint{
				URL:         u,
				Latency:     latency,
				BlockNumber: block,
				Healthy:     err == nil,
			}
		}(i, url)
	}

	wg.Wait()
	return endpoints
}

// SelectBest picks one RPC URL from urls using the named algorithm. An empty
// algorithm means "fastest". A single URL is returned without benchmarking.
func SelectBest(ctx context.Context, urls []string, algorithm string) (string, error) {
	if len(urls) == 0 {
		return "", ErrNoHealthyRPC
	}
	if len(urls) == 1 {
		return urls[0], nil
	}
	algo := Algorithm(algorithm)
	if algo == "" {
		algo = AlgorithmFastest
	}
	winner, err := Pick(algo, Benchmark(ctx, urls))
	if err != nil {
		return "", err
	}
	return winner.URL, nil
}
