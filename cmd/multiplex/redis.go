package main

import "github.com/redis/rueidis"

// newRedisClient dials a rueidis client for the averagine ratio cache.
func newRedisClient(addr string) (rueidis.Client, error) {
	return rueidis.NewClient(rueidis.ClientOption{
		InitAddress: []string{addr},
	})
}
