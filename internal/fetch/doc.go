// Package fetch downloads audio for a batch of URLs with a bounded worker pool.
//
// Each URL is fetched independently: a failure is logged with its URL,
// collected as a Failure, and never aborts its siblings. Successful downloads
// are probed, keyed by platform video ID, and returned in completion order.
// Optional retries use exponential backoff and skip videos the downloader
// reports as permanently unavailable.
package fetch
