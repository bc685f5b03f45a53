// Package poller reconciles the two shapes of an essay submission reply
// into a single evaluation.
//
// A cache hit is returned as-is. A job id is polled: wait one interval,
// ask for the job status, and repeat until the job is completed or failed.
// Polling never outlives its context, and can be bounded by a maximum number
// of status checks and an overall timeout.
package poller
