// Package notifier matches eligible recipients against the current severity
// tier and delivers one SMS per matched recipient.
//
// # Matching
//
// A recipient subscribed to tier T is messaged when the current tier is T or
// more severe: rank(topic) <= rank(current). Topics missing from the scale
// are skipped and counted.
//
// # Delivery
//
// One message body is rendered per cycle. Sends run on a worker pool behind a
// rate limiter. A failed send is recorded as a Failure and the remaining
// recipients are still attempted. Successful sends produce a DispatchRecord
// whose To field is the recipient's phone hash.
package notifier
