// Package discovery finds UniFi devices on the local broadcast domain.
//
// A scan solicits announcements with a fixed request on UDP port 10001,
// collects responses for a caller-supplied window, then probes each
// responder's HTTPS management API and merges both fact sources into one
// record per source address.
//
// # Scan phases
//
//	IDLE -> SENDING -> COLLECTING -> PROBING -> DONE
//
// SENDING transmits the request, unicast for a targeted scan or to the
// broadcast address for a sweep. COLLECTING drains a bounded channel fed
// by a socket reader goroutine; the loop is the single writer of the
// record map, so merging needs no locks. A targeted scan ends the window
// as soon as the target answers, a sweep always waits it out. PROBING
// fans out HTTP probes concurrently, so total latency is the window plus
// the slowest probe, and merges their results strictly afterwards.
//
// # Usage
//
//	scanner := discovery.NewScanner(discovery.Config{})
//	devices, err := scanner.Scan(ctx, 10*time.Second, "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// Nothing is persisted; each scan starts empty. Failed probes cost a
// record nothing but the fields they would have filled.
package discovery
