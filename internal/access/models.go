// Package access holds the persisted ballot access record model.
package access

import "ballotaccess/internal/passport"

// Record is a provisioned access row keyed by passport fingerprint.
// Records are created outside this service and are only ever read here.
type Record struct {
	Fingerprint   passport.Fingerprint
	AccessGranted bool
}
