package ids

import "github.com/segmentio/ksuid"

// New returns a K-sortable unique id. Ids generated later sort later,
// which keeps recency ordering cheap.
func New() string {
	return ksuid.New().String()
}
