package imagevault

import (
	"fmt"
	"sort"
	"strings"
)

// BuildUploadMessage renders the notification body for an uploaded image.
// The body is a human-readable header followed by the metadata tags, one
// "key:::value" line per tag in sorted key order.
func BuildUploadMessage(tags map[string]string) string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Image was uploaded\n\n")
	for _, k := range keys {
		fmt.Fprintf(&b, "%s:::%s\n", k, tags[k])
	}
	return b.String()
}
