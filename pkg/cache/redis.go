package cache

import (
	"errors"
	"strings"
)

// ErrCacheMiss is returned by Get when the key is absent
var ErrCacheMiss = errors.New("cache miss")

// Prefix namespaces every key written by this service
const Prefix = "ticketera"

// Key joins the parts under Prefix: Key("events", "detail", id) -> ticketera:events:detail:<id>
func Key(parts ...string) string {
	return Prefix + ":" + strings.Join(parts, ":")
}
