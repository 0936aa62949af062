package domain

import (
	"strconv"
	"strings"
)

const (
	AttrRateLimit      = "Mikrotik-Rate-Limit"
	AttrFramedIP       = "Framed-IP-Address"
	AttrSessionTimeout = "Session-Timeout"
)

// Attributes is the decoded form of the user "attributes" field, a single
// string packing key:value pairs joined by commas. Only the three attributes
// above are carried; anything else in the blob is dropped on decode and
// never re-emitted, so every write through this type replaces the stored
// blob wholesale.
type Attributes struct {
	RateLimit      string
	StaticIP       string
	SessionTimeout *int
}

// ParseAttributes decodes a stored blob. Segments without a colon are
// skipped, key matching is case-insensitive, and a field keeps its first
// value when a key repeats. An unparsable Session-Timeout leaves the field
// unset rather than failing.
func ParseAttributes(blob string) Attributes {
	var attrs Attributes

	for _, segment := range strings.Split(blob, ",") {
		key, value, ok := strings.Cut(segment, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		switch {
		case strings.EqualFold(key, AttrRateLimit):
			if attrs.RateLimit == "" {
				attrs.RateLimit = value
			}
		case strings.EqualFold(key, AttrFramedIP):
			if attrs.StaticIP == "" {
				attrs.StaticIP = value
			}
		case strings.EqualFold(key, AttrSessionTimeout):
			if attrs.SessionTimeout == nil {
				if seconds, err := strconv.Atoi(value); err == nil {
					attrs.SessionTimeout = &seconds
				}
			}
		}
	}

	return attrs
}

// Encode renders the blob in fixed order, emitting only present values. An
// all-absent Attributes encodes to "", which callers still send: writing the
// empty string clears whatever the router had stored.
func (a Attributes) Encode() string {
	parts := make([]string, 0, 3)

	if value := strings.TrimSpace(a.RateLimit); value != "" {
		parts = append(parts, AttrRateLimit+":"+value)
	}
	if value := strings.TrimSpace(a.StaticIP); value != "" {
		parts = append(parts, AttrFramedIP+":"+value)
	}
	if a.SessionTimeout != nil {
		parts = append(parts, AttrSessionTimeout+":"+strconv.Itoa(*a.SessionTimeout))
	}

	return strings.Join(parts, ",")
}
