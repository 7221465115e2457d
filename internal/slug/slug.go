// Package slug derives canonical identifiers and external reference strings
// from human-readable titles. All functions are pure and total.
package slug

import "strings"

const (
	ensSuffix       = "hubpal.eth"
	mirrorNamespace = "eth"
)

// Slugify lower-cases s, collapses every run of non-alphanumeric characters
// to a single "-", and trims leading/trailing separators. It is idempotent:
// Slugify(Slugify(s)) == Slugify(s). Empty or fully non-alphanumeric input
// yields "".
func Slugify(s string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(s) {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('-')
			pendingSep = false
		}
		b.WriteRune(r)
	}
	return b.String()
}

// ENSName composes the registry-style subname for a milestone,
// e.g. "panel-installation.solar-microgrid.hubpal.eth".
func ENSName(projectSlug, milestoneSlug string) string {
	return milestoneSlug + "." + projectSlug + "." + ensSuffix
}

// MirrorPath composes the mirrored-content path for a milestone,
// e.g. "/eth/solar-microgrid/panel-installation".
func MirrorPath(projectSlug, milestoneSlug string) string {
	return "/" + mirrorNamespace + "/" + projectSlug + "/" + milestoneSlug
}
