// Package naming derives the platform-visible resource name and the
// provisioning-engine state address for a service key. Both derivations
// are lossy, so two distinct keys can land on the same name; the
// detector treats that as a structural conflict.
package naming

import (
	"strings"

	"github.com/driftgate/driftgate/internal/core/domain"
)

const nameSegmentSeparator = "-"

// Sanitize folds an arbitrary identifier into the character set the
// platform accepts for resource names: lowercase alphanumerics and
// single hyphens, no leading or trailing hyphen.
func Sanitize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(raw) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), nameSegmentSeparator)
}

// ForKey renders the single platform-visible name for a service key.
// The hyphen join is ambiguous: "legacy-api"+"web" and "legacy"+"api-web"
// both yield "legacy-api-web". The collision pass catches such pairs.
func ForKey(key domain.ServiceKey) string {
	return Sanitize(key.Application) + nameSegmentSeparator + Sanitize(key.Service)
}

// StateAddress derives the conventional engine address for a service key.
// Hyphens are not valid in engine resource names, so key components are
// joined and folded to underscores.
func StateAddress(key domain.ServiceKey) string {
	return "aws_ecs_service." + resourceName(key)
}

func resourceName(key domain.ServiceKey) string {
	join := Sanitize(key.Application) + "_" + Sanitize(key.Service)
	return strings.ReplaceAll(join, nameSegmentSeparator, "_")
}

// AddressFor returns the effective engine address for a desired entry,
// honoring a per-service override.
func AddressFor(svc domain.DesiredService) string {
	if svc.StateAddress != "" {
		return svc.StateAddress
	}
	return StateAddress(svc.Key)
}
