package domain

import (
	"fmt"
	"regexp"
	"strings"
)

// KeySeparator joins the application and service components in the
// rendered form of a ServiceKey, e.g. "payments::api".
const KeySeparator = "::"

var keyComponentPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ServiceKey is the composite (application, service) identifier joining the
// desired and observed views of one service resource. Components are
// non-empty, lowercase, alphanumeric plus hyphen.
type ServiceKey struct {
	Application string
	Service     string
}

func ParseServiceKey(raw string) (ServiceKey, error) {
	parts := strings.Split(raw, KeySeparator)
	if len(parts) != 2 {
		return ServiceKey{}, fmt.Errorf("service key %q is not of the form application%sservice", raw, KeySeparator)
	}
	key := ServiceKey{Application: parts[0], Service: parts[1]}
	if err := key.Validate(); err != nil {
		return ServiceKey{}, err
	}
	return key, nil
}

func (k ServiceKey) Validate() error {
	if !keyComponentPattern.MatchString(k.Application) {
		return fmt.Errorf("invalid application component %q: must be lowercase alphanumeric plus hyphen", k.Application)
	}
	if !keyComponentPattern.MatchString(k.Service) {
		return fmt.Errorf("invalid service component %q: must be lowercase alphanumeric plus hyphen", k.Service)
	}
	return nil
}

func (k ServiceKey) String() string {
	return k.Application + KeySeparator + k.Service
}

func (k ServiceKey) IsZero() bool {
	return k.Application == "" && k.Service == ""
}

// MarshalText renders the key in its canonical form so JSON output shows
// "application::service" instead of a nested object.
func (k ServiceKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *ServiceKey) UnmarshalText(text []byte) error {
	parsed, err := ParseServiceKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Less provides the canonical report ordering.
func (k ServiceKey) Less(other ServiceKey) bool {
	if k.Application != other.Application {
		return k.Application < other.Application
	}
	return k.Service < other.Service
}
