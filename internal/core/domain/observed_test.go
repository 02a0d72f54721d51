package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObservationPresence(t *testing.T) {
	key := ServiceKey{Application: "payments", Service: "api"}

	testCases := []struct {
		name     string
		obs      Observation
		expected Presence
	}{
		{"unknown", Observation{Key: key}, PresenceUnknown},
		{"state only", Observation{Key: key, StateID: "arn:svc"}, PresenceStateOnly},
		{"live only", Observation{Key: key, LiveID: "arn:svc"}, PresenceLiveOnly},
		{"both", Observation{Key: key, StateID: "arn:a", LiveID: "arn:b"}, PresenceBoth},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.obs.Presence())
		})
	}
}

func TestObservationIdentitiesAgree(t *testing.T) {
	obs := Observation{StateID: "arn:x", LiveID: "arn:x"}
	assert.True(t, obs.IdentitiesAgree())

	obs.LiveID = "arn:y"
	assert.False(t, obs.IdentitiesAgree())

	obs = Observation{}
	assert.False(t, obs.IdentitiesAgree(), "two empty identities do not agree")
}

func TestDesiredSetDeduplicatesAndSorts(t *testing.T) {
	_, err := NewDesiredSet(
		DesiredService{Key: ServiceKey{"payments", "api"}},
		DesiredService{Key: ServiceKey{"payments", "api"}},
	)
	assert.ErrorContains(t, err, "duplicate service key")

	set, err := NewDesiredSet(
		DesiredService{Key: ServiceKey{"zeta", "api"}},
		DesiredService{Key: ServiceKey{"alpha", "web"}},
		DesiredService{Key: ServiceKey{"alpha", "api"}},
	)
	assert.NoError(t, err)
	assert.Equal(t, 3, set.Len())
	assert.Equal(t, []ServiceKey{
		{"alpha", "api"},
		{"alpha", "web"},
		{"zeta", "api"},
	}, set.Keys())
}

func TestDesiredSetRejectsInvalidKey(t *testing.T) {
	_, err := NewDesiredSet(DesiredService{Key: ServiceKey{"Payments", "api"}})
	assert.Error(t, err)
}
