package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(s string) *string { return &s }

func TestDetailsUpdateApply(t *testing.T) {
	e := &Employee{FirstName: "Sannee", LastName: ptr("Challa"), Phone: ptr("999"), Address: ptr("Tirupati")}

	DetailsUpdate{LastName: ptr("Kumar")}.Apply(e)

	assert.Equal(t, "Kumar", *e.LastName)
	assert.Equal(t, "999", *e.Phone)
	assert.Equal(t, "Tirupati", *e.Address)
}

func TestDetailsUpdateApplyEmptyStringOverwrites(t *testing.T) {
	e := &Employee{Phone: ptr("999")}

	DetailsUpdate{Phone: ptr("")}.Apply(e)

	require.NotNil(t, e.Phone)
	assert.Equal(t, "", *e.Phone)
}

func TestParseMechanism(t *testing.T) {
	for _, raw := range []string{"spec", "hql", "native"} {
		m, err := ParseMechanism(raw)
		assert.NoError(t, err, raw)
		assert.Equal(t, raw, m.String())
	}
	for _, raw := range []string{"graphql", "SPEC", "Hql", "NATIVE", ""} {
		_, err := ParseMechanism(raw)
		assert.Error(t, err, raw)
	}
}
