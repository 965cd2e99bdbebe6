package domain_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avogt/rxminder/internal/domain"
)

func TestPrescriptionPatch_Empty(t *testing.T) {
	assert.True(t, domain.PrescriptionPatch{}.Empty())

	name := "Amoxicillin"
	assert.False(t, domain.PrescriptionPatch{Name: &name}.Empty())

	blank := ""
	assert.False(t, domain.PrescriptionPatch{Description: &blank}.Empty(),
		"an explicit empty string clears the field, it is not a no-op")
}

func TestPrescriptionPatch_AbsentFieldsDecodeNil(t *testing.T) {
	var patch domain.PrescriptionPatch
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Ibuprofen"}`), &patch))

	require.NotNil(t, patch.Name)
	assert.Equal(t, "Ibuprofen", *patch.Name)
	assert.Nil(t, patch.StartDate)
	assert.Nil(t, patch.TermID)
}
