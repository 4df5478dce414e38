package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommandRegistration(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"classify", "batch", "swarm", "import", "status"} {
		assert.True(t, names[want], "command %q not registered", want)
	}
}

func TestParseRecordJSON(t *testing.T) {
	rec, err := parseRecordJSON(`{"source_dataset":"DE_GUNSTAT","case_number":"30-23-063056"}`)
	require.NoError(t, err)
	assert.Equal(t, "DE_GUNSTAT", rec.Text("source_dataset"))
	assert.Equal(t, "30-23-063056", rec.Text("case_number"))
}

func TestParseRecordJSON_Invalid(t *testing.T) {
	_, err := parseRecordJSON(`{not json`)
	assert.Error(t, err)
}

func TestValidateClassifyFlags(t *testing.T) {
	assert.NoError(t, validateClassifyFlags(`{"id":1}`, 0, false))
	assert.NoError(t, validateClassifyFlags("", 7, true))

	assert.Error(t, validateClassifyFlags("", 0, false), "neither input given")
	assert.Error(t, validateClassifyFlags(`{"id":1}`, 7, false), "both inputs given")
	assert.Error(t, validateClassifyFlags(`{"id":1}`, 0, true), "update needs a store id")
}
