// Copyright 2026 The swarm-genesis Authors
// This file is part of the swarm-genesis library.
//
// The swarm-genesis library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The swarm-genesis library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the swarm-genesis library. If not, see <http://www.gnu.org/licenses/>.

package common

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeSortsKeysAtEveryLevel(t *testing.T) {
	doc := map[string]interface{}{
		"zeta":  json.Number("1"),
		"alpha": map[string]interface{}{"c": "x", "a": "y", "b": json.Number("2")},
		"mid":   []interface{}{"s", json.Number("3"), map[string]interface{}{"k2": "v", "k1": "u"}},
	}
	got, err := Canonicalize(doc)
	require.NoError(t, err)
	want := `{"alpha":{"a":"y","b":2,"c":"x"},"mid":["s",3,{"k1":"u","k2":"v"}],"zeta":1}`
	assert.Equal(t, want, string(got))
}

func TestCanonicalizeStripsSigOnly(t *testing.T) {
	doc := map[string]interface{}{
		"sig":   "0xdeadbeef",
		"field": "value",
		"inner": map[string]interface{}{"sig": "kept"},
	}
	got, err := Canonicalize(doc)
	require.NoError(t, err)
	// only the top level sig is the signature slot
	assert.Equal(t, `{"field":"value","inner":{"sig":"kept"}}`, string(got))
}

func TestCanonicalizeIsStable(t *testing.T) {
	raw := []byte(`{"b": 2, "a": {"y": [1, 2.50, "z"], "x": null}, "flag": true, "sig": "0xff"}`)
	doc, err := DecodeJSON(raw)
	require.NoError(t, err)

	first, err := Canonicalize(doc)
	require.NoError(t, err)

	// reparse the canonical bytes and canonicalize again
	redoc, err := DecodeJSON(first)
	require.NoError(t, err)
	second, err := Canonicalize(redoc)
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestCanonicalizePreservesNumbersVerbatim(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{"reward": 1.00, "count": 7, "big": 123456789012345678901234567890}`))
	require.NoError(t, err)
	got, err := Canonicalize(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"big":123456789012345678901234567890,"count":7,"reward":1.00}`, string(got))
}

func TestCanonicalizeNoWhitespace(t *testing.T) {
	doc, err := DecodeJSON([]byte(`{ "a" : "b c" , "d" : [ 1 , 2 ] }`))
	require.NoError(t, err)
	got, err := Canonicalize(doc)
	require.NoError(t, err)
	assert.Equal(t, `{"a":"b c","d":[1,2]}`, string(got))
}

func TestDecodeJSONRejectsGarbage(t *testing.T) {
	_, err := DecodeJSON([]byte(`not json at all`))
	assert.Error(t, err)
}
