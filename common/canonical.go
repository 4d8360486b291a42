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
	"bytes"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// SigField is stripped from documents before signing or verification.
const SigField = "sig"

// Canonicalize serializes a document with keys sorted lexicographically at
// every nesting level and no insignificant whitespace. The resulting byte
// string is the only wire contract shared with signature verifiers: two
// implementations that disagree here produce incompatible signatures.
//
// Numbers must arrive as json.Number (decode with UseNumber) or as string;
// they are emitted verbatim.
func Canonicalize(doc map[string]interface{}) ([]byte, error) {
	stripped := make(map[string]interface{}, len(doc))
	for k, v := range doc {
		if k == SigField {
			continue
		}
		stripped[k] = v
	}
	var buf bytes.Buffer
	if err := writeCanonical(&buf, stripped); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeJSON parses raw JSON preserving number representations verbatim.
func DecodeJSON(raw []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decode json")
	}
	return doc, nil
}

func writeCanonical(buf *bytes.Buffer, v interface{}) error {
	switch val := v.(type) {
	case map[string]interface{}:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		buf.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := json.Marshal(k)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := writeCanonical(buf, val[k]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	case []interface{}:
		buf.WriteByte('[')
		for i, item := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeCanonical(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case json.Number:
		buf.WriteString(val.String())
		return nil
	default:
		// strings, bools, nil and the occasional pre-encoded scalar
		b, err := json.Marshal(val)
		if err != nil {
			return errors.Wrap(err, "canonicalize scalar")
		}
		buf.Write(b)
		return nil
	}
}
