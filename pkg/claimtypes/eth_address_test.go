// Copyright © 2026 OpenCredit Contributors
//
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package claimtypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEthAddressParsing(t *testing.T) {

	a1, err := ParseEthAddress("0x7A095aB56c52dE0D78d3ded6a8d5FQZZZZZZZZZZ")
	assert.Error(t, err)
	assert.Nil(t, a1)

	assert.Panics(t, func() {
		MustEthAddress("not an address")
	})

	a2 := MustEthAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	assert.Equal(t, "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", a2.String())
	assert.Equal(t, "d8da6bf26964af9d7eed9e03e53415d37aa96045", a2.HexString())
	assert.Equal(t, "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045", a2.Checksummed())

	a3 := MustEthAddress("0xD8DA6BF26964AF9D7EED9E03E53415D37AA96045")
	assert.True(t, a2.Equals(a3))
	assert.False(t, a2.Equals(nil))
	assert.False(t, a2.Equals(RandAddress()))
	assert.True(t, (*EthAddress)(nil).Equals(nil))

	assert.True(t, (&EthAddress{}).IsZero())
	assert.True(t, (*EthAddress)(nil).IsZero())
	assert.False(t, a2.IsZero())

	a4 := EthAddressBytes(a2[:])
	assert.True(t, a2.Equals(a4))

}

func TestEthAddressJSON(t *testing.T) {

	type myStruct struct {
		A1 *EthAddress `json:"a1,omitempty"`
		A2 EthAddress  `json:"a2"`
	}

	var s1 myStruct
	err := json.Unmarshal(([]byte)(`{"a2": "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"}`), &s1)
	require.NoError(t, err)
	assert.Nil(t, s1.A1)
	assert.Equal(t, "0xd8da6bf26964af9d7eed9e03e53415d37aa96045", s1.A2.String())

	b, err := json.Marshal(&s1)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a2": "0xd8da6bf26964af9d7eed9e03e53415d37aa96045"}`, (string)(b))

	err = json.Unmarshal(([]byte)(`{"a2": "wrong"}`), &s1)
	assert.Error(t, err)

	err = json.Unmarshal(([]byte)(`{"a2": 12345}`), &s1)
	assert.Error(t, err)

}

func TestEthAddressDatabaseSerialization(t *testing.T) {

	a1 := MustEthAddress("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")
	v, err := a1.Value()
	require.NoError(t, err)
	assert.Equal(t, "d8da6bf26964af9d7eed9e03e53415d37aa96045", v)

	var a2 EthAddress
	require.NoError(t, a2.Scan("d8da6bf26964af9d7eed9e03e53415d37aa96045"))
	assert.True(t, a1.Equals(&a2))

	var a3 EthAddress
	require.NoError(t, a3.Scan(a1[:]))
	assert.True(t, a1.Equals(&a3))

	var a4 EthAddress
	require.NoError(t, a4.Scan([]byte("0xd8da6bf26964af9d7eed9e03e53415d37aa96045")))
	assert.True(t, a1.Equals(&a4))

	var a5 EthAddress
	require.NoError(t, a5.Scan(nil))
	assert.Error(t, a5.Scan("not hex"))
	assert.Regexp(t, "CE010007", a5.Scan([]byte{0x01, 0x02}))
	assert.Regexp(t, "CE010005", a5.Scan(12345))

}
