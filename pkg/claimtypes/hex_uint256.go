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
	"bytes"
	"context"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/hyperledger/firefly-common/pkg/i18n"
	"github.com/opencredit/claimsengine/internal/msgs"
)

// HexUint256 is an unsigned integer up to 256 bits in size, serialized to the DB
// as a sortable 64-char zero-padded hex string, and to JSON as 0x-prefixed hex
type HexUint256 big.Int

func Uint64ToUint256(v uint64) *HexUint256 {
	return (*HexUint256)(new(big.Int).SetUint64(v))
}

// Parse a string - decimal, or 0x-prefixed hex
func ParseHexUint256(ctx context.Context, s string) (*HexUint256, error) {
	bi, ok := new(big.Int).SetString(s, 0)
	if !ok || bi.Sign() < 0 {
		return nil, i18n.NewError(ctx, msgs.MsgTypesInvalidHexInteger, s)
	}
	return (*HexUint256)(bi), nil
}

func MustParseHexUint256(s string) *HexUint256 {
	hi, err := ParseHexUint256(context.Background(), s)
	if err != nil {
		panic(err)
	}
	return hi
}

func (hi *HexUint256) Int() *big.Int {
	return (*big.Int)(hi)
}

func (hi *HexUint256) NilOrZero() bool {
	return hi == nil || hi.Int().Sign() == 0
}

func (hi *HexUint256) Equals(hi2 *HexUint256) bool {
	if hi == nil && hi2 == nil {
		return true
	}
	if hi == nil || hi2 == nil {
		return false
	}
	return hi.Int().Cmp(hi2.Int()) == 0
}

func (hi *HexUint256) String() string {
	return hi.HexString0xPrefix()
}

func (hi *HexUint256) MarshalJSON() ([]byte, error) {
	return json.Marshal(hi.HexString0xPrefix())
}

func (hi *HexUint256) setJSONString(text string) error {
	pID, err := ParseHexUint256(context.Background(), text)
	if err != nil {
		return err
	}
	*hi = *pID
	return nil
}

// Parses with/without 0x in any case
func (hi *HexUint256) UnmarshalJSON(b []byte) error {
	if hi == nil {
		return i18n.NewError(context.Background(), msgs.MsgTypesUnmarshalNil)
	}
	var iVal interface{}
	decoder := json.NewDecoder(bytes.NewReader(b))
	decoder.UseNumber() // It's not safe to use a JSON number decoder as it uses float64, so can (and does) lose precision
	err := decoder.Decode(&iVal)
	if err == nil {
		switch v := iVal.(type) {
		case string:
			err = hi.setJSONString(v)
		case json.Number:
			err = hi.setJSONString(v.String())
		default:
			err = i18n.NewError(context.Background(), msgs.MsgTypesScanFail, iVal, hi)
		}
	}
	return err
}

// Get string with 0x prefix
func (hi *HexUint256) HexString0xPrefix() string {
	str := hi.Int().Text(16)
	if len(str)%2 != 0 {
		str = "0" + str
	}
	return fmt.Sprintf("0x%s", str)
}

func (hi *HexUint256) Value() (driver.Value, error) {
	if hi == nil {
		return nil, nil
	}
	return string(PadHexBigUint((*big.Int)(hi), make([]byte, 64))), nil
}

func (hi *HexUint256) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		bi, ok := new(big.Int).SetString(v, 16)
		if len(v) != 64 || !ok {
			// This type was not used to serialize to the database
			return i18n.NewError(context.Background(), msgs.MsgTypesInvalidHexInteger, v)
		}
		*hi = (HexUint256)(*bi)
		return nil
	case int64:
		*hi = (HexUint256)(*big.NewInt(v))
		return nil
	case nil:
		return nil
	default:
		return i18n.NewError(context.Background(), msgs.MsgTypesScanFail, src, hi)
	}
}

// PadHexBigUint returns the supplied buffer, with all the bytes to the left of the integer set to '0'
func PadHexBigUint(bi *big.Int, buff []byte) []byte {
	unPadded := bi.Abs(bi).Text(16)
	boundary := len(buff) - len(unPadded)
	for i := 0; i < len(buff); i++ {
		if i >= boundary {
			buff[i] = unPadded[i-boundary]
		} else {
			buff[i] = '0'
		}
	}
	return buff
}
