// flex_list.go
//
// Digital dead-man's-switch backend for the Asset Index service
// Copyright (c) 2026 Asset Index
//
// This file is part of asset-index.
// asset-index is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// asset-index is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with asset-index.
// If not, see <https://www.gnu.org/licenses/>.

package types

import (
	"encoding/json"
)

// FlexList is a slice that can be unmarshaled from either a single JSON object
// or a JSON array. The assignment endpoint accepts one assignment or a batch.
type FlexList[T any] []T

// UnmarshalJSON implements the json.Unmarshaler interface.
func (f *FlexList[T]) UnmarshalJSON(data []byte) error {
	if len(data) == 0 || string(data) == "null" {
		return nil
	}

	// Try unmarshaling as an array first
	var list []T
	if err := json.Unmarshal(data, &list); err == nil {
		*f = FlexList[T](list)
		return nil
	}

	// Fall back to a single object
	var single T
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*f = FlexList[T]{single}
	return nil
}

// MarshalJSON implements the json.Marshaler interface.
func (f FlexList[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal([]T(f))
}
