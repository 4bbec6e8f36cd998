/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package utils

import (
	"testing"

	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/stretchr/testify/assert"
)

func TestCoerceValueToType_Text(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{"string to string", "London", "London"},
		{"int to string", 42, "42"},
		{"float to string (integer)", 42.0, "42"},
		{"float to string (decimal)", 42.5, "42.5"},
		{"bool to string", true, "true"},
		{"nil to nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceValueToType(tt.input, constants.TextDataType))
		})
	}
}

func TestCoerceValueToType_Integer(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{"int to int", 2, 2},
		{"float (integer) to int", 3.0, 3},
		{"float (decimal) to nil", 3.5, nil},
		{"string int to int", " 4 ", 4},
		{"string non-int to nil", "four", nil},
		{"bool to nil", true, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceValueToType(tt.input, constants.IntegerDataType))
		})
	}
}

func TestCoerceValueToType_Decimal(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{"float to float", 52000.5, 52000.5},
		{"int to float", 52000, 52000.0},
		{"string to float", "52000", 52000.0},
		{"string NaN to nil", "NaN", nil},
		{"string non-number to nil", "lots", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceValueToType(tt.input, constants.DecimalDataType))
		})
	}
}

func TestCoerceValueToType_Boolean(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected interface{}
	}{
		{"bool to bool", false, false},
		{"yes to true", "Yes", true},
		{"0 to false", "0", false},
		{"float to bool", 1.0, true},
		{"unknown string to nil", "maybe", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CoerceValueToType(tt.input, constants.BooleanDataType))
		})
	}
}

func TestCoerceValueToType_Date(t *testing.T) {
	assert.Equal(t, "1985-04-12", CoerceValueToType("1985-04-12", constants.DateDataType))
	assert.Equal(t, "1985-04-12T00:00:00Z", CoerceValueToType("1985-04-12T00:00:00Z", constants.DateDataType))
	assert.Nil(t, CoerceValueToType("12/04/1985", constants.DateDataType))
	assert.Nil(t, CoerceValueToType(1985, constants.DateDataType))
}

func TestCoerceValueToType_UnknownType(t *testing.T) {
	assert.Nil(t, CoerceValueToType("x", "complex"))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(nil))
	assert.True(t, IsBlank("   "))
	assert.False(t, IsBlank("a"))
	assert.False(t, IsBlank(0))
}
