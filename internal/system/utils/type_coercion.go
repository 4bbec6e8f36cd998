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
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

// CoerceValueToType converts a raw form value to the value type of an editable
// profile field. Form inputs arrive as strings; JSON callers may already send
// numbers or booleans.
//
// Coercion rules:
// - text, select: any scalar is rendered as a string
// - integer: whole numbers only, numeric strings are parsed
// - decimal: any number, numeric strings are parsed
// - boolean: true/false, yes/no, 1/0
// - date: ISO dates (2006-01-02) or RFC3339 timestamps, kept as the original string
//
// Returns nil if the value cannot be represented in the target type.
func CoerceValueToType(value interface{}, targetType string) interface{} {
	logger := log.GetLogger()

	if value == nil {
		return nil
	}

	switch targetType {
	case constants.TextDataType, constants.SelectDataType:
		return coerceToString(value)
	case constants.IntegerDataType:
		return coerceToInteger(value, logger)
	case constants.DecimalDataType:
		return coerceToDecimal(value, logger)
	case constants.BooleanDataType:
		return coerceToBoolean(value, logger)
	case constants.DateDataType:
		return coerceToDate(value, logger)
	default:
		logger.Warn(fmt.Sprintf("Unknown target type for coercion: %s", targetType))
		return nil
	}
}

// IsBlank reports whether a form value means "clear this field".
func IsBlank(value interface{}) bool {
	if value == nil {
		return true
	}
	if s, ok := value.(string); ok {
		return strings.TrimSpace(s) == ""
	}
	return false
}

func coerceToString(value interface{}) interface{} {
	switch v := value.(type) {
	case string:
		return v
	case int, int64:
		return fmt.Sprintf("%d", v)
	case float64:
		if v == math.Trunc(v) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return nil
	}
}

func coerceToInteger(value interface{}, logger *log.Logger) interface{} {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		// JSON numbers are decoded as float64
		if v == math.Trunc(v) {
			return int(v)
		}
		logger.Debug(fmt.Sprintf("Cannot coerce decimal %v to integer without precision loss", v))
		return nil
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return i
		}
		logger.Debug(fmt.Sprintf("Cannot coerce string '%s' to integer", v))
		return nil
	default:
		logger.Debug(fmt.Sprintf("Cannot coerce type %T to integer", v))
		return nil
	}
}

func coerceToDecimal(value interface{}, logger *log.Logger) interface{} {
	switch v := value.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f
		}
		logger.Debug(fmt.Sprintf("Cannot coerce string '%s' to decimal", v))
		return nil
	default:
		logger.Debug(fmt.Sprintf("Cannot coerce type %T to decimal", v))
		return nil
	}
}

func coerceToBoolean(value interface{}, logger *log.Logger) interface{} {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		lower := strings.ToLower(strings.TrimSpace(v))
		if lower == "true" || lower == "1" || lower == "yes" {
			return true
		}
		if lower == "false" || lower == "0" || lower == "no" {
			return false
		}
		logger.Debug(fmt.Sprintf("Cannot coerce string '%s' to boolean", v))
		return nil
	case float64:
		return v != 0.0
	default:
		logger.Debug(fmt.Sprintf("Cannot coerce type %T to boolean", v))
		return nil
	}
}

func coerceToDate(value interface{}, logger *log.Logger) interface{} {
	str, ok := value.(string)
	if !ok {
		logger.Debug(fmt.Sprintf("Cannot coerce type %T to date", value))
		return nil
	}
	str = strings.TrimSpace(str)
	for _, format := range []string{"2006-01-02", time.RFC3339, time.RFC3339Nano} {
		if _, err := time.Parse(format, str); err == nil {
			return str
		}
	}
	logger.Debug(fmt.Sprintf("Cannot coerce string '%s' to date", str))
	return nil
}
