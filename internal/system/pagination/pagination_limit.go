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

package pagination

import (
	"fmt"
	"net/http"
	"strconv"
)

const maxLimit = 200

// ParseLimit reads the limit query parameter, capped at 200.
func ParseLimit(r *http.Request, defaultLimit int) (int, error) {
	limit := defaultLimit

	if l := r.URL.Query().Get("limit"); l != "" {
		v, err := strconv.Atoi(l)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("invalid limit")
		}
		limit = v
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return limit, nil
}

func ParseOffset(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("offset")
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("invalid offset")
	}
	return v, nil
}

// Page returns the window [offset, offset+limit) of items.
func Page[T any](items []T, limit, offset int) ([]T, Pagination) {
	total := len(items)
	p := Pagination{Total: total, Limit: limit, Offset: offset}
	if offset >= total {
		return []T{}, p
	}
	end := offset + limit
	if end >= total {
		end = total
	} else {
		next := end
		p.NextOffset = &next
	}
	page := items[offset:end]
	p.Count = len(page)
	return page, p
}
