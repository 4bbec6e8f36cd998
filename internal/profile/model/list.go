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

package model

import (
	jsoniter "github.com/json-iterator/go"
)

var jsonAPI = jsoniter.ConfigCompatibleWithStandardLibrary

// ProfileList is the normalized result of any profile listing or search.
//
// Accepted response shapes:
//   - a bare array of profiles
//   - an object wrapping the array under "profiles"
//   - a single profile object carrying a user_id
//
// Anything else, including null and malformed payloads, decodes to an empty list.
type ProfileList []Profile

// ParseProfileList normalizes a raw response body. The result is never nil.
func ParseProfileList(data []byte) ProfileList {
	switch jsoniter.Get(data).ValueType() {
	case jsoniter.ArrayValue:
		return decodeProfiles(data)
	case jsoniter.ObjectValue:
		wrapped := jsoniter.Get(data, "profiles")
		if wrapped.ValueType() == jsoniter.ArrayValue {
			return decodeProfiles([]byte(wrapped.ToString()))
		}
		if jsoniter.Get(data, "user_id").ToString() != "" {
			var p Profile
			if err := jsonAPI.Unmarshal(data, &p); err != nil {
				return ProfileList{}
			}
			return ProfileList{p}
		}
	}
	return ProfileList{}
}

func (l *ProfileList) UnmarshalJSON(data []byte) error {
	*l = ParseProfileList(data)
	return nil
}

func decodeProfiles(data []byte) ProfileList {
	var profiles []Profile
	if err := jsonAPI.Unmarshal(data, &profiles); err != nil || profiles == nil {
		return ProfileList{}
	}
	return profiles
}

// ParseProfile decodes a single-profile response. Arrays unwrap to their first
// element; null, empty arrays and malformed payloads yield nil.
func ParseProfile(data []byte) (*Profile, error) {
	switch jsoniter.Get(data).ValueType() {
	case jsoniter.ArrayValue:
		list := decodeProfiles(data)
		if len(list) == 0 {
			return nil, nil
		}
		return &list[0], nil
	case jsoniter.ObjectValue:
		var p Profile
		if err := jsonAPI.Unmarshal(data, &p); err != nil {
			return nil, err
		}
		return &p, nil
	case jsoniter.NilValue:
		return nil, nil
	}
	return nil, errInvalidProfilePayload
}

// Conversation is a discovery call record for a user.
type Conversation struct {
	ConversationId string `json:"conversation_id,omitempty"`
	UserId         string `json:"user_id,omitempty"`
	AgentId        string `json:"agent_id,omitempty"`
	Status         string `json:"status,omitempty"`
	Summary        string `json:"summary,omitempty"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// ConversationList is the normalized conversation response: an array, a single
// object as one item, or empty for anything else.
type ConversationList []Conversation

// ParseConversationList normalizes a raw response body. The result is never nil.
func ParseConversationList(data []byte) ConversationList {
	switch jsoniter.Get(data).ValueType() {
	case jsoniter.ArrayValue:
		var items []Conversation
		if err := jsonAPI.Unmarshal(data, &items); err != nil || items == nil {
			return ConversationList{}
		}
		return items
	case jsoniter.ObjectValue:
		var c Conversation
		if err := jsonAPI.Unmarshal(data, &c); err != nil {
			return ConversationList{}
		}
		return ConversationList{c}
	}
	return ConversationList{}
}

func (l *ConversationList) UnmarshalJSON(data []byte) error {
	*l = ParseConversationList(data)
	return nil
}
