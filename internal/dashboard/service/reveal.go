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

package service

import (
	"context"

	"github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
)

// startRevealLocked begins revealing discovered sections one step at a time,
// then completes the flow one step after the last section. Callers hold r.mu.
func (r *Reconciler) startRevealLocked(parent context.Context) {
	if r.reveal != nil {
		r.reveal.cancel()
	}
	h, ctx := newHandle(parent)
	r.reveal = h
	r.revealed = nil
	go r.runReveal(ctx, h)
}

func (r *Reconciler) runReveal(ctx context.Context, h *PollHandle) {
	defer close(h.done)
	defer h.cancel()

	for _, field := range constants.RevealFields {
		if !r.waitStep(ctx) {
			return
		}
		r.mu.Lock()
		if r.reveal != h {
			r.mu.Unlock()
			return
		}
		r.revealed = append(r.revealed, field)
		r.mu.Unlock()
	}

	if !r.waitStep(ctx) {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reveal != h {
		return
	}
	r.reveal = nil
	if r.flow == model.FlowFormFilling {
		r.setFlow(model.FlowCompleted)
	}
}

func (r *Reconciler) waitStep(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return false
	case <-r.after(r.cfg.RevealStep):
		return true
	}
}
