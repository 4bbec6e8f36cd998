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

	"github.com/cenkalti/backoff/v4"
	"github.com/google/go-cmp/cmp"

	"github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	profileModel "github.com/hollyandmorty/advisor-console/internal/profile/model"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

// PollHandle controls a background task started by the reconciler.
type PollHandle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

func newHandle(parent context.Context) (*PollHandle, context.Context) {
	ctx, cancel := context.WithCancel(context.WithoutCancel(parent))
	return &PollHandle{cancel: cancel, done: make(chan struct{})}, ctx
}

// Stop cancels the task and waits for it to exit. Safe on a nil handle.
func (h *PollHandle) Stop() {
	if h == nil {
		return
	}
	h.cancel()
	<-h.done
}

// Done is closed once the task has exited.
func (h *PollHandle) Done() <-chan struct{} {
	return h.done
}

// StartPolling begins checking the server for discovery results, replacing any
// poll already running. The task outlives ctx; it ends when the profile is
// complete, the attempt budget runs out, or the reconciler stops it.
func (r *Reconciler) StartPolling(ctx context.Context) *PollHandle {
	h, pollCtx := newHandle(ctx)

	r.mu.Lock()
	if r.closed || r.committed == nil {
		r.mu.Unlock()
		h.cancel()
		close(h.done)
		return h
	}
	previous := r.poll
	r.poll = h
	r.attempts = 0
	userId := r.committed.UserId
	r.mu.Unlock()

	previous.Stop()

	log.GetLogger().Info("Starting discovery polling", log.String("user_id", userId),
		log.Duration("interval", r.cfg.PollInterval), log.Int("max_attempts", r.cfg.MaxPollAttempts))
	go r.runPoll(pollCtx, h, userId)
	return h
}

func (r *Reconciler) runPoll(ctx context.Context, h *PollHandle, userId string) {
	defer close(h.done)
	defer r.releasePoll(h)
	defer h.cancel()

	schedule := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(r.cfg.PollInterval), uint64(r.cfg.MaxPollAttempts)), ctx)

	for {
		wait := schedule.NextBackOff()
		if wait == backoff.Stop {
			if ctx.Err() == nil {
				r.exhaust(h, userId)
			}
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-r.after(wait):
		}

		if finished := r.tick(ctx, h, userId); finished {
			return
		}
	}
}

// tick runs one status check and reports whether polling is over.
func (r *Reconciler) tick(ctx context.Context, h *PollHandle, userId string) bool {
	logger := log.GetLogger().With(log.String("user_id", userId))

	r.mu.Lock()
	if r.poll != h || ctx.Err() != nil {
		r.mu.Unlock()
		return true
	}
	r.attempts++
	attempt := r.attempts
	r.mu.Unlock()
	logger.Debug("Discovery poll tick", log.Int("attempt", attempt))

	conversations, err := r.api.GetConversations(ctx, userId)
	if ctx.Err() != nil {
		return true
	}
	if err != nil {
		logger.Warn("Polling conversations failed", log.Error(err))
	} else if len(conversations) > 0 {
		r.mu.Lock()
		if r.poll == h && r.flow == model.FlowCalling {
			r.setFlow(model.FlowExtracting)
		}
		r.mu.Unlock()
	}

	profile, err := r.api.GetProfile(ctx, userId)
	if ctx.Err() != nil {
		return true
	}
	if err != nil {
		logger.Warn("Polling profile failed", log.Error(err))
		r.metrics.IncPollTick("error")
		return false
	}
	if profile == nil || profile.Status.Rank() < profileModel.StatusPartial.Rank() {
		r.metrics.IncPollTick("pending")
		return false
	}

	complete := profile.Status.Rank() >= profileModel.StatusComplete.Rank()
	r.mu.Lock()
	if r.poll != h || ctx.Err() != nil {
		r.mu.Unlock()
		return true
	}
	r.merge(profile)
	if r.flow != model.FlowFormFilling && r.flow != model.FlowCompleted {
		r.setFlow(model.FlowFormFilling)
		r.startRevealLocked(ctx)
	}
	if complete {
		r.setFlow(model.FlowCompleted)
	}
	r.mu.Unlock()

	r.persist(ctx, profile)
	if complete {
		logger.Info("Discovery complete; polling stopped", log.Int("attempt", attempt))
		r.metrics.IncPollTick("complete")
		return true
	}
	r.metrics.IncPollTick("partial")
	return false
}

// merge applies a server update according to the merge policy. Callers hold r.mu.
func (r *Reconciler) merge(profile *profileModel.Profile) {
	r.committed = profile.Clone()
	if r.cfg.MergePolicy == constants.MergePolicyPreserveDraft && r.dirty {
		if r.draft.Status.Rank() < r.committed.Status.Rank() {
			r.draft.Status = r.committed.Status
		}
		r.dirty = !cmp.Equal(r.draft, r.committed)
		return
	}
	r.draft = profile.Clone()
	r.dirty = false
}

// exhaust handles a poll that ran out of attempts.
func (r *Reconciler) exhaust(h *PollHandle, userId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.poll != h {
		return
	}
	log.GetLogger().Info("Discovery polling budget exhausted", log.String("user_id", userId),
		log.Int("attempts", r.attempts))
	r.metrics.IncPollTick("exhausted")
	if r.flow.InDiscovery() {
		r.setFlow(model.FlowIdle)
	}
}

func (r *Reconciler) releasePoll(h *PollHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.poll == h {
		r.poll = nil
	}
}
