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

package workers

import (
	"context"
	"sync"

	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

// RefreshWorker runs refresh jobs one at a time off a bounded queue.
type RefreshWorker struct {
	name      string
	refresh   func(ctx context.Context)
	queue     chan string
	startOnce sync.Once
	done      chan struct{}
}

func NewRefreshWorker(name string, queueSize int, refresh func(ctx context.Context)) *RefreshWorker {
	return &RefreshWorker{
		name:    name,
		refresh: refresh,
		queue:   make(chan string, queueSize),
		done:    make(chan struct{}),
	}
}

// Start processes queued jobs until ctx is cancelled. Calling it more than
// once has no effect.
func (w *RefreshWorker) Start(ctx context.Context) {
	w.startOnce.Do(func() {
		go func() {
			defer close(w.done)
			for {
				select {
				case <-ctx.Done():
					return
				case reason := <-w.queue:
					log.GetLogger().Debug("Processing refresh job", log.String("worker", w.name),
						log.String("reason", reason))
					w.refresh(ctx)
				}
			}
		}()
	})
}

// Enqueue adds a job. It returns false if the queue is full.
func (w *RefreshWorker) Enqueue(reason string) bool {
	select {
	case w.queue <- reason:
		return true
	default:
		log.GetLogger().Warn("Refresh queue is full; dropping job", log.String("worker", w.name),
			log.String("reason", reason))
		return false
	}
}

// Done is closed once a started worker has stopped.
func (w *RefreshWorker) Done() <-chan struct{} {
	return w.done
}
