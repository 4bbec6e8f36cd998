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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

func TestMain(m *testing.M) {
	_ = log.Init("ERROR")
	goleak.VerifyTestMain(m)
}

func TestRefreshWorker_ProcessesJobs(t *testing.T) {
	var runs atomic.Int32
	w := NewRefreshWorker("test", 4, func(context.Context) { runs.Add(1) })
	ctx, cancel := context.WithCancel(context.Background())

	w.Start(ctx)
	w.Start(ctx)
	require.True(t, w.Enqueue("one"))
	require.True(t, w.Enqueue("two"))

	assert.Eventually(t, func() bool { return runs.Load() == 2 }, time.Second, time.Millisecond)
	cancel()
	<-w.Done()
}

func TestRefreshWorker_FullQueueDrops(t *testing.T) {
	w := NewRefreshWorker("test", 1, func(context.Context) {})

	assert.True(t, w.Enqueue("first"))
	assert.False(t, w.Enqueue("second"))
}
