// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetupWithoutEndpointIsNoop(t *testing.T) {
	shutdown, err := Setup(context.Background(), "", "", "test")
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	require.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestSetupWithEndpoint(t *testing.T) {
	// exporter 延遲連線，建立時不需要 collector 在線。
	shutdown, err := Setup(context.Background(), "logiclab-test", "http://127.0.0.1:4318", "test")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
