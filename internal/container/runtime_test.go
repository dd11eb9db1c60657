// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package container

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecutor records calls and returns configured responses.
type mockExecutor struct {
	availableBins map[string]bool   // binary -> whether LookPath succeeds
	runnableCmds  map[string]bool   // "bin arg1 arg2" -> whether RunSilent succeeds
	outputs       map[string]string // "bin arg1 arg2" -> Output result
	calls         []string
}

func (m *mockExecutor) LookPath(file string) (string, error) {
	if m.availableBins[file] {
		return "/usr/bin/" + file, nil
	}
	return "", errors.New("not found: " + file)
}

func (m *mockExecutor) RunSilent(name string, args ...string) error {
	key := name + " " + strings.Join(args, " ")
	m.calls = append(m.calls, key)
	if m.runnableCmds[key] {
		return nil
	}
	return errors.New("command failed: " + key)
}

func (m *mockExecutor) Output(name string, args ...string) ([]byte, error) {
	key := name + " " + strings.Join(args, " ")
	m.calls = append(m.calls, key)
	out, ok := m.outputs[key]
	if !ok {
		return nil, errors.New("command failed: " + key)
	}
	return []byte(out), nil
}

const psRedis = "docker ps --filter name=^sentiment-dashboard-redis$ --format {{.Names}}"

func TestDetectRuntime(t *testing.T) {
	tests := []struct {
		name     string
		exec     *mockExecutor
		wantName string
		wantErr  bool
	}{
		{
			name: "docker available",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true},
				runnableCmds:  map[string]bool{"docker info": true},
			},
			wantName: "docker",
		},
		{
			name: "podman fallback when docker missing",
			exec: &mockExecutor{
				availableBins: map[string]bool{"podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name: "docker on PATH but info fails",
			exec: &mockExecutor{
				availableBins: map[string]bool{"docker": true, "podman": true},
				runnableCmds:  map[string]bool{"podman info": true},
			},
			wantName: "podman",
		},
		{
			name:    "neither available",
			exec:    &mockExecutor{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, err := detectRuntime(tt.exec)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "no container runtime available")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, rt.Name())
		})
	}
}

func TestRunning(t *testing.T) {
	tests := []struct {
		name    string
		outputs map[string]string
		want    bool
		wantErr bool
	}{
		{"running", map[string]string{psRedis: "sentiment-dashboard-redis\n"}, true, false},
		{"not running", map[string]string{psRedis: ""}, false, false},
		{"prefix match only", map[string]string{psRedis: "sentiment-dashboard-redis-old\n"}, false, false},
		{"ps fails", map[string]string{}, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := &runtime{bin: binDocker, exec: &mockExecutor{outputs: tt.outputs}}
			got, err := rt.Running("sentiment-dashboard-redis")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUpStartsRedisOnce(t *testing.T) {
	svc := RedisService(6380)
	start := "podman run -d --rm --name sentiment-dashboard-redis -p 6380:6379 redis:7-alpine"
	ps := strings.Replace(psRedis, "docker", "podman", 1)

	t.Run("starts when absent", func(t *testing.T) {
		m := &mockExecutor{
			outputs:      map[string]string{ps: ""},
			runnableCmds: map[string]bool{start: true},
		}
		started, err := Up(&runtime{bin: binPodman, exec: m}, svc)
		require.NoError(t, err)
		assert.True(t, started)
		assert.Contains(t, m.calls, start)
	})

	t.Run("leaves a running container alone", func(t *testing.T) {
		m := &mockExecutor{outputs: map[string]string{ps: "sentiment-dashboard-redis\n"}}
		started, err := Up(&runtime{bin: binPodman, exec: m}, svc)
		require.NoError(t, err)
		assert.False(t, started)
		assert.NotContains(t, m.calls, start)
	})

	t.Run("start failure is wrapped", func(t *testing.T) {
		m := &mockExecutor{outputs: map[string]string{ps: ""}}
		_, err := Up(&runtime{bin: binPodman, exec: m}, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sentiment-dashboard-redis")
	})
}

func TestStop(t *testing.T) {
	m := &mockExecutor{runnableCmds: map[string]bool{"docker stop sentiment-dashboard-redis": true}}
	rt := &runtime{bin: binDocker, exec: m}
	assert.NoError(t, rt.Stop("sentiment-dashboard-redis"))
	assert.Error(t, rt.Stop("other"))
}
