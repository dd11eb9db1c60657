// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package container starts and stops the local service containers used in
// development, such as the Redis server behind the redis store backend.
// Docker is preferred; Podman is used when Docker is absent.
package container

import (
	"fmt"
	"os/exec"
	"strings"
)

const (
	binDocker = "docker"
	binPodman = "podman"
)

// Service describes one detached container.
type Service struct {
	// Name is the container name; it must be unique on the host.
	Name  string
	Image string
	// Ports are host:container publish specs, e.g. "6379:6379".
	Ports []string
}

// RedisService is the development Redis server, published on hostPort.
func RedisService(hostPort int) Service {
	return Service{
		Name:  "sentiment-dashboard-redis",
		Image: "redis:7-alpine",
		Ports: []string{fmt.Sprintf("%d:6379", hostPort)},
	}
}

// Runtime manages detached service containers.
type Runtime interface {
	// Name returns "docker" or "podman".
	Name() string

	// Available reports whether the binary is on PATH and its daemon or
	// machine responds.
	Available() bool

	// Running reports whether a container with the given name is up.
	Running(name string) (bool, error)

	// Start runs svc detached, removing the container when it stops.
	Start(svc Service) error

	// Stop stops the named container.
	Stop(name string) error
}

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunSilent(name string, args ...string) error
	Output(name string, args ...string) ([]byte, error)
}

type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunSilent(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

func (o *osExecutor) Output(name string, args ...string) ([]byte, error) {
	return exec.Command(name, args...).Output()
}

// runtime implements Runtime for Docker and Podman, whose CLIs agree on
// every subcommand used here.
type runtime struct {
	bin  string
	exec executor
}

func (r *runtime) Name() string { return r.bin }

func (r *runtime) Available() bool {
	if _, err := r.exec.LookPath(r.bin); err != nil {
		return false
	}
	return r.exec.RunSilent(r.bin, "info") == nil
}

func (r *runtime) Running(name string) (bool, error) {
	out, err := r.exec.Output(r.bin, "ps", "--filter", "name=^"+name+"$", "--format", "{{.Names}}")
	if err != nil {
		return false, fmt.Errorf("listing %s containers: %w", r.bin, err)
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) == name {
			return true, nil
		}
	}
	return false, nil
}

func (r *runtime) Start(svc Service) error {
	args := []string{"run", "-d", "--rm", "--name", svc.Name}
	for _, p := range svc.Ports {
		args = append(args, "-p", p)
	}
	args = append(args, svc.Image)

	if err := r.exec.RunSilent(r.bin, args...); err != nil {
		return fmt.Errorf("starting %s container %s: %w", r.bin, svc.Name, err)
	}
	return nil
}

func (r *runtime) Stop(name string) error {
	if err := r.exec.RunSilent(r.bin, "stop", name); err != nil {
		return fmt.Errorf("stopping %s container %s: %w", r.bin, name, err)
	}
	return nil
}

// Up starts svc unless it is already running. It reports whether a new
// container was started.
func Up(rt Runtime, svc Service) (bool, error) {
	running, err := rt.Running(svc.Name)
	if err != nil {
		return false, err
	}
	if running {
		return false, nil
	}
	return true, rt.Start(svc)
}

var defaultExec = &osExecutor{}

// DetectRuntime tries docker first, falls back to podman. Returns an error
// if neither runtime is available.
func DetectRuntime() (Runtime, error) {
	return detectRuntime(defaultExec)
}

func detectRuntime(exec executor) (Runtime, error) {
	for _, bin := range []string{binDocker, binPodman} {
		rt := &runtime{bin: bin, exec: exec}
		if rt.Available() {
			return rt, nil
		}
	}
	return nil, fmt.Errorf(
		"no container runtime available: neither %s nor %s found or operational",
		binDocker, binPodman,
	)
}
