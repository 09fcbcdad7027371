/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package v1alpha1

import (
	corev1 "k8s.io/api/core/v1"
)

// AppService declares an application container deployed alongside the
// database, with its own Deployment, Service and optional ingress routing.
type AppService struct {
	// Name of the service. Must be unique within the instance.
	// +kubebuilder:validation:Required
	Name string `json:"name"`

	// Image is the container image to run.
	// +kubebuilder:validation:Required
	Image string `json:"image"`

	// +optional
	Command []string `json:"command,omitempty"`

	// +optional
	Args []string `json:"args,omitempty"`

	// Env holds environment variables for the container. The instance
	// connection secret is always injected in addition.
	// +optional
	Env []corev1.EnvVar `json:"env,omitempty"`

	// Ports lists host:container port mappings, e.g. "8080:3000".
	// +optional
	Ports []PortMapping `json:"ports,omitempty"`

	// Resources defines compute requirements for the container.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// Probes configures readiness and liveness probes.
	// +optional
	Probes *Probes `json:"probes,omitempty"`

	// Metrics configures a scrape target for the service.
	// +optional
	Metrics *AppMetrics `json:"metrics,omitempty"`

	// Storage lists volume mounts backed by ephemeral volumes.
	// +optional
	Storage []AppStorageMount `json:"storage,omitempty"`

	// Routing lists ingress rules exposing the service externally.
	// +optional
	Routing []Routing `json:"routing,omitempty"`
}

// PortMapping exposes a container port on a host port.
type PortMapping struct {
	// Host is the port the Service listens on.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	Host int32 `json:"host"`

	// Container is the port the container listens on.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	Container int32 `json:"container"`
}

// Probes configures container health checking.
type Probes struct {
	Readiness Probe `json:"readiness"`
	Liveness  Probe `json:"liveness"`
}

// Probe is a single HTTP health probe.
type Probe struct {
	Path string `json:"path"`
	Port int32  `json:"port"`

	// +optional
	InitialDelaySeconds int32 `json:"initialDelaySeconds,omitempty"`
}

// AppMetrics marks a port/path for metrics scraping.
type AppMetrics struct {
	Enabled bool   `json:"enabled"`
	Port    int32  `json:"port"`
	Path    string `json:"path"`
}

// AppStorageMount is an ephemeral volume mounted into the app container.
type AppStorageMount struct {
	Name      string `json:"name"`
	MountPath string `json:"mountPath"`

	// Size of the ephemeral volume, e.g. "1Gi".
	Size string `json:"size"`
}

// Routing exposes one app service port on an external hostname path.
type Routing struct {
	Port int32 `json:"port"`

	// +optional
	IngressPath string `json:"ingressPath,omitempty"`

	// EntryPoints names the ingress entry points the route is attached to.
	// +optional
	EntryPoints []string `json:"entryPoints,omitempty"`
}
