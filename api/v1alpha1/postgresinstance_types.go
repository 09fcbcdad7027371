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
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// PostgresInstanceSpec defines the desired state of a managed Postgres
// deployment. The spec is written by users and the control plane only; the
// operator never originates spec changes.
type PostgresInstanceSpec struct {
	// Version is the Postgres major version to run, e.g. "16".
	// +kubebuilder:validation:Required
	Version string `json:"version"`

	// Image overrides the container image derived from Version.
	// +optional
	Image string `json:"image,omitempty"`

	// Replicas is the desired number of Postgres pods.
	// +kubebuilder:validation:Minimum=1
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`

	// Port is the Postgres listen port.
	// +kubebuilder:validation:Minimum=1
	// +kubebuilder:validation:Maximum=65535
	// +optional
	Port *int32 `json:"port,omitempty"`

	// Resources defines the compute resource requirements for the Postgres
	// container.
	// +optional
	Resources corev1.ResourceRequirements `json:"resources,omitempty"`

	// Storage configures the persistent volume backing the database.
	// +kubebuilder:validation:Required
	Storage StorageSpec `json:"storage"`

	// Extensions lists the Postgres extensions to enable, per database.
	// +optional
	Extensions []Extension `json:"extensions,omitempty"`

	// Installs lists extension packages to fetch and install at runtime
	// before they can be enabled.
	// +optional
	Installs []ExtensionInstall `json:"installs,omitempty"`

	// RuntimeConfig holds Postgres configuration parameters applied to the
	// running instance.
	// +optional
	RuntimeConfig []PgParameter `json:"runtimeConfig,omitempty"`

	// OverrideConfig holds user-supplied parameters that take precedence over
	// RuntimeConfig.
	// +optional
	OverrideConfig []PgParameter `json:"overrideConfig,omitempty"`

	// AppServices lists application sidecar services deployed next to the
	// database.
	// +optional
	AppServices []AppService `json:"appServices,omitempty"`

	// Network configures client access rules.
	// +optional
	Network *NetworkSpec `json:"network,omitempty"`

	// Pooler configures the connection pooler.
	// +optional
	Pooler *PoolerSpec `json:"pooler,omitempty"`

	// Backup configures scheduled backups.
	// +optional
	Backup *BackupSpec `json:"backup,omitempty"`

	// Monitoring configures metrics collection for the instance.
	// +optional
	Monitoring *MonitoringSpec `json:"monitoring,omitempty"`

	// Stop hibernates the instance: the workload is scaled to zero while all
	// other objects and data are kept.
	// +optional
	Stop bool `json:"stop,omitempty"`

	// ServiceAccountTemplate customizes the ServiceAccount used by the
	// Postgres pods.
	// +optional
	ServiceAccountTemplate *ServiceAccountTemplate `json:"serviceAccountTemplate,omitempty"`
}

// Phase describes the lifecycle phase of a PostgresInstance.
// +kubebuilder:validation:Enum=Pending;Reconciling;Ready;Degraded;Error;Finalizing
type Phase string

const (
	// PhasePending means the instance has never been reconciled.
	PhasePending Phase = "Pending"

	// PhaseReconciling means a reconcile pass is converging the instance.
	PhaseReconciling Phase = "Reconciling"

	// PhaseReady means all managed objects are present and ready.
	PhaseReady Phase = "Ready"

	// PhaseDegraded means some managed object is not yet ready.
	PhaseDegraded Phase = "Degraded"

	// PhaseError means the last pass hit a terminal error that requires a
	// spec change to clear.
	PhaseError Phase = "Error"

	// PhaseFinalizing means the instance is being deleted and cleanup is in
	// progress.
	PhaseFinalizing Phase = "Finalizing"
)

// PostgresInstanceStatus defines the observed state of a PostgresInstance.
// It is owned exclusively by the operator.
type PostgresInstanceStatus struct {
	// Phase summarizes the instance lifecycle.
	// +optional
	Phase Phase `json:"phase,omitempty"`

	// Running reports whether the Postgres server process is up.
	// +optional
	Running bool `json:"running,omitempty"`

	// ObservedGeneration is the spec generation last acted upon.
	// +optional
	ObservedGeneration int64 `json:"observedGeneration,omitempty"`

	// Conditions describe the detailed state of the instance.
	// +optional
	// +listType=map
	// +listMapKey=type
	Conditions []metav1.Condition `json:"conditions,omitempty"`

	// Extensions reports per-location enablement state for every requested
	// extension.
	// +optional
	Extensions []ExtensionStatus `json:"extensions,omitempty"`

	// Installs reports installation state for runtime-installed extension
	// packages.
	// +optional
	Installs []ExtensionInstallStatus `json:"installs,omitempty"`

	// Storage echoes the storage size currently applied to the workload.
	// +optional
	Storage *resource.Quantity `json:"storage,omitempty"`

	// Resources echoes the compute resources currently applied.
	// +optional
	Resources *corev1.ResourceRequirements `json:"resources,omitempty"`

	// RuntimeConfig echoes the Postgres parameters currently applied.
	// +optional
	RuntimeConfig []PgParameter `json:"runtimeConfig,omitempty"`

	// LastFullReconcile is the completion time of the last pass that applied
	// every action successfully.
	// +optional
	LastFullReconcile *metav1.Time `json:"lastFullReconcile,omitempty"`
}

// +kubebuilder:object:root=true
// +kubebuilder:subresource:status
// +kubebuilder:resource:shortName=pgi
// +kubebuilder:printcolumn:name="Version",type=string,JSONPath=`.spec.version`
// +kubebuilder:printcolumn:name="Phase",type=string,JSONPath=`.status.phase`
// +kubebuilder:printcolumn:name="Running",type=boolean,JSONPath=`.status.running`
// +kubebuilder:printcolumn:name="Age",type=date,JSONPath=`.metadata.creationTimestamp`

// PostgresInstance is the Schema for the postgresinstances API.
type PostgresInstance struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   PostgresInstanceSpec   `json:"spec,omitempty"`
	Status PostgresInstanceStatus `json:"status,omitempty"`
}

// +kubebuilder:object:root=true

// PostgresInstanceList contains a list of PostgresInstance.
type PostgresInstanceList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []PostgresInstance `json:"items"`
}

func init() {
	SchemeBuilder.Register(&PostgresInstance{}, &PostgresInstanceList{})
}
