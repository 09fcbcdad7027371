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
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// StorageSpec defines the persistent storage backing the database.
type StorageSpec struct {
	// Size of the persistent volume, e.g. "10Gi". Shrinking is not
	// supported; only growth requests are applied.
	// +kubebuilder:validation:Required
	Size string `json:"size"`

	// Class is the StorageClass name.
	// +optional
	// +kubebuilder:validation:MinLength=1
	// +kubebuilder:validation:MaxLength=63
	Class string `json:"class,omitempty"`
}

// NetworkSpec configures client access to the instance.
type NetworkSpec struct {
	// IPAllowList restricts inbound connections to the listed CIDR blocks.
	// An empty list allows all sources.
	// +optional
	IPAllowList []string `json:"ipAllowList,omitempty"`

	// ExtraDomains lists additional domain names routed to the read-write
	// service.
	// +optional
	ExtraDomains []string `json:"extraDomains,omitempty"`
}

// PoolerPoolMode is the pgbouncer pooling mode.
// +kubebuilder:validation:Enum=session;transaction
type PoolerPoolMode string

const (
	// PoolModeSession assigns a server connection per client session.
	PoolModeSession PoolerPoolMode = "session"

	// PoolModeTransaction returns server connections after each transaction.
	PoolModeTransaction PoolerPoolMode = "transaction"
)

// PoolerSpec configures the connection pooler in front of the database.
type PoolerSpec struct {
	// Enabled turns the pooler deployment on.
	Enabled bool `json:"enabled"`

	// PoolMode selects the pgbouncer pooling mode.
	// +kubebuilder:default=transaction
	// +optional
	PoolMode PoolerPoolMode `json:"poolMode,omitempty"`

	// Parameters holds extra pgbouncer settings.
	// +optional
	Parameters map[string]string `json:"parameters,omitempty"`

	// Replicas is the number of pooler pods.
	// +kubebuilder:validation:Minimum=1
	// +optional
	Replicas *int32 `json:"replicas,omitempty"`
}

// BackupSpec configures scheduled backups for the instance.
type BackupSpec struct {
	// Enabled turns the backup schedule on.
	Enabled bool `json:"enabled"`

	// Schedule is a cron expression controlling backup frequency.
	// +kubebuilder:default="0 0 * * *"
	// +optional
	Schedule string `json:"schedule,omitempty"`

	// RetentionPolicy is how long backups are kept, e.g. "30d".
	// +optional
	RetentionPolicy string `json:"retentionPolicy,omitempty"`

	// DestinationPath is the object-store path backups are written to.
	// +optional
	DestinationPath string `json:"destinationPath,omitempty"`

	// VolumeSnapshot configures storage-level snapshots in addition to
	// logical backups.
	// +optional
	VolumeSnapshot *VolumeSnapshotSpec `json:"volumeSnapshot,omitempty"`
}

// VolumeSnapshotSpec configures storage-level snapshots.
type VolumeSnapshotSpec struct {
	// Enabled turns volume snapshots on.
	Enabled bool `json:"enabled"`

	// SnapshotClass is the VolumeSnapshotClass to use.
	// +optional
	SnapshotClass string `json:"snapshotClass,omitempty"`
}

// MonitoringSpec configures metrics collection.
type MonitoringSpec struct {
	// Enabled turns on the metrics exporter sidecar and its PodMonitor.
	Enabled bool `json:"enabled"`

	// Queries maps query names to SQL used by the exporter, rendered into
	// the metrics ConfigMap.
	// +optional
	Queries map[string]string `json:"queries,omitempty"`
}

// ServiceAccountTemplate customizes the ServiceAccount created for the
// Postgres pods.
type ServiceAccountTemplate struct {
	// Metadata applied to the generated ServiceAccount.
	// +optional
	Metadata *EmbeddedMetadata `json:"metadata,omitempty"`
}

// EmbeddedMetadata is the subset of ObjectMeta that templates may set.
type EmbeddedMetadata struct {
	// +optional
	Labels map[string]string `json:"labels,omitempty"`

	// +optional
	Annotations map[string]string `json:"annotations,omitempty"`
}

// HasVolumeSnapshots reports whether storage-level snapshots are requested.
func (b *BackupSpec) HasVolumeSnapshots() bool {
	return b != nil && b.VolumeSnapshot != nil && b.VolumeSnapshot.Enabled
}

// ConditionOfType returns the condition with the given type, or nil.
func (s *PostgresInstanceStatus) ConditionOfType(t string) *metav1.Condition {
	for i := range s.Conditions {
		if s.Conditions[i].Type == t {
			return &s.Conditions[i]
		}
	}
	return nil
}
