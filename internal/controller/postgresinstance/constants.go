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

package postgresinstance

const (
	finalizerName = "pgforge.io/finalizer"

	// annotationReconcile pauses reconciliation for an instance when set to
	// "false". The instance and its children are left untouched until the
	// annotation is removed or changed.
	annotationReconcile = "pgforge.io/reconcile"

	// DefaultPort is the Postgres listen port used when the spec leaves it
	// unset.
	DefaultPort int32 = 5432

	// DefaultReplicas is the workload size used when the spec leaves it unset.
	DefaultReplicas int32 = 1

	// DefaultImageRepository is the image repository the Postgres image is
	// derived from when the spec does not override the image.
	DefaultImageRepository = "quay.io/pgforge/postgres"

	// PoolerImage runs pgbouncer in front of the database.
	PoolerImage = "quay.io/pgforge/pgbouncer:1.22.1"

	// ExporterImage is the metrics exporter sidecar.
	ExporterImage = "quay.io/pgforge/postgres-exporter:0.15.0"

	// BackupImage runs scheduled logical backups.
	BackupImage = "quay.io/pgforge/pgbackup:1.4.0"

	// InstallerImage fetches and installs extension packages at runtime.
	InstallerImage = "quay.io/pgforge/trunk-install:0.12.0"

	// DataVolumeName is the name of the Postgres data volume.
	DataVolumeName = "data"

	// DataMountPath is where the data volume is mounted.
	DataMountPath = "/var/lib/postgresql/data"

	// ConfigMountPath is where the rendered postgresql.conf is mounted.
	ConfigMountPath = "/etc/postgresql"
)

// Event reasons emitted on the PostgresInstance.
const (
	eventCreated        = "Created"
	eventUpdated        = "Updated"
	eventDeleted        = "Deleted"
	eventApplyFailed    = "ApplyFailed"
	eventInvalidSpec    = "InvalidSpec"
	eventPaused         = "ReconcilePaused"
	eventCleanup        = "Cleanup"
	eventCleanupBlocked = "CleanupBlocked"
	eventResizing       = "StorageResizing"
)
