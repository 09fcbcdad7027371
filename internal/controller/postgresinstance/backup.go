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

import (
	"fmt"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/config"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// DefaultBackupSchedule runs a nightly backup when the spec enables backups
// without a schedule.
const DefaultBackupSchedule = "0 0 * * *"

// BuildBackupCronJob creates the scheduled logical backup CronJob. Returns
// nil when backups are disabled on the instance or operator-wide.
func BuildBackupCronJob(
	inst *pgforgev1alpha1.PostgresInstance,
	cfg *config.Config,
	scheme *runtime.Scheme,
) (*batchv1.CronJob, error) {
	if !cfg.EnableBackup || inst.Spec.Backup == nil || !inst.Spec.Backup.Enabled {
		return nil, nil
	}

	schedule := inst.Spec.Backup.Schedule
	if schedule == "" {
		schedule = DefaultBackupSchedule
	}

	env := []corev1.EnvVar{
		{
			Name: "PGURI",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: name.ConnectionSecret(inst.Name),
					},
					Key: "uri",
				},
			},
		},
	}
	if inst.Spec.Backup.DestinationPath != "" {
		env = append(env, corev1.EnvVar{
			Name:  "BACKUP_DESTINATION",
			Value: inst.Spec.Backup.DestinationPath,
		})
	}
	if inst.Spec.Backup.RetentionPolicy != "" {
		env = append(env, corev1.EnvVar{
			Name:  "BACKUP_RETENTION",
			Value: inst.Spec.Backup.RetentionPolicy,
		})
	}
	if inst.Spec.Backup.HasVolumeSnapshots() && cfg.EnableVolumeSnapshot {
		class := inst.Spec.Backup.VolumeSnapshot.SnapshotClass
		if class == "" {
			class = cfg.VolumeSnapshotClass
		}
		env = append(env,
			corev1.EnvVar{Name: "SNAPSHOT_ENABLED", Value: "true"},
			corev1.EnvVar{Name: "SNAPSHOT_CLASS", Value: class},
		)
	}

	var (
		successLimit int32 = 3
		failedLimit  int32 = 3
	)

	cron := &batchv1.CronJob{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.BackupCronJob(inst.Name),
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentBackup),
		},
		Spec: batchv1.CronJobSpec{
			Schedule:                   schedule,
			ConcurrencyPolicy:          batchv1.ForbidConcurrent,
			SuccessfulJobsHistoryLimit: &successLimit,
			FailedJobsHistoryLimit:     &failedLimit,
			JobTemplate: batchv1.JobTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: metadata.BuildStandardLabels(inst.Name, metadata.ComponentBackup),
				},
				Spec: batchv1.JobSpec{
					Template: corev1.PodTemplateSpec{
						ObjectMeta: metav1.ObjectMeta{
							Labels: metadata.BuildStandardLabels(inst.Name, metadata.ComponentBackup),
						},
						Spec: corev1.PodSpec{
							RestartPolicy: corev1.RestartPolicyNever,
							Containers: []corev1.Container{
								{
									Name:  "backup",
									Image: BackupImage,
									Env:   env,
								},
							},
						},
					},
				},
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, cron, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return cron, nil
}
