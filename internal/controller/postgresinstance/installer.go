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
	"strings"

	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildInstallerJob creates the Job that fetches and installs the requested
// extension packages. Job specs are immutable, so the name carries a hash of
// the install set: changing the set produces a new Job while the finished
// one for the old set is garbage collected as a stale child. Returns nil
// when no installs are requested.
func BuildInstallerJob(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*batchv1.Job, error) {
	if len(inst.Spec.Installs) == 0 {
		return nil, nil
	}

	specs := make([]string, 0, len(inst.Spec.Installs))
	for _, pkg := range inst.Spec.Installs {
		if pkg.Version != "" {
			specs = append(specs, pkg.Name+"="+pkg.Version)
		} else {
			specs = append(specs, pkg.Name)
		}
	}

	jobName := name.InstallerJob(inst.Name) + "-" + name.Hash(specs)

	var backoffLimit int32 = 4
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      jobName,
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: &backoffLimit,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{
							Name:  "installer",
							Image: InstallerImage,
							Args:  []string{"install", strings.Join(specs, ",")},
							Env: []corev1.EnvVar{
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
								{
									Name:  "TARGET_WORKLOAD",
									Value: fmt.Sprintf("%s/%s", inst.Namespace, name.Workload(inst.Name)),
								},
							},
						},
					},
				},
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, job, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return job, nil
}

// BuildEnablerJob creates the Job that runs CREATE EXTENSION and DROP
// EXTENSION against the server for the requested install locations. Like the
// installer it is hash-named per location set: editing spec.extensions spawns
// a fresh Job and the finished one is collected as a stale child. Returns nil
// when no extensions are requested.
func BuildEnablerJob(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*batchv1.Job, error) {
	desired := pgforgev1alpha1.DedupeExtensions(inst.Spec.Extensions)
	if len(desired) == 0 {
		return nil, nil
	}

	var enable, disable []string
	for _, ext := range desired {
		for _, loc := range ext.Locations {
			spec := ext.Name + "@" + loc.Database
			if loc.Schema != "" {
				spec += "." + loc.Schema
			}
			if !loc.Enabled {
				disable = append(disable, spec)
				continue
			}
			if loc.Version != "" {
				spec += "=" + loc.Version
			}
			enable = append(enable, spec)
		}
	}

	args := []string{"enable"}
	if len(enable) > 0 {
		args = append(args, strings.Join(enable, ","))
	}
	if len(disable) > 0 {
		args = append(args, "--drop", strings.Join(disable, ","))
	}

	// Hash the full argument list so toggling a location between enable and
	// drop changes the Job name even when the location spec is unchanged.
	jobName := name.EnablerJob(inst.Name) + "-" + name.Hash(args)

	var backoffLimit int32 = 4
	job := &batchv1.Job{
		ObjectMeta: metav1.ObjectMeta{
			Name:      jobName,
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
		},
		Spec: batchv1.JobSpec{
			BackoffLimit: &backoffLimit,
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
				},
				Spec: corev1.PodSpec{
					RestartPolicy: corev1.RestartPolicyNever,
					Containers: []corev1.Container{
						{
							Name:  "enabler",
							Image: InstallerImage,
							Args:  args,
							Env: []corev1.EnvVar{
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
							},
						},
					},
				},
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, job, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return job, nil
}
