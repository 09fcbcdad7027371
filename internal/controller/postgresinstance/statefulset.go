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

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
	"github.com/pgforge/postgres-operator/pkg/util/pvc"
)

// instanceImage resolves the Postgres container image for the instance.
func instanceImage(inst *pgforgev1alpha1.PostgresInstance) string {
	if inst.Spec.Image != "" {
		return inst.Spec.Image
	}
	return fmt.Sprintf("%s:%s", DefaultImageRepository, inst.Spec.Version)
}

// instancePort resolves the Postgres listen port.
func instancePort(inst *pgforgev1alpha1.PostgresInstance) int32 {
	if inst.Spec.Port != nil {
		return *inst.Spec.Port
	}
	return DefaultPort
}

// instanceReplicas resolves the workload size. A stopped instance keeps its
// StatefulSet at zero replicas; data and all other objects stay.
func instanceReplicas(inst *pgforgev1alpha1.PostgresInstance) int32 {
	if inst.Spec.Stop {
		return 0
	}
	if inst.Spec.Replicas != nil {
		return *inst.Spec.Replicas
	}
	return DefaultReplicas
}

// instanceResources returns the compute class for the Postgres container. A
// spec that sets nothing gets the default class so the workload never runs
// unbounded.
func instanceResources(inst *pgforgev1alpha1.PostgresInstance) corev1.ResourceRequirements {
	if len(inst.Spec.Resources.Requests) > 0 || len(inst.Spec.Resources.Limits) > 0 {
		return inst.Spec.Resources
	}
	return corev1.ResourceRequirements{
		Requests: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("500m"),
			corev1.ResourceMemory: resource.MustParse("512Mi"),
		},
		Limits: corev1.ResourceList{
			corev1.ResourceCPU:    resource.MustParse("2"),
			corev1.ResourceMemory: resource.MustParse("2Gi"),
		},
	}
}

// BuildStatefulSet creates the Postgres StatefulSet for the instance.
func BuildStatefulSet(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*appsv1.StatefulSet, error) {
	replicas := instanceReplicas(inst)
	port := instancePort(inst)
	labels := metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres)

	serviceAccountName := ""
	if inst.Spec.ServiceAccountTemplate != nil {
		serviceAccountName = name.Workload(inst.Name)
	}

	containers := []corev1.Container{
		{
			Name:  "postgres",
			Image: instanceImage(inst),
			Ports: []corev1.ContainerPort{
				{Name: "postgres", ContainerPort: port},
			},
			Env: []corev1.EnvVar{
				{Name: "PGDATA", Value: DataMountPath + "/pgdata"},
				{
					Name: "POSTGRES_PASSWORD",
					ValueFrom: &corev1.EnvVarSource{
						SecretKeyRef: &corev1.SecretKeySelector{
							LocalObjectReference: corev1.LocalObjectReference{
								Name: name.ConnectionSecret(inst.Name),
							},
							Key: "password",
						},
					},
				},
			},
			Args: []string{
				"-c", fmt.Sprintf("config_file=%s/postgresql.conf", ConfigMountPath),
			},
			Resources: instanceResources(inst),
			VolumeMounts: []corev1.VolumeMount{
				{Name: DataVolumeName, MountPath: DataMountPath},
				{Name: "config", MountPath: ConfigMountPath, ReadOnly: true},
			},
			ReadinessProbe: &corev1.Probe{
				ProbeHandler: corev1.ProbeHandler{
					Exec: &corev1.ExecAction{
						Command: []string{"pg_isready", "-U", "postgres"},
					},
				},
				InitialDelaySeconds: 5,
				PeriodSeconds:       10,
			},
			LivenessProbe: &corev1.Probe{
				ProbeHandler: corev1.ProbeHandler{
					TCPSocket: &corev1.TCPSocketAction{
						Port: intstr.FromInt32(port),
					},
				},
				InitialDelaySeconds: 30,
				PeriodSeconds:       20,
			},
		},
	}

	volumes := []corev1.Volume{
		{
			Name: "config",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: name.ConfigMap(inst.Name),
					},
				},
			},
		},
	}

	if inst.Spec.Monitoring != nil && inst.Spec.Monitoring.Enabled {
		containers = append(containers, buildExporterContainer(inst, port))
		volumes = append(volumes, corev1.Volume{
			Name: "metrics-queries",
			VolumeSource: corev1.VolumeSource{
				ConfigMap: &corev1.ConfigMapVolumeSource{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: name.MetricsConfigMap(inst.Name),
					},
				},
			},
		})
	}

	// The claim template carries the instance label so grown claims can be
	// found by listing; claims inherit labels from the template only.
	dataClaim := pvc.BuildTemplate(DataVolumeName, inst.Spec.Storage.Class, inst.Spec.Storage.Size)
	dataClaim.Labels = map[string]string{metadata.LabelInstance: inst.Name}

	sts := &appsv1.StatefulSet{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.Workload(inst.Name),
			Namespace: inst.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.StatefulSetSpec{
			ServiceName: name.HeadlessService(inst.Name),
			Replicas:    &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: metadata.SelectorLabels(inst.Name, metadata.ComponentPostgres),
			},
			UpdateStrategy: appsv1.StatefulSetUpdateStrategy{
				Type: appsv1.RollingUpdateStatefulSetStrategyType,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
				},
				Spec: corev1.PodSpec{
					ServiceAccountName: serviceAccountName,
					Containers:         containers,
					Volumes:            volumes,
				},
			},
			VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
				dataClaim,
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, sts, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return sts, nil
}

// buildExporterContainer is the metrics exporter sidecar scraped by the
// PodMonitor.
func buildExporterContainer(inst *pgforgev1alpha1.PostgresInstance, port int32) corev1.Container {
	return corev1.Container{
		Name:  "exporter",
		Image: ExporterImage,
		Ports: []corev1.ContainerPort{
			{Name: "metrics", ContainerPort: 9187},
		},
		Env: []corev1.EnvVar{
			{
				Name:  "DATA_SOURCE_URI",
				Value: fmt.Sprintf("localhost:%d/postgres?sslmode=disable", port),
			},
			{Name: "PG_EXPORTER_EXTEND_QUERY_PATH", Value: "/etc/exporter/queries.yaml"},
			{Name: "DATA_SOURCE_USER", Value: "postgres"},
			{
				Name: "DATA_SOURCE_PASS",
				ValueFrom: &corev1.EnvVarSource{
					SecretKeyRef: &corev1.SecretKeySelector{
						LocalObjectReference: corev1.LocalObjectReference{
							Name: name.ConnectionSecret(inst.Name),
						},
						Key: "password",
					},
				},
			},
		},
		VolumeMounts: []corev1.VolumeMount{
			{Name: "metrics-queries", MountPath: "/etc/exporter", ReadOnly: true},
		},
	}
}
