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
	"sort"

	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// poolerEnabled reports whether the instance wants a connection pooler.
func poolerEnabled(inst *pgforgev1alpha1.PostgresInstance) bool {
	return inst.Spec.Pooler != nil && inst.Spec.Pooler.Enabled
}

// BuildPoolerDeployment creates the pgbouncer Deployment. Returns nil when
// the pooler is disabled.
func BuildPoolerDeployment(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*appsv1.Deployment, error) {
	if !poolerEnabled(inst) {
		return nil, nil
	}

	replicas := int32(1)
	if inst.Spec.Pooler.Replicas != nil {
		replicas = *inst.Spec.Pooler.Replicas
	}

	poolMode := inst.Spec.Pooler.PoolMode
	if poolMode == "" {
		poolMode = pgforgev1alpha1.PoolModeTransaction
	}

	port := instancePort(inst)
	labels := metadata.BuildStandardLabels(inst.Name, metadata.ComponentPooler)

	env := []corev1.EnvVar{
		{
			Name:  "PGBOUNCER_BACKEND_HOST",
			Value: fmt.Sprintf("%s.%s.svc.cluster.local", name.ReadWriteService(inst.Name), inst.Namespace),
		},
		{Name: "PGBOUNCER_BACKEND_PORT", Value: fmt.Sprintf("%d", port)},
		{Name: "PGBOUNCER_POOL_MODE", Value: string(poolMode)},
		{
			Name: "PGBOUNCER_AUTH_PASSWORD",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: name.ConnectionSecret(inst.Name),
					},
					Key: "password",
				},
			},
		},
	}

	// Extra settings go through the environment in sorted order so the pod
	// template stays stable between passes.
	paramNames := make([]string, 0, len(inst.Spec.Pooler.Parameters))
	for p := range inst.Spec.Pooler.Parameters {
		paramNames = append(paramNames, p)
	}
	sort.Strings(paramNames)
	for _, p := range paramNames {
		env = append(env, corev1.EnvVar{
			Name:  "PGBOUNCER_" + toEnvName(p),
			Value: inst.Spec.Pooler.Parameters[p],
		})
	}

	deploy := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.Pooler(inst.Name),
			Namespace: inst.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: metadata.SelectorLabels(inst.Name, metadata.ComponentPooler),
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{
						{
							Name:  "pgbouncer",
							Image: PoolerImage,
							Ports: []corev1.ContainerPort{
								{Name: "pgbouncer", ContainerPort: port},
							},
							Env: env,
							ReadinessProbe: &corev1.Probe{
								ProbeHandler: corev1.ProbeHandler{
									TCPSocket: &corev1.TCPSocketAction{
										Port: intstr.FromInt32(port),
									},
								},
								InitialDelaySeconds: 3,
								PeriodSeconds:       10,
							},
						},
					},
				},
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, deploy, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return deploy, nil
}

// BuildPoolerService creates the Service in front of the pooler pods.
// Returns nil when the pooler is disabled.
func BuildPoolerService(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	if !poolerEnabled(inst) {
		return nil, nil
	}

	port := instancePort(inst)
	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.Pooler(inst.Name),
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentPooler),
		},
		Spec: corev1.ServiceSpec{
			Selector: metadata.SelectorLabels(inst.Name, metadata.ComponentPooler),
			Ports: []corev1.ServicePort{
				{
					Name:       "pgbouncer",
					Port:       port,
					TargetPort: intstr.FromInt32(port),
				},
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, svc, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return svc, nil
}

// toEnvName uppercases a pgbouncer setting name for its env var form.
func toEnvName(setting string) string {
	out := make([]byte, len(setting))
	for i := 0; i < len(setting); i++ {
		c := setting[i]
		switch {
		case c >= 'a' && c <= 'z':
			out[i] = c - ('a' - 'A')
		case c >= 'A' && c <= 'Z' || c >= '0' && c <= '9':
			out[i] = c
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
