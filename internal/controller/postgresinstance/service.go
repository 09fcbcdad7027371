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

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildReadWriteService creates the primary Service clients connect to for
// writes. It currently selects all Postgres pods; replica-aware routing
// arrives with streaming replication support.
func BuildReadWriteService(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	return buildPostgresService(inst, scheme, name.ReadWriteService(inst.Name), false)
}

// BuildReadOnlyService creates the Service for read-only traffic.
func BuildReadOnlyService(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	return buildPostgresService(inst, scheme, name.ReadOnlyService(inst.Name), false)
}

// BuildHeadlessService creates the headless Service backing the StatefulSet's
// stable pod DNS names.
func BuildHeadlessService(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	return buildPostgresService(inst, scheme, name.HeadlessService(inst.Name), true)
}

func buildPostgresService(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
	serviceName string,
	headless bool,
) (*corev1.Service, error) {
	port := instancePort(inst)

	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      serviceName,
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
		},
		Spec: corev1.ServiceSpec{
			Selector: metadata.SelectorLabels(inst.Name, metadata.ComponentPostgres),
			Ports: []corev1.ServicePort{
				{
					Name:       "postgres",
					Port:       port,
					TargetPort: intstr.FromInt32(port),
				},
			},
		},
	}

	if headless {
		svc.Spec.ClusterIP = corev1.ClusterIPNone
	}

	if err := ctrl.SetControllerReference(inst, svc, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return svc, nil
}
