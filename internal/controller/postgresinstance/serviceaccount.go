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
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildServiceAccount creates the ServiceAccount used by the Postgres pods.
// Returns nil when the spec has no template, in which case the pods run
// under the namespace default.
func BuildServiceAccount(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.ServiceAccount, error) {
	if inst.Spec.ServiceAccountTemplate == nil {
		return nil, nil
	}

	labels := metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres)
	var annotations map[string]string
	if md := inst.Spec.ServiceAccountTemplate.Metadata; md != nil {
		labels = metadata.MergeLabels(labels, md.Labels)
		annotations = md.Annotations
	}

	sa := &corev1.ServiceAccount{
		ObjectMeta: metav1.ObjectMeta{
			Name:        name.Workload(inst.Name),
			Namespace:   inst.Namespace,
			Labels:      labels,
			Annotations: annotations,
		},
	}

	if err := ctrl.SetControllerReference(inst, sa, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return sa, nil
}
