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
	"strings"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildConfigMap renders postgresql.conf from the merged runtime and
// override parameters. The merge already sorted parameters by name and
// dropped disallowed ones, so the rendered file is deterministic for a given
// spec.
func BuildConfigMap(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.ConfigMap, error) {
	params := inst.Spec.MergedPostgresParameters()

	var b strings.Builder
	b.WriteString("# Generated by pgforge-operator. Do not edit.\n")
	fmt.Fprintf(&b, "listen_addresses = '*'\n")
	fmt.Fprintf(&b, "port = %d\n", instancePort(inst))
	for _, p := range params {
		fmt.Fprintf(&b, "%s = '%s'\n", p.Name, p.Value)
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.ConfigMap(inst.Name),
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
		},
		Data: map[string]string{
			"postgresql.conf": b.String(),
		},
	}

	if err := ctrl.SetControllerReference(inst, cm, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return cm, nil
}

// BuildMetricsConfigMap renders the exporter query file. Returns nil when
// monitoring is off.
func BuildMetricsConfigMap(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*corev1.ConfigMap, error) {
	if inst.Spec.Monitoring == nil || !inst.Spec.Monitoring.Enabled {
		return nil, nil
	}

	queryNames := make([]string, 0, len(inst.Spec.Monitoring.Queries))
	for q := range inst.Spec.Monitoring.Queries {
		queryNames = append(queryNames, q)
	}
	sort.Strings(queryNames)

	var b strings.Builder
	for _, q := range queryNames {
		fmt.Fprintf(&b, "%s:\n  query: %q\n", q, inst.Spec.Monitoring.Queries[q])
	}

	cm := &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.MetricsConfigMap(inst.Name),
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentMetrics),
		},
		Data: map[string]string{
			"queries.yaml": b.String(),
		},
	}

	if err := ctrl.SetControllerReference(inst, cm, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return cm, nil
}
