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

	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildPodMonitor creates the prometheus-operator PodMonitor scraping the
// exporter sidecar. Returns nil when monitoring is off.
func BuildPodMonitor(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*unstructured.Unstructured, error) {
	if inst.Spec.Monitoring == nil || !inst.Spec.Monitoring.Enabled {
		return nil, nil
	}

	selector := map[string]interface{}{}
	for k, v := range metadata.SelectorLabels(inst.Name, metadata.ComponentPostgres) {
		selector[k] = v
	}

	pm := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "monitoring.coreos.com/v1",
			"kind":       "PodMonitor",
			"metadata": map[string]interface{}{
				"name":      name.PodMonitor(inst.Name),
				"namespace": inst.Namespace,
			},
			"spec": map[string]interface{}{
				"selector": map[string]interface{}{
					"matchLabels": selector,
				},
				"podMetricsEndpoints": []interface{}{
					map[string]interface{}{
						"port": "metrics",
						"path": "/metrics",
					},
				},
			},
		},
	}
	pm.SetLabels(metadata.BuildStandardLabels(inst.Name, metadata.ComponentMetrics))

	if err := ctrl.SetControllerReference(inst, pm, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return pm, nil
}
