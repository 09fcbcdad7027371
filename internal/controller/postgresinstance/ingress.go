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
	"github.com/pgforge/postgres-operator/internal/config"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildIngressRouteTCP creates the Traefik TCP route exposing the instance
// on <instance>.<namespace>.<base domain>, plus any extra domains from the
// spec. Returns nil when the operator has no base domain configured.
//
// The route object belongs to a third-party CRD, so it is built as
// unstructured rather than pulling in a Traefik client dependency.
func BuildIngressRouteTCP(
	inst *pgforgev1alpha1.PostgresInstance,
	cfg *config.Config,
	scheme *runtime.Scheme,
) (*unstructured.Unstructured, error) {
	if !cfg.IngressEnabled() {
		return nil, nil
	}

	hosts := []string{
		fmt.Sprintf("%s.%s.%s", inst.Name, inst.Namespace, cfg.DataPlaneBaseDomain),
	}
	if inst.Spec.Network != nil {
		hosts = append(hosts, inst.Spec.Network.ExtraDomains...)
	}

	match := ""
	for i, h := range hosts {
		if i > 0 {
			match += " || "
		}
		match += fmt.Sprintf("HostSNI(`%s`)", h)
	}

	// Client traffic lands on the pooler when one is enabled.
	backendService := name.ReadWriteService(inst.Name)
	if poolerEnabled(inst) {
		backendService = name.Pooler(inst.Name)
	}

	routeEntry := map[string]interface{}{
		"match": match,
		"services": []interface{}{
			map[string]interface{}{
				"name": backendService,
				"port": int64(instancePort(inst)),
			},
		},
	}
	// The allowlist middleware is only in the desired set when the spec
	// carries an allowlist; a route must never reference a middleware that
	// does not exist, or Traefik drops the whole route.
	if hasIPAllowList(inst) {
		routeEntry["middlewares"] = []interface{}{
			map[string]interface{}{
				"name":      name.Workload(inst.Name),
				"namespace": inst.Namespace,
			},
		}
	}

	route := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "traefik.io/v1alpha1",
			"kind":       "IngressRouteTCP",
			"metadata": map[string]interface{}{
				"name":      name.Workload(inst.Name),
				"namespace": inst.Namespace,
			},
			"spec": map[string]interface{}{
				"entryPoints": []interface{}{"postgresql"},
				"routes":      []interface{}{routeEntry},
				"tls": map[string]interface{}{
					"passthrough": true,
				},
			},
		},
	}
	route.SetLabels(metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres))

	if err := ctrl.SetControllerReference(inst, route, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return route, nil
}

// hasIPAllowList reports whether the spec restricts client source ranges.
func hasIPAllowList(inst *pgforgev1alpha1.PostgresInstance) bool {
	return inst.Spec.Network != nil && len(inst.Spec.Network.IPAllowList) > 0
}

// BuildMiddlewareTCP creates the Traefik middleware restricting route access
// to the spec's IP allowlist. Returns nil when ingress is off or no
// allowlist is set.
func BuildMiddlewareTCP(
	inst *pgforgev1alpha1.PostgresInstance,
	cfg *config.Config,
	scheme *runtime.Scheme,
) (*unstructured.Unstructured, error) {
	if !cfg.IngressEnabled() {
		return nil, nil
	}
	if !hasIPAllowList(inst) {
		return nil, nil
	}

	ranges := make([]interface{}, 0, len(inst.Spec.Network.IPAllowList))
	for _, cidr := range inst.Spec.Network.IPAllowList {
		ranges = append(ranges, cidr)
	}

	mw := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "traefik.io/v1alpha1",
			"kind":       "MiddlewareTCP",
			"metadata": map[string]interface{}{
				"name":      name.Workload(inst.Name),
				"namespace": inst.Namespace,
			},
			"spec": map[string]interface{}{
				"ipAllowList": map[string]interface{}{
					"sourceRange": ranges,
				},
			},
		},
	}
	mw.SetLabels(metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres))

	if err := ctrl.SetControllerReference(inst, mw, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return mw, nil
}
