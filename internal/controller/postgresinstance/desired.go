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
	"reflect"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/config"
)

// BuildDesired assembles the full desired object set for the instance, in
// the dependency order Plan expects: configuration and credentials first,
// then the workload, then everything that points at it. Builders returning
// nil mean the object is not wanted for this spec and are skipped; Plan
// turns their absence into deletions of any stale counterpart.
func BuildDesired(
	inst *pgforgev1alpha1.PostgresInstance,
	cfg *config.Config,
	scheme *runtime.Scheme,
) ([]client.Object, error) {
	var desired []client.Object

	add := func(obj client.Object, err error) error {
		if err != nil {
			return err
		}
		// Typed nils arrive as non-nil interfaces; builders signal "not
		// wanted" with an untyped nil via their concrete return, so check
		// through the interface.
		if obj == nil || isNilObject(obj) {
			return nil
		}
		desired = append(desired, obj)
		return nil
	}

	sa, err := BuildServiceAccount(inst, scheme)
	if err := add(sa, err); err != nil {
		return nil, fmt.Errorf("failed to build service account: %w", err)
	}

	secret, err := BuildConnectionSecret(inst, scheme)
	if err := add(secret, err); err != nil {
		return nil, fmt.Errorf("failed to build connection secret: %w", err)
	}

	cm, err := BuildConfigMap(inst, scheme)
	if err := add(cm, err); err != nil {
		return nil, fmt.Errorf("failed to build config map: %w", err)
	}

	metricsCM, err := BuildMetricsConfigMap(inst, scheme)
	if err := add(metricsCM, err); err != nil {
		return nil, fmt.Errorf("failed to build metrics config map: %w", err)
	}

	sts, err := BuildStatefulSet(inst, scheme)
	if err := add(sts, err); err != nil {
		return nil, fmt.Errorf("failed to build stateful set: %w", err)
	}

	rw, err := BuildReadWriteService(inst, scheme)
	if err := add(rw, err); err != nil {
		return nil, fmt.Errorf("failed to build read-write service: %w", err)
	}

	ro, err := BuildReadOnlyService(inst, scheme)
	if err := add(ro, err); err != nil {
		return nil, fmt.Errorf("failed to build read-only service: %w", err)
	}

	headless, err := BuildHeadlessService(inst, scheme)
	if err := add(headless, err); err != nil {
		return nil, fmt.Errorf("failed to build headless service: %w", err)
	}

	np, err := BuildNetworkPolicy(inst, scheme)
	if err := add(np, err); err != nil {
		return nil, fmt.Errorf("failed to build network policy: %w", err)
	}

	mw, err := BuildMiddlewareTCP(inst, cfg, scheme)
	if err := add(mw, err); err != nil {
		return nil, fmt.Errorf("failed to build middleware: %w", err)
	}

	route, err := BuildIngressRouteTCP(inst, cfg, scheme)
	if err := add(route, err); err != nil {
		return nil, fmt.Errorf("failed to build ingress route: %w", err)
	}

	poolerDeploy, err := BuildPoolerDeployment(inst, scheme)
	if err := add(poolerDeploy, err); err != nil {
		return nil, fmt.Errorf("failed to build pooler deployment: %w", err)
	}

	poolerSvc, err := BuildPoolerService(inst, scheme)
	if err := add(poolerSvc, err); err != nil {
		return nil, fmt.Errorf("failed to build pooler service: %w", err)
	}

	for i := range inst.Spec.AppServices {
		app := &inst.Spec.AppServices[i]

		deploy, err := BuildAppServiceDeployment(inst, app, scheme)
		if err := add(deploy, err); err != nil {
			return nil, fmt.Errorf("failed to build app service %q deployment: %w", app.Name, err)
		}

		svc, err := BuildAppServiceService(inst, app, scheme)
		if err := add(svc, err); err != nil {
			return nil, fmt.Errorf("failed to build app service %q service: %w", app.Name, err)
		}

		appRoute, err := BuildAppServiceIngressRoute(inst, app, cfg, scheme)
		if err := add(appRoute, err); err != nil {
			return nil, fmt.Errorf("failed to build app service %q ingress route: %w", app.Name, err)
		}

		appPM, err := BuildAppServicePodMonitor(inst, app, scheme)
		if err := add(appPM, err); err != nil {
			return nil, fmt.Errorf("failed to build app service %q pod monitor: %w", app.Name, err)
		}
	}

	installer, err := BuildInstallerJob(inst, scheme)
	if err := add(installer, err); err != nil {
		return nil, fmt.Errorf("failed to build installer job: %w", err)
	}

	enabler, err := BuildEnablerJob(inst, scheme)
	if err := add(enabler, err); err != nil {
		return nil, fmt.Errorf("failed to build enabler job: %w", err)
	}

	pm, err := BuildPodMonitor(inst, scheme)
	if err := add(pm, err); err != nil {
		return nil, fmt.Errorf("failed to build pod monitor: %w", err)
	}

	backup, err := BuildBackupCronJob(inst, cfg, scheme)
	if err := add(backup, err); err != nil {
		return nil, fmt.Errorf("failed to build backup cron job: %w", err)
	}

	return desired, nil
}

// isNilObject reports whether obj is a typed nil wrapped in the interface.
func isNilObject(obj client.Object) bool {
	v := reflect.ValueOf(obj)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
