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
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/config"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildAppServiceDeployment creates the Deployment for one declared app
// service. The instance connection Secret is always injected so the app can
// reach the database without extra wiring.
func BuildAppServiceDeployment(
	inst *pgforgev1alpha1.PostgresInstance,
	app *pgforgev1alpha1.AppService,
	scheme *runtime.Scheme,
) (*appsv1.Deployment, error) {
	labels := metadata.AddAppServiceLabel(
		metadata.BuildStandardLabels(inst.Name, metadata.ComponentAppService),
		app.Name,
	)
	selector := metadata.AddAppServiceLabel(
		metadata.SelectorLabels(inst.Name, metadata.ComponentAppService),
		app.Name,
	)

	env := append([]corev1.EnvVar{
		{
			Name: "DATABASE_URL",
			ValueFrom: &corev1.EnvVarSource{
				SecretKeyRef: &corev1.SecretKeySelector{
					LocalObjectReference: corev1.LocalObjectReference{
						Name: name.ConnectionSecret(inst.Name),
					},
					Key: "uri",
				},
			},
		},
	}, app.Env...)

	ports := make([]corev1.ContainerPort, 0, len(app.Ports))
	for _, pm := range app.Ports {
		ports = append(ports, corev1.ContainerPort{ContainerPort: pm.Container})
	}

	// The scrape target references the metrics port by name.
	if app.Metrics != nil && app.Metrics.Enabled {
		named := false
		for i := range ports {
			if ports[i].ContainerPort == app.Metrics.Port {
				ports[i].Name = "metrics"
				named = true
			}
		}
		if !named {
			ports = append(ports, corev1.ContainerPort{Name: "metrics", ContainerPort: app.Metrics.Port})
		}
	}

	container := corev1.Container{
		Name:      app.Name,
		Image:     app.Image,
		Command:   app.Command,
		Args:      app.Args,
		Env:       env,
		Ports:     ports,
		Resources: app.Resources,
	}

	if app.Probes != nil {
		container.ReadinessProbe = buildHTTPProbe(app.Probes.Readiness)
		container.LivenessProbe = buildHTTPProbe(app.Probes.Liveness)
	}

	var volumes []corev1.Volume
	for _, mount := range app.Storage {
		container.VolumeMounts = append(container.VolumeMounts, corev1.VolumeMount{
			Name:      mount.Name,
			MountPath: mount.MountPath,
		})
		size := resource.MustParse(mount.Size)
		volumes = append(volumes, corev1.Volume{
			Name: mount.Name,
			VolumeSource: corev1.VolumeSource{
				EmptyDir: &corev1.EmptyDirVolumeSource{
					SizeLimit: &size,
				},
			},
		})
	}

	replicas := int32(1)
	deploy := &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.AppService(inst.Name, app.Name),
			Namespace: inst.Namespace,
			Labels:    labels,
		},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Selector: &metav1.LabelSelector{
				MatchLabels: selector,
			},
			Template: corev1.PodTemplateSpec{
				ObjectMeta: metav1.ObjectMeta{
					Labels: labels,
				},
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{container},
					Volumes:    volumes,
				},
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, deploy, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return deploy, nil
}

// BuildAppServiceService creates the Service for one app service. Returns
// nil when the app declares no ports.
func BuildAppServiceService(
	inst *pgforgev1alpha1.PostgresInstance,
	app *pgforgev1alpha1.AppService,
	scheme *runtime.Scheme,
) (*corev1.Service, error) {
	if len(app.Ports) == 0 {
		return nil, nil
	}

	ports := make([]corev1.ServicePort, 0, len(app.Ports))
	for _, pm := range app.Ports {
		ports = append(ports, corev1.ServicePort{
			Name:       fmt.Sprintf("port-%d", pm.Host),
			Port:       pm.Host,
			TargetPort: intstr.FromInt32(pm.Container),
		})
	}

	svc := &corev1.Service{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.AppService(inst.Name, app.Name),
			Namespace: inst.Namespace,
			Labels: metadata.AddAppServiceLabel(
				metadata.BuildStandardLabels(inst.Name, metadata.ComponentAppService),
				app.Name,
			),
		},
		Spec: corev1.ServiceSpec{
			Selector: metadata.AddAppServiceLabel(
				metadata.SelectorLabels(inst.Name, metadata.ComponentAppService),
				app.Name,
			),
			Ports: ports,
		},
	}

	if err := ctrl.SetControllerReference(inst, svc, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return svc, nil
}

// BuildAppServiceIngressRoute creates the Traefik HTTP route exposing the
// app's declared routing paths on the instance hostname. Routing entries
// without an ingress path carry no HTTP rule and are skipped. Returns nil
// when the operator has no base domain or nothing routable is declared.
func BuildAppServiceIngressRoute(
	inst *pgforgev1alpha1.PostgresInstance,
	app *pgforgev1alpha1.AppService,
	cfg *config.Config,
	scheme *runtime.Scheme,
) (*unstructured.Unstructured, error) {
	if !cfg.IngressEnabled() || len(app.Routing) == 0 {
		return nil, nil
	}

	host := fmt.Sprintf("%s.%s.%s", inst.Name, inst.Namespace, cfg.DataPlaneBaseDomain)

	var routes []interface{}
	var entryPoints []interface{}
	seenEntryPoint := make(map[string]bool)
	for _, rt := range app.Routing {
		if rt.IngressPath == "" {
			continue
		}
		routes = append(routes, map[string]interface{}{
			"kind":  "Rule",
			"match": fmt.Sprintf("Host(`%s`) && PathPrefix(`%s`)", host, rt.IngressPath),
			"services": []interface{}{
				map[string]interface{}{
					"name": name.AppService(inst.Name, app.Name),
					"port": int64(rt.Port),
				},
			},
		})

		eps := rt.EntryPoints
		if len(eps) == 0 {
			eps = []string{"websecure"}
		}
		for _, ep := range eps {
			if !seenEntryPoint[ep] {
				seenEntryPoint[ep] = true
				entryPoints = append(entryPoints, ep)
			}
		}
	}
	if len(routes) == 0 {
		return nil, nil
	}

	route := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "traefik.io/v1alpha1",
			"kind":       "IngressRoute",
			"metadata": map[string]interface{}{
				"name":      name.AppService(inst.Name, app.Name),
				"namespace": inst.Namespace,
			},
			"spec": map[string]interface{}{
				"entryPoints": entryPoints,
				"routes":      routes,
			},
		},
	}
	route.SetLabels(metadata.AddAppServiceLabel(
		metadata.BuildStandardLabels(inst.Name, metadata.ComponentAppService),
		app.Name,
	))

	if err := ctrl.SetControllerReference(inst, route, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return route, nil
}

// BuildAppServicePodMonitor creates the scrape target for an app that
// declares a metrics endpoint. Returns nil when metrics are off.
func BuildAppServicePodMonitor(
	inst *pgforgev1alpha1.PostgresInstance,
	app *pgforgev1alpha1.AppService,
	scheme *runtime.Scheme,
) (*unstructured.Unstructured, error) {
	if app.Metrics == nil || !app.Metrics.Enabled {
		return nil, nil
	}

	path := app.Metrics.Path
	if path == "" {
		path = "/metrics"
	}

	selector := map[string]interface{}{}
	for k, v := range metadata.AddAppServiceLabel(
		metadata.SelectorLabels(inst.Name, metadata.ComponentAppService),
		app.Name,
	) {
		selector[k] = v
	}

	pm := &unstructured.Unstructured{
		Object: map[string]interface{}{
			"apiVersion": "monitoring.coreos.com/v1",
			"kind":       "PodMonitor",
			"metadata": map[string]interface{}{
				"name":      name.AppService(inst.Name, app.Name),
				"namespace": inst.Namespace,
			},
			"spec": map[string]interface{}{
				"selector": map[string]interface{}{
					"matchLabels": selector,
				},
				"podMetricsEndpoints": []interface{}{
					map[string]interface{}{
						"port": "metrics",
						"path": path,
					},
				},
			},
		},
	}
	pm.SetLabels(metadata.AddAppServiceLabel(
		metadata.BuildStandardLabels(inst.Name, metadata.ComponentMetrics),
		app.Name,
	))

	if err := ctrl.SetControllerReference(inst, pm, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return pm, nil
}

// buildHTTPProbe translates one declared probe. A probe left unset in the
// spec yields nil rather than an HTTP check against port zero.
func buildHTTPProbe(p pgforgev1alpha1.Probe) *corev1.Probe {
	if p.Port == 0 {
		return nil
	}
	return &corev1.Probe{
		ProbeHandler: corev1.ProbeHandler{
			HTTPGet: &corev1.HTTPGetAction{
				Path: p.Path,
				Port: intstr.FromInt32(p.Port),
			},
		},
		InitialDelaySeconds: p.InitialDelaySeconds,
	}
}
