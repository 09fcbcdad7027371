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
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/utils/ptr"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
)

func TestInstanceImage(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		mutate func(*pgforgev1alpha1.PostgresInstance)
		want   string
	}{
		"derives image from version": {
			mutate: func(*pgforgev1alpha1.PostgresInstance) {},
			want:   "quay.io/pgforge/postgres:16",
		},
		"explicit image wins": {
			mutate: func(inst *pgforgev1alpha1.PostgresInstance) {
				inst.Spec.Image = "registry.example.com/pg:16.4-custom"
			},
			want: "registry.example.com/pg:16.4-custom",
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			inst := testInstance("pgi")
			tc.mutate(inst)
			if got := instanceImage(inst); got != tc.want {
				t.Errorf("instanceImage() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestInstanceReplicas(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		replicas *int32
		stop     bool
		want     int32
	}{
		"defaults to one":            {want: 1},
		"spec value":                 {replicas: ptr.To(int32(3)), want: 3},
		"stop forces zero":           {replicas: ptr.To(int32(3)), stop: true, want: 0},
		"stop on default sized spec": {stop: true, want: 0},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			inst := testInstance("pgi")
			inst.Spec.Replicas = tc.replicas
			inst.Spec.Stop = tc.stop
			if got := instanceReplicas(inst); got != tc.want {
				t.Errorf("instanceReplicas() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestBuildStatefulSet(t *testing.T) {
	t.Parallel()

	scheme := testScheme(t)

	t.Run("basic shape", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		sts, err := BuildStatefulSet(inst, scheme)
		if err != nil {
			t.Fatalf("BuildStatefulSet() error = %v", err)
		}

		if sts.Name != "pgi" {
			t.Errorf("Name = %q, want pgi", sts.Name)
		}
		if got := *sts.Spec.Replicas; got != 1 {
			t.Errorf("Replicas = %d, want 1", got)
		}
		if sts.Spec.ServiceName != "pgi-headless" {
			t.Errorf("ServiceName = %q, want pgi-headless", sts.Spec.ServiceName)
		}
		if len(sts.Spec.Template.Spec.Containers) != 1 {
			t.Fatalf("Containers = %d, want only postgres", len(sts.Spec.Template.Spec.Containers))
		}
		if got := sts.Spec.Template.Spec.Containers[0].Image; got != "quay.io/pgforge/postgres:16" {
			t.Errorf("Image = %q", got)
		}

		if !metav1.IsControlledBy(sts, inst) {
			t.Error("StatefulSet should be controlled by the instance")
		}
	})

	t.Run("default compute class applies when unset", func(t *testing.T) {
		t.Parallel()

		sts, err := BuildStatefulSet(testInstance("pgi"), scheme)
		if err != nil {
			t.Fatalf("BuildStatefulSet() error = %v", err)
		}

		res := sts.Spec.Template.Spec.Containers[0].Resources
		if got := res.Requests.Cpu().String(); got != "500m" {
			t.Errorf("CPU request = %q, want 500m", got)
		}
		if got := res.Limits.Memory().String(); got != "2Gi" {
			t.Errorf("Memory limit = %q, want 2Gi", got)
		}
	})

	t.Run("spec compute class wins over the default", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Resources = corev1.ResourceRequirements{
			Limits: corev1.ResourceList{
				corev1.ResourceCPU: resource.MustParse("8"),
			},
		}
		sts, err := BuildStatefulSet(inst, scheme)
		if err != nil {
			t.Fatalf("BuildStatefulSet() error = %v", err)
		}

		res := sts.Spec.Template.Spec.Containers[0].Resources
		if got := res.Limits.Cpu().String(); got != "8" {
			t.Errorf("CPU limit = %q, want 8", got)
		}
		if len(res.Requests) != 0 {
			t.Errorf("Requests = %v, want none injected beside the spec's", res.Requests)
		}
	})

	t.Run("claim template carries instance label", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		sts, err := BuildStatefulSet(inst, scheme)
		if err != nil {
			t.Fatalf("BuildStatefulSet() error = %v", err)
		}

		if len(sts.Spec.VolumeClaimTemplates) != 1 {
			t.Fatalf("VolumeClaimTemplates = %d, want 1", len(sts.Spec.VolumeClaimTemplates))
		}
		claim := sts.Spec.VolumeClaimTemplates[0]
		if claim.Labels[metadata.LabelInstance] != "pgi" {
			t.Error("Claim template should carry the instance label for later lookup")
		}
	})

	t.Run("monitoring adds exporter sidecar", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Monitoring = &pgforgev1alpha1.MonitoringSpec{Enabled: true}

		sts, err := BuildStatefulSet(inst, scheme)
		if err != nil {
			t.Fatalf("BuildStatefulSet() error = %v", err)
		}

		containers := sts.Spec.Template.Spec.Containers
		if len(containers) != 2 {
			t.Fatalf("Containers = %d, want postgres and exporter", len(containers))
		}
		if containers[1].Name != "exporter" {
			t.Errorf("Second container = %q, want exporter", containers[1].Name)
		}

		foundQueries := false
		for _, v := range sts.Spec.Template.Spec.Volumes {
			if v.Name == "metrics-queries" {
				foundQueries = true
			}
		}
		if !foundQueries {
			t.Error("Monitoring should mount the exporter query volume")
		}
	})

	t.Run("stopped instance scales to zero", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Stop = true
		inst.Spec.Replicas = ptr.To(int32(3))

		sts, err := BuildStatefulSet(inst, scheme)
		if err != nil {
			t.Fatalf("BuildStatefulSet() error = %v", err)
		}
		if got := *sts.Spec.Replicas; got != 0 {
			t.Errorf("Replicas = %d, want 0 for a stopped instance", got)
		}
	})
}
