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

	"github.com/google/go-cmp/cmp"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/config"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
)

func testScheme(t *testing.T) *runtime.Scheme {
	t.Helper()
	scheme := runtime.NewScheme()
	if err := clientgoscheme.AddToScheme(scheme); err != nil {
		t.Fatalf("Failed to add client-go types to scheme: %v", err)
	}
	if err := pgforgev1alpha1.AddToScheme(scheme); err != nil {
		t.Fatalf("Failed to add pgforge types to scheme: %v", err)
	}
	return scheme
}

func testInstance(name string) *pgforgev1alpha1.PostgresInstance {
	return &pgforgev1alpha1.PostgresInstance{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name,
			Namespace: "default",
			UID:       "test-uid",
		},
		Spec: pgforgev1alpha1.PostgresInstanceSpec{
			Version: "16",
			Storage: pgforgev1alpha1.StorageSpec{Size: "10Gi"},
		},
	}
}

func configMapObj(name string, data map[string]string) *corev1.ConfigMap {
	return &corev1.ConfigMap{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: "default"},
		Data:       data,
	}
}

func actionKinds(actions []Action) []ActionKind {
	kinds := make([]ActionKind, 0, len(actions))
	for _, a := range actions {
		kinds = append(kinds, a.Kind)
	}
	return kinds
}

func TestPlan(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		desired   []client.Object
		observed  []client.Object
		wantKinds []ActionKind
	}{
		"creates everything from empty state": {
			desired: []client.Object{
				configMapObj("a", map[string]string{"k": "1"}),
				configMapObj("b", map[string]string{"k": "2"}),
			},
			wantKinds: []ActionKind{ActionCreate, ActionCreate},
		},
		"noop when observed matches desired": {
			desired: []client.Object{
				configMapObj("a", map[string]string{"k": "1"}),
			},
			observed: []client.Object{
				configMapObj("a", map[string]string{"k": "1"}),
			},
			wantKinds: []ActionKind{ActionNoOp},
		},
		"updates drifted data": {
			desired: []client.Object{
				configMapObj("a", map[string]string{"k": "new"}),
			},
			observed: []client.Object{
				configMapObj("a", map[string]string{"k": "old"}),
			},
			wantKinds: []ActionKind{ActionUpdate},
		},
		"deletes unclaimed objects last": {
			desired: []client.Object{
				configMapObj("keep", map[string]string{"k": "1"}),
			},
			observed: []client.Object{
				configMapObj("stale", map[string]string{"k": "x"}),
				configMapObj("keep", map[string]string{"k": "1"}),
			},
			wantKinds: []ActionKind{ActionNoOp, ActionDelete},
		},
		"mixed plan keeps desired order": {
			desired: []client.Object{
				configMapObj("first", map[string]string{"k": "1"}),
				configMapObj("second", map[string]string{"k": "2"}),
				configMapObj("third", map[string]string{"k": "3"}),
			},
			observed: []client.Object{
				configMapObj("second", map[string]string{"k": "old"}),
				configMapObj("third", map[string]string{"k": "3"}),
				configMapObj("stale", nil),
			},
			wantKinds: []ActionKind{ActionCreate, ActionUpdate, ActionNoOp, ActionDelete},
		},
		"same name different type is not matched": {
			desired: []client.Object{
				configMapObj("shared", map[string]string{"k": "1"}),
			},
			observed: []client.Object{
				&corev1.Secret{
					ObjectMeta: metav1.ObjectMeta{Name: "shared", Namespace: "default"},
				},
			},
			wantKinds: []ActionKind{ActionCreate, ActionDelete},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := Plan(tc.desired, tc.observed)
			if diff := cmp.Diff(tc.wantKinds, actionKinds(got)); diff != "" {
				t.Errorf("Plan() action kinds mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlanIdempotent(t *testing.T) {
	t.Parallel()

	scheme := testScheme(t)
	cfg := &config.Config{
		EnableBackup:        true,
		DataPlaneBaseDomain: "db.example.com",
	}

	inst := testInstance("pgi")
	inst.Spec.Pooler = &pgforgev1alpha1.PoolerSpec{Enabled: true}
	inst.Spec.Backup = &pgforgev1alpha1.BackupSpec{Enabled: true}
	inst.Spec.Monitoring = &pgforgev1alpha1.MonitoringSpec{Enabled: true}
	inst.Spec.Network = &pgforgev1alpha1.NetworkSpec{
		IPAllowList: []string{"10.0.0.0/8"},
	}

	desired, err := BuildDesired(inst, cfg, scheme)
	if err != nil {
		t.Fatalf("BuildDesired() error = %v", err)
	}
	if len(desired) == 0 {
		t.Fatal("BuildDesired() returned no objects")
	}

	observed := make([]client.Object, 0, len(desired))
	for _, obj := range desired {
		observed = append(observed, obj.DeepCopyObject().(client.Object))
	}

	for _, action := range Plan(desired, observed) {
		if action.Kind != ActionNoOp {
			t.Errorf("Plan() after clean apply produced %s for %s, want NoOp",
				action.Kind, describeObject(action.Object))
		}
	}
}

func TestMergeObject(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		have        client.Object
		want        client.Object
		wantChanged bool
		assertFunc  func(t *testing.T, merged client.Object)
	}{
		"secret is never rewritten": {
			have: &corev1.Secret{
				ObjectMeta: metav1.ObjectMeta{Name: "s", Namespace: "default"},
				Data:       map[string][]byte{"password": []byte("original")},
			},
			want: &corev1.Secret{
				ObjectMeta: metav1.ObjectMeta{Name: "s", Namespace: "default"},
				StringData: map[string]string{"password": "regenerated"},
			},
			wantChanged: false,
			assertFunc: func(t *testing.T, merged client.Object) {
				got := merged.(*corev1.Secret)
				if string(got.Data["password"]) != "original" {
					t.Errorf("Secret password = %q, want original preserved", got.Data["password"])
				}
			},
		},
		"statefulset keeps selector and claim templates": {
			have: &appsv1.StatefulSet{
				ObjectMeta: metav1.ObjectMeta{Name: "w", Namespace: "default"},
				Spec: appsv1.StatefulSetSpec{
					ServiceName: "old-headless",
					Selector: &metav1.LabelSelector{
						MatchLabels: map[string]string{"app.kubernetes.io/instance": "w"},
					},
					VolumeClaimTemplates: []corev1.PersistentVolumeClaim{
						{ObjectMeta: metav1.ObjectMeta{Name: "data"}},
					},
				},
			},
			want: &appsv1.StatefulSet{
				ObjectMeta: metav1.ObjectMeta{Name: "w", Namespace: "default"},
				Spec: appsv1.StatefulSetSpec{
					ServiceName: "new-headless",
					Selector: &metav1.LabelSelector{
						MatchLabels: map[string]string{"changed": "selector"},
					},
				},
			},
			wantChanged: true,
			assertFunc: func(t *testing.T, merged client.Object) {
				got := merged.(*appsv1.StatefulSet)
				if got.Spec.ServiceName != "new-headless" {
					t.Errorf("ServiceName = %q, want new-headless", got.Spec.ServiceName)
				}
				if got.Spec.Selector.MatchLabels["app.kubernetes.io/instance"] != "w" {
					t.Error("Selector should keep its creation-time value")
				}
				if len(got.Spec.VolumeClaimTemplates) != 1 {
					t.Error("VolumeClaimTemplates should keep their creation-time value")
				}
			},
		},
		"foreign labels survive an update": {
			have: &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "c",
					Namespace: "default",
					Labels:    map[string]string{"team.example.com/owner": "dba"},
				},
				Data: map[string]string{"k": "old"},
			},
			want: &corev1.ConfigMap{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "c",
					Namespace: "default",
					Labels:    metadata.BuildStandardLabels("pgi", metadata.ComponentPostgres),
				},
				Data: map[string]string{"k": "new"},
			},
			wantChanged: true,
			assertFunc: func(t *testing.T, merged client.Object) {
				labels := merged.GetLabels()
				if labels["team.example.com/owner"] != "dba" {
					t.Error("Foreign label should be preserved across updates")
				}
				if labels[metadata.LabelInstance] != "pgi" {
					t.Error("Operator labels should be applied")
				}
				if merged.(*corev1.ConfigMap).Data["k"] != "new" {
					t.Error("Data should take the desired value")
				}
			},
		},
		"headless service keeps clusterIP none": {
			have: &corev1.Service{
				ObjectMeta: metav1.ObjectMeta{Name: "h", Namespace: "default"},
				Spec: corev1.ServiceSpec{
					ClusterIP: corev1.ClusterIPNone,
					Ports:     []corev1.ServicePort{{Name: "postgres", Port: 5432}},
				},
			},
			want: &corev1.Service{
				ObjectMeta: metav1.ObjectMeta{Name: "h", Namespace: "default"},
				Spec: corev1.ServiceSpec{
					ClusterIP: corev1.ClusterIPNone,
					Ports:     []corev1.ServicePort{{Name: "postgres", Port: 5433}},
				},
			},
			wantChanged: true,
			assertFunc: func(t *testing.T, merged client.Object) {
				got := merged.(*corev1.Service)
				if got.Spec.ClusterIP != corev1.ClusterIPNone {
					t.Errorf("ClusterIP = %q, want None", got.Spec.ClusterIP)
				}
				if got.Spec.Ports[0].Port != 5433 {
					t.Errorf("Port = %d, want 5433", got.Spec.Ports[0].Port)
				}
			},
		},
		"service account merges foreign annotations": {
			have: &corev1.ServiceAccount{
				ObjectMeta: metav1.ObjectMeta{
					Name:      "sa",
					Namespace: "default",
					Annotations: map[string]string{
						"iam.example.com/role": "arn:aws:iam::1:role/db",
					},
				},
			},
			want: &corev1.ServiceAccount{
				ObjectMeta: metav1.ObjectMeta{
					Name:        "sa",
					Namespace:   "default",
					Annotations: map[string]string{"pgforge.io/managed": "true"},
				},
			},
			wantChanged: true,
			assertFunc: func(t *testing.T, merged client.Object) {
				ann := merged.(*corev1.ServiceAccount).Annotations
				if ann["iam.example.com/role"] == "" {
					t.Error("Foreign annotation should be preserved")
				}
				if ann["pgforge.io/managed"] != "true" {
					t.Error("Desired annotation should be applied")
				}
			},
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			merged, changed := mergeObject(tc.have, tc.want)
			if changed != tc.wantChanged {
				t.Errorf("mergeObject() changed = %v, want %v", changed, tc.wantChanged)
			}
			if tc.assertFunc != nil {
				tc.assertFunc(t, merged)
			}
		})
	}
}
