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

package pvc

import (
	"testing"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
)

func TestBuildTemplate(t *testing.T) {
	t.Parallel()

	claim := BuildTemplate("data", "fast-ssd", "20Gi")

	if claim.Name != "data" {
		t.Errorf("Name = %q, want %q", claim.Name, "data")
	}
	if claim.Spec.StorageClassName == nil || *claim.Spec.StorageClassName != "fast-ssd" {
		t.Errorf("StorageClassName = %v, want fast-ssd", claim.Spec.StorageClassName)
	}
	got := claim.Spec.Resources.Requests[corev1.ResourceStorage]
	if got.Cmp(resource.MustParse("20Gi")) != 0 {
		t.Errorf("storage request = %v, want 20Gi", got.String())
	}

	defaulted := BuildTemplate("data", "", "1Gi")
	if defaulted.Spec.StorageClassName != nil {
		t.Errorf("StorageClassName = %v, want nil for cluster default", defaulted.Spec.StorageClassName)
	}
}

func TestCompareSize(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		current string
		desired string
		want    Compare
	}{
		"equal":                  {current: "10Gi", desired: "10Gi", want: Unchanged},
		"equal different units":  {current: "1Gi", desired: "1024Mi", want: Unchanged},
		"grow":                   {current: "10Gi", desired: "20Gi", want: Grow},
		"shrink":                 {current: "10Gi", desired: "5Gi", want: Shrink},
		"shrink across units":    {current: "1Gi", desired: "1000Mi", want: Shrink},
		"grow by a single byte":  {current: "1000", desired: "1001", want: Grow},
	}

	for tname, tc := range tests {
		t.Run(tname, func(t *testing.T) {
			t.Parallel()
			got := CompareSize(resource.MustParse(tc.current), resource.MustParse(tc.desired))
			if got != tc.want {
				t.Errorf("CompareSize(%s, %s) = %v, want %v", tc.current, tc.desired, got, tc.want)
			}
		})
	}
}
