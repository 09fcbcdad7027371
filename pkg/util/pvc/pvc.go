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

// Package pvc builds PersistentVolumeClaim templates and compares requested
// storage sizes for resize decisions.
package pvc

import (
	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
)

// BuildTemplate creates a PersistentVolumeClaim for a StatefulSet's
// volumeClaimTemplates from a storage class name and size. An empty class
// uses the cluster default. The size must already be validated as a parsable
// quantity.
func BuildTemplate(name, storageClass, size string) corev1.PersistentVolumeClaim {
	claim := corev1.PersistentVolumeClaim{
		ObjectMeta: metav1.ObjectMeta{
			Name: name,
		},
		Spec: corev1.PersistentVolumeClaimSpec{
			AccessModes: []corev1.PersistentVolumeAccessMode{
				corev1.ReadWriteOnce,
			},
			Resources: corev1.VolumeResourceRequirements{
				Requests: corev1.ResourceList{
					corev1.ResourceStorage: resource.MustParse(size),
				},
			},
		},
	}

	if storageClass != "" {
		claim.Spec.StorageClassName = &storageClass
	}

	return claim
}

// Compare classifies a requested size change against the currently applied
// one.
type Compare int

const (
	// Unchanged means the request matches the applied size.
	Unchanged Compare = iota

	// Grow means the request is larger and can be applied to the claims.
	Grow

	// Shrink means the request is smaller. Volumes cannot shrink; callers
	// must reject the request.
	Shrink
)

// CompareSize classifies desired against current.
func CompareSize(current, desired resource.Quantity) Compare {
	switch desired.Cmp(current) {
	case 1:
		return Grow
	case -1:
		return Shrink
	default:
		return Unchanged
	}
}
