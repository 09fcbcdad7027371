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
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/api/resource"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/pvc"
)

// reconcileStorage applies storage size changes. StatefulSet volume claim
// templates are immutable, so growth is written straight onto the claims and
// the template is left at its creation-time value.
//
// Shrinking is rejected terminally: the condition records the rejection and
// no storage object is touched until the spec is corrected.
func (r *PostgresInstanceReconciler) reconcileStorage(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) error {
	logger := log.FromContext(ctx)

	desired, err := resource.ParseQuantity(inst.Spec.Storage.Size)
	if err != nil {
		// Validation runs before this; a parse failure here means a bug.
		return newTerminalError(pgforgev1alpha1.ReasonSpecInvalid,
			fmt.Errorf("invalid storage size %q: %w", inst.Spec.Storage.Size, err))
	}

	applied := inst.Status.Storage
	if applied == nil {
		// First pass; the claim is born at the requested size.
		inst.Status.Storage = &desired
		return nil
	}

	switch pvc.CompareSize(*applied, desired) {
	case pvc.Unchanged:
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionResizing,
			Status:             metav1.ConditionFalse,
			Reason:             pgforgev1alpha1.ReasonStorageStable,
			Message:            "Storage matches the requested size",
			ObservedGeneration: inst.Generation,
		})
		return nil

	case pvc.Shrink:
		return newTerminalError(pgforgev1alpha1.ReasonStorageShrink, fmt.Errorf(
			"storage cannot shrink from %s to %s", applied.String(), desired.String()))
	}

	// Grow: patch every data claim belonging to the workload.
	claims := &corev1.PersistentVolumeClaimList{}
	err = r.List(ctx, claims,
		client.InNamespace(inst.Namespace),
		client.MatchingLabels{metadata.LabelInstance: inst.Name},
	)
	if err != nil {
		return fmt.Errorf("failed to list claims: %w", err)
	}

	for i := range claims.Items {
		claim := &claims.Items[i]
		current := claim.Spec.Resources.Requests[corev1.ResourceStorage]
		if pvc.CompareSize(current, desired) != pvc.Grow {
			continue
		}

		patched := claim.DeepCopy()
		patched.Spec.Resources.Requests[corev1.ResourceStorage] = desired
		if err := r.Patch(ctx, patched, client.MergeFrom(claim)); err != nil {
			return fmt.Errorf("failed to grow claim %s: %w", claim.Name, err)
		}
		logger.Info("requested volume growth",
			"claim", claim.Name, "from", current.String(), "to", desired.String())
	}

	meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
		Type:               pgforgev1alpha1.ConditionResizing,
		Status:             metav1.ConditionTrue,
		Reason:             pgforgev1alpha1.ReasonStorageResizing,
		Message:            fmt.Sprintf("Growing storage to %s", desired.String()),
		ObservedGeneration: inst.Generation,
	})
	r.Recorder.Eventf(inst, "Normal", eventResizing,
		"Growing storage from %s to %s", applied.String(), desired.String())

	inst.Status.Storage = &desired
	return nil
}
