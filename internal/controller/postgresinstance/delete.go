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
	"time"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/metrics"
)

// handleDeletion runs ordered cleanup while the finalizer is held. The
// backup schedule goes first so no new backup fires mid-teardown, then every
// other child, the workload last in the foreground. The finalizer is
// removed only once no labelled child remains; any failure keeps it and the
// next pass retries, with the blockage visible in the condition, an event
// and the finalizing gauge.
func (r *PostgresInstanceReconciler) handleDeletion(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) (ctrl.Result, error) {
	logger := log.FromContext(ctx)

	if !controllerutil.ContainsFinalizer(inst, finalizerName) {
		return ctrl.Result{}, nil
	}

	metrics.FinalizingInstances.Inc()
	defer metrics.FinalizingInstances.Dec()

	inst.Status.Phase = pgforgev1alpha1.PhaseFinalizing
	meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
		Type:               pgforgev1alpha1.ConditionFinalizing,
		Status:             metav1.ConditionTrue,
		Reason:             pgforgev1alpha1.ReasonCleanupInProgress,
		Message:            "Deleting managed objects",
		ObservedGeneration: inst.Generation,
	})

	remaining, err := r.teardownChildren(ctx, inst)
	if err != nil {
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionFinalizing,
			Status:             metav1.ConditionTrue,
			Reason:             pgforgev1alpha1.ReasonCleanupBlocked,
			Message:            err.Error(),
			ObservedGeneration: inst.Generation,
		})
		r.Recorder.Eventf(inst, "Warning", eventCleanupBlocked,
			"Cleanup failed, finalizer retained: %v", err)
		if statusErr := r.writeStatus(ctx, inst); statusErr != nil {
			logger.Error(statusErr, "Failed to record cleanup failure")
		}
		return ctrl.Result{}, err
	}

	if remaining > 0 {
		r.Recorder.Eventf(inst, "Normal", eventCleanup,
			"Waiting for %d child objects to finish deleting", remaining)
		if statusErr := r.writeStatus(ctx, inst); statusErr != nil {
			logger.Error(statusErr, "Failed to record cleanup progress")
		}
		return ctrl.Result{RequeueAfter: 5 * time.Second}, nil
	}

	controllerutil.RemoveFinalizer(inst, finalizerName)
	if err := r.Update(ctx, inst); err != nil {
		return ctrl.Result{}, fmt.Errorf("failed to remove finalizer: %w", err)
	}
	logger.Info("finalized instance")
	return ctrl.Result{}, nil
}

// teardownChildren deletes every labelled child and reports how many are
// still present. Deletion order puts the backup CronJob before everything
// else and the StatefulSet last.
func (r *PostgresInstanceReconciler) teardownChildren(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) (int, error) {
	observed, err := r.observeChildren(ctx, inst)
	if err != nil {
		return 0, fmt.Errorf("failed to observe children for cleanup: %w", err)
	}

	ordered := make([]Action, 0, len(observed))
	var workloads, rest []Action
	for _, obj := range observed {
		action := Action{Kind: ActionDelete, Object: obj}
		switch obj.(type) {
		case *batchv1.CronJob:
			ordered = append(ordered, action)
		case *appsv1.StatefulSet:
			workloads = append(workloads, action)
		default:
			rest = append(rest, action)
		}
	}
	ordered = append(ordered, rest...)
	ordered = append(ordered, workloads...)

	for _, action := range ordered {
		if obj := action.Object; !obj.GetDeletionTimestamp().IsZero() {
			continue
		}
		if err := r.applyDelete(ctx, action.Object); err != nil {
			return len(ordered), err
		}
	}

	return len(ordered), nil
}
