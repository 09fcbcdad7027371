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

	"github.com/go-logr/logr"
	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/log"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
)

// applyActions executes a plan in order. The first error stops the pass;
// actions already applied stay applied and the next pass replans from the
// new observed state.
func (r *PostgresInstanceReconciler) applyActions(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
	actions []Action,
) error {
	logger := log.FromContext(ctx)

	for _, action := range actions {
		if action.Kind == ActionNoOp {
			continue
		}
		if err := r.applyAction(ctx, logger, inst, action); err != nil {
			return err
		}
	}

	return nil
}

// applyAction executes a single planned step and records the outcome as an
// event on the instance.
func (r *PostgresInstanceReconciler) applyAction(
	ctx context.Context,
	logger logr.Logger,
	inst *pgforgev1alpha1.PostgresInstance,
	action Action,
) error {
	switch action.Kind {
	case ActionCreate:
		if err := r.applyCreate(ctx, inst, action.Object); err != nil {
			r.Recorder.Eventf(inst, "Warning", eventApplyFailed,
				"Failed to create %s: %v", describeObject(action.Object), err)
			return err
		}
		logger.V(1).Info("created child", "object", describeObject(action.Object))
		r.Recorder.Eventf(inst, "Normal", eventCreated,
			"Created %s", describeObject(action.Object))

	case ActionUpdate:
		if err := r.applyUpdate(ctx, action.Object); err != nil {
			r.Recorder.Eventf(inst, "Warning", eventApplyFailed,
				"Failed to update %s: %v", describeObject(action.Object), err)
			return err
		}
		logger.V(1).Info("updated child", "object", describeObject(action.Object))
		r.Recorder.Eventf(inst, "Normal", eventUpdated,
			"Updated %s", describeObject(action.Object))

	case ActionDelete:
		if err := r.applyDelete(ctx, action.Object); err != nil {
			r.Recorder.Eventf(inst, "Warning", eventApplyFailed,
				"Failed to delete %s: %v", describeObject(action.Object), err)
			return err
		}
		logger.V(1).Info("deleted stale child", "object", describeObject(action.Object))
		r.Recorder.Eventf(inst, "Normal", eventDeleted,
			"Deleted %s", describeObject(action.Object))
	}

	return nil
}

// applyCreate creates the object. An AlreadyExists answer is fine when the
// existing object is controlled by this instance; anything else owning an
// object under our name is a real conflict that must surface.
func (r *PostgresInstanceReconciler) applyCreate(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
	obj client.Object,
) error {
	err := r.Create(ctx, obj)
	if err == nil {
		return nil
	}
	if !apierrors.IsAlreadyExists(err) {
		return fmt.Errorf("failed to create %s: %w", describeObject(obj), err)
	}

	existing := obj.DeepCopyObject().(client.Object)
	if getErr := r.Get(ctx, client.ObjectKeyFromObject(obj), existing); getErr != nil {
		return fmt.Errorf("failed to check existing %s: %w", describeObject(obj), getErr)
	}
	if !metav1.IsControlledBy(existing, inst) {
		return newTerminalError("OwnershipConflict", fmt.Errorf(
			"%s already exists and is not controlled by this instance", describeObject(obj)))
	}
	return nil
}

// applyUpdate writes the merged object. On a resourceVersion conflict it
// re-reads and re-merges before retrying so a concurrent writer's fields are
// never clobbered blindly.
func (r *PostgresInstanceReconciler) applyUpdate(ctx context.Context, desired client.Object) error {
	first := true
	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		if first {
			// The plan already merged against the freshly observed object.
			first = false
			return r.Update(ctx, desired)
		}

		fresh := desired.DeepCopyObject().(client.Object)
		if err := r.Get(ctx, client.ObjectKeyFromObject(desired), fresh); err != nil {
			return err
		}
		merged, changed := mergeObject(fresh, desired)
		if !changed {
			return nil
		}
		return r.Update(ctx, merged)
	})
	if err != nil {
		return fmt.Errorf("failed to update %s: %w", describeObject(desired), err)
	}
	return nil
}

// applyDelete removes a stale object. The workload is deleted in the
// foreground so its pods are gone before the pass reports the deletion done;
// everything else propagates in the background.
func (r *PostgresInstanceReconciler) applyDelete(ctx context.Context, obj client.Object) error {
	policy := metav1.DeletePropagationBackground
	if _, ok := obj.(*appsv1.StatefulSet); ok {
		policy = metav1.DeletePropagationForeground
	}

	err := r.Delete(ctx, obj, client.PropagationPolicy(policy))
	if err != nil && !apierrors.IsNotFound(err) {
		return fmt.Errorf("failed to delete %s: %w", describeObject(obj), err)
	}
	return nil
}

// describeObject renders "Kind namespace/name" for logs and events.
func describeObject(obj client.Object) string {
	kind := obj.GetObjectKind().GroupVersionKind().Kind
	if kind == "" {
		kind = fmt.Sprintf("%T", obj)
	}
	return fmt.Sprintf("%s %s/%s", kind, obj.GetNamespace(), obj.GetName())
}
