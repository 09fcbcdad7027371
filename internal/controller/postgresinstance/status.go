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
	"math/rand/v2"
	"time"

	appsv1 "k8s.io/api/apps/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/util/retry"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// childReadiness is the observed readiness of the managed workloads.
type childReadiness struct {
	// workloadReady is true when the Postgres StatefulSet has all requested
	// replicas ready. A stopped instance counts as ready at zero.
	workloadReady bool

	// allReady additionally covers the pooler and app service Deployments.
	allReady bool

	// notReady names the components still converging, for the condition
	// message.
	notReady []string
}

// observeReadiness reads the readiness of every workload child.
func (r *PostgresInstanceReconciler) observeReadiness(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) (childReadiness, error) {
	out := childReadiness{workloadReady: true, allReady: true}

	sts := &appsv1.StatefulSet{}
	err := r.Get(ctx, client.ObjectKey{
		Namespace: inst.Namespace,
		Name:      name.Workload(inst.Name),
	}, sts)
	switch {
	case apierrors.IsNotFound(err):
		out.workloadReady = false
		out.allReady = false
		out.notReady = append(out.notReady, "postgres")
	case err != nil:
		return out, fmt.Errorf("failed to get workload for status: %w", err)
	default:
		want := instanceReplicas(inst)
		if sts.Status.ReadyReplicas != want {
			out.workloadReady = false
			out.allReady = false
			out.notReady = append(out.notReady, "postgres")
		}
	}

	deployments := &appsv1.DeploymentList{}
	err = r.List(ctx, deployments,
		client.InNamespace(inst.Namespace),
		client.MatchingLabels{metadata.LabelInstance: inst.Name},
	)
	if err != nil {
		return out, fmt.Errorf("failed to list deployments for status: %w", err)
	}
	for _, d := range deployments.Items {
		want := int32(1)
		if d.Spec.Replicas != nil {
			want = *d.Spec.Replicas
		}
		if d.Status.ReadyReplicas != want {
			out.allReady = false
			out.notReady = append(out.notReady, d.Name)
		}
	}

	return out, nil
}

// updateStatus derives phase and the Ready condition from the pass outcome
// and persists the status subresource. On a write conflict the instance is
// re-read and the computed status reapplied onto the fresh object, so
// concurrent spec updates are never overwritten and the operator-owned
// status always reflects this pass.
func (r *PostgresInstanceReconciler) updateStatus(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
	ready childReadiness,
	passErr error,
) error {
	switch {
	case passErr != nil && isTerminal(passErr):
		inst.Status.Phase = pgforgev1alpha1.PhaseError
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionReady,
			Status:             metav1.ConditionFalse,
			Reason:             terminalReason(passErr),
			Message:            passErr.Error(),
			ObservedGeneration: inst.Generation,
		})

	case passErr != nil:
		// Transient failure: keep the last phase unless this is the first
		// pass, and let the backoff retry converge.
		if inst.Status.Phase == "" {
			inst.Status.Phase = pgforgev1alpha1.PhaseReconciling
		}

	case !ready.allReady:
		inst.Status.Phase = pgforgev1alpha1.PhaseDegraded
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionReady,
			Status:             metav1.ConditionFalse,
			Reason:             pgforgev1alpha1.ReasonChildrenNotReady,
			Message:            fmt.Sprintf("Waiting for: %v", ready.notReady),
			ObservedGeneration: inst.Generation,
		})

	default:
		inst.Status.Phase = pgforgev1alpha1.PhaseReady
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionReady,
			Status:             metav1.ConditionTrue,
			Reason:             pgforgev1alpha1.ReasonReconcileSucceeded,
			Message:            "All managed objects are ready",
			ObservedGeneration: inst.Generation,
		})
	}

	// Running latches: once the server has come up it stays reported as
	// running through transient pod churn, and only a stop request clears
	// it. A stopped instance is not running even though it is Ready.
	inst.Status.Running = (ready.workloadReady || inst.Status.Running) && !inst.Spec.Stop
	inst.Status.ObservedGeneration = inst.Generation

	if passErr == nil {
		inst.Status.Resources = inst.Spec.Resources.DeepCopy()
		inst.Status.RuntimeConfig = inst.Spec.MergedPostgresParameters()
		r.stampFullReconcile(inst)
	}

	return r.writeStatus(ctx, inst)
}

// stampFullReconcile refreshes LastFullReconcile, throttled so repeated
// clean passes do not churn the status resourceVersion.
func (r *PostgresInstanceReconciler) stampFullReconcile(inst *pgforgev1alpha1.PostgresInstance) {
	now := metav1.Now()
	last := inst.Status.LastFullReconcile
	if last != nil && now.Sub(last.Time) < r.Config.FullReconcileTimestampTTL {
		return
	}
	inst.Status.LastFullReconcile = &now
}

// writeStatus persists inst.Status with conflict retry.
func (r *PostgresInstanceReconciler) writeStatus(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) error {
	computed := inst.Status.DeepCopy()

	err := retry.RetryOnConflict(retry.DefaultRetry, func() error {
		fresh := &pgforgev1alpha1.PostgresInstance{}
		if err := r.Get(ctx, client.ObjectKeyFromObject(inst), fresh); err != nil {
			return err
		}
		fresh.Status = *computed.DeepCopy()
		return r.Status().Update(ctx, fresh)
	})
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	return nil
}

// requeueAfter computes the steady-state requeue interval with jitter so
// instances created together spread out over time.
func (r *PostgresInstanceReconciler) requeueAfter() time.Duration {
	interval := r.Config.ReconcileTTL
	if r.Config.ReconcileJitter > 0 {
		interval += rand.N(r.Config.ReconcileJitter)
	}
	return interval
}
