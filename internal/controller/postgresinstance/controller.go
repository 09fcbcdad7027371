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
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/client-go/tools/record"
	"k8s.io/client-go/util/workqueue"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/client"
	"sigs.k8s.io/controller-runtime/pkg/controller"
	"sigs.k8s.io/controller-runtime/pkg/controller/controllerutil"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/reconcile"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/config"
	"github.com/pgforge/postgres-operator/internal/metrics"
)

// PostgresInstanceReconciler reconciles a PostgresInstance object.
type PostgresInstanceReconciler struct {
	client.Client
	Scheme   *runtime.Scheme
	Recorder record.EventRecorder
	Config   *config.Config
}

// +kubebuilder:rbac:groups=pgforge.io,resources=postgresinstances,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=pgforge.io,resources=postgresinstances/status,verbs=get;update;patch
// +kubebuilder:rbac:groups=pgforge.io,resources=postgresinstances/finalizers,verbs=update
// +kubebuilder:rbac:groups=apps,resources=statefulsets;deployments,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=batch,resources=jobs;cronjobs,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups="",resources=services;secrets;configmaps;serviceaccounts;persistentvolumeclaims;events,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=networking.k8s.io,resources=networkpolicies,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=traefik.io,resources=ingressroutetcps;middlewaretcps,verbs=get;list;watch;create;update;patch;delete
// +kubebuilder:rbac:groups=monitoring.coreos.com,resources=podmonitors,verbs=get;list;watch;create;update;patch;delete

// Reconcile converges one PostgresInstance. Each pass rebuilds the full
// desired object set, plans against observed state and applies the plan, so
// a single pass from any starting point converges the instance.
func (r *PostgresInstanceReconciler) Reconcile(
	ctx context.Context,
	req ctrl.Request,
) (ctrl.Result, error) {
	start := time.Now()
	logger := log.FromContext(ctx)

	inst := &pgforgev1alpha1.PostgresInstance{}
	if err := r.Get(ctx, req.NamespacedName, inst); err != nil {
		if apierrors.IsNotFound(err) {
			return ctrl.Result{}, nil
		}
		return ctrl.Result{}, fmt.Errorf("failed to get PostgresInstance: %w", err)
	}

	// Deletion wins over pause: a paused instance must still be able to
	// release its finalizer, or it can never be removed.
	if !inst.DeletionTimestamp.IsZero() {
		return r.handleDeletion(ctx, inst)
	}

	if paused(inst) {
		logger.Info("reconciliation paused by annotation")
		r.Recorder.Event(inst, "Normal", eventPaused,
			"Reconciliation is paused by the "+annotationReconcile+" annotation")
		return ctrl.Result{}, nil
	}

	if !controllerutil.ContainsFinalizer(inst, finalizerName) {
		controllerutil.AddFinalizer(inst, finalizerName)
		if err := r.Update(ctx, inst); err != nil {
			return ctrl.Result{}, fmt.Errorf("failed to add finalizer: %w", err)
		}
		// The update retriggers reconciliation; start the real work there.
		return ctrl.Result{}, nil
	}

	passErr := r.reconcileInstance(ctx, inst)

	metrics.ObserveReconcile(inst.Namespace, inst.Name, start, errorClass(passErr))

	switch {
	case passErr == nil:
		logger.V(1).Info("reconcile complete", "duration", time.Since(start).String())
		return ctrl.Result{RequeueAfter: r.requeueAfter()}, nil

	case isTerminal(passErr):
		// Status carries the error; requeueing cannot fix a terminal
		// failure, so wait for a spec change (or the periodic resync).
		logger.Error(passErr, "terminal reconcile error")
		return ctrl.Result{}, nil

	default:
		logger.Error(passErr, "reconcile failed")
		if delay := retryDelay(passErr); delay > 0 {
			return ctrl.Result{RequeueAfter: delay}, nil
		}
		return ctrl.Result{}, passErr
	}
}

// reconcileInstance runs one full pass: validate, build, observe, plan,
// apply, follow up, record status. The returned error has already been
// folded into status by the time this returns.
func (r *PostgresInstanceReconciler) reconcileInstance(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) error {
	passErr := r.converge(ctx, inst)

	ready, obsErr := r.observeReadiness(ctx, inst)
	if passErr == nil {
		passErr = obsErr
	}

	if statusErr := r.updateStatus(ctx, inst, ready, passErr); statusErr != nil {
		if passErr == nil {
			passErr = statusErr
		}
	}
	return passErr
}

// converge validates the spec and applies the plan plus follow-ups.
func (r *PostgresInstanceReconciler) converge(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) error {
	if errs := inst.Spec.ValidateSpec(); len(errs) > 0 {
		err := newTerminalError(pgforgev1alpha1.ReasonSpecInvalid,
			fmt.Errorf("invalid spec: %s", errs.ToAggregate().Error()))
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionValidated,
			Status:             metav1.ConditionFalse,
			Reason:             pgforgev1alpha1.ReasonSpecInvalid,
			Message:            errs.ToAggregate().Error(),
			ObservedGeneration: inst.Generation,
		})
		r.Recorder.Eventf(inst, "Warning", eventInvalidSpec, "Spec rejected: %v", errs.ToAggregate())
		return err
	}
	meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
		Type:               pgforgev1alpha1.ConditionValidated,
		Status:             metav1.ConditionTrue,
		Reason:             pgforgev1alpha1.ReasonSpecValid,
		Message:            "Spec validated",
		ObservedGeneration: inst.Generation,
	})

	if err := r.reconcileStorage(ctx, inst); err != nil {
		return err
	}

	desired, err := BuildDesired(inst, r.Config, r.Scheme)
	if err != nil {
		return fmt.Errorf("failed to build desired state: %w", err)
	}

	observed, err := r.observeChildren(ctx, inst)
	if err != nil {
		return err
	}

	actions := Plan(desired, observed)
	if err := r.applyActions(ctx, inst, actions); err != nil {
		return err
	}

	ready, err := r.observeReadiness(ctx, inst)
	if err != nil {
		return err
	}
	return r.reconcileExtensions(ctx, inst, ready.workloadReady)
}

// paused reports whether the skip annotation disables reconciliation.
func paused(inst *pgforgev1alpha1.PostgresInstance) bool {
	return inst.Annotations[annotationReconcile] == "false"
}

// SetupWithManager sets up the controller with the Manager.
func (r *PostgresInstanceReconciler) SetupWithManager(
	mgr ctrl.Manager,
	opts ...controller.Options,
) error {
	controllerOpts := controller.Options{}
	if len(opts) > 0 {
		controllerOpts = opts[0]
	}
	if controllerOpts.MaxConcurrentReconciles == 0 {
		controllerOpts.MaxConcurrentReconciles = r.Config.MaxConcurrentReconciles
	}
	if controllerOpts.RateLimiter == nil {
		// Exponential per-item backoff, capped so a broken instance retries
		// at most every five minutes.
		controllerOpts.RateLimiter = workqueue.NewTypedItemExponentialFailureRateLimiter[reconcile.Request](
			500*time.Millisecond, 5*time.Minute)
	}

	return ctrl.NewControllerManagedBy(mgr).
		For(&pgforgev1alpha1.PostgresInstance{}).
		Owns(&appsv1.StatefulSet{}).
		Owns(&appsv1.Deployment{}).
		Owns(&corev1.Service{}).
		Owns(&corev1.Secret{}).
		Owns(&corev1.ConfigMap{}).
		Owns(&corev1.ServiceAccount{}).
		Owns(&networkingv1.NetworkPolicy{}).
		Owns(&batchv1.Job{}).
		Owns(&batchv1.CronJob{}).
		WithOptions(controllerOpts).
		Complete(r)
}
