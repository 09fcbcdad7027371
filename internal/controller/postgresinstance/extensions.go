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

	"github.com/Masterminds/semver/v3"
	batchv1 "k8s.io/api/batch/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// reconcileExtensions converges extension state after the plan ran. It is an
// asynchronous follow-up: enablement only proceeds once the workload reports
// ready, and until then the condition stays Pending without failing the
// pass.
//
// Requested version downgrades are rejected terminally. The remaining
// locations keep converging; only the downgrading location is marked failed.
func (r *PostgresInstanceReconciler) reconcileExtensions(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
	workloadReady bool,
) error {
	desired := pgforgev1alpha1.DedupeExtensions(inst.Spec.Extensions)

	if err := r.trackInstalls(ctx, inst); err != nil {
		return err
	}

	if len(desired) == 0 {
		inst.Status.Extensions = nil
		meta.RemoveStatusCondition(&inst.Status.Conditions, pgforgev1alpha1.ConditionExtensionsReady)
		return nil
	}

	if !workloadReady {
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionExtensionsReady,
			Status:             metav1.ConditionFalse,
			Reason:             pgforgev1alpha1.ReasonExtensionsPending,
			Message:            "Waiting for the workload to become ready",
			ObservedGeneration: inst.Generation,
		})
		return nil
	}

	enabler, err := r.currentEnablerJob(ctx, inst)
	if err != nil {
		return err
	}
	enablerSucceeded := enabler != nil && enabler.Status.Succeeded > 0
	enablerFailed := enabler != nil && jobFailed(enabler)

	var downgrade error
	previous := extensionVersions(inst.Status.Extensions)
	statuses := make([]pgforgev1alpha1.ExtensionStatus, 0, len(desired))

	for _, ext := range desired {
		status := pgforgev1alpha1.ExtensionStatus{
			Name:        ext.Name,
			Description: ext.Description,
		}

		for _, loc := range ext.Locations {
			locStatus := pgforgev1alpha1.ExtensionInstallLocationStatus{
				Database: loc.Database,
				Schema:   loc.Schema,
				Version:  loc.Version,
			}

			applied := previous[locationKey{name: ext.Name, database: loc.Database}]
			switch {
			case isDowngrade(applied, loc.Version):
				locStatus.Version = applied
				locStatus.Error = true
				locStatus.ErrorMessage = fmt.Sprintf(
					"cannot downgrade from %s to %s", applied, loc.Version)
				downgrade = newTerminalError(pgforgev1alpha1.ReasonExtensionDowngrade, fmt.Errorf(
					"extension %s in database %s: cannot downgrade from %s to %s",
					ext.Name, loc.Database, applied, loc.Version))

			case enablerSucceeded:
				enabled := loc.Enabled
				locStatus.Enabled = &enabled

			case enablerFailed:
				locStatus.Error = true
				locStatus.ErrorMessage = "enabler job failed"
			}
			// While the enabler Job is still running, Enabled stays unset:
			// the status never claims a CREATE EXTENSION that has not run.

			status.Locations = append(status.Locations, locStatus)
		}

		statuses = append(statuses, status)
	}

	inst.Status.Extensions = statuses

	if downgrade != nil {
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionExtensionsReady,
			Status:             metav1.ConditionFalse,
			Reason:             pgforgev1alpha1.ReasonExtensionDowngrade,
			Message:            downgrade.Error(),
			ObservedGeneration: inst.Generation,
		})
		return downgrade
	}

	if enablerFailed {
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionExtensionsReady,
			Status:             metav1.ConditionFalse,
			Reason:             pgforgev1alpha1.ReasonExtensionEnableFailed,
			Message:            "Enabler job failed; edit spec.extensions to retry",
			ObservedGeneration: inst.Generation,
		})
		return nil
	}

	if !enablerSucceeded {
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:               pgforgev1alpha1.ConditionExtensionsReady,
			Status:             metav1.ConditionFalse,
			Reason:             pgforgev1alpha1.ReasonExtensionsPending,
			Message:            "Waiting for the enabler job to complete",
			ObservedGeneration: inst.Generation,
		})
		return nil
	}

	meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
		Type:               pgforgev1alpha1.ConditionExtensionsReady,
		Status:             metav1.ConditionTrue,
		Reason:             pgforgev1alpha1.ReasonExtensionsApplied,
		Message:            "All requested extension locations converged",
		ObservedGeneration: inst.Generation,
	})
	return nil
}

// currentEnablerJob fetches the enabler Job for the current extension set.
func (r *PostgresInstanceReconciler) currentEnablerJob(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) (*batchv1.Job, error) {
	desired, err := BuildEnablerJob(inst, r.Scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to build enabler job: %w", err)
	}
	if desired == nil {
		return nil, nil
	}

	job := &batchv1.Job{}
	err = r.Get(ctx, client.ObjectKeyFromObject(desired), job)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get enabler job: %w", err)
	}
	return job, nil
}

// trackInstalls mirrors installer Job completion into install statuses.
func (r *PostgresInstanceReconciler) trackInstalls(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) error {
	if len(inst.Spec.Installs) == 0 {
		inst.Status.Installs = nil
		return nil
	}

	job, err := r.currentInstallerJob(ctx, inst)
	if err != nil {
		return err
	}

	succeeded := job != nil && job.Status.Succeeded > 0
	failed := job != nil && jobFailed(job)

	statuses := make([]pgforgev1alpha1.ExtensionInstallStatus, 0, len(inst.Spec.Installs))
	for _, pkg := range inst.Spec.Installs {
		status := pgforgev1alpha1.ExtensionInstallStatus{
			Name:    pkg.Name,
			Version: pkg.Version,
		}
		switch {
		case succeeded:
			status.InstalledToPods = workloadPodNames(inst)
		case failed:
			status.Error = true
			status.ErrorMessage = "installer job failed"
		}
		statuses = append(statuses, status)
	}
	inst.Status.Installs = statuses
	return nil
}

// currentInstallerJob fetches the installer Job for the current install set.
func (r *PostgresInstanceReconciler) currentInstallerJob(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) (*batchv1.Job, error) {
	desired, err := BuildInstallerJob(inst, r.Scheme)
	if err != nil {
		return nil, fmt.Errorf("failed to build installer job: %w", err)
	}
	if desired == nil {
		return nil, nil
	}

	job := &batchv1.Job{}
	err = r.Get(ctx, client.ObjectKeyFromObject(desired), job)
	if err != nil {
		if apierrors.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get installer job: %w", err)
	}
	return job, nil
}

func jobFailed(job *batchv1.Job) bool {
	for _, cond := range job.Status.Conditions {
		if cond.Type == batchv1.JobFailed && cond.Status == "True" {
			return true
		}
	}
	return false
}

// workloadPodNames enumerates the StatefulSet pod names for the instance.
func workloadPodNames(inst *pgforgev1alpha1.PostgresInstance) []string {
	replicas := instanceReplicas(inst)
	pods := make([]string, 0, replicas)
	for i := int32(0); i < replicas; i++ {
		pods = append(pods, fmt.Sprintf("%s-%d", name.Workload(inst.Name), i))
	}
	return pods
}

type locationKey struct {
	name     string
	database string
}

// extensionVersions indexes the versions recorded as applied in status.
func extensionVersions(statuses []pgforgev1alpha1.ExtensionStatus) map[locationKey]string {
	out := make(map[locationKey]string)
	for _, ext := range statuses {
		for _, loc := range ext.Locations {
			if loc.Version != "" && !loc.Error {
				out[locationKey{name: ext.Name, database: loc.Database}] = loc.Version
			}
		}
	}
	return out
}

// isDowngrade reports whether moving from applied to requested lowers the
// version. Unparsable or missing versions never count as downgrades; the
// rule only blocks what it can prove.
func isDowngrade(applied, requested string) bool {
	if applied == "" || requested == "" {
		return false
	}
	from, err := semver.NewVersion(applied)
	if err != nil {
		return false
	}
	to, err := semver.NewVersion(requested)
	if err != nil {
		return false
	}
	return to.LessThan(from)
}
