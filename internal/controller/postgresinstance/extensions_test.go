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
	"testing"

	batchv1 "k8s.io/api/batch/v1"
	"k8s.io/apimachinery/pkg/api/meta"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/tools/record"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/internal/config"
)

func TestIsDowngrade(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		applied   string
		requested string
		want      bool
	}{
		"lower version is a downgrade":  {applied: "1.5.0", requested: "1.4.0", want: true},
		"higher version is an upgrade":  {applied: "1.4.0", requested: "1.5.0", want: false},
		"equal versions are fine":       {applied: "1.5.0", requested: "1.5.0", want: false},
		"empty applied never blocks":    {applied: "", requested: "1.0.0", want: false},
		"empty requested never blocks":  {applied: "1.5.0", requested: "", want: false},
		"unparsable applied is ignored": {applied: "latest", requested: "1.0.0", want: false},
		"patch level counts":            {applied: "1.5.2", requested: "1.5.1", want: true},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if got := isDowngrade(tc.applied, tc.requested); got != tc.want {
				t.Errorf("isDowngrade(%q, %q) = %v, want %v", tc.applied, tc.requested, got, tc.want)
			}
		})
	}
}

func extensionsReconciler(t *testing.T, inst *pgforgev1alpha1.PostgresInstance) *PostgresInstanceReconciler {
	t.Helper()
	scheme := testScheme(t)
	c := fake.NewClientBuilder().
		WithScheme(scheme).
		WithObjects(inst).
		WithStatusSubresource(&pgforgev1alpha1.PostgresInstance{}).
		Build()
	return &PostgresInstanceReconciler{
		Client:   c,
		Scheme:   scheme,
		Recorder: record.NewFakeRecorder(16),
		Config:   &config.Config{},
	}
}

func TestReconcileExtensions(t *testing.T) {
	t.Parallel()

	t.Run("pending until the workload is ready", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Extensions = []pgforgev1alpha1.Extension{
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocation{
					{Database: "postgres", Enabled: true},
				},
			},
		}
		r := extensionsReconciler(t, inst)

		if err := r.reconcileExtensions(context.Background(), inst, false); err != nil {
			t.Fatalf("reconcileExtensions() error = %v", err)
		}

		cond := meta.FindStatusCondition(inst.Status.Conditions, pgforgev1alpha1.ConditionExtensionsReady)
		if cond == nil || cond.Status != metav1.ConditionFalse {
			t.Fatalf("ExtensionsReady = %+v, want False", cond)
		}
		if cond.Reason != pgforgev1alpha1.ReasonExtensionsPending {
			t.Errorf("Reason = %q, want pending", cond.Reason)
		}
	})

	t.Run("pending while the enabler job runs", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Extensions = []pgforgev1alpha1.Extension{
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocation{
					{Database: "postgres", Enabled: true},
				},
			},
		}
		r := extensionsReconciler(t, inst)

		if err := r.reconcileExtensions(context.Background(), inst, true); err != nil {
			t.Fatalf("reconcileExtensions() error = %v", err)
		}

		if len(inst.Status.Extensions) != 1 {
			t.Fatalf("Extension statuses = %d, want 1", len(inst.Status.Extensions))
		}
		if inst.Status.Extensions[0].Locations[0].Enabled != nil {
			t.Error("Enabled must stay unset until the enabler job finishes")
		}
		cond := meta.FindStatusCondition(inst.Status.Conditions, pgforgev1alpha1.ConditionExtensionsReady)
		if cond == nil || cond.Status != metav1.ConditionFalse {
			t.Fatalf("ExtensionsReady = %+v, want False", cond)
		}
		if cond.Reason != pgforgev1alpha1.ReasonExtensionsPending {
			t.Errorf("Reason = %q, want pending", cond.Reason)
		}
	})

	t.Run("applies enabled state after the enabler job succeeds", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Extensions = []pgforgev1alpha1.Extension{
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocation{
					{Database: "postgres", Version: "0.7.0", Enabled: true},
					{Database: "app", Enabled: false},
				},
			},
		}
		r := extensionsReconciler(t, inst)

		job, err := BuildEnablerJob(inst, r.Scheme)
		if err != nil {
			t.Fatalf("BuildEnablerJob() error = %v", err)
		}
		job.Status.Succeeded = 1
		if err := r.Create(context.Background(), job); err != nil {
			t.Fatalf("Failed to create enabler job: %v", err)
		}

		if err := r.reconcileExtensions(context.Background(), inst, true); err != nil {
			t.Fatalf("reconcileExtensions() error = %v", err)
		}

		if len(inst.Status.Extensions) != 1 {
			t.Fatalf("Extension statuses = %d, want 1", len(inst.Status.Extensions))
		}
		locs := inst.Status.Extensions[0].Locations
		if len(locs) != 2 {
			t.Fatalf("Locations = %d, want 2", len(locs))
		}
		if locs[0].Enabled == nil || !*locs[0].Enabled {
			t.Error("First location should be enabled")
		}
		if locs[1].Enabled == nil || *locs[1].Enabled {
			t.Error("Second location should be disabled")
		}

		cond := meta.FindStatusCondition(inst.Status.Conditions, pgforgev1alpha1.ConditionExtensionsReady)
		if cond == nil || cond.Status != metav1.ConditionTrue {
			t.Fatalf("ExtensionsReady = %+v, want True", cond)
		}
	})

	t.Run("enabler job failure marks the locations", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Extensions = []pgforgev1alpha1.Extension{
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocation{
					{Database: "postgres", Enabled: true},
				},
			},
		}
		r := extensionsReconciler(t, inst)

		job, err := BuildEnablerJob(inst, r.Scheme)
		if err != nil {
			t.Fatalf("BuildEnablerJob() error = %v", err)
		}
		job.Status.Conditions = []batchv1.JobCondition{
			{Type: batchv1.JobFailed, Status: "True"},
		}
		if err := r.Create(context.Background(), job); err != nil {
			t.Fatalf("Failed to create enabler job: %v", err)
		}

		if err := r.reconcileExtensions(context.Background(), inst, true); err != nil {
			t.Fatalf("reconcileExtensions() error = %v", err)
		}

		loc := inst.Status.Extensions[0].Locations[0]
		if !loc.Error {
			t.Error("Location should be marked failed after the enabler job fails")
		}
		cond := meta.FindStatusCondition(inst.Status.Conditions, pgforgev1alpha1.ConditionExtensionsReady)
		if cond == nil || cond.Reason != pgforgev1alpha1.ReasonExtensionEnableFailed {
			t.Fatalf("ExtensionsReady = %+v, want enable failure reason", cond)
		}
	})

	t.Run("rejects a version downgrade", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Extensions = []pgforgev1alpha1.Extension{
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocation{
					{Database: "postgres", Version: "0.6.0", Enabled: true},
				},
			},
		}
		inst.Status.Extensions = []pgforgev1alpha1.ExtensionStatus{
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocationStatus{
					{Database: "postgres", Version: "0.7.0"},
				},
			},
		}
		r := extensionsReconciler(t, inst)

		err := r.reconcileExtensions(context.Background(), inst, true)
		if err == nil {
			t.Fatal("reconcileExtensions() should reject the downgrade")
		}
		if !isTerminal(err) {
			t.Errorf("Downgrade error should be terminal, got %v", err)
		}

		loc := inst.Status.Extensions[0].Locations[0]
		if !loc.Error {
			t.Error("Downgrading location should be marked failed")
		}
		if loc.Version != "0.7.0" {
			t.Errorf("Location version = %q, want the applied 0.7.0 kept", loc.Version)
		}

		cond := meta.FindStatusCondition(inst.Status.Conditions, pgforgev1alpha1.ConditionExtensionsReady)
		if cond == nil || cond.Reason != pgforgev1alpha1.ReasonExtensionDowngrade {
			t.Fatalf("ExtensionsReady = %+v, want downgrade reason", cond)
		}
	})

	t.Run("clears status when extensions are removed", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Status.Extensions = []pgforgev1alpha1.ExtensionStatus{{Name: "pgvector"}}
		meta.SetStatusCondition(&inst.Status.Conditions, metav1.Condition{
			Type:   pgforgev1alpha1.ConditionExtensionsReady,
			Status: metav1.ConditionTrue,
			Reason: pgforgev1alpha1.ReasonExtensionsApplied,
		})
		r := extensionsReconciler(t, inst)

		if err := r.reconcileExtensions(context.Background(), inst, true); err != nil {
			t.Fatalf("reconcileExtensions() error = %v", err)
		}
		if inst.Status.Extensions != nil {
			t.Error("Extension statuses should be cleared")
		}
		if meta.FindStatusCondition(inst.Status.Conditions, pgforgev1alpha1.ConditionExtensionsReady) != nil {
			t.Error("ExtensionsReady condition should be removed")
		}
	})

	t.Run("duplicate spec entries collapse deterministically", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Extensions = []pgforgev1alpha1.Extension{
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocation{
					{Database: "postgres", Enabled: true},
				},
			},
			{
				Name: "pgvector",
				Locations: []pgforgev1alpha1.ExtensionInstallLocation{
					{Database: "app", Enabled: true},
				},
			},
		}
		r := extensionsReconciler(t, inst)

		if err := r.reconcileExtensions(context.Background(), inst, true); err != nil {
			t.Fatalf("reconcileExtensions() error = %v", err)
		}
		if len(inst.Status.Extensions) != 1 {
			t.Fatalf("Extension statuses = %d, want duplicates merged", len(inst.Status.Extensions))
		}
		if len(inst.Status.Extensions[0].Locations) != 2 {
			t.Errorf("Locations = %d, want both databases", len(inst.Status.Extensions[0].Locations))
		}
	})
}

func TestTrackInstalls(t *testing.T) {
	t.Parallel()

	t.Run("records installed pods after the job succeeds", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Installs = []pgforgev1alpha1.ExtensionInstall{
			{Name: "pgvector", Version: "0.7.0"},
		}
		r := extensionsReconciler(t, inst)

		job, err := BuildInstallerJob(inst, r.Scheme)
		if err != nil {
			t.Fatalf("BuildInstallerJob() error = %v", err)
		}
		job.Status.Succeeded = 1
		if err := r.Create(context.Background(), job); err != nil {
			t.Fatalf("Failed to create installer job: %v", err)
		}

		if err := r.trackInstalls(context.Background(), inst); err != nil {
			t.Fatalf("trackInstalls() error = %v", err)
		}

		if len(inst.Status.Installs) != 1 {
			t.Fatalf("Install statuses = %d, want 1", len(inst.Status.Installs))
		}
		got := inst.Status.Installs[0]
		if got.Error {
			t.Errorf("Install should not be failed: %s", got.ErrorMessage)
		}
		if len(got.InstalledToPods) != 1 || got.InstalledToPods[0] != "pgi-0" {
			t.Errorf("InstalledToPods = %v, want [pgi-0]", got.InstalledToPods)
		}
	})

	t.Run("pending while the job runs", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Installs = []pgforgev1alpha1.ExtensionInstall{
			{Name: "pg_cron"},
		}
		r := extensionsReconciler(t, inst)

		if err := r.trackInstalls(context.Background(), inst); err != nil {
			t.Fatalf("trackInstalls() error = %v", err)
		}
		if len(inst.Status.Installs) != 1 {
			t.Fatalf("Install statuses = %d, want 1", len(inst.Status.Installs))
		}
		if inst.Status.Installs[0].InstalledToPods != nil {
			t.Error("No pods should be recorded before the job succeeds")
		}
	})
}
