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
	"strings"
	"testing"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
)

func TestBuildConfigMap(t *testing.T) {
	t.Parallel()

	scheme := testScheme(t)

	t.Run("renders merged parameters", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.RuntimeConfig = []pgforgev1alpha1.PgParameter{
			{Name: "shared_buffers", Value: "256MB"},
			{Name: "max_connections", Value: "100"},
		}
		inst.Spec.OverrideConfig = []pgforgev1alpha1.PgParameter{
			{Name: "max_connections", Value: "200"},
		}

		cm, err := BuildConfigMap(inst, scheme)
		if err != nil {
			t.Fatalf("BuildConfigMap() error = %v", err)
		}
		if cm.Name != "pgi-config" {
			t.Errorf("Name = %q, want pgi-config", cm.Name)
		}

		conf := cm.Data["postgresql.conf"]
		if !strings.Contains(conf, "port = 5432\n") {
			t.Errorf("postgresql.conf missing port line:\n%s", conf)
		}
		if !strings.Contains(conf, "max_connections = '200'\n") {
			t.Errorf("Override should win for max_connections:\n%s", conf)
		}
		if !strings.Contains(conf, "shared_buffers = '256MB'\n") {
			t.Errorf("postgresql.conf missing runtime parameter:\n%s", conf)
		}
	})

	t.Run("custom port propagates", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		port := int32(5555)
		inst.Spec.Port = &port

		cm, err := BuildConfigMap(inst, scheme)
		if err != nil {
			t.Fatalf("BuildConfigMap() error = %v", err)
		}
		if !strings.Contains(cm.Data["postgresql.conf"], "port = 5555\n") {
			t.Errorf("postgresql.conf should use the spec port:\n%s", cm.Data["postgresql.conf"])
		}
	})

	t.Run("rendering is deterministic", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.RuntimeConfig = []pgforgev1alpha1.PgParameter{
			{Name: "work_mem", Value: "16MB"},
			{Name: "shared_buffers", Value: "256MB"},
			{Name: "max_connections", Value: "100"},
		}

		first, err := BuildConfigMap(inst, scheme)
		if err != nil {
			t.Fatalf("BuildConfigMap() error = %v", err)
		}
		second, err := BuildConfigMap(inst, scheme)
		if err != nil {
			t.Fatalf("BuildConfigMap() error = %v", err)
		}
		if first.Data["postgresql.conf"] != second.Data["postgresql.conf"] {
			t.Error("Repeated builds should render identical configuration")
		}
	})
}

func TestBuildMetricsConfigMap(t *testing.T) {
	t.Parallel()

	scheme := testScheme(t)

	t.Run("nil when monitoring is off", func(t *testing.T) {
		t.Parallel()

		cm, err := BuildMetricsConfigMap(testInstance("pgi"), scheme)
		if err != nil {
			t.Fatalf("BuildMetricsConfigMap() error = %v", err)
		}
		if cm != nil {
			t.Error("Expected nil ConfigMap without monitoring")
		}
	})

	t.Run("renders queries sorted", func(t *testing.T) {
		t.Parallel()

		inst := testInstance("pgi")
		inst.Spec.Monitoring = &pgforgev1alpha1.MonitoringSpec{
			Enabled: true,
			Queries: map[string]string{
				"zz_replication": "SELECT * FROM pg_stat_replication",
				"aa_activity":    "SELECT * FROM pg_stat_activity",
			},
		}

		cm, err := BuildMetricsConfigMap(inst, scheme)
		if err != nil {
			t.Fatalf("BuildMetricsConfigMap() error = %v", err)
		}
		if cm.Name != "pgi-metrics" {
			t.Errorf("Name = %q, want pgi-metrics", cm.Name)
		}

		queries := cm.Data["queries.yaml"]
		if strings.Index(queries, "aa_activity") > strings.Index(queries, "zz_replication") {
			t.Errorf("Queries should be rendered in sorted order:\n%s", queries)
		}
	})
}
