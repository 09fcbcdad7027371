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

package v1alpha1

import (
	"slices"
	"sort"
	"strings"
)

// PgParameter is one Postgres configuration key/value.
type PgParameter struct {
	// +kubebuilder:validation:Required
	Name string `json:"name"`

	// +kubebuilder:validation:Required
	Value string `json:"value"`
}

// multiValueParameters are settings whose values are comma-separated lists
// that must be merged, not overwritten, when they appear in more than one
// configuration source.
var multiValueParameters = []string{
	"shared_preload_libraries",
	"local_preload_libraries",
	"session_preload_libraries",
	"log_destination",
	"search_path",
}

// preloadPriority fixes the load order for libraries that must come first in
// shared_preload_libraries. Everything else sorts alphabetically after them.
var preloadPriority = []string{"citus", "pg_stat_statements", "pg_stat_kcache"}

// disallowedParameters are settings the operator owns. User values for these
// are dropped during the merge so a spec cannot break the managed deployment.
var disallowedParameters = []string{
	"allow_system_table_mods",
	"archive_cleanup_command",
	"archive_command",
	"archive_mode",
	"cluster_name",
	"config_file",
	"data_directory",
	"external_pid_file",
	"hba_file",
	"hot_standby",
	"ident_file",
	"listen_addresses",
	"log_directory",
	"log_file_mode",
	"log_filename",
	"logging_collector",
	"port",
	"primary_conninfo",
	"primary_slot_name",
	"promote_trigger_file",
	"recovery_end_command",
	"recovery_target",
	"recovery_target_action",
	"recovery_target_inclusive",
	"recovery_target_lsn",
	"recovery_target_name",
	"recovery_target_time",
	"recovery_target_timeline",
	"recovery_target_xid",
	"restart_after_crash",
	"restore_command",
	"ssl",
	"ssl_ca_file",
	"ssl_cert_file",
	"ssl_crl_file",
	"ssl_key_file",
	"unix_socket_directories",
	"unix_socket_group",
	"unix_socket_permissions",
	"wal_level",
	"wal_log_hints",
}

// IsMultiValueParameter reports whether name is merged rather than replaced
// across configuration sources.
func IsMultiValueParameter(name string) bool {
	return slices.Contains(multiValueParameters, name)
}

// IsDisallowedParameter reports whether name may never be set from the spec.
func IsDisallowedParameter(name string) bool {
	return slices.Contains(disallowedParameters, name)
}

// MergeMultiValue merges the values of a multi-value parameter from two
// sources into one comma-separated value with stable ordering. For the
// preload-library parameters, priority libraries come first in their fixed
// order; everything else sorts alphabetically.
func MergeMultiValue(name string, sources ...string) string {
	seen := make(map[string]bool)
	var values []string
	for _, src := range sources {
		for _, v := range strings.Split(src, ",") {
			v = strings.TrimSpace(v)
			if v == "" || seen[v] {
				continue
			}
			seen[v] = true
			values = append(values, v)
		}
	}

	rank := func(v string) int {
		if strings.HasSuffix(name, "_preload_libraries") {
			if i := slices.Index(preloadPriority, v); i >= 0 {
				return i
			}
		}
		return len(preloadPriority)
	}
	sort.SliceStable(values, func(i, j int) bool {
		ri, rj := rank(values[i]), rank(values[j])
		if ri != rj {
			return ri < rj
		}
		return values[i] < values[j]
	})

	return strings.Join(values, ",")
}

// MergedPostgresParameters merges runtime parameters with user overrides into
// one deterministic list. Overrides win for single-value parameters;
// multi-value parameters are merged; disallowed parameters are dropped.
func (s *PostgresInstanceSpec) MergedPostgresParameters() []PgParameter {
	merged := make(map[string]string)
	var order []string

	add := func(params []PgParameter) {
		for _, p := range params {
			if IsDisallowedParameter(p.Name) {
				continue
			}
			prev, ok := merged[p.Name]
			if !ok {
				order = append(order, p.Name)
				merged[p.Name] = p.Value
				continue
			}
			if IsMultiValueParameter(p.Name) {
				merged[p.Name] = MergeMultiValue(p.Name, prev, p.Value)
			} else {
				merged[p.Name] = p.Value
			}
		}
	}

	add(s.RuntimeConfig)
	add(s.OverrideConfig)

	sort.Strings(order)
	out := make([]PgParameter, 0, len(order))
	for _, name := range order {
		out = append(out, PgParameter{Name: name, Value: merged[name]})
	}
	return out
}
