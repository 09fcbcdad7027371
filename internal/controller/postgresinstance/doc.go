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

// Package postgresinstance reconciles PostgresInstance resources into the
// set of Kubernetes objects that run the database: the Postgres StatefulSet,
// its Services and Secrets, configuration, the optional pooler, app services,
// network policies, ingress routes, monitoring and backup objects.
//
// A reconcile pass is split into three phases. Builders produce the full
// desired object set from the spec, Plan compares desired against observed
// state and emits an ordered action list, and the executor applies those
// actions against the API server. Plan is a pure function so the comparison
// logic is tested without a cluster.
package postgresinstance
