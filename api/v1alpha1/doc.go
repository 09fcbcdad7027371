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

// Package v1alpha1 defines the API types for the pgforge operator.
//
// This package contains the Go type definitions for the pgforge.io API group.
// These types are used by kubebuilder to generate:
//   - CustomResourceDefinitions (CRDs)
//   - DeepCopy methods
//   - Client code
//
// # Custom Resources
//
// PostgresInstance is the single user-facing resource. It declares a complete
// managed Postgres deployment: the database workload itself, its services and
// secrets, network access rules, extension set, connection pooler, application
// sidecar services, and backup schedule. The operator owns the status
// subresource exclusively and never mutates the spec.
package v1alpha1
