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

// Condition types reported on PostgresInstance status.
const (
	// ConditionReady is True when every managed object is present and ready.
	ConditionReady = "Ready"

	// ConditionValidated is False when the spec failed validation. The error
	// is terminal and clears only on a spec change.
	ConditionValidated = "Validated"

	// ConditionResizing is True while a storage growth request has been
	// applied but not yet fulfilled by the storage subsystem.
	ConditionResizing = "Resizing"

	// ConditionExtensionsReady is True when every requested extension
	// location has converged.
	ConditionExtensionsReady = "ExtensionsReady"

	// ConditionFinalizing is True while deletion cleanup runs.
	ConditionFinalizing = "Finalizing"
)

// Condition reasons.
const (
	ReasonReconcileSucceeded    = "ReconcileSucceeded"
	ReasonChildrenNotReady      = "ChildrenNotReady"
	ReasonTerminalError         = "TerminalError"
	ReasonSpecValid             = "SpecValid"
	ReasonSpecInvalid           = "SpecInvalid"
	ReasonStorageShrink         = "StorageShrinkRejected"
	ReasonStorageResizing       = "StorageResizing"
	ReasonStorageStable         = "StorageStable"
	ReasonExtensionDowngrade    = "ExtensionDowngradeRejected"
	ReasonExtensionsApplied     = "ExtensionsApplied"
	ReasonExtensionsPending     = "ExtensionsPending"
	ReasonExtensionEnableFailed = "ExtensionEnableFailed"
	ReasonCleanupInProgress     = "CleanupInProgress"
	ReasonCleanupBlocked        = "CleanupBlocked"
)
