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

// Extension declares a Postgres extension to enable on the instance. The
// extension must already be present in the image or installed via Installs.
type Extension struct {
	// Name of the extension as known to CREATE EXTENSION.
	// +kubebuilder:validation:Required
	Name string `json:"name"`

	// Description of the extension.
	// +optional
	Description string `json:"description,omitempty"`

	// Locations lists the databases the extension is enabled on.
	// +kubebuilder:validation:MinItems=1
	Locations []ExtensionInstallLocation `json:"locations"`
}

// ExtensionInstallLocation is one (database, extension) enablement target.
type ExtensionInstallLocation struct {
	// Database the extension is enabled on.
	// +kubebuilder:default=postgres
	// +optional
	Database string `json:"database,omitempty"`

	// Schema the extension objects are created in.
	// +optional
	Schema string `json:"schema,omitempty"`

	// Version of the extension. Empty means latest available. Downgrades
	// relative to the currently enabled version are rejected.
	// +optional
	Version string `json:"version,omitempty"`

	// Enabled controls whether the extension is created or dropped at this
	// location.
	Enabled bool `json:"enabled"`
}

// ExtensionInstall requests a runtime installation of an extension package
// from the registry before it can be enabled.
type ExtensionInstall struct {
	// Name of the package in the registry.
	// +kubebuilder:validation:Required
	Name string `json:"name"`

	// Version to install. Empty means latest.
	// +optional
	Version string `json:"version,omitempty"`
}

// ExtensionStatus reports the observed enablement state of one requested
// extension.
type ExtensionStatus struct {
	Name string `json:"name"`

	// +optional
	Description string `json:"description,omitempty"`

	Locations []ExtensionInstallLocationStatus `json:"locations"`
}

// ExtensionInstallLocationStatus is the observed state of one enablement
// target.
type ExtensionInstallLocationStatus struct {
	// +optional
	Database string `json:"database,omitempty"`

	// +optional
	Schema string `json:"schema,omitempty"`

	// +optional
	Version string `json:"version,omitempty"`

	// Enabled is nil while the location has not been acted on yet.
	// +optional
	Enabled *bool `json:"enabled,omitempty"`

	// Error is set when enabling failed terminally.
	// +optional
	Error bool `json:"error,omitempty"`

	// +optional
	ErrorMessage string `json:"errorMessage,omitempty"`
}

// ExtensionInstallStatus reports the observed state of one runtime package
// install.
type ExtensionInstallStatus struct {
	Name string `json:"name"`

	// +optional
	Version string `json:"version,omitempty"`

	// +optional
	Error bool `json:"error,omitempty"`

	// +optional
	ErrorMessage string `json:"errorMessage,omitempty"`

	// InstalledToPods lists pods the package has been installed on.
	// +optional
	InstalledToPods []string `json:"installedToPods,omitempty"`
}

// DedupeExtensions collapses duplicate (database, name) enablement entries.
// Later list entries win, so the result is deterministic for any input order
// and the diff over extension state stays well-defined.
func DedupeExtensions(exts []Extension) []Extension {
	type locKey struct {
		database string
		name     string
	}

	seen := make(map[locKey]ExtensionInstallLocation)
	order := make([]Extension, 0, len(exts))
	extIndex := make(map[string]int)

	for _, ext := range exts {
		idx, ok := extIndex[ext.Name]
		if !ok {
			idx = len(order)
			extIndex[ext.Name] = idx
			order = append(order, Extension{Name: ext.Name, Description: ext.Description})
		} else if ext.Description != "" {
			order[idx].Description = ext.Description
		}
		for _, loc := range ext.Locations {
			seen[locKey{database: loc.Database, name: ext.Name}] = loc
		}
	}

	for i := range order {
		locs := make([]ExtensionInstallLocation, 0, 1)
		// Preserve first-appearance ordering of databases for this extension.
		appended := make(map[string]bool)
		for _, ext := range exts {
			if ext.Name != order[i].Name {
				continue
			}
			for _, loc := range ext.Locations {
				if appended[loc.Database] {
					continue
				}
				appended[loc.Database] = true
				locs = append(locs, seen[locKey{database: loc.Database, name: ext.Name}])
			}
		}
		order[i].Locations = locs
	}

	return order
}
