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
	"net/netip"
	"slices"

	"k8s.io/apimachinery/pkg/api/resource"
	"k8s.io/apimachinery/pkg/util/validation/field"
)

// SupportedMajorVersions lists the Postgres major versions the operator can
// deploy.
var SupportedMajorVersions = []string{"14", "15", "16", "17"}

// ValidateSpec checks the spec for errors that no amount of retrying can fix.
// A non-empty result is terminal: the instance goes to PhaseError with a
// Validated=False condition and is not reconciled again until the spec
// changes.
func (s *PostgresInstanceSpec) ValidateSpec() field.ErrorList {
	var errs field.ErrorList
	root := field.NewPath("spec")

	if s.Version == "" {
		errs = append(errs, field.Required(root.Child("version"), "postgres major version must be set"))
	} else if !slices.Contains(SupportedMajorVersions, s.Version) {
		errs = append(errs, field.NotSupported(root.Child("version"), s.Version, SupportedMajorVersions))
	}

	if s.Storage.Size == "" {
		errs = append(errs, field.Required(root.Child("storage", "size"), "storage size must be set"))
	} else if _, err := resource.ParseQuantity(s.Storage.Size); err != nil {
		errs = append(errs, field.Invalid(root.Child("storage", "size"), s.Storage.Size, err.Error()))
	}

	for resName, req := range s.Resources.Requests {
		limit, ok := s.Resources.Limits[resName]
		if !ok {
			continue
		}
		if req.Cmp(limit) > 0 {
			errs = append(errs, field.Invalid(
				root.Child("resources", "requests").Child(string(resName)),
				req.String(),
				"must not exceed the limit "+limit.String()))
		}
	}

	if s.Replicas != nil && *s.Replicas < 1 {
		errs = append(errs, field.Invalid(root.Child("replicas"), *s.Replicas, "must be at least 1"))
	}

	if s.Port != nil && (*s.Port < 1 || *s.Port > 65535) {
		errs = append(errs, field.Invalid(root.Child("port"), *s.Port, "must be a valid port"))
	}

	seenApp := make(map[string]bool)
	for i, app := range s.AppServices {
		path := root.Child("appServices").Index(i)
		if app.Name == "" {
			errs = append(errs, field.Required(path.Child("name"), "app service name must be set"))
		} else if seenApp[app.Name] {
			errs = append(errs, field.Duplicate(path.Child("name"), app.Name))
		}
		seenApp[app.Name] = true
		if app.Image == "" {
			errs = append(errs, field.Required(path.Child("image"), "app service image must be set"))
		}
		for j, m := range app.Storage {
			if _, err := resource.ParseQuantity(m.Size); err != nil {
				errs = append(errs, field.Invalid(path.Child("storage").Index(j).Child("size"), m.Size, err.Error()))
			}
		}
	}

	if s.Network != nil {
		for i, cidr := range s.Network.IPAllowList {
			if _, err := netip.ParsePrefix(cidr); err != nil {
				errs = append(errs, field.Invalid(root.Child("network", "ipAllowList").Index(i), cidr, "must be a CIDR block"))
			}
		}
	}

	for i, ext := range s.Extensions {
		if ext.Name == "" {
			errs = append(errs, field.Required(root.Child("extensions").Index(i).Child("name"), "extension name must be set"))
		}
		if len(ext.Locations) == 0 {
			errs = append(errs, field.Required(root.Child("extensions").Index(i).Child("locations"), "at least one location must be set"))
		}
	}

	for i, inst := range s.Installs {
		if inst.Name == "" {
			errs = append(errs, field.Required(root.Child("installs").Index(i).Child("name"), "install name must be set"))
		}
	}

	return errs
}
