package metadata

import "maps"

// Standard Kubernetes label keys following kubernetes.io conventions.
//
// See: https://kubernetes.io/docs/concepts/overview/working-with-objects/common-labels/
const (
	// LabelAppName is the standard label key for the application name.
	LabelAppName = "app.kubernetes.io/name"

	// LabelAppInstance is the standard label key for the unique instance name.
	LabelAppInstance = "app.kubernetes.io/instance"

	// LabelAppVersion is the standard label key for the application version.
	LabelAppVersion = "app.kubernetes.io/version"

	// LabelAppComponent is the standard label key for the component within the
	// application.
	LabelAppComponent = "app.kubernetes.io/component"

	// LabelAppPartOf is the standard label key for the name of a higher level
	// application this one is part of.
	LabelAppPartOf = "app.kubernetes.io/part-of"

	// LabelAppManagedBy is the standard label key for the tool managing the
	// resource.
	LabelAppManagedBy = "app.kubernetes.io/managed-by"
)

const (
	// AppNamePgforge is the fixed application name for all pgforge resources.
	AppNamePgforge = "pgforge"

	// ManagedByPgforge identifies the operator managing these resources.
	ManagedByPgforge = "pgforge-operator"
)

const (
	// LabelInstance identifies which PostgresInstance a resource belongs to.
	LabelInstance = "pgforge.io/instance"

	// LabelAppServiceName identifies which app service a resource belongs to.
	LabelAppServiceName = "pgforge.io/app-service"
)

// Component label values for the managed child objects.
const (
	ComponentPostgres   = "postgres"
	ComponentPooler     = "pooler"
	ComponentAppService = "app-service"
	ComponentBackup     = "backup"
	ComponentMetrics    = "metrics"
)

// BuildStandardLabels builds the standard Kubernetes labels for a pgforge
// component. These labels are applied to all resources managed by the
// operator and are also the set the comparator treats as operator-owned:
// foreign labels on observed objects are preserved, these are enforced.
func BuildStandardLabels(instanceName, componentName string) map[string]string {
	return map[string]string{
		LabelAppName:      AppNamePgforge,
		LabelAppInstance:  instanceName,
		LabelAppComponent: componentName,
		LabelAppPartOf:    AppNamePgforge,
		LabelAppManagedBy: ManagedByPgforge,
		LabelInstance:     instanceName,
	}
}

// AddAppServiceLabel adds the app service label to the provided labels map.
func AddAppServiceLabel(labels map[string]string, appName string) map[string]string {
	labels[LabelAppServiceName] = appName
	return labels
}

// MergeLabels merges custom labels with standard labels.
//
// Note that standard labels take precedence over custom labels to prevent
// users from overriding critical operator-managed labels.
func MergeLabels(standardLabels, customLabels map[string]string) map[string]string {
	merged := make(map[string]string)

	// Copy custom labels first (if provided)
	maps.Copy(merged, customLabels)

	// Copy standard labels (overwriting any duplicates from custom)
	maps.Copy(merged, standardLabels)

	return merged
}

// SelectorLabels returns the minimal label set used for pod selectors. It is
// intentionally smaller than BuildStandardLabels because selectors are
// immutable after workload creation.
func SelectorLabels(instanceName, componentName string) map[string]string {
	return map[string]string{
		LabelAppInstance:  instanceName,
		LabelAppComponent: componentName,
	}
}
