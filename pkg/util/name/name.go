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

// Package name derives deterministic names for the Kubernetes objects managed
// on behalf of a PostgresInstance.
//
// Every child object name is a pure function of the parent instance name plus
// a fixed component suffix. Re-running reconciliation therefore always
// resolves to the same objects, and the derivation must stay stable across
// operator versions to avoid orphaning objects created by older releases.
//
// For names built from user-controlled parts (app services), JoinWithConstraints
// appends a safety hash so truncation to Kubernetes length limits cannot
// collide two distinct inputs.
package name

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
)

const (
	// hashBytes is the number of bytes included in the result of Hash().
	// This must never be changed since it would break backwards compatibility.
	hashBytes = 4

	// hashLength is the number of characters in the hex-encoded string returned from Hash().
	hashLength = 2 * hashBytes

	// truncationMark is a special separator used when appending the hash to a
	// truncated name to indicate that truncation occurred.
	truncationMark = "---"

	// minTruncatedLength is the shortest possible length of a name that had to
	// be truncated: one leading character, the truncation mark, and the hash.
	minTruncatedLength = 1 + len(truncationMark) + hashLength
)

// Fixed component suffixes. These are part of the operator's on-cluster
// contract; changing one orphans every object created under the old name.
const (
	suffixConnection = "connection"
	suffixRW         = "rw"
	suffixRO         = "ro"
	suffixHeadless   = "headless"
	suffixConfig     = "config"
	suffixMetrics    = "metrics"
	suffixPooler     = "pooler"
	suffixBackup     = "backup"
	suffixMonitor    = "monitor"
	suffixApp        = "app"
	suffixInstaller  = "installer"
	suffixEnabler    = "enabler"
)

// Workload returns the StatefulSet name for the instance.
func Workload(instance string) string { return instance }

// ConnectionSecret returns the superuser connection Secret name.
func ConnectionSecret(instance string) string { return instance + "-" + suffixConnection }

// RoleSecret returns the Secret name holding credentials for a managed role.
func RoleSecret(instance, role string) string { return instance + "-" + role }

// ReadWriteService returns the primary (read-write) Service name.
func ReadWriteService(instance string) string { return instance + "-" + suffixRW }

// ReadOnlyService returns the replica (read-only) Service name.
func ReadOnlyService(instance string) string { return instance + "-" + suffixRO }

// HeadlessService returns the headless Service name used by the StatefulSet.
func HeadlessService(instance string) string { return instance + "-" + suffixHeadless }

// ConfigMap returns the postgresql.conf ConfigMap name.
func ConfigMap(instance string) string { return instance + "-" + suffixConfig }

// MetricsConfigMap returns the exporter queries ConfigMap name.
func MetricsConfigMap(instance string) string { return instance + "-" + suffixMetrics }

// Pooler returns the pooler Deployment/Service name.
func Pooler(instance string) string { return instance + "-" + suffixPooler }

// BackupCronJob returns the scheduled backup CronJob name.
func BackupCronJob(instance string) string { return instance + "-" + suffixBackup }

// PodMonitor returns the PodMonitor name.
func PodMonitor(instance string) string { return instance + "-" + suffixMonitor }

// InstallerJob returns the Job name performing runtime extension installs.
func InstallerJob(instance string) string { return instance + "-" + suffixInstaller }

// EnablerJob returns the Job name applying CREATE/DROP EXTENSION statements.
func EnablerJob(instance string) string { return instance + "-" + suffixEnabler }

// AppService returns the Deployment/Service name for one app service. The
// app name is user-controlled, so the result is hash-suffixed and
// constraint-safe.
func AppService(instance, app string) string {
	return JoinWithConstraints(ServiceConstraints, instance, suffixApp, app)
}

// Constraints specifies rules that the output of JoinWithConstraints must follow.
type Constraints struct {
	// MaxLength is the maximum length of the output, to be enforced after any
	// transformations and including the hash suffix. If a name has to be
	// truncated to fit within this maximum length, the hash at the end will be
	// preceded by a special truncation mark: "---" rather than the usual "-".
	//
	// MaxLength must be at least 12 because that's the shortest possible
	// truncated value (1 char + truncation mark + hash). Passing a value less
	// than 12 will result in a panic.
	MaxLength int
	// ValidFirstChar is a function that returns whether the given rune is
	// allowed as the first character in the output.
	ValidFirstChar func(r rune) bool
}

var (
	// DefaultConstraints are the name constraints for objects in Kubernetes
	// that don't have any special rules.
	DefaultConstraints = Constraints{
		MaxLength:      253,
		ValidFirstChar: isLowercaseAlphanumeric,
	}
	// ServiceConstraints are name constraints for Service objects.
	ServiceConstraints = Constraints{
		MaxLength:      63,
		ValidFirstChar: isLowercaseLetter,
	}
	// StatefulSetConstraints are name constraints for StatefulSet objects.
	// We need to account for the suffix appended to the Pod name, e.g. "-0",
	// as well as the controller-revision-hash label which appends a hash.
	// To be safe, we reserve 11 characters for the suffix/hash.
	// 63 - 11 = 52.
	StatefulSetConstraints = Constraints{
		MaxLength:      52,
		ValidFirstChar: isLowercaseLetter,
	}
)

// Hash computes a hash suffix for the given name parts.
func Hash(parts []string) string {
	h := md5.New()
	for _, part := range parts {
		h.Write([]byte(part))
		// It doesn't matter if the parts have nulls in them somehow.
		// The important thing is that this separator is not the same as '-'.
		// To collide, both the "hyphen-joined-string" and the hash must match,
		// but you can't mimic two different separators at the same time.
		h.Write([]byte{0})
	}
	sum := h.Sum(nil)
	// We don't need the whole sum; just take the first 32 bits.
	// We only care about avoiding collisions in the case when
	// the concatenated parts without the hash match exactly.
	return hex.EncodeToString(sum[:hashBytes])
}

// JoinWithConstraints builds a name by concatenating a number of parts with '-' as
// the separator, and then enforcing some constraints on the resulting name while
// maintaining uniqueness and determinism with respect to the input values.
//
// It will append a hash at the end that depends only on the parts supplied.
// If the function is called again with the same parts, in the same order,
// the hash will also be the same. This determinism allows you to use the resulting
// name to ensure idempotency when creating objects.
//
// However, the hash will differ if the parts are rearranged, or if substrings
// within parts are moved to adjacent parts. The resulting generated name,
// while deterministic, is thus guaranteed to be unique for a given list of parts,
// even if the parts themselves are allowed to contain the separator.
//
// For example: JoinWithConstraints(cons, "a-b", "c") != JoinWithConstraints(cons, "a", "b-c")
// Although both will begin with "a-b-c-", the hash at the end will be different.
func JoinWithConstraints(cons Constraints, parts ...string) string {
	// Always panic immediately if specified Constraints are invalid so we
	// notice the programming error even if the inputs don't happen to trigger
	// the constraints.
	if cons.MaxLength < minTruncatedLength {
		panic(
			fmt.Sprintf(
				"MaxLength of %v is invalid; must be at least %v",
				cons.MaxLength,
				minTruncatedLength,
			),
		)
	}

	if len(parts) == 0 {
		return ""
	}

	// Generate the hash suffix with the original input values so the name will
	// be unique regardless of any transformation or truncation we may have done
	// on the rest of the name.
	hash := Hash(parts)

	// Transform the input parts to ensure they meet the constraints.
	newParts := make([]string, 0, len(parts)+1)
	transform := func(r rune) rune {
		if isLowercaseAlphanumeric(r) || r == '-' {
			return r
		}
		if isUppercaseLetter(r) {
			return unicode.ToLower(r)
		}
		return '-'
	}
	for _, part := range parts {
		newParts = append(newParts, strings.Map(transform, part))
	}

	// From here on, we can assume the strings in newParts contain only ASCII,
	// which simplifies offset-based access.

	// Check if we need to add a prefix to make sure the first character is valid.
	firstPart := newParts[0]
	if len(firstPart) == 0 || !cons.ValidFirstChar(rune(firstPart[0])) {
		newParts[0] = "x" + firstPart
	}

	// If the predicted length is ok, we just need to append the hash.
	partialResult := strings.Join(newParts, "-")
	predictedLength := len(partialResult) + 1 + len(hash)
	if predictedLength <= cons.MaxLength {
		return partialResult + "-" + hash
	}

	// Otherwise, we need to truncate the partial result before appending the
	// hash to ensure the full hash fits. We need to cut off enough to get back
	// to MaxLength, and then a little extra to make room for the
	// triple-separator mark we use to indicate that the name was truncated.
	cutLength := predictedLength - cons.MaxLength + 2
	partialResult = partialResult[:len(partialResult)-cutLength]
	return partialResult + truncationMark + hash
}

func isLowercaseLetter(r rune) bool {
	return r >= 'a' && r <= 'z'
}

func isUppercaseLetter(r rune) bool {
	return r >= 'A' && r <= 'Z'
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isLowercaseAlphanumeric(r rune) bool {
	return isLowercaseLetter(r) || isDigit(r)
}
