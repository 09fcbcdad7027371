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
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	"k8s.io/apimachinery/pkg/api/equality"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"sigs.k8s.io/controller-runtime/pkg/client"

	"github.com/pgforge/postgres-operator/pkg/util/metadata"
)

// ActionKind classifies one planned mutation.
type ActionKind string

const (
	// ActionCreate creates an object that does not exist yet.
	ActionCreate ActionKind = "Create"

	// ActionUpdate rewrites the operator-owned fields of an existing object.
	ActionUpdate ActionKind = "Update"

	// ActionDelete removes an object the spec no longer wants.
	ActionDelete ActionKind = "Delete"

	// ActionNoOp records that an object already matches the desired state.
	ActionNoOp ActionKind = "NoOp"
)

// Action is one planned mutation against the cluster.
type Action struct {
	Kind ActionKind

	// Object is the desired object for Create/Update, or the observed object
	// for Delete/NoOp.
	Object client.Object
}

// Plan compares the desired object set against the observed one and returns
// the actions that converge observed onto desired.
//
// Plan is pure: it never talks to the API server and its output is fully
// determined by its inputs. Desired objects must be supplied in dependency
// order; actions for desired objects keep that order, and deletions of
// no-longer-desired objects are appended last so nothing a surviving object
// depends on disappears mid-pass.
func Plan(desired, observed []client.Object) []Action {
	observedByKey := make(map[string]client.Object, len(observed))
	for _, obj := range observed {
		observedByKey[planKey(obj)] = obj
	}

	actions := make([]Action, 0, len(desired))
	claimed := make(map[string]bool, len(desired))

	for _, want := range desired {
		key := planKey(want)
		claimed[key] = true

		have, exists := observedByKey[key]
		if !exists {
			actions = append(actions, Action{Kind: ActionCreate, Object: want})
			continue
		}

		merged, changed := mergeObject(have, want)
		if !changed {
			actions = append(actions, Action{Kind: ActionNoOp, Object: have})
			continue
		}
		actions = append(actions, Action{Kind: ActionUpdate, Object: merged})
	}

	for _, obj := range observed {
		if !claimed[planKey(obj)] {
			actions = append(actions, Action{Kind: ActionDelete, Object: obj})
		}
	}

	return actions
}

// planKey identifies an object within a plan. Typed objects usually carry an
// empty GVK on both sides, so the Go type stands in for the kind there;
// unstructured objects always carry their GVK.
func planKey(obj client.Object) string {
	gvk := obj.GetObjectKind().GroupVersionKind()
	kind := gvk.String()
	if gvk.Empty() {
		kind = fmt.Sprintf("%T", obj)
	}
	return kind + "/" + obj.GetNamespace() + "/" + obj.GetName()
}

// mergeObject overlays the operator-owned fields of want onto a copy of
// have and reports whether anything changed. Labels and annotations set by
// other actors are preserved; ours win on conflict.
//
// The merge is deliberately per-type so each kind only touches fields the
// builders actually produce. Unknown kinds are treated as immutable after
// creation.
func mergeObject(have, want client.Object) (client.Object, bool) {
	switch h := have.(type) {
	case *appsv1.StatefulSet:
		w := want.(*appsv1.StatefulSet)
		out := h.DeepCopy()
		out.Labels = metadata.MergeLabels(w.Labels, h.Labels)
		// Selector and volumeClaimTemplates are immutable; storage growth is
		// applied by patching the PVCs directly.
		vcts := out.Spec.VolumeClaimTemplates
		selector := out.Spec.Selector
		out.Spec = w.Spec
		out.Spec.VolumeClaimTemplates = vcts
		out.Spec.Selector = selector
		return out, !equality.Semantic.DeepEqual(out.Spec, h.Spec) ||
			!equality.Semantic.DeepEqual(out.Labels, h.Labels)

	case *appsv1.Deployment:
		w := want.(*appsv1.Deployment)
		out := h.DeepCopy()
		out.Labels = metadata.MergeLabels(w.Labels, h.Labels)
		selector := out.Spec.Selector
		out.Spec = w.Spec
		out.Spec.Selector = selector
		return out, !equality.Semantic.DeepEqual(out.Spec, h.Spec) ||
			!equality.Semantic.DeepEqual(out.Labels, h.Labels)

	case *corev1.Service:
		w := want.(*corev1.Service)
		out := h.DeepCopy()
		out.Labels = metadata.MergeLabels(w.Labels, h.Labels)
		out.Spec.Ports = w.Spec.Ports
		out.Spec.Selector = w.Spec.Selector
		out.Spec.Type = w.Spec.Type
		if w.Spec.ClusterIP == corev1.ClusterIPNone {
			out.Spec.ClusterIP = corev1.ClusterIPNone
		}
		return out, !equality.Semantic.DeepEqual(out.Spec, h.Spec) ||
			!equality.Semantic.DeepEqual(out.Labels, h.Labels)

	case *corev1.Secret:
		// Secrets hold generated credentials; rewriting them would rotate
		// passwords out from under running clients. Create-only.
		return h, false

	case *corev1.ConfigMap:
		w := want.(*corev1.ConfigMap)
		out := h.DeepCopy()
		out.Labels = metadata.MergeLabels(w.Labels, h.Labels)
		out.Data = w.Data
		return out, !equality.Semantic.DeepEqual(out.Data, h.Data) ||
			!equality.Semantic.DeepEqual(out.Labels, h.Labels)

	case *corev1.ServiceAccount:
		w := want.(*corev1.ServiceAccount)
		out := h.DeepCopy()
		out.Labels = metadata.MergeLabels(w.Labels, h.Labels)
		out.Annotations = mergeAnnotations(h.Annotations, w.Annotations)
		return out, !equality.Semantic.DeepEqual(out.Labels, h.Labels) ||
			!equality.Semantic.DeepEqual(out.Annotations, h.Annotations)

	case *networkingv1.NetworkPolicy:
		w := want.(*networkingv1.NetworkPolicy)
		out := h.DeepCopy()
		out.Labels = metadata.MergeLabels(w.Labels, h.Labels)
		out.Spec = w.Spec
		return out, !equality.Semantic.DeepEqual(out.Spec, h.Spec) ||
			!equality.Semantic.DeepEqual(out.Labels, h.Labels)

	case *batchv1.CronJob:
		w := want.(*batchv1.CronJob)
		out := h.DeepCopy()
		out.Labels = metadata.MergeLabels(w.Labels, h.Labels)
		out.Spec = w.Spec
		return out, !equality.Semantic.DeepEqual(out.Spec, h.Spec) ||
			!equality.Semantic.DeepEqual(out.Labels, h.Labels)

	case *batchv1.Job:
		// Job specs are immutable. A changed install set produces a new Job
		// name, so an existing Job under the same name is already correct.
		return h, false

	case *unstructured.Unstructured:
		w := want.(*unstructured.Unstructured)
		out := h.DeepCopy()
		out.SetLabels(metadata.MergeLabels(w.GetLabels(), h.GetLabels()))
		haveSpec, _, _ := unstructured.NestedMap(h.Object, "spec")
		wantSpec, _, _ := unstructured.NestedMap(w.Object, "spec")
		if err := unstructured.SetNestedMap(out.Object, wantSpec, "spec"); err != nil {
			return h, false
		}
		return out, !equality.Semantic.DeepEqual(wantSpec, haveSpec) ||
			!equality.Semantic.DeepEqual(out.GetLabels(), h.GetLabels())

	default:
		return have, false
	}
}

// mergeAnnotations keeps foreign annotations and overlays ours.
func mergeAnnotations(have, want map[string]string) map[string]string {
	if len(have) == 0 && len(want) == 0 {
		return nil
	}
	out := make(map[string]string, len(have)+len(want))
	for k, v := range have {
		out[k] = v
	}
	for k, v := range want {
		out[k] = v
	}
	return out
}
