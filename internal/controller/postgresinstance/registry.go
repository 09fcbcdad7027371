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
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	appsv1 "k8s.io/api/apps/v1"
	batchv1 "k8s.io/api/batch/v1"
	corev1 "k8s.io/api/core/v1"
	networkingv1 "k8s.io/api/networking/v1"
	apimeta "k8s.io/apimachinery/pkg/api/meta"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/runtime/schema"
	"sigs.k8s.io/controller-runtime/pkg/client"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
)

// GVKs of optional third-party kinds the operator manages. Their CRDs may
// not be installed; observation tolerates that.
var (
	ingressRouteTCPGVK = schema.GroupVersionKind{
		Group: "traefik.io", Version: "v1alpha1", Kind: "IngressRouteTCP",
	}
	ingressRouteGVK = schema.GroupVersionKind{
		Group: "traefik.io", Version: "v1alpha1", Kind: "IngressRoute",
	}
	middlewareTCPGVK = schema.GroupVersionKind{
		Group: "traefik.io", Version: "v1alpha1", Kind: "MiddlewareTCP",
	}
	podMonitorGVK = schema.GroupVersionKind{
		Group: "monitoring.coreos.com", Version: "v1", Kind: "PodMonitor",
	}
)

// childKind is one kind of managed object: how to list its instances and
// whether its CRD is guaranteed to exist.
type childKind struct {
	// newList returns an empty list object for this kind.
	newList func() client.ObjectList

	// optional kinds live behind third-party CRDs; a missing CRD is not an
	// observation error for them.
	optional bool
}

// childKinds enumerates every kind the operator may own for an instance.
// Observation and finalization both walk this list, so adding a managed kind
// here is enough to have it tracked and cleaned up.
func childKinds() []childKind {
	return []childKind{
		{newList: func() client.ObjectList { return &corev1.ServiceAccountList{} }},
		{newList: func() client.ObjectList { return &corev1.SecretList{} }},
		{newList: func() client.ObjectList { return &corev1.ConfigMapList{} }},
		{newList: func() client.ObjectList { return &appsv1.StatefulSetList{} }},
		{newList: func() client.ObjectList { return &corev1.ServiceList{} }},
		{newList: func() client.ObjectList { return &networkingv1.NetworkPolicyList{} }},
		{newList: func() client.ObjectList { return &appsv1.DeploymentList{} }},
		{newList: func() client.ObjectList { return &batchv1.JobList{} }},
		{newList: func() client.ObjectList { return &batchv1.CronJobList{} }},
		{newList: unstructuredList(ingressRouteTCPGVK), optional: true},
		{newList: unstructuredList(ingressRouteGVK), optional: true},
		{newList: unstructuredList(middlewareTCPGVK), optional: true},
		{newList: unstructuredList(podMonitorGVK), optional: true},
	}
}

func unstructuredList(gvk schema.GroupVersionKind) func() client.ObjectList {
	return func() client.ObjectList {
		l := &unstructured.UnstructuredList{}
		l.SetGroupVersionKind(schema.GroupVersionKind{
			Group:   gvk.Group,
			Version: gvk.Version,
			Kind:    gvk.Kind + "List",
		})
		return l
	}
}

// observeChildren lists every managed object currently labelled as belonging
// to the instance. Kinds are listed in parallel; results keep no particular
// order since Plan matches by identity, not position.
func (r *PostgresInstanceReconciler) observeChildren(
	ctx context.Context,
	inst *pgforgev1alpha1.PostgresInstance,
) ([]client.Object, error) {
	var (
		mu       sync.Mutex
		observed []client.Object
	)

	g, ctx := errgroup.WithContext(ctx)
	for _, kind := range childKinds() {
		g.Go(func() error {
			list := kind.newList()
			err := r.List(ctx, list,
				client.InNamespace(inst.Namespace),
				client.MatchingLabels{metadata.LabelInstance: inst.Name},
			)
			if err != nil {
				if kind.optional && (apimeta.IsNoMatchError(err) || runtime.IsNotRegisteredError(err)) {
					return nil
				}
				return fmt.Errorf("failed to list children: %w", err)
			}

			items, err := apimeta.ExtractList(list)
			if err != nil {
				return fmt.Errorf("failed to extract list items: %w", err)
			}

			mu.Lock()
			defer mu.Unlock()
			for _, item := range items {
				obj, ok := item.(client.Object)
				if !ok {
					return fmt.Errorf("unexpected list item type %T", item)
				}
				observed = append(observed, obj)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return observed, nil
}
