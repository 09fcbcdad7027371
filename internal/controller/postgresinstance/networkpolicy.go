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

	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/util/intstr"
	ctrl "sigs.k8s.io/controller-runtime"

	pgforgev1alpha1 "github.com/pgforge/postgres-operator/api/v1alpha1"
	"github.com/pgforge/postgres-operator/pkg/util/metadata"
	"github.com/pgforge/postgres-operator/pkg/util/name"
)

// BuildNetworkPolicy restricts inbound Postgres traffic to the spec's IP
// allowlist. Returns nil when no allowlist is set, which leaves access open.
func BuildNetworkPolicy(
	inst *pgforgev1alpha1.PostgresInstance,
	scheme *runtime.Scheme,
) (*networkingv1.NetworkPolicy, error) {
	if !hasIPAllowList(inst) {
		return nil, nil
	}

	port := intstr.FromInt32(instancePort(inst))
	peers := make([]networkingv1.NetworkPolicyPeer, 0, len(inst.Spec.Network.IPAllowList))
	for _, cidr := range inst.Spec.Network.IPAllowList {
		peers = append(peers, networkingv1.NetworkPolicyPeer{
			IPBlock: &networkingv1.IPBlock{CIDR: cidr},
		})
	}

	// Pods in the same namespace stay allowed so the pooler, app services
	// and backup jobs keep working regardless of the allowlist.
	peers = append(peers, networkingv1.NetworkPolicyPeer{
		PodSelector: &metav1.LabelSelector{},
	})

	np := &networkingv1.NetworkPolicy{
		ObjectMeta: metav1.ObjectMeta{
			Name:      name.Workload(inst.Name),
			Namespace: inst.Namespace,
			Labels:    metadata.BuildStandardLabels(inst.Name, metadata.ComponentPostgres),
		},
		Spec: networkingv1.NetworkPolicySpec{
			PodSelector: metav1.LabelSelector{
				MatchLabels: metadata.SelectorLabels(inst.Name, metadata.ComponentPostgres),
			},
			PolicyTypes: []networkingv1.PolicyType{networkingv1.PolicyTypeIngress},
			Ingress: []networkingv1.NetworkPolicyIngressRule{
				{
					From: peers,
					Ports: []networkingv1.NetworkPolicyPort{
						{Port: &port},
					},
				},
			},
		},
	}

	if err := ctrl.SetControllerReference(inst, np, scheme); err != nil {
		return nil, fmt.Errorf("failed to set controller reference: %w", err)
	}
	return np, nil
}
